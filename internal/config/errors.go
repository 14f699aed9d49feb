package config

import (
	"errors"
	"strings"
)

var (
	// ErrMissing reports a variable that must be set and non-empty.
	ErrMissing = errors.New("required")

	// ErrInvalid reports a variable whose value cannot be used.
	ErrInvalid = errors.New("invalid value")

	// ErrConflict reports variables that cannot be combined.
	ErrConflict = errors.New("conflicting settings")
)

// Error is a configuration problem with one or more environment variables.
type Error struct {
	Vars []string
	Err  error
}

func (e *Error) Error() string {
	return strings.Join(e.Vars, ", ") + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}
