package launch

import (
	"errors"
	"fmt"
)

// ErrNotExecutable reports a server path that exists but cannot be executed.
var ErrNotExecutable = errors.New("not executable")

// ExecError is a failure to start or replace the process with the server.
type ExecError struct {
	Path string
	Err  error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("exec %s: %v", e.Path, e.Err)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// ExitError carries a supervised server's non-zero exit code to main.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("server exited with code %d", e.Code)
}
