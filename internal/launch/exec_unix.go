//go:build unix

package launch

import (
	"golang.org/x/sys/unix"
)

// CanExec is true where Exec can replace the process image.
const CanExec = true

// Exec replaces the current process with inv. Open descriptors without
// close-on-exec, including the standard streams, are inherited. Exec only
// returns on failure, always with an *ExecError.
func Exec(inv Invocation) error {
	path, err := lookPath(inv.Path())
	if err != nil {
		return &ExecError{Path: inv.Path(), Err: err}
	}

	if err := unix.Exec(path, inv.Argv(), inv.Env()); err != nil {
		return &ExecError{Path: path, Err: err}
	}
	return nil
}
