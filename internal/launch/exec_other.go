//go:build !unix

package launch

import "errors"

// CanExec is true where Exec can replace the process image.
const CanExec = false

// Exec is unavailable on this platform; use Supervise.
func Exec(inv Invocation) error {
	return &ExecError{Path: inv.Path(), Err: errors.ErrUnsupported}
}
