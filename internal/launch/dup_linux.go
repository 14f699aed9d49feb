//go:build linux

package launch

import "golang.org/x/sys/unix"

// dup2 makes newfd refer to oldfd's open file. Dup3 is used because Dup2 is
// missing on some linux architectures.
func dup2(oldfd, newfd int) error {
	if oldfd == newfd {
		return nil
	}
	return unix.Dup3(oldfd, newfd, 0)
}
