//go:build unix

package launch

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/die-net/socks5-launcher/internal/config"
)

// Redirect points the descriptors in s at the null device according to out.
// The descriptors themselves are rewritten with dup2, so both this process
// and anything it later executes write to the null device.
func Redirect(s Streams, out config.Output) (*Redirection, error) {
	nullOut, nullErr := nullTargets(out)
	nullOut = nullOut && s.Stdout != nil
	nullErr = nullErr && s.Stderr != nil

	r := &Redirection{stderr: s.Stderr}
	if !nullOut && !nullErr {
		return r, nil
	}

	devnull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", os.DevNull, err)
	}
	defer devnull.Close()

	if nullErr {
		fd, err := unix.FcntlInt(s.Stderr.Fd(), unix.F_DUPFD_CLOEXEC, 3)
		if err != nil {
			return nil, fmt.Errorf("save stderr: %w", err)
		}
		r.saved = os.NewFile(uintptr(fd), s.Stderr.Name())
	}

	if nullOut {
		if err := dup2(int(devnull.Fd()), int(s.Stdout.Fd())); err != nil {
			_ = r.Close()
			return nil, fmt.Errorf("redirect stdout: %w", err)
		}
		r.Stdout = true
	}

	if nullErr {
		if err := dup2(int(devnull.Fd()), int(s.Stderr.Fd())); err != nil {
			_ = r.Close()
			return nil, fmt.Errorf("redirect stderr: %w", err)
		}
		r.Stderr = true
	}

	return r, nil
}
