//go:build !unix

package launch

import (
	"github.com/die-net/socks5-launcher/internal/config"
)

// Redirect cannot rewrite descriptors on this platform. It only records
// which streams to silence; ChildStreams then leaves them unset for
// Supervise, which os/exec connects to the null device.
func Redirect(s Streams, out config.Output) (*Redirection, error) {
	nullOut, nullErr := nullTargets(out)
	return &Redirection{
		Stdout: nullOut && s.Stdout != nil,
		Stderr: nullErr && s.Stderr != nil,
		stderr: s.Stderr,
	}, nil
}
