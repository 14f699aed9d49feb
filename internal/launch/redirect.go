package launch

import (
	"io"
	"os"

	"github.com/die-net/socks5-launcher/internal/config"
)

// Streams are the descriptors Redirect operates on.
type Streams struct {
	Stdout *os.File
	Stderr *os.File
}

// StdStreams returns the process's standard output and error.
func StdStreams() Streams {
	return Streams{Stdout: os.Stdout, Stderr: os.Stderr}
}

// Redirection records what Redirect changed.
type Redirection struct {
	// Stdout and Stderr report which streams now point at the null device.
	Stdout bool
	Stderr bool

	stderr *os.File
	saved  *os.File
}

// Diagnostics returns a writer reaching the original stderr, even when it
// was redirected. The saved descriptor is close-on-exec, so it disappears
// once Exec succeeds.
func (r *Redirection) Diagnostics() io.Writer {
	switch {
	case r.saved != nil:
		return r.saved
	case r.stderr != nil:
		return r.stderr
	default:
		return io.Discard
	}
}

// Close releases the saved stderr descriptor. It does not undo redirection.
func (r *Redirection) Close() error {
	if r.saved == nil {
		return nil
	}
	err := r.saved.Close()
	r.saved = nil
	return err
}

// nullTargets reports which streams out sends to the null device.
func nullTargets(out config.Output) (stdout, stderr bool) {
	switch out {
	case config.OutputInherit:
		return false, false
	case config.OutputStdout:
		return false, true
	case config.OutputStderr:
		return true, false
	default:
		return true, true
	}
}

// ChildStreams returns the stdout and stderr to hand a supervised child:
// nil, meaning the null device, for redirected streams, s otherwise.
func (r *Redirection) ChildStreams(s Streams) (stdout, stderr *os.File) {
	stdout, stderr = s.Stdout, s.Stderr
	if r.Stdout {
		stdout = nil
	}
	if r.Stderr {
		stderr = nil
	}
	return stdout, stderr
}
