package launch

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ForwardedSignals are relayed to a supervised server.
var ForwardedSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT}

type SuperviseOptions struct {
	// Stdin, Stdout and Stderr are handed to the server. Nil means the null
	// device.
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File

	// Signals overrides the signal source. When nil, ForwardedSignals are
	// subscribed with signal.Notify for the lifetime of the call.
	Signals <-chan os.Signal

	Logger logrus.FieldLogger
}

// Supervise runs inv as a child process, relays signals to it and returns
// its exit code once it exits. A child killed by a signal yields 128 plus
// the signal number. Cancelling ctx sends the child SIGTERM and keeps
// waiting for it to exit. The error is non-nil only if the child could not
// be started.
func Supervise(ctx context.Context, inv Invocation, opts SuperviseOptions) (int, error) {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	path, err := lookPath(inv.Path())
	if err != nil {
		return 0, &ExecError{Path: inv.Path(), Err: err}
	}

	cmd := &exec.Cmd{
		Path: path,
		Args: inv.Argv(),
		Env:  inv.Env(),
	}
	if opts.Stdin != nil {
		cmd.Stdin = opts.Stdin
	}
	if opts.Stdout != nil {
		cmd.Stdout = opts.Stdout
	}
	if opts.Stderr != nil {
		cmd.Stderr = opts.Stderr
	}

	sigs := opts.Signals
	if sigs == nil {
		ch := make(chan os.Signal, len(ForwardedSignals))
		signal.Notify(ch, ForwardedSignals...)
		defer signal.Stop(ch)
		sigs = ch
	}

	if err := cmd.Start(); err != nil {
		return 0, &ExecError{Path: path, Err: err}
	}
	log.WithField("pid", cmd.Process.Pid).Debugf("started %s", inv)

	var (
		g       errgroup.Group
		waitErr error
		exited  = make(chan struct{})
	)

	g.Go(func() error {
		defer close(exited)
		waitErr = cmd.Wait()
		return nil
	})

	g.Go(func() error {
		done := ctx.Done()
		for {
			select {
			case <-exited:
				return nil
			case sig := <-sigs:
				log.WithField("signal", sig).Debug("forwarding signal")
				signalChild(cmd.Process, sig, log)
			case <-done:
				done = nil
				log.Debug("context done, terminating server")
				signalChild(cmd.Process, syscall.SIGTERM, log)
			}
		}
	})

	_ = g.Wait()

	code := exitCode(cmd.ProcessState)
	if waitErr != nil {
		var ee *exec.ExitError
		if !errors.As(waitErr, &ee) {
			log.WithError(waitErr).Warn("wait for server")
		}
	}
	log.WithField("code", code).Debug("server exited")
	return code, nil
}

func signalChild(p *os.Process, sig os.Signal, log logrus.FieldLogger) {
	if err := p.Signal(sig); err != nil && !errors.Is(err, os.ErrProcessDone) {
		log.WithError(err).WithField("signal", sig).Warn("signal server")
	}
}
