// Command socks5-launcher configures fast-socks5-server from the environment
// and replaces itself with it.
//
// Environment variables:
//   - PROXY_PORT: listen port on 0.0.0.0 (default: 2324)
//   - AUTH_MODE: password or no-auth (default: password)
//   - PROXY_USER, PROXY_PASSWORD: required when AUTH_MODE=password
//   - ALLOW_UDP: enable UDP ASSOCIATE when PUBLIC_ADDR is also set (default: false)
//   - PUBLIC_ADDR: address advertised for the UDP relay
//   - REQUEST_TIMEOUT: request timeout in seconds (default: 10)
//   - SKIP_AUTH: skip the method negotiation (default: false)
//   - AUTH_ONCE: remember client IPs after one successful login (default: false)
//   - WHITELIST_TTL: seconds an AUTH_ONCE entry lasts, 0 for the server default
//   - LOG_LEVEL: off, error, warn, info, debug or trace (default: off)
//   - LOG_OUTPUT: null, inherit, stdout or stderr (default: null)
//   - SOCKS5_SERVER_BINARY: server path (default: /usr/local/bin/fast-socks5-server)
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/die-net/socks5-launcher/internal/config"
	"github.com/die-net/socks5-launcher/internal/health"
	"github.com/die-net/socks5-launcher/internal/launch"
)

const defaultBinaryPath = "/usr/local/bin/fast-socks5-server"

func main() {
	if err := run(); err != nil {
		os.Exit(report(os.Stderr, err))
	}
}

// report writes err to w and returns the exit code for it. A server exit
// code is passed through without a message.
func report(w io.Writer, err error) int {
	var exit *launch.ExitError
	if errors.As(err, &exit) {
		return exit.Code
	}
	fmt.Fprintln(w, err)
	return 1
}

// run returns errors that happen after streams are redirected as
// *launch.ExitError, already reported on the original stderr.
func run() (err error) {
	var (
		binary    = pflag.String("binary", defaultBinary(), "Path to the fast-socks5-server executable. A bare name is looked up in PATH.")
		supervise = pflag.Bool("supervise", !launch.CanExec, "Run the server as a child process and forward signals to it instead of replacing this process")
		printArgs = pflag.Bool("print-args", false, "Print the server command line, password masked, and exit")

		healthcheck   = pflag.Bool("healthcheck", false, "Probe the running server with a SOCKS5 handshake and exit non-zero if it fails")
		healthAddr    = pflag.String("healthcheck-addr", "", "Address probed by --healthcheck (default 127.0.0.1:$PROXY_PORT)")
		healthTimeout = pflag.Duration("healthcheck-timeout", health.DefaultTimeout, "Timeout for --healthcheck")
	)

	pflag.CommandLine.SortFlags = false
	pflag.Parse()

	environ := os.Environ()
	cfg, err := config.Resolve(env.ToMap(environ))
	if err != nil {
		return err
	}

	if *healthcheck {
		return runHealthcheck(cfg, *healthAddr, *healthTimeout)
	}

	inv := launch.NewInvocation(*binary, cfg.Args(), cfg.ChildEnv(environ))

	if *printArgs {
		fmt.Println(inv)
		return nil
	}

	streams := launch.StdStreams()
	red, err := launch.Redirect(streams, cfg.Output)
	if err != nil {
		return fmt.Errorf("redirect output: %w", err)
	}
	defer func() {
		if err != nil {
			err = &launch.ExitError{Code: report(red.Diagnostics(), err)}
		}
		_ = red.Close()
	}()

	log := newLogger(cfg.LogLevel, os.Stderr)
	log.WithFields(logrus.Fields{
		"output":    cfg.Output,
		"supervise": *supervise,
	}).Infof("starting %s", inv)

	if !*supervise {
		return launch.Exec(inv)
	}

	stdout, stderr := red.ChildStreams(streams)
	code, err := launch.Supervise(context.Background(), inv, launch.SuperviseOptions{
		Stdin:  os.Stdin,
		Stdout: stdout,
		Stderr: stderr,
		Logger: log,
	})
	if err != nil {
		return err
	}
	if code != 0 {
		return &launch.ExitError{Code: code}
	}
	return nil
}

func runHealthcheck(cfg config.Config, addr string, timeout time.Duration) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return health.Check(ctx, cfg, health.Options{Addr: addr, Timeout: timeout})
}

// newLogger returns the launcher's logger. LOG_LEVEL=off discards
// everything; the other levels map onto logrus levels of the same name.
func newLogger(level config.LogLevel, w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	log.SetOutput(w)

	lvl, err := logrus.ParseLevel(string(level))
	if level == config.LogOff || err != nil {
		log.SetOutput(io.Discard)
		return log
	}
	log.SetLevel(lvl)
	return log
}

func defaultBinary() string {
	if p := os.Getenv("SOCKS5_SERVER_BINARY"); p != "" {
		return p
	}
	return defaultBinaryPath
}
