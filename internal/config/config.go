package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Default values applied when a variable is unset or empty.
const (
	DefaultPort           = 2324
	DefaultRequestTimeout = 10
	DefaultListenHost     = "0.0.0.0"
)

// AuthMode selects the authentication sub-command of the server.
type AuthMode string

const (
	AuthPassword AuthMode = "password"
	AuthNone     AuthMode = "no-auth"
)

// LogLevel is forwarded to the server as RUST_LOG and also sets the
// launcher's own log level.
type LogLevel string

const (
	LogOff   LogLevel = "off"
	LogError LogLevel = "error"
	LogWarn  LogLevel = "warn"
	LogInfo  LogLevel = "info"
	LogDebug LogLevel = "debug"
	LogTrace LogLevel = "trace"
)

// Output selects which standard streams survive redirection to the null
// device.
type Output string

const (
	OutputNull    Output = "null"
	OutputInherit Output = "inherit"
	OutputStdout  Output = "stdout"
	OutputStderr  Output = "stderr"
)

// Config is the resolved launcher configuration. It is built once by
// Resolve and never modified.
type Config struct {
	// Port is the TCP port the server listens on, on all interfaces.
	Port int

	// AuthMode is the authentication sub-command.
	AuthMode AuthMode

	// AllowUDP requests UDP ASSOCIATE support. It only takes effect when
	// PublicAddr is set; see UDPEnabled.
	AllowUDP bool

	// PublicAddr is the address advertised in UDP ASSOCIATE replies.
	PublicAddr string

	// RequestTimeout is forwarded to the server, in seconds.
	RequestTimeout int

	// SkipAuth makes the server skip the method negotiation.
	SkipAuth bool

	// Username and Password are passed through unmodified in password mode.
	Username string
	Password string

	// AuthOnce lets a client IP that authenticated once connect without
	// credentials afterwards. WhitelistTTL bounds how long, in seconds;
	// zero leaves the server default.
	AuthOnce     bool
	WhitelistTTL int

	LogLevel LogLevel
	Output   Output
}

// environment mirrors the recognized variables as raw strings. Conversion
// happens in Resolve so that errors name the variable at fault.
type environment struct {
	Port           string `env:"PROXY_PORT" envDefault:"2324"`
	AuthMode       string `env:"AUTH_MODE" envDefault:"password"`
	AllowUDP       string `env:"ALLOW_UDP" envDefault:"false"`
	PublicAddr     string `env:"PUBLIC_ADDR"`
	RequestTimeout string `env:"REQUEST_TIMEOUT" envDefault:"10"`
	SkipAuth       string `env:"SKIP_AUTH" envDefault:"false"`
	Username       string `env:"PROXY_USER"`
	Password       string `env:"PROXY_PASSWORD"`
	AuthOnce       string `env:"AUTH_ONCE" envDefault:"false"`
	WhitelistTTL   string `env:"WHITELIST_TTL" envDefault:"0"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"off"`
	LogOutput      string `env:"LOG_OUTPUT" envDefault:"null"`
}

// Resolve builds a Config from environ. Unrecognized variables are ignored
// and a nil map behaves like an empty one. The returned error is always a
// *Error.
func Resolve(environ map[string]string) (Config, error) {
	if environ == nil {
		environ = map[string]string{}
	}

	var raw environment
	if err := env.ParseWithOptions(&raw, env.Options{Environment: environ}); err != nil {
		return Config{}, &Error{Vars: []string{"environment"}, Err: err}
	}

	var (
		cfg = Config{
			AllowUDP:   parseBool(raw.AllowUDP),
			PublicAddr: raw.PublicAddr,
			SkipAuth:   parseBool(raw.SkipAuth),
			AuthOnce:   parseBool(raw.AuthOnce),
			Output:     parseOutput(raw.LogOutput),
		}
		err error
	)

	if cfg.Port, err = parseInt("PROXY_PORT", raw.Port, 1, 65535); err != nil {
		return Config{}, err
	}
	if cfg.RequestTimeout, err = parseInt("REQUEST_TIMEOUT", raw.RequestTimeout, 0, -1); err != nil {
		return Config{}, err
	}
	// WHITELIST_TTL only reaches the server alongside --auth-once.
	if cfg.AuthOnce {
		if cfg.WhitelistTTL, err = parseInt("WHITELIST_TTL", raw.WhitelistTTL, 0, -1); err != nil {
			return Config{}, err
		}
	}

	switch AuthMode(raw.AuthMode) {
	case AuthPassword, AuthNone:
		cfg.AuthMode = AuthMode(raw.AuthMode)
	default:
		return Config{}, &Error{
			Vars: []string{"AUTH_MODE"},
			Err:  fmt.Errorf("%w %q: must be %q or %q", ErrInvalid, raw.AuthMode, AuthNone, AuthPassword),
		}
	}

	if cfg.LogLevel, err = parseLogLevel(raw.LogLevel); err != nil {
		return Config{}, err
	}

	if cfg.AuthOnce && cfg.AuthMode == AuthNone {
		return Config{}, &Error{
			Vars: []string{"AUTH_ONCE", "AUTH_MODE"},
			Err:  fmt.Errorf("%w: AUTH_ONCE requires AUTH_MODE=%s", ErrConflict, AuthPassword),
		}
	}
	if cfg.AuthOnce && cfg.SkipAuth {
		return Config{}, &Error{
			Vars: []string{"AUTH_ONCE", "SKIP_AUTH"},
			Err:  fmt.Errorf("%w: AUTH_ONCE cannot be combined with SKIP_AUTH", ErrConflict),
		}
	}

	if cfg.AuthMode == AuthPassword {
		var missing []string
		if raw.Username == "" {
			missing = append(missing, "PROXY_USER")
		}
		if raw.Password == "" {
			missing = append(missing, "PROXY_PASSWORD")
		}
		if len(missing) > 0 {
			return Config{}, &Error{
				Vars: missing,
				Err:  fmt.Errorf("%w when AUTH_MODE=%s", ErrMissing, AuthPassword),
			}
		}
		cfg.Username = raw.Username
		cfg.Password = raw.Password
	}

	return cfg, nil
}

// UDPEnabled reports whether the UDP flags are emitted. ALLOW_UDP without a
// public address is treated as UDP disabled, not as an error.
func (c Config) UDPEnabled() bool {
	return c.AllowUDP && c.PublicAddr != ""
}

// ListenAddr is the value of --listen-addr.
func (c Config) ListenAddr() string {
	return net.JoinHostPort(DefaultListenHost, strconv.Itoa(c.Port))
}

func parseBool(s string) bool {
	return strings.EqualFold(s, "true")
}

// parseInt parses a base-10 integer bounded below by lo and, when hi >= 0,
// above by hi.
func parseInt(name, s string, lo, hi int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, &Error{Vars: []string{name}, Err: fmt.Errorf("%w %q: not an integer", ErrInvalid, s)}
	}
	if n < lo || (hi >= 0 && n > hi) {
		rng := fmt.Sprintf(">= %d", lo)
		if hi >= 0 {
			rng = fmt.Sprintf("%d-%d", lo, hi)
		}
		return 0, &Error{Vars: []string{name}, Err: fmt.Errorf("%w %d: must be %s", ErrInvalid, n, rng)}
	}
	return n, nil
}

func parseLogLevel(s string) (LogLevel, error) {
	switch l := LogLevel(strings.ToLower(s)); l {
	case LogOff, LogError, LogWarn, LogInfo, LogDebug, LogTrace:
		return l, nil
	default:
		return "", &Error{
			Vars: []string{"LOG_LEVEL"},
			Err:  fmt.Errorf("%w %q: must be one of off, error, warn, info, debug, trace", ErrInvalid, s),
		}
	}
}

// parseOutput maps unknown values to OutputNull so a typo never makes the
// server noisy.
func parseOutput(s string) Output {
	switch o := Output(strings.ToLower(s)); o {
	case OutputInherit, OutputStdout, OutputStderr:
		return o
	default:
		return OutputNull
	}
}
