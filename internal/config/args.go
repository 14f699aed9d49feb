package config

import (
	"strconv"
	"strings"
)

// Args returns the fast-socks5-server argument vector for c:
//
//	--listen-addr 0.0.0.0:<port> --request-timeout <secs>
//	[--allow-udp --public-addr <addr>] [--skip-auth]
//	[--auth-once [--whitelist-ttl <secs>]]
//	no-auth | password --username <user> --password <pass>
//
// The auth sub-command comes last because the server parses mode-specific
// flags after the mode keyword.
func (c Config) Args() []string {
	args := []string{
		"--listen-addr", c.ListenAddr(),
		"--request-timeout", strconv.Itoa(c.RequestTimeout),
	}

	if c.UDPEnabled() {
		args = append(args, "--allow-udp", "--public-addr", c.PublicAddr)
	}

	if c.SkipAuth {
		args = append(args, "--skip-auth")
	}

	if c.AuthOnce {
		args = append(args, "--auth-once")
		if c.WhitelistTTL > 0 {
			args = append(args, "--whitelist-ttl", strconv.Itoa(c.WhitelistTTL))
		}
	}

	switch c.AuthMode {
	case AuthNone:
		args = append(args, string(AuthNone))
	default:
		args = append(args,
			string(AuthPassword),
			"--username", c.Username,
			"--password", c.Password,
		)
	}

	return args
}

// ChildEnv returns the server's environment: environ with RUST_LOG set to
// the configured level, backtraces disabled and RUST_LOG_STYLE removed.
func (c Config) ChildEnv(environ []string) []string {
	out := make([]string, 0, len(environ)+2)
	for _, kv := range environ {
		k, _, _ := strings.Cut(kv, "=")
		switch k {
		case "RUST_LOG", "RUST_BACKTRACE", "RUST_LOG_STYLE":
			continue
		}
		out = append(out, kv)
	}

	level := c.LogLevel
	if level == "" {
		level = LogOff
	}

	return append(out, "RUST_LOG="+string(level), "RUST_BACKTRACE=0")
}
