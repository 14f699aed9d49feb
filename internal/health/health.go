// Package health probes a running fast-socks5-server the way a container
// HEALTHCHECK would: connect to the local port, negotiate an authentication
// method with the configured credentials and, when UDP is enabled, ask for a
// UDP relay.
package health

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/die-net/socks5-launcher/internal/config"
	"github.com/die-net/socks5-launcher/internal/socks5"
)

// DefaultTimeout bounds a probe when Options.Timeout is unset.
const DefaultTimeout = 3 * time.Second

type Options struct {
	// Addr is the address to probe. Empty means 127.0.0.1 on the
	// configured port.
	Addr string

	Timeout time.Duration
}

// Check returns nil if the server at opts.Addr completes the handshake cfg
// implies. With SkipAuth the server expects no negotiation, so only the TCP
// connect (and UDP ASSOCIATE, if enabled) is checked.
func Check(ctx context.Context, cfg config.Config, opts Options) error {
	addr := opts.Addr
	if addr == "" {
		addr = net.JoinHostPort("127.0.0.1", strconv.Itoa(cfg.Port))
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("healthcheck: %w", err)
	}
	defer conn.Close()

	if dl, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(dl)
	}
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	defer stop()

	if !cfg.SkipAuth {
		var auth socks5.Auth
		if cfg.AuthMode == config.AuthPassword {
			auth = socks5.Auth{Username: cfg.Username, Password: cfg.Password}
		}
		if err := socks5.ClientNegotiate(conn, auth); err != nil {
			return fmt.Errorf("healthcheck %s: %w", addr, err)
		}
	}

	if cfg.UDPEnabled() {
		if err := socks5.ClientUDPAssociate(conn); err != nil {
			return fmt.Errorf("healthcheck %s: %w", addr, err)
		}
	}

	return nil
}
