package testutil

import (
	"net"
	"testing"

	"golang.org/x/sync/errgroup"
)

// StartSingleAcceptServer listens on a loopback port and runs handler on the
// first accepted connection. wait closes the listener and returns the
// handler's error, or nil if nothing connected.
func StartSingleAcceptServer(t *testing.T, handler func(net.Conn) error) (addr string, wait func() error) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	var g errgroup.Group
	g.Go(func() error {
		c, err := ln.Accept()
		if err != nil {
			return nil
		}
		defer c.Close()
		return handler(c)
	})

	wait = func() error {
		_ = ln.Close()
		return g.Wait()
	}
	t.Cleanup(func() { _ = wait() })

	return ln.Addr().String(), wait
}

// UnusedAddr returns a loopback address nothing is listening on.
func UnusedAddr(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()
	return addr
}
