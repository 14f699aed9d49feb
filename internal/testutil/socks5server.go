package testutil

import (
	"errors"
	"fmt"
	"io"
	"net"
	"slices"

	txsocks5 "github.com/txthinking/socks5"

	"github.com/die-net/socks5-launcher/internal/socks5"
)

// methodNoAcceptable is the RFC 1928 reply for no acceptable methods.
const methodNoAcceptable byte = 0xff

// SOCKS5Server is a fake fast-socks5-server that handles one connection the
// way the real one would when started with the matching flags.
type SOCKS5Server struct {
	// Username and Password select the password sub-command. An empty
	// Username means no-auth.
	Username string
	Password string

	// SkipAuth mirrors --skip-auth: no method negotiation at all.
	SkipAuth bool

	// UDPBind is the relay address granted for UDP ASSOCIATE. Nil refuses
	// the command, as a server started without --allow-udp does.
	UDPBind net.Addr
}

// Serve runs the handshake on conn and answers at most one request. A client
// that hangs up after negotiating is not an error.
func (s SOCKS5Server) Serve(conn net.Conn) error {
	if !s.SkipAuth {
		if err := s.negotiate(conn); err != nil {
			return err
		}
	}

	req, err := txsocks5.NewRequestFrom(conn)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}

	if req.Cmd != socks5.CmdUDP {
		writeReply(conn, txsocks5.RepCommandNotSupported, req.Atyp)
		return fmt.Errorf("unexpected command: %d", req.Cmd)
	}
	if s.UDPBind == nil {
		writeReply(conn, txsocks5.RepCommandNotSupported, req.Atyp)
		return nil
	}

	a, addr, port, err := txsocks5.ParseAddress(s.UDPBind.String())
	if err != nil {
		return fmt.Errorf("parse bind address %q: %w", s.UDPBind, err)
	}
	if a == txsocks5.ATYPDomain {
		addr = addr[1:]
	}
	if _, err := txsocks5.NewReply(txsocks5.RepSuccess, a, addr, port).WriteTo(conn); err != nil {
		return fmt.Errorf("success reply: %w", err)
	}
	return nil
}

// negotiate selects no-auth or username/password and checks credentials,
// returning socks5.ErrAuthFailed when they do not match.
func (s SOCKS5Server) negotiate(conn net.Conn) error {
	neg, err := txsocks5.NewNegotiationRequestFrom(conn)
	if err != nil {
		return fmt.Errorf("negotiation request: %w", err)
	}

	method := txsocks5.MethodNone
	if s.Username != "" {
		method = txsocks5.MethodUsernamePassword
	}
	if !slices.Contains(neg.Methods, method) {
		_, _ = txsocks5.NewNegotiationReply(methodNoAcceptable).WriteTo(conn)
		return fmt.Errorf("client does not offer method %d", method)
	}
	if _, err := txsocks5.NewNegotiationReply(method).WriteTo(conn); err != nil {
		return fmt.Errorf("negotiation reply: %w", err)
	}
	if method == txsocks5.MethodNone {
		return nil
	}

	urq, err := txsocks5.NewUserPassNegotiationRequestFrom(conn)
	if err != nil {
		return fmt.Errorf("read userpass: %w", err)
	}
	if string(urq.Uname) != s.Username || string(urq.Passwd) != s.Password {
		_, _ = txsocks5.NewUserPassNegotiationReply(txsocks5.UserPassStatusFailure).WriteTo(conn)
		return socks5.ErrAuthFailed
	}
	if _, err := txsocks5.NewUserPassNegotiationReply(txsocks5.UserPassStatusSuccess).WriteTo(conn); err != nil {
		return fmt.Errorf("write userpass: %w", err)
	}
	return nil
}

func writeReply(conn net.Conn, rep, atyp byte) {
	r := txsocks5.NewReply(rep, txsocks5.ATYPIPv4, []byte{0x00, 0x00, 0x00, 0x00}, []byte{0x00, 0x00})
	if atyp == txsocks5.ATYPIPv6 {
		r = txsocks5.NewReply(rep, txsocks5.ATYPIPv6, []byte(net.IPv6zero), []byte{0x00, 0x00})
	}
	_, _ = r.WriteTo(conn)
}
