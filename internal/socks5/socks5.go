package socks5

import (
	txsocks5 "github.com/txthinking/socks5"
)

const (
	// CmdUDP is the SOCKS5 UDP ASSOCIATE command value.
	CmdUDP = txsocks5.CmdUDP

	// RFC 1928: 0xFF indicates no acceptable methods.
	methodNoAcceptable byte = 0xff
)

// Auth configures optional username/password authentication for SOCKS5
// negotiation.
type Auth struct {
	Username string
	Password string
}
