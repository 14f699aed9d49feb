// Package socks5 holds the client half of the SOCKS5 handshake the launcher
// needs to probe a running server: method negotiation with optional
// username/password, and a UDP ASSOCIATE round trip.
//
// It wraps the protocol types in github.com/txthinking/socks5.
package socks5
