// Package config resolves launcher settings from an environment mapping and
// turns them into the argument vector for fast-socks5-server.
//
// Resolution is pure: it reads only the mapping passed to Resolve, never the
// process environment, so the same mapping always yields the same Config and
// the same arguments.
package config
