// Package launch hands the process over to fast-socks5-server.
//
// The normal path is Redirect followed by Exec: standard streams are pointed
// at the null device as an explicit step, then execve replaces the launcher
// so the server inherits PID 1, its signal disposition and its exit status.
// Supervise is the fallback for platforms without execve, or when asked for
// explicitly: it runs the server as a child, forwards termination signals and
// reports the child's exit code.
package launch
