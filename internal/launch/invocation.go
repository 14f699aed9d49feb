package launch

import (
	"slices"
	"strconv"
	"strings"
)

const passwordMask = "********"

// Invocation is the server command: executable path, arguments and
// environment. Accessors return copies so an Invocation cannot change after
// NewInvocation.
type Invocation struct {
	path string
	args []string
	env  []string
}

func NewInvocation(path string, args, env []string) Invocation {
	return Invocation{path: path, args: slices.Clone(args), env: slices.Clone(env)}
}

func (i Invocation) Path() string {
	return i.path
}

func (i Invocation) Args() []string {
	return slices.Clone(i.args)
}

// Env is the server's complete environment. It is never nil, so a nil env
// passed to NewInvocation means an empty environment rather than the
// launcher's own.
func (i Invocation) Env() []string {
	return append([]string{}, i.env...)
}

// Argv is the full argument vector, path first.
func (i Invocation) Argv() []string {
	return append([]string{i.path}, i.args...)
}

// String renders the command line for logs, with the value following
// --password masked.
func (i Invocation) String() string {
	var b strings.Builder
	b.WriteString(quote(i.path))
	for n, a := range i.args {
		if n > 0 && i.args[n-1] == "--password" {
			a = passwordMask
		}
		b.WriteByte(' ')
		b.WriteString(quote(a))
	}
	return b.String()
}

func quote(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\n\"'\\$") {
		return strconv.Quote(s)
	}
	return s
}
