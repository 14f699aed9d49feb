package launch

import (
	"slices"
	"testing"
)

func TestInvocationString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "no-auth",
			args: []string{"--listen-addr", "0.0.0.0:2324", "--request-timeout", "10", "no-auth"},
			want: "/usr/local/bin/fast-socks5-server --listen-addr 0.0.0.0:2324 --request-timeout 10 no-auth",
		},
		{
			name: "password masked",
			args: []string{"password", "--username", "myuser", "--password", "mypass"},
			want: "/usr/local/bin/fast-socks5-server password --username myuser --password ********",
		},
		{
			name: "quoted tokens",
			args: []string{"password", "--username", "my user", "--password", ""},
			want: `/usr/local/bin/fast-socks5-server password --username "my user" --password ********`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			inv := NewInvocation("/usr/local/bin/fast-socks5-server", tt.args, nil)
			if got := inv.String(); got != tt.want {
				t.Fatalf("got %q want %q", got, tt.want)
			}
		})
	}
}

func TestInvocationImmutable(t *testing.T) {
	t.Parallel()

	args := []string{"--listen-addr", "0.0.0.0:2324", "no-auth"}
	env := []string{"RUST_LOG=off"}
	inv := NewInvocation("server", args, env)

	args[0] = "changed"
	env[0] = "changed"
	inv.Args()[1] = "changed"
	inv.Env()[0] = "changed"

	if got := inv.Args(); !slices.Equal(got, []string{"--listen-addr", "0.0.0.0:2324", "no-auth"}) {
		t.Fatalf("args mutated: %q", got)
	}
	if got := inv.Env(); !slices.Equal(got, []string{"RUST_LOG=off"}) {
		t.Fatalf("env mutated: %q", got)
	}
	if got := inv.Argv(); !slices.Equal(got, []string{"server", "--listen-addr", "0.0.0.0:2324", "no-auth"}) {
		t.Fatalf("argv %q", got)
	}
}

func TestInvocationEnvNeverNil(t *testing.T) {
	t.Parallel()

	if env := NewInvocation("server", nil, nil).Env(); env == nil {
		t.Fatal("Env() returned nil")
	}
}
