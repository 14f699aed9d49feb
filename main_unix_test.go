//go:build unix

package main

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// With launcherHelperEnv set, the test binary runs main with the arguments
// it was started with.
const (
	launcherHelperEnv = "LAUNCHER_TEST_HELPER"
	markerEnv         = "LAUNCHER_TEST_MARKER"
	exitEnv           = "LAUNCHER_TEST_EXIT"
)

func TestMain(m *testing.M) {
	if os.Getenv(launcherHelperEnv) == "1" {
		main()
		os.Exit(0)
	}
	os.Exit(m.Run())
}

// fakeServer writes an executable that records its arguments in the file
// named by $LAUNCHER_TEST_MARKER and exits with $LAUNCHER_TEST_EXIT.
func fakeServer(t *testing.T) (binary, marker string) {
	t.Helper()

	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}
	dir := t.TempDir()
	binary = filepath.Join(dir, "fast-socks5-server")
	marker = filepath.Join(dir, "started")
	script := "#!/bin/sh\necho \"$@\" > \"$" + markerEnv + "\"\nexit \"${" + exitEnv + ":-0}\"\n"
	if err := os.WriteFile(binary, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return binary, marker
}

func runLauncher(t *testing.T, env []string, args ...string) (code int, stdout, stderr string) {
	t.Helper()

	cmd := exec.Command(os.Args[0], args...)
	cmd.Env = append([]string{launcherHelperEnv + "=1", "PATH=" + os.Getenv("PATH")}, env...)
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	var ee *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &ee):
		code = ee.ExitCode()
	default:
		t.Fatal(err)
	}
	return code, outBuf.String(), errBuf.String()
}

// These tests write and execute scripts, so they do not run in parallel:
// a concurrent fork can hold the script open for writing and fail the
// exec with ETXTBSY.

func TestLauncherConfigErrorSkipsServer(t *testing.T) {
	binary, marker := fakeServer(t)

	code, stdout, stderr := runLauncher(t, []string{markerEnv + "=" + marker}, "--binary", binary)
	if code != 1 {
		t.Fatalf("exit code %d want 1 (stderr %q)", code, stderr)
	}
	if stdout != "" {
		t.Fatalf("stdout=%q", stdout)
	}
	if !strings.Contains(stderr, "PROXY_USER, PROXY_PASSWORD") {
		t.Fatalf("stderr=%q does not name the missing variables", stderr)
	}
	if _, err := os.Stat(marker); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("server was started: %v", err)
	}
}

func TestLauncherMissingBinary(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "fast-socks5-server")

	for _, mode := range [][]string{nil, {"--supervise"}} {
		t.Run(strings.Join(append([]string{"exec"}, mode...), " "), func(t *testing.T) {
			args := append([]string{"--binary", missing}, mode...)
			code, stdout, stderr := runLauncher(t, []string{"AUTH_MODE=no-auth"}, args...)
			if code != 1 {
				t.Fatalf("exit code %d want 1", code)
			}
			if stdout != "" {
				t.Fatalf("stdout=%q", stdout)
			}
			if !strings.Contains(stderr, "exec "+missing) {
				t.Fatalf("stderr=%q lacks exec diagnostic", stderr)
			}
		})
	}
}

func TestLauncherStartsServer(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		exitCode string
		want     int
	}{
		{name: "exec", want: 0},
		{name: "exec exit code", exitCode: "4", want: 4},
		{name: "supervise", args: []string{"--supervise"}, want: 0},
		{name: "supervise exit code", args: []string{"--supervise"}, exitCode: "4", want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			binary, marker := fakeServer(t)

			env := []string{
				"AUTH_MODE=no-auth",
				"PROXY_PORT=1080",
				markerEnv + "=" + marker,
			}
			if tt.exitCode != "" {
				env = append(env, exitEnv+"="+tt.exitCode)
			}

			code, stdout, stderr := runLauncher(t, env, append([]string{"--binary", binary}, tt.args...)...)
			if code != tt.want {
				t.Fatalf("exit code %d want %d (stderr %q)", code, tt.want, stderr)
			}
			if stdout != "" || stderr != "" {
				t.Fatalf("launcher was not silent: stdout=%q stderr=%q", stdout, stderr)
			}

			got, err := os.ReadFile(marker)
			if err != nil {
				t.Fatalf("server not started: %v", err)
			}
			if want := "--listen-addr 0.0.0.0:1080 --request-timeout 10 no-auth\n"; string(got) != want {
				t.Fatalf("server args %q want %q", got, want)
			}
		})
	}
}
