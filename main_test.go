package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/die-net/socks5-launcher/internal/config"
)

func TestNewLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level     config.LogLevel
		wantInfo  bool
		wantError bool
	}{
		{level: config.LogOff},
		{level: config.LogError, wantError: true},
		{level: config.LogWarn, wantError: true},
		{level: config.LogInfo, wantInfo: true, wantError: true},
		{level: config.LogTrace, wantInfo: true, wantError: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.level), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			log := newLogger(tt.level, &buf)
			log.Info("info line")
			log.Error("error line")

			if got := strings.Contains(buf.String(), "info line"); got != tt.wantInfo {
				t.Fatalf("info logged=%v want %v: %q", got, tt.wantInfo, buf.String())
			}
			if got := strings.Contains(buf.String(), "error line"); got != tt.wantError {
				t.Fatalf("error logged=%v want %v: %q", got, tt.wantError, buf.String())
			}
		})
	}
}

func TestDefaultBinary(t *testing.T) {
	t.Setenv("SOCKS5_SERVER_BINARY", "")
	if got := defaultBinary(); got != defaultBinaryPath {
		t.Fatalf("got %q want %q", got, defaultBinaryPath)
	}

	t.Setenv("SOCKS5_SERVER_BINARY", "/opt/socks/server")
	if got := defaultBinary(); got != "/opt/socks/server" {
		t.Fatalf("got %q", got)
	}
}
