// ABOUTME: Tests for environment-based server configuration and bind safety checks.
package server

import (
	"errors"
	"testing"
	"time"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"QAFORGE_BIND", "QAFORGE_DATA_DIR", "QAFORGE_ALLOW_REMOTE", "QAFORGE_HEARTBEAT"} {
		t.Setenv(key, "")
	}
}

func TestConfigFromEnvDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv: %v", err)
	}
	if cfg.Bind != "127.0.0.1:8787" {
		t.Errorf("Bind = %q", cfg.Bind)
	}
	if cfg.DataDir != "data" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.Heartbeat != time.Second {
		t.Errorf("Heartbeat = %v", cfg.Heartbeat)
	}
	if cfg.AllowRemote {
		t.Error("AllowRemote should default to false")
	}
}

func TestConfigFromEnvOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("QAFORGE_BIND", "127.0.0.1:9000")
	t.Setenv("QAFORGE_DATA_DIR", "/tmp/qaforge-test")
	t.Setenv("QAFORGE_HEARTBEAT", "250ms")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv: %v", err)
	}
	if cfg.Bind != "127.0.0.1:9000" || cfg.DataDir != "/tmp/qaforge-test" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Heartbeat != 250*time.Millisecond {
		t.Errorf("Heartbeat = %v", cfg.Heartbeat)
	}
}

func TestConfigFromEnvRejectsBadHeartbeat(t *testing.T) {
	clearConfigEnv(t)
	for _, v := range []string{"nope", "-1s", "0"} {
		t.Setenv("QAFORGE_HEARTBEAT", v)
		if _, err := ConfigFromEnv(); !errors.Is(err, ErrBadHeartbeat) {
			t.Errorf("QAFORGE_HEARTBEAT=%q: err = %v, want ErrBadHeartbeat", v, err)
		}
	}
}

func TestConfigFromEnvRejectsNonLoopbackBind(t *testing.T) {
	clearConfigEnv(t)

	for _, bind := range []string{"0.0.0.0:8787", "192.168.1.5:8787", "example.com:8787"} {
		t.Setenv("QAFORGE_BIND", bind)
		if _, err := ConfigFromEnv(); !errors.Is(err, ErrNonLoopbackBind) {
			t.Errorf("bind %q: err = %v, want ErrNonLoopbackBind", bind, err)
		}
	}

	// Loopback binds are always fine.
	for _, bind := range []string{"127.0.0.1:8787", "localhost:8787", "[::1]:8787"} {
		t.Setenv("QAFORGE_BIND", bind)
		if _, err := ConfigFromEnv(); err != nil {
			t.Errorf("bind %q: unexpected error %v", bind, err)
		}
	}
}

func TestConfigFromEnvAllowRemote(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("QAFORGE_BIND", "0.0.0.0:8787")
	t.Setenv("QAFORGE_ALLOW_REMOTE", "true")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv: %v", err)
	}
	if !cfg.AllowRemote {
		t.Error("AllowRemote not set")
	}
}
