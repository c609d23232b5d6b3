// ABOUTME: Server configuration loaded from QAFORGE_* environment variables.
// ABOUTME: Refuses non-loopback binds unless remote access is explicitly enabled.
package server

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"
)

var (
	ErrNonLoopbackBind = errors.New(
		"QAFORGE_BIND is a non-loopback address but QAFORGE_ALLOW_REMOTE is not true; set QAFORGE_ALLOW_REMOTE=true to allow remote access",
	)
	ErrBadHeartbeat = errors.New("QAFORGE_HEARTBEAT must be a positive duration (e.g. 1s, 500ms)")
)

// Config holds server configuration loaded from environment variables.
type Config struct {
	Bind        string        // Socket address (QAFORGE_BIND, default: 127.0.0.1:8787)
	DataDir     string        // Run artifact directory (QAFORGE_DATA_DIR, default: data)
	AllowRemote bool          // Allow non-loopback binds (QAFORGE_ALLOW_REMOTE, default: false)
	Heartbeat   time.Duration // SSE heartbeat interval (QAFORGE_HEARTBEAT, default: 1s)
}

// ConfigFromEnv loads configuration from QAFORGE_* environment variables
// with sensible defaults.
func ConfigFromEnv() (*Config, error) {
	bind := envOrDefault("QAFORGE_BIND", "127.0.0.1:8787")
	dataDir := envOrDefault("QAFORGE_DATA_DIR", "data")

	allowRemote := false
	if v := os.Getenv("QAFORGE_ALLOW_REMOTE"); v == "true" || v == "1" || v == "yes" {
		allowRemote = true
	}

	heartbeat := time.Second
	if v := os.Getenv("QAFORGE_HEARTBEAT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("%w: got %q", ErrBadHeartbeat, v)
		}
		heartbeat = d
	}

	// Refuse non-loopback binds unless explicitly opting into remote access.
	// Only 127.0.0.0/8, ::1, and "localhost" are considered safe.
	if !allowRemote {
		if host, _, err := net.SplitHostPort(bind); err == nil && host != "" {
			ip := net.ParseIP(host)
			switch {
			case ip != nil && ip.IsLoopback():
			case host == "localhost":
			default:
				return nil, fmt.Errorf("%w: QAFORGE_BIND=%s", ErrNonLoopbackBind, bind)
			}
		}
	}

	return &Config{
		Bind:        bind,
		DataDir:     dataDir,
		AllowRemote: allowRemote,
		Heartbeat:   heartbeat,
	}, nil
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
