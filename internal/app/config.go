package app

import (
	"time"

	"github.com/raysh454/phishguard/internal/scanner"
)

// Config holds orchestrator settings.
type Config struct {
	// Scanner is applied to every session the orchestrator creates.
	Scanner scanner.Config `yaml:"scanner"`

	// RateLimit bounds how often scans may start across all sessions.
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	// RecordScans appends every completed scan to the detection history.
	RecordScans bool `yaml:"record_scans"`

	// MaxSessions caps concurrently open scanner sessions. Zero means no cap.
	MaxSessions int `yaml:"max_sessions"`

	// SessionIdleTimeout abandons sessions that see no activity for this
	// long. Zero disables reaping.
	SessionIdleTimeout time.Duration `yaml:"session_idle_timeout"`
}

type RateLimitConfig struct {
	// PerMinute is the sustained scan rate. Zero or less disables limiting.
	PerMinute float64 `yaml:"per_minute"`
	Burst     int     `yaml:"burst"`
}

// DefaultConfig returns a Config populated with development defaults.
func DefaultConfig() *Config {
	return &Config{
		Scanner: scanner.DefaultConfig(),
		RateLimit: RateLimitConfig{
			PerMinute: 60,
			Burst:     5,
		},
		RecordScans:        true,
		MaxSessions:        256,
		SessionIdleTimeout: 15 * time.Minute,
	}
}
