// Package config assembles the runtime configuration of every component
// from defaults, an optional YAML file and PHISHGUARD_* environment
// variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/raysh454/phishguard/internal/app"
	"github.com/raysh454/phishguard/internal/assessor"
	"github.com/raysh454/phishguard/internal/logging"
	"github.com/raysh454/phishguard/internal/server"
)

// Storage drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

var ErrInvalidConfig = errors.New("invalid config")

type StorageConfig struct {
	// Driver is "memory" or "sqlite".
	Driver string `yaml:"driver"`

	// Path of the SQLite database. Ignored by the memory driver.
	Path string `yaml:"path"`

	// Seed loads the sample detection log into an empty store.
	Seed bool `yaml:"seed"`
}

type Config struct {
	Server   server.Config   `yaml:"server"`
	Storage  StorageConfig   `yaml:"storage"`
	Logging  logging.Options `yaml:"logging"`
	Assessor assessor.Config `yaml:"assessor"`
	App      app.Config      `yaml:"app"`
}

// DefaultConfig returns a Config populated with development defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: server.DefaultConfig(),
		Storage: StorageConfig{
			Driver: DriverMemory,
			Path:   "phishguard.db",
			Seed:   true,
		},
		Logging: logging.Options{
			Level:  "info",
			Format: "json",
		},
		Assessor: *assessor.DefaultConfig(),
		App:      *app.DefaultConfig(),
	}
}

// Load reads path over the defaults and applies environment overrides. An
// empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config: %w", err)
		}
	}

	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverSQLite:
		if strings.TrimSpace(c.Storage.Path) == "" {
			return fmt.Errorf("%w: storage.path is required for sqlite", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, c.Storage.Driver)
	}
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("%w: server.listen_addr is required", ErrInvalidConfig)
	}
	t := c.Assessor.Thresholds
	if t.Medium < 0 || t.High > 1 || t.High < t.Medium {
		return fmt.Errorf("%w: thresholds must satisfy 0 <= medium <= high <= 1", ErrInvalidConfig)
	}
	if c.Assessor.Delay < 0 || c.App.Scanner.Timeout < 0 || c.App.SessionIdleTimeout < 0 {
		return fmt.Errorf("%w: durations must not be negative", ErrInvalidConfig)
	}
	return nil
}

type lookupFunc func(string) (string, bool)

// applyEnv overrides cfg from PHISHGUARD_* variables. Malformed values are
// reported rather than ignored.
func applyEnv(cfg *Config, lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	var errs []error
	parse := func(key string, fn func(string) error) {
		v, ok := lookup(key)
		if !ok || v == "" {
			return
		}
		if err := fn(v); err != nil {
			errs = append(errs, fmt.Errorf("%s=%q: %w", key, v, err))
		}
	}
	duration := func(dst *time.Duration) func(string) error {
		return func(v string) error {
			d, err := time.ParseDuration(v)
			if err == nil {
				*dst = d
			}
			return err
		}
	}
	boolean := func(dst *bool) func(string) error {
		return func(v string) error {
			b, err := strconv.ParseBool(v)
			if err == nil {
				*dst = b
			}
			return err
		}
	}

	str("PHISHGUARD_LISTEN_ADDR", &cfg.Server.ListenAddr)
	parse("PHISHGUARD_ALLOWED_ORIGINS", func(v string) error {
		cfg.Server.AllowedOrigins = splitList(v)
		return nil
	})

	str("PHISHGUARD_STORAGE_DRIVER", &cfg.Storage.Driver)
	str("PHISHGUARD_STORAGE_PATH", &cfg.Storage.Path)
	parse("PHISHGUARD_STORAGE_SEED", boolean(&cfg.Storage.Seed))

	str("PHISHGUARD_LOG_LEVEL", &cfg.Logging.Level)
	str("PHISHGUARD_LOG_FORMAT", &cfg.Logging.Format)

	parse("PHISHGUARD_SCAN_DELAY", duration(&cfg.Assessor.Delay))
	parse("PHISHGUARD_SCAN_TIMEOUT", duration(&cfg.App.Scanner.Timeout))
	parse("PHISHGUARD_SESSION_IDLE_TIMEOUT", duration(&cfg.App.SessionIdleTimeout))
	parse("PHISHGUARD_KEYWORDS", func(v string) error {
		cfg.Assessor.Keywords = splitList(v)
		return nil
	})
	parse("PHISHGUARD_RATE_PER_MINUTE", func(v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			cfg.App.RateLimit.PerMinute = f
		}
		return err
	})
	parse("PHISHGUARD_RATE_BURST", func(v string) error {
		n, err := strconv.Atoi(v)
		if err == nil {
			cfg.App.RateLimit.Burst = n
		}
		return err
	})
	parse("PHISHGUARD_RECORD_SCANS", boolean(&cfg.App.RecordScans))

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
