package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/raysh454/phishguard/internal/history"
	"github.com/raysh454/phishguard/internal/logging"
)

// OpenHistory builds the detection store selected by sc. The returned close
// function releases it and is never nil.
func OpenHistory(ctx context.Context, sc StorageConfig, logger logging.Logger) (history.Repository, func() error, error) {
	noop := func() error { return nil }

	switch sc.Driver {
	case DriverMemory:
		seed := history.Fixture()
		if !sc.Seed {
			seed = nil
		}
		return history.NewMemoryRepository(seed), noop, nil

	case DriverSQLite:
		path, err := expandPath(sc.Path)
		if err != nil {
			return nil, noop, fmt.Errorf("expanding storage path: %w", err)
		}
		if dir := filepath.Dir(path); path != ":memory:" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				logger.Warn("creating storage directory", logging.Field{Key: "path", Value: dir}, logging.Field{Key: "error", Value: err})
			}
		}

		repo, err := history.Open(path, logger)
		if err != nil {
			return nil, noop, err
		}
		if sc.Seed {
			n, err := repo.Seed(ctx, history.Fixture())
			if err != nil {
				repo.Close()
				return nil, noop, fmt.Errorf("seeding history: %w", err)
			}
			if n > 0 {
				logger.Info("seeded detection history", logging.Field{Key: "records", Value: n})
			}
		}
		return repo, repo.Close, nil
	}
	return nil, noop, fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, sc.Driver)
}

func expandPath(p string) (string, error) {
	if len(p) > 0 && p[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, p[1:]), nil
	}
	return p, nil
}
