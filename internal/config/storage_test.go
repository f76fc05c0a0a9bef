package config

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/phishguard/internal/testutil"
)

func TestOpenHistory_Memory(t *testing.T) {
	ctx := context.Background()

	repo, closeFn, err := OpenHistory(ctx, StorageConfig{Driver: DriverMemory, Seed: true}, &testutil.DummyLogger{})
	require.NoError(t, err)
	defer closeFn()
	recs, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, recs, 8)

	repo, _, err = OpenHistory(ctx, StorageConfig{Driver: DriverMemory}, &testutil.DummyLogger{})
	require.NoError(t, err)
	recs, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestOpenHistory_SQLiteSeedsOnce(t *testing.T) {
	ctx := context.Background()
	sc := StorageConfig{Driver: DriverSQLite, Path: filepath.Join(t.TempDir(), "nested", "history.db"), Seed: true}

	repo, closeFn, err := OpenHistory(ctx, sc, &testutil.DummyLogger{})
	require.NoError(t, err)
	require.NoError(t, closeFn())

	repo, closeFn, err = OpenHistory(ctx, sc, &testutil.DummyLogger{})
	require.NoError(t, err)
	defer closeFn()
	recs, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, recs, 8)
}

func TestOpenHistory_UnknownDriver(t *testing.T) {
	_, closeFn, err := OpenHistory(context.Background(), StorageConfig{Driver: "redis"}, &testutil.DummyLogger{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.NotNil(t, closeFn)
}
