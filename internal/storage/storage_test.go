package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/taskboard-server/internal/config"
	"github.com/dtroode/taskboard-server/internal/model"
	"github.com/dtroode/taskboard-server/internal/storage/file"
	"github.com/dtroode/taskboard-server/internal/storage/memory"
	"github.com/dtroode/taskboard-server/internal/storage/sqlstore"
)

func TestForClient_IsolatesClients(t *testing.T) {
	ctx := context.Background()
	base := memory.New()

	a := ForClient(base, uuid.New())
	b := ForClient(base, uuid.New())

	require.NoError(t, a.Set(ctx, model.CurrentUserKey, []byte("alice")))

	_, err := b.Get(ctx, model.CurrentUserKey)
	assert.ErrorIs(t, err, model.ErrNotFound)

	got, err := a.Get(ctx, model.CurrentUserKey)
	require.NoError(t, err)
	assert.Equal(t, "alice", string(got))

	ok, err := b.Exists(ctx, model.CurrentUserKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Delete(ctx, model.CurrentUserKey))
	ok, err = a.Exists(ctx, model.CurrentUserKey)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestClientPrefix(t *testing.T) {
	id := uuid.MustParse("0190a3f4-8d5e-7c1a-9b2f-3e4d5c6b7a80")
	assert.Equal(t, "clients/0190a3f4-8d5e-7c1a-9b2f-3e4d5c6b7a80/", ClientPrefix(id))

	base := memory.New()
	require.NoError(t, ForClient(base, id).Set(context.Background(), "user", []byte("x")))

	ok, err := base.Exists(context.Background(), "clients/0190a3f4-8d5e-7c1a-9b2f-3e4d5c6b7a80/user")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		b, err := Open(ctx, &config.Config{Storage: config.Storage{Driver: config.DriverMemory}})
		require.NoError(t, err)
		assert.IsType(t, &memory.Store{}, b)
	})

	t.Run("file", func(t *testing.T) {
		cfg := &config.Config{Storage: config.Storage{Driver: config.DriverFile, FileDir: t.TempDir()}}
		b, err := Open(ctx, cfg)
		require.NoError(t, err)
		assert.IsType(t, &file.Store{}, b)
	})

	t.Run("sqlite", func(t *testing.T) {
		cfg := &config.Config{
			Storage: config.Storage{Driver: config.DriverSQLite},
			SQLite:  config.SQLite{Path: filepath.Join(t.TempDir(), "kv.db")},
		}
		b, err := Open(ctx, cfg)
		require.NoError(t, err)
		t.Cleanup(func() { _ = b.Close() })
		assert.IsType(t, &sqlstore.Store{}, b)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := Open(ctx, &config.Config{Storage: config.Storage{Driver: "tape"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown storage driver")
	})
}
