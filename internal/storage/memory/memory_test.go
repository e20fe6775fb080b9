package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/taskboard-server/internal/model"
)

func TestStore_SetGet(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)

	value := []byte(`{"id":"1"}`)
	require.NoError(t, s.Set(ctx, "user", value))

	// callers must not be able to mutate stored bytes
	value[0] = 'x'

	got, err := s.Get(ctx, "user")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"1"}`, string(got))

	exists, err := s.Exists(ctx, "user")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, 1, s.Len())
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.Set(ctx, "k", []byte("v")))
	require.NoError(t, s.Delete(ctx, "k"))
	require.NoError(t, s.Delete(ctx, "k"))

	exists, err := s.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)
}
