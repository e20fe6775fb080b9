package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/taskboard-server/internal/mocks"
	"github.com/dtroode/taskboard-server/internal/model"
	"github.com/dtroode/taskboard-server/internal/storage"
	"github.com/dtroode/taskboard-server/internal/storage/memory"
	"github.com/dtroode/taskboard-server/internal/testutil"
)

func newTestWorkspaces(t *testing.T, base model.LocalStorage, size int) *Workspaces {
	t.Helper()

	w, err := NewWorkspaces(base, testHasher, testutil.MakeNoopLogger(), size)
	require.NoError(t, err)
	return w
}

func isAuthenticated(t *testing.T, ws *Workspace) bool {
	t.Helper()

	ok, err := ws.IsAuthenticated(context.Background())
	require.NoError(t, err)
	return ok
}

func TestWorkspaces_GetReturnsSameWorkspace(t *testing.T) {
	ctx := context.Background()
	w := newTestWorkspaces(t, memory.New(), 8)
	id := uuid.New()

	first, err := w.Get(ctx, id)
	require.NoError(t, err)
	second, err := w.Get(ctx, id)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, id, first.ClientID())
	assert.False(t, isAuthenticated(t, first))
}

func TestWorkspaces_ConcurrentFirstLoad(t *testing.T) {
	ctx := context.Background()
	w := newTestWorkspaces(t, memory.New(), 8)
	id := uuid.New()

	const callers = 16
	results := make([]*Workspace, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			ws, err := w.Get(ctx, id)
			assert.NoError(t, err)
			results[i] = ws
		}()
	}
	wg.Wait()

	for _, ws := range results {
		assert.Same(t, results[0], ws)
	}
	assert.Equal(t, 1, w.Len())
}

func TestWorkspaces_EvictedWorkspaceReloads(t *testing.T) {
	ctx := context.Background()
	base := memory.New()
	w := newTestWorkspaces(t, base, 1)

	alice := uuid.New()
	ws, err := w.Get(ctx, alice)
	require.NoError(t, err)

	var taskID string
	err = ws.Do(ctx, func(session *Session, tasks *Tasks) error {
		if _, err := session.Register(ctx, "alice@example.com", "pw", "Alice"); err != nil {
			return err
		}
		task, err := tasks.AddTask(ctx, model.NewTask{Title: "Water plants"})
		taskID = task.ID
		return err
	})
	require.NoError(t, err)

	// loading a second client evicts the first
	_, err = w.Get(ctx, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 1, w.Len())

	reloaded, err := w.Get(ctx, alice)
	require.NoError(t, err)
	assert.NotSame(t, ws, reloaded)
	assert.True(t, isAuthenticated(t, reloaded))

	err = reloaded.Do(ctx, func(_ *Session, tasks *Tasks) error {
		require.Len(t, tasks.Tasks(), 1)
		assert.Equal(t, taskID, tasks.Tasks()[0].ID)
		return nil
	})
	require.NoError(t, err)
}

func TestWorkspaces_EvictedWorkspaceKeepsWritesOfItsSuccessor(t *testing.T) {
	ctx := context.Background()
	base := memory.New()
	w := newTestWorkspaces(t, base, 1)

	alice := uuid.New()
	stale, err := w.Get(ctx, alice)
	require.NoError(t, err)

	var user model.User
	require.NoError(t, stale.Do(ctx, func(session *Session, _ *Tasks) error {
		user, err = session.Register(ctx, "alice@example.com", "pw", "Alice")
		return err
	}))

	// a request still holds stale while another client evicts it
	_, err = w.Get(ctx, uuid.New())
	require.NoError(t, err)

	fresh, err := w.Get(ctx, alice)
	require.NoError(t, err)
	require.NotSame(t, stale, fresh)

	require.NoError(t, fresh.Do(ctx, func(_ *Session, tasks *Tasks) error {
		_, err := tasks.AddTask(ctx, model.NewTask{Title: "from fresh"})
		return err
	}))
	require.NoError(t, stale.Do(ctx, func(_ *Session, tasks *Tasks) error {
		_, err := tasks.AddTask(ctx, model.NewTask{Title: "from stale"})
		return err
	}))

	raw, err := storage.ForClient(base, alice).Get(ctx, model.TasksKey(user.ID))
	require.NoError(t, err)

	var persisted []model.Task
	require.NoError(t, json.Unmarshal(raw, &persisted))
	assert.Equal(t, []string{"from stale", "from fresh"}, titles(persisted))

	require.NoError(t, fresh.Do(ctx, func(_ *Session, tasks *Tasks) error {
		assert.Equal(t, []string{"from stale", "from fresh"}, titles(tasks.Tasks()))
		return nil
	}))
}

func TestWorkspaces_ClientsAreIsolated(t *testing.T) {
	ctx := context.Background()
	base := memory.New()
	w := newTestWorkspaces(t, base, 8)

	a, err := w.Get(ctx, uuid.New())
	require.NoError(t, err)
	b, err := w.Get(ctx, uuid.New())
	require.NoError(t, err)

	require.NoError(t, a.Do(ctx, func(session *Session, _ *Tasks) error {
		_, err := session.Register(ctx, "same@example.com", "pw", "A")
		return err
	}))

	// the same email is free in another client's storage
	require.NoError(t, b.Do(ctx, func(session *Session, _ *Tasks) error {
		_, err := session.Register(ctx, "same@example.com", "pw", "B")
		return err
	}))

	assert.True(t, isAuthenticated(t, a))
	assert.True(t, isAuthenticated(t, b))
	assert.Equal(t, 4, base.Len())
}

func TestWorkspaces_MalformedSessionStartsSignedOut(t *testing.T) {
	ctx := context.Background()
	base := memory.New()
	id := uuid.New()

	require.NoError(t, storage.ForClient(base, id).Set(ctx, model.CurrentUserKey, []byte("garbage")))

	w := newTestWorkspaces(t, base, 8)
	ws, err := w.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, isAuthenticated(t, ws))

	require.NoError(t, ws.Do(ctx, func(session *Session, _ *Tasks) error {
		assert.ErrorIs(t, session.LastError(), model.ErrLoadFailure)
		return nil
	}))
}

func TestWorkspaces_StorageFailureIsNotCached(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	base := mocks.NewLocalStorage(t)
	base.On("Get", mock.Anything, storage.ClientPrefix(id)+model.CurrentUserKey).
		Return(nil, errors.New("connection refused")).Once()

	w := newTestWorkspaces(t, base, 8)

	_, err := w.Get(ctx, id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Zero(t, w.Len())
}

func TestWorkspace_Notifications(t *testing.T) {
	ctx := context.Background()
	w := newTestWorkspaces(t, memory.New(), 8)

	ws, err := w.Get(ctx, uuid.New())
	require.NoError(t, err)

	require.NoError(t, ws.Do(ctx, func(session *Session, _ *Tasks) error {
		_, err := session.Register(ctx, "n@example.com", "pw", "N")
		return err
	}))

	notes := ws.Notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, msgRegistered, notes[0].Message)
	assert.Empty(t, ws.Notifications())
}

func TestNewWorkspaces_InvalidSize(t *testing.T) {
	_, err := NewWorkspaces(memory.New(), testHasher, testutil.MakeNoopLogger(), 0)
	require.Error(t, err)
}
