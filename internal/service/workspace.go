package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/dtroode/taskboard-server/internal/logger"
	"github.com/dtroode/taskboard-server/internal/model"
	"github.com/dtroode/taskboard-server/internal/storage"
)

// clientLock serialises every workspace built for the same client, including
// one still in use after it was evicted from the cache.
type clientLock struct {
	mu sync.Mutex
	// owner is the workspace whose in-memory state matches storage.
	owner *Workspace
}

// Workspace bundles the session, task store and notification queue of one
// client. Operations run one at a time.
type Workspace struct {
	lock *clientLock

	clientID      uuid.UUID
	session       *Session
	tasks         *Tasks
	notifications *Notifications
	logger        *logger.Logger
}

// NewWorkspace wires a workspace over the client's own storage.
func NewWorkspace(clientID uuid.UUID, storage model.LocalStorage, hasher model.PasswordHasher, logger *logger.Logger) *Workspace {
	return newWorkspace(&clientLock{}, clientID, storage, hasher, logger)
}

func newWorkspace(lock *clientLock, clientID uuid.UUID, storage model.LocalStorage, hasher model.PasswordHasher, logger *logger.Logger) *Workspace {
	notifications := NewNotifications()
	log := logger.With("client_id", clientID.String())
	session := NewSession(NewCredentials(storage), hasher, notifications, log)

	return &Workspace{
		lock:          lock,
		clientID:      clientID,
		session:       session,
		tasks:         NewTasks(storage, session, notifications, log),
		notifications: notifications,
		logger:        log,
	}
}

func (w *Workspace) ClientID() uuid.UUID {
	return w.clientID
}

// Do runs fn with exclusive access to the session and task store. When
// another workspace of the same client ran since this one last did, the
// session and tasks are reloaded from storage first.
func (w *Workspace) Do(ctx context.Context, fn func(session *Session, tasks *Tasks) error) error {
	w.lock.mu.Lock()
	defer w.lock.mu.Unlock()

	if w.lock.owner != w {
		if err := w.refresh(ctx); err != nil {
			if !errors.Is(err, model.ErrLoadFailure) {
				return err
			}
			w.logger.Warn("Workspace: stored session is malformed, continuing signed out",
				"error", err.Error())
		}
	}

	return fn(w.session, w.tasks)
}

// IsAuthenticated reports whether the client has a signed-in user.
func (w *Workspace) IsAuthenticated(ctx context.Context) (bool, error) {
	var authenticated bool
	err := w.Do(ctx, func(session *Session, _ *Tasks) error {
		authenticated = session.IsAuthenticated()
		return nil
	})
	return authenticated, err
}

// Notifications returns and clears the pending notifications.
func (w *Workspace) Notifications() []model.Notification {
	return w.notifications.Drain()
}

// init restores the persisted session and loads its tasks.
func (w *Workspace) init(ctx context.Context) error {
	w.lock.mu.Lock()
	defer w.lock.mu.Unlock()

	return w.refresh(ctx)
}

// refresh reloads the session and its tasks. A malformed session still
// leaves the workspace loaded, signed out.
func (w *Workspace) refresh(ctx context.Context) error {
	err := w.session.InitSession(ctx)
	if err != nil && !errors.Is(err, model.ErrLoadFailure) {
		return err
	}

	w.tasks.FetchTasks(ctx)
	w.lock.owner = w

	return err
}

// Workspaces keeps the most recently used workspaces in memory. An evicted
// workspace is rebuilt from storage on its next use.
type Workspaces struct {
	storage model.LocalStorage
	hasher  model.PasswordHasher
	logger  *logger.Logger

	cache *lru.Cache[uuid.UUID, *Workspace]
	group singleflight.Group
	locks [256]clientLock
}

func NewWorkspaces(storage model.LocalStorage, hasher model.PasswordHasher, logger *logger.Logger, size int) (*Workspaces, error) {
	cache, err := lru.New[uuid.UUID, *Workspace](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace cache: %w", err)
	}

	return &Workspaces{
		storage: storage,
		hasher:  hasher,
		logger:  logger,
		cache:   cache,
	}, nil
}

// Get returns the workspace of clientID, loading it from storage on first
// use. Concurrent first calls share a single load.
func (w *Workspaces) Get(ctx context.Context, clientID uuid.UUID) (*Workspace, error) {
	if ws, ok := w.cache.Get(clientID); ok {
		return ws, nil
	}

	// the load outlives a caller that gives up
	loadCtx := context.WithoutCancel(ctx)

	v, err, _ := w.group.Do(clientID.String(), func() (any, error) {
		if ws, ok := w.cache.Get(clientID); ok {
			return ws, nil
		}

		ws := newWorkspace(w.lockFor(clientID), clientID, storage.ForClient(w.storage, clientID), w.hasher, w.logger)

		if err := ws.init(loadCtx); err != nil {
			if !errors.Is(err, model.ErrLoadFailure) {
				w.logger.Error("Workspaces: failed to initialize session",
					"client_id", clientID.String(),
					"error", err.Error())
				return nil, fmt.Errorf("failed to initialize session: %w", err)
			}
			w.logger.Warn("Workspaces: stored session is malformed, starting signed out",
				"client_id", clientID.String(),
				"error", err.Error())
		}

		w.cache.Add(clientID, ws)
		w.logger.Debug("Workspaces: workspace loaded", "client_id", clientID.String())

		return ws, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*Workspace), nil
}

// IsAuthenticated reports whether clientID has a signed-in user.
func (w *Workspaces) IsAuthenticated(ctx context.Context, clientID uuid.UUID) (bool, error) {
	ws, err := w.Get(ctx, clientID)
	if err != nil {
		return false, err
	}
	return ws.IsAuthenticated(ctx)
}

// lockFor returns the lock shared by every workspace of clientID. Clients
// are spread over the locks by the last byte of their id.
func (w *Workspaces) lockFor(clientID uuid.UUID) *clientLock {
	return &w.locks[clientID[len(clientID)-1]]
}

// Len returns the number of cached workspaces.
func (w *Workspaces) Len() int {
	return w.cache.Len()
}
