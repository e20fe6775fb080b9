package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/taskboard-server/internal/mocks"
	"github.com/dtroode/taskboard-server/internal/model"
	"github.com/dtroode/taskboard-server/internal/storage/memory"
	"github.com/dtroode/taskboard-server/internal/testutil"
)

var testHasher = BcryptHasher{Cost: bcrypt.MinCost}

func newTestSession(t *testing.T, storage model.LocalStorage) (*Session, *Notifications) {
	t.Helper()

	n := NewNotifications()
	return NewSession(NewCredentials(storage), testHasher, n, testutil.MakeNoopLogger()), n
}

func TestSession_Register(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	s, n := newTestSession(t, store)

	user, err := s.Register(ctx, "alice@example.com", "secret", "Alice")
	require.NoError(t, err)

	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "Alice", user.DisplayName)
	assert.NoError(t, s.LastError())

	id, err := uuid.Parse(user.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())

	current, ok := s.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, user, current)

	raw, err := store.Get(ctx, "alice@example.com")
	require.NoError(t, err)
	var credential model.Credential
	require.NoError(t, json.Unmarshal(raw, &credential))
	assert.Equal(t, user.ID, credential.UserID)
	assert.NotEqual(t, []byte("secret"), credential.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword(credential.PasswordHash, []byte("secret")))

	raw, err = store.Get(ctx, model.CurrentUserKey)
	require.NoError(t, err)
	var persisted model.User
	require.NoError(t, json.Unmarshal(raw, &persisted))
	assert.Equal(t, user, persisted)

	notes := n.Drain()
	require.Len(t, notes, 1)
	assert.Equal(t, model.NotificationSuccess, notes[0].Level)
	assert.Equal(t, msgRegistered, notes[0].Message)
}

func TestSession_Register_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s, n := newTestSession(t, memory.New())

	first, err := s.Register(ctx, "bob@example.com", "one", "Bob")
	require.NoError(t, err)
	n.Drain()

	_, err = s.Register(ctx, "bob@example.com", "two", "Robert")
	require.ErrorIs(t, err, model.ErrDuplicateEmail)
	assert.ErrorIs(t, s.LastError(), model.ErrDuplicateEmail)

	assert.True(t, s.IsAuthenticated())
	current, _ := s.CurrentUser()
	assert.Equal(t, first, current)

	notes := n.Drain()
	require.Len(t, notes, 1)
	assert.Equal(t, model.NotificationError, notes[0].Level)
	assert.Equal(t, "This email is already in use", notes[0].Message)
}

func TestSession_Register_DisplayNameFallback(t *testing.T) {
	s, _ := newTestSession(t, memory.New())

	user, err := s.Register(context.Background(), "carol@example.com", "pw", "   ")
	require.NoError(t, err)
	assert.Equal(t, "carol", user.DisplayName)
}

func TestSession_Register_InvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "empty email", email: "", password: "pw"},
		{name: "empty password", email: "dave@example.com", password: ""},
		{name: "malformed email", email: "not-an-email", password: "pw"},
		{name: "password too long", email: "dave@example.com", password: string(make([]byte, 73))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, n := newTestSession(t, memory.New())

			_, err := s.Register(context.Background(), tt.email, tt.password, "Dave")
			require.ErrorIs(t, err, model.ErrInvalidArgument)
			assert.False(t, s.IsAuthenticated())
			assert.Equal(t, 1, n.Len())
		})
	}
}

func TestSession_Register_StorageFailure(t *testing.T) {
	storage := mocks.NewLocalStorage(t)
	storage.On("Exists", mock.Anything, "erin@example.com").Return(false, errors.New("disk gone"))

	s, n := newTestSession(t, storage)

	_, err := s.Register(context.Background(), "erin@example.com", "pw", "Erin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
	assert.False(t, s.IsAuthenticated())
	assert.Equal(t, err, s.LastError())

	notes := n.Drain()
	require.Len(t, notes, 1)
	assert.Equal(t, model.NotificationError, notes[0].Level)
}

func TestSession_Login(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	registrar, _ := newTestSession(t, store)
	registered, err := registrar.Register(ctx, "frank@example.com", "correct", "Franklin")
	require.NoError(t, err)
	registrar.Logout(ctx)

	t.Run("wrong password", func(t *testing.T) {
		s, n := newTestSession(t, store)

		_, err := s.Login(ctx, "frank@example.com", "wrong")
		require.ErrorIs(t, err, model.ErrInvalidCredentials)
		assert.False(t, s.IsAuthenticated())

		notes := n.Drain()
		require.Len(t, notes, 1)
		assert.Equal(t, "Invalid email or password", notes[0].Message)
	})

	t.Run("unknown email", func(t *testing.T) {
		s, _ := newTestSession(t, store)

		_, err := s.Login(ctx, "nobody@example.com", "correct")
		require.ErrorIs(t, err, model.ErrInvalidCredentials)
		assert.ErrorIs(t, s.LastError(), model.ErrInvalidCredentials)
	})

	t.Run("correct password", func(t *testing.T) {
		s, n := newTestSession(t, store)

		user, err := s.Login(ctx, "frank@example.com", "correct")
		require.NoError(t, err)
		assert.True(t, s.IsAuthenticated())
		assert.Equal(t, registered.ID, user.ID)
		assert.Equal(t, "frank", user.DisplayName)

		notes := n.Drain()
		require.Len(t, notes, 1)
		assert.Equal(t, msgLoggedIn, notes[0].Message)
	})
}

func TestSession_Logout(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	s, n := newTestSession(t, store)

	_, err := s.Register(ctx, "gina@example.com", "pw", "Gina")
	require.NoError(t, err)
	n.Drain()

	s.Logout(ctx)

	assert.False(t, s.IsAuthenticated())
	assert.NoError(t, s.LastError())

	ok, err := store.Exists(ctx, model.CurrentUserKey)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.Exists(ctx, "gina@example.com")
	require.NoError(t, err)
	assert.True(t, ok, "credential entry survives logout")

	notes := n.Drain()
	require.Len(t, notes, 1)
	assert.Equal(t, model.NotificationInfo, notes[0].Level)
	assert.Equal(t, msgLoggedOut, notes[0].Message)
}

func TestSession_Logout_StorageFailure(t *testing.T) {
	ctx := context.Background()
	storage := mocks.NewLocalStorage(t)
	storage.On("Get", mock.Anything, model.CurrentUserKey).
		Return([]byte(`{"id":"u1","email":"h@example.com","displayName":"h"}`), nil)
	storage.On("Delete", mock.Anything, model.CurrentUserKey).Return(errors.New("read-only"))

	s, n := newTestSession(t, storage)
	require.NoError(t, s.InitSession(ctx))
	require.True(t, s.IsAuthenticated())

	s.Logout(ctx)

	assert.False(t, s.IsAuthenticated())
	require.Error(t, s.LastError())
	assert.Contains(t, s.LastError().Error(), "read-only")

	notes := n.Drain()
	require.Len(t, notes, 1)
	assert.Equal(t, model.NotificationError, notes[0].Level)
	assert.Equal(t, msgLogoutFail, notes[0].Message)
}

func TestSession_InitSession(t *testing.T) {
	ctx := context.Background()

	t.Run("restores persisted user", func(t *testing.T) {
		store := memory.New()
		first, _ := newTestSession(t, store)
		user, err := first.Register(ctx, "ivan@example.com", "pw", "Ivan")
		require.NoError(t, err)

		s, n := newTestSession(t, store)
		require.NoError(t, s.InitSession(ctx))

		current, ok := s.CurrentUser()
		require.True(t, ok)
		assert.Equal(t, user, current)
		assert.Zero(t, n.Len())
	})

	t.Run("nothing persisted", func(t *testing.T) {
		s, _ := newTestSession(t, memory.New())
		require.NoError(t, s.InitSession(ctx))
		assert.False(t, s.IsAuthenticated())
	})

	t.Run("malformed record", func(t *testing.T) {
		store := memory.New()
		require.NoError(t, store.Set(ctx, model.CurrentUserKey, []byte("{not json")))

		s, _ := newTestSession(t, store)
		err := s.InitSession(ctx)
		require.ErrorIs(t, err, model.ErrLoadFailure)
		assert.ErrorIs(t, s.LastError(), model.ErrLoadFailure)
		assert.False(t, s.IsAuthenticated())
	})
}

func TestSession_Register_HashFailure(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	hasher := mocks.NewPasswordHasher(t)
	notifier := mocks.NewNotifier(t)

	hasher.On("Hash", "secret").Return(nil, errors.New("entropy exhausted"))
	notifier.On("Notify", model.NotificationError, "Something went wrong, please try again").Once()

	s := NewSession(NewCredentials(store), hasher, notifier, testutil.MakeNoopLogger())

	_, err := s.Register(ctx, "alice@example.com", "secret", "")
	require.Error(t, err)
	assert.False(t, s.IsAuthenticated())

	exists, err := store.Exists(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSession_Login_WrongPassword(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	registered, _ := newTestSession(t, store)
	_, err := registered.Register(ctx, "alice@example.com", "secret", "")
	require.NoError(t, err)

	hasher := mocks.NewPasswordHasher(t)
	notifier := mocks.NewNotifier(t)
	hasher.On("Compare", mock.AnythingOfType("[]uint8"), "wrong").Return(model.ErrInvalidCredentials)
	notifier.On("Notify", model.NotificationError, "Invalid email or password").Once()

	s := NewSession(NewCredentials(store), hasher, notifier, testutil.MakeNoopLogger())

	_, err = s.Login(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
	assert.False(t, s.IsAuthenticated())
}
