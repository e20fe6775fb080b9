package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	emailaddress "github.com/mcnijman/go-emailaddress"

	"github.com/dtroode/taskboard-server/internal/logger"
	"github.com/dtroode/taskboard-server/internal/model"
)

const (
	msgRegistered = "Account created successfully!"
	msgLoggedIn   = "Logged in successfully!"
	msgLoggedOut  = "Logged out successfully"
	msgLogoutFail = "Failed to log out"
)

// Session tracks the signed-in user of one client. It is not safe for
// concurrent use; Workspace serialises access.
type Session struct {
	credentials model.CredentialStore
	hasher      model.PasswordHasher
	notifier    model.Notifier
	logger      *logger.Logger

	now   func() time.Time
	newID func() (uuid.UUID, error)

	user    *model.User
	lastErr error
}

func NewSession(
	credentials model.CredentialStore,
	hasher model.PasswordHasher,
	notifier model.Notifier,
	logger *logger.Logger,
) *Session {
	return &Session{
		credentials: credentials,
		hasher:      hasher,
		notifier:    notifier,
		logger:      logger,
		now:         time.Now,
		newID:       uuid.NewV7,
	}
}

// Register creates a credential entry for email and signs the new user in.
func (s *Session) Register(ctx context.Context, email, password, displayName string) (model.User, error) {
	s.lastErr = nil

	addr, err := parseCredentials(email, password)
	if err != nil {
		return model.User{}, s.fail(err, userMessage(err))
	}
	email = addr.String()

	s.logger.Debug("Session service: registering user", "email", email)

	exists, err := s.credentials.Exists(ctx, email)
	if err != nil {
		s.logger.Error("Session service: failed to check credential",
			"email", email,
			"error", err.Error())
		return model.User{}, s.fail(err, userMessage(err))
	}
	if exists {
		s.logger.Info("Session service: email already in use", "email", email)
		return model.User{}, s.fail(model.ErrDuplicateEmail, userMessage(model.ErrDuplicateEmail))
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error("Session service: failed to hash password", "error", err.Error())
		return model.User{}, s.fail(err, userMessage(err))
	}

	id, err := s.newID()
	if err != nil {
		return model.User{}, s.fail(fmt.Errorf("failed to generate user id: %w", err), userMessage(err))
	}

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = addr.LocalPart
	}

	user := model.User{
		ID:          id.String(),
		Email:       email,
		DisplayName: displayName,
	}

	err = s.credentials.Put(ctx, email, model.Credential{
		UserID:       user.ID,
		DisplayName:  user.DisplayName,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		s.logger.Error("Session service: failed to save credential",
			"email", email,
			"error", err.Error())
		return model.User{}, s.fail(err, userMessage(err))
	}

	if err := s.setUser(ctx, user); err != nil {
		return model.User{}, s.fail(err, userMessage(err))
	}

	s.logger.Info("Session service: user registered", "user_id", user.ID)
	s.notifier.Notify(model.NotificationSuccess, msgRegistered)

	return user, nil
}

// Login signs in the user registered under email.
func (s *Session) Login(ctx context.Context, email, password string) (model.User, error) {
	s.lastErr = nil

	addr, err := parseCredentials(email, password)
	if err != nil {
		return model.User{}, s.fail(err, userMessage(err))
	}
	email = addr.String()

	s.logger.Debug("Session service: logging in", "email", email)

	credential, err := s.credentials.Lookup(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			s.logger.Info("Session service: unknown email", "email", email)
			return model.User{}, s.fail(model.ErrInvalidCredentials, userMessage(model.ErrInvalidCredentials))
		}
		s.logger.Error("Session service: failed to get credential",
			"email", email,
			"error", err.Error())
		return model.User{}, s.fail(err, userMessage(err))
	}

	if err := s.hasher.Compare(credential.PasswordHash, password); err != nil {
		if !errors.Is(err, model.ErrInvalidCredentials) {
			s.logger.Error("Session service: failed to verify password", "error", err.Error())
		}
		return model.User{}, s.fail(err, userMessage(err))
	}

	user := model.User{
		ID:          credential.UserID,
		Email:       email,
		DisplayName: addr.LocalPart,
	}

	if err := s.setUser(ctx, user); err != nil {
		return model.User{}, s.fail(err, userMessage(err))
	}

	s.logger.Info("Session service: user logged in", "user_id", user.ID)
	s.notifier.Notify(model.NotificationSuccess, msgLoggedIn)

	return user, nil
}

// Logout forgets the current user. Storage failures are recorded in
// LastError but the in-memory session is cleared regardless.
func (s *Session) Logout(ctx context.Context) {
	s.lastErr = nil
	s.user = nil

	if err := s.credentials.ClearCurrentUser(ctx); err != nil {
		s.logger.Error("Session service: failed to clear current user", "error", err.Error())
		_ = s.fail(err, msgLogoutFail)
		return
	}

	s.logger.Info("Session service: user logged out")
	s.notifier.Notify(model.NotificationInfo, msgLoggedOut)
}

// InitSession restores the persisted current user, if any.
func (s *Session) InitSession(ctx context.Context) error {
	s.lastErr = nil
	s.user = nil

	user, err := s.credentials.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil
		}
		s.lastErr = err
		return err
	}

	s.user = &user
	return nil
}

func (s *Session) IsAuthenticated() bool {
	return s.user != nil
}

// CurrentUser returns the signed-in user and whether there is one.
func (s *Session) CurrentUser() (model.User, bool) {
	if s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

// LastError returns the error recorded by the most recent operation.
func (s *Session) LastError() error {
	return s.lastErr
}

func (s *Session) setUser(ctx context.Context, user model.User) error {
	if err := s.credentials.SetCurrentUser(ctx, user); err != nil {
		s.logger.Error("Session service: failed to save current user",
			"user_id", user.ID,
			"error", err.Error())
		return err
	}
	s.user = &user
	return nil
}

func (s *Session) fail(err error, message string) error {
	s.lastErr = err
	s.notifier.Notify(model.NotificationError, message)
	return err
}

func parseCredentials(email, password string) (*emailaddress.EmailAddress, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", model.ErrInvalidArgument)
	}
	if len(password) > maxPasswordBytes {
		return nil, fmt.Errorf("%w: password is longer than %d bytes", model.ErrInvalidArgument, maxPasswordBytes)
	}

	addr, err := emailaddress.Parse(email)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a valid email", model.ErrInvalidArgument, email)
	}

	return addr, nil
}

// userMessage turns an error into a notification text.
func userMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrDuplicateEmail):
		return "This email is already in use"
	case errors.Is(err, model.ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, model.ErrInvalidArgument):
		return "Please enter a valid email and password"
	case errors.Is(err, model.ErrLoadFailure):
		return "Saved data could not be read"
	default:
		return "Something went wrong, please try again"
	}
}
