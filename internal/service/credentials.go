package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dtroode/taskboard-server/internal/model"
)

var _ model.CredentialStore = (*Credentials)(nil)

// Credentials keeps credential entries under the user's email and the
// signed-in user under model.CurrentUserKey.
type Credentials struct {
	storage model.LocalStorage
}

func NewCredentials(storage model.LocalStorage) *Credentials {
	return &Credentials{storage: storage}
}

func (c *Credentials) Exists(ctx context.Context, email string) (bool, error) {
	ok, err := c.storage.Exists(ctx, email)
	if err != nil {
		return false, fmt.Errorf("failed to check credential: %w", err)
	}
	return ok, nil
}

func (c *Credentials) Lookup(ctx context.Context, email string) (model.Credential, error) {
	data, err := c.storage.Get(ctx, email)
	if err != nil {
		return model.Credential{}, fmt.Errorf("failed to get credential: %w", err)
	}

	var credential model.Credential
	if err := json.Unmarshal(data, &credential); err != nil {
		return model.Credential{}, fmt.Errorf("%w: credential for %s: %v", model.ErrLoadFailure, email, err)
	}

	return credential, nil
}

func (c *Credentials) Put(ctx context.Context, email string, credential model.Credential) error {
	data, err := json.Marshal(credential)
	if err != nil {
		return fmt.Errorf("failed to marshal credential: %w", err)
	}

	if err := c.storage.Set(ctx, email, data); err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}

	return nil
}

func (c *Credentials) CurrentUser(ctx context.Context) (model.User, error) {
	data, err := c.storage.Get(ctx, model.CurrentUserKey)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get current user: %w", err)
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return model.User{}, fmt.Errorf("%w: current user: %v", model.ErrLoadFailure, err)
	}
	if user.ID == "" {
		return model.User{}, fmt.Errorf("%w: current user has no id", model.ErrLoadFailure)
	}

	return user, nil
}

func (c *Credentials) SetCurrentUser(ctx context.Context, user model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	if err := c.storage.Set(ctx, model.CurrentUserKey, data); err != nil {
		return fmt.Errorf("failed to save current user: %w", err)
	}

	return nil
}

func (c *Credentials) ClearCurrentUser(ctx context.Context) error {
	if err := c.storage.Delete(ctx, model.CurrentUserKey); err != nil {
		return fmt.Errorf("failed to clear current user: %w", err)
	}
	return nil
}
