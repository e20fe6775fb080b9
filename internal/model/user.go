package model

import (
	"context"
	"time"
)

// CurrentUserKey is the storage key holding the signed-in user.
const CurrentUserKey = "user"

// User is the signed-in identity of a client.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

// Credential is the entry stored under a user's email at registration.
type Credential struct {
	UserID       string    `json:"userId"`
	DisplayName  string    `json:"displayName"`
	PasswordHash []byte    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CredentialStore persists credentials and the current-user record.
type CredentialStore interface {
	Exists(ctx context.Context, email string) (bool, error)
	Lookup(ctx context.Context, email string) (Credential, error)
	Put(ctx context.Context, email string, credential Credential) error
	CurrentUser(ctx context.Context) (User, error)
	SetCurrentUser(ctx context.Context, user User) error
	ClearCurrentUser(ctx context.Context) error
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) ([]byte, error)
	Compare(hash []byte, password string) error
}
