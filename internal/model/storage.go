package model

import "context"

// LocalStorage is a string-keyed byte store scoped to one client.
// Get returns ErrNotFound for missing keys; Delete of a missing key succeeds.
type LocalStorage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
