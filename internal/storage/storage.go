// Package storage opens the configured local storage backend and scopes it
// to individual clients.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/dtroode/taskboard-server/internal/config"
	"github.com/dtroode/taskboard-server/internal/model"
	"github.com/dtroode/taskboard-server/internal/storage/file"
	"github.com/dtroode/taskboard-server/internal/storage/memory"
	"github.com/dtroode/taskboard-server/internal/storage/minio"
	"github.com/dtroode/taskboard-server/internal/storage/redis"
	"github.com/dtroode/taskboard-server/internal/storage/sqlstore"
)

// Backend is a shared store that must be closed on shutdown.
type Backend interface {
	model.LocalStorage
	io.Closer
}

// Open creates the backend selected by cfg.Storage.Driver.
func Open(ctx context.Context, cfg *config.Config) (Backend, error) {
	var (
		backend Backend
		err     error
	)

	switch cfg.Storage.Driver {
	case config.DriverMemory:
		backend = memory.New()
	case config.DriverFile:
		backend, err = openFile(cfg)
	case config.DriverPostgres:
		backend, err = openSQL(ctx, sqlstore.Postgres, cfg.Database.DSN)
	case config.DriverSQLite:
		backend, err = openSQL(ctx, sqlstore.SQLite, cfg.SQLite.Path)
	case config.DriverRedis:
		backend, err = openRedis(ctx, cfg)
	case config.DriverMinio:
		backend, err = openMinio(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Driver, err)
	}

	return backend, nil
}

func openFile(cfg *config.Config) (Backend, error) {
	s, err := file.New(cfg.Storage.FileDir)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func openSQL(ctx context.Context, dialect sqlstore.Dialect, dsn string) (Backend, error) {
	s, err := sqlstore.Open(ctx, dialect, dsn)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func openRedis(ctx context.Context, cfg *config.Config) (Backend, error) {
	s, err := redis.Open(ctx, redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Prefix:   cfg.Redis.KeyPrefix,
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func openMinio(ctx context.Context, cfg *config.Config) (Backend, error) {
	client, err := miniogo.New(cfg.Minio.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.Minio.AccessKey, cfg.Minio.SecretKey, ""),
		Secure: cfg.Minio.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	s, err := minio.NewStore(ctx, client, cfg.Minio.Bucket)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Namespaced prefixes every key before delegating to the wrapped store.
type Namespaced struct {
	base   model.LocalStorage
	prefix string
}

var _ model.LocalStorage = (*Namespaced)(nil)

// NewNamespaced wraps base so that all keys live under prefix.
func NewNamespaced(base model.LocalStorage, prefix string) *Namespaced {
	return &Namespaced{base: base, prefix: prefix}
}

// ForClient returns the storage a single client sees.
func ForClient(base model.LocalStorage, clientID uuid.UUID) *Namespaced {
	return NewNamespaced(base, ClientPrefix(clientID))
}

// ClientPrefix is the key prefix owned by one client.
func ClientPrefix(clientID uuid.UUID) string {
	return "clients/" + clientID.String() + "/"
}

func (n *Namespaced) Get(ctx context.Context, key string) ([]byte, error) {
	return n.base.Get(ctx, n.prefix+key)
}

func (n *Namespaced) Set(ctx context.Context, key string, value []byte) error {
	return n.base.Set(ctx, n.prefix+key, value)
}

func (n *Namespaced) Delete(ctx context.Context, key string) error {
	return n.base.Delete(ctx, n.prefix+key)
}

func (n *Namespaced) Exists(ctx context.Context, key string) (bool, error) {
	return n.base.Exists(ctx, n.prefix+key)
}
