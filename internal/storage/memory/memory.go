package memory

import (
	"bytes"
	"context"
	"sync"

	"github.com/dtroode/taskboard-server/internal/model"
)

var _ model.LocalStorage = (*Store)(nil)

// Store keeps values in process memory.
type Store struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// New creates an empty Store.
func New() *Store {
	return &Store{items: make(map[string][]byte)}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.items[key]
	if !ok {
		return nil, model.ErrNotFound
	}

	return bytes.Clone(value), nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = bytes.Clone(value)

	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, key)

	return nil
}

func (s *Store) Exists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.items[key]

	return ok, nil
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}

func (s *Store) Close() error {
	return nil
}
