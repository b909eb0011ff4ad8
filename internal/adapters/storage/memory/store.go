package memory

import (
	"context"
	"sync"
)

// Store is an in-memory ports.KeyValueStore. It backs tests and the
// degraded mode where no database is configured; preferences then survive
// the process lifetime only.
type Store struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{data: make(map[string]map[string]string)}
}

// Get returns the value for key within scope and whether it exists.
func (s *Store) Get(_ context.Context, scope, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	scoped, ok := s.data[scope]
	if !ok {
		return "", false, nil
	}
	value, ok := scoped[key]
	return value, ok, nil
}

// Set writes the value for key within scope.
func (s *Store) Set(_ context.Context, scope, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	scoped, ok := s.data[scope]
	if !ok {
		scoped = make(map[string]string)
		s.data[scope] = scoped
	}
	scoped[key] = value
	return nil
}

// Remove deletes the key within scope.
func (s *Store) Remove(_ context.Context, scope, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if scoped, ok := s.data[scope]; ok {
		delete(scoped, key)
	}
	return nil
}
