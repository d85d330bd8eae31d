// Package memory provides an in-process kv.Store. Values do not survive a
// restart.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/germanamz/tasksolver/pkg/kv"
)

// Store is a thread-safe in-memory kv.Store. The zero value is ready to use.
type Store struct {
	mu   sync.RWMutex
	once sync.Once
	data map[string]string
}

var _ kv.Store = (*Store)(nil)

// New creates an empty Store.
func New() *Store { return &Store{} }

func (s *Store) init() {
	s.once.Do(func() {
		s.data = make(map[string]string)
	})
}

// Get returns the value for key or kv.ErrNotFound.
func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.init()
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return "", kv.ErrNotFound
	}
	return v, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(_ context.Context, key, value string) error {
	s.init()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return nil
}

// Delete removes key or returns kv.ErrNotFound.
func (s *Store) Delete(_ context.Context, key string) error {
	s.init()
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[key]; !ok {
		return kv.ErrNotFound
	}
	delete(s.data, key)
	return nil
}

// Keys returns all keys in sorted order.
func (s *Store) Keys() []string {
	s.init()
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
