// Package bolt provides a kv.Store backed by a bbolt database file.
package bolt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/germanamz/tasksolver/pkg/kv"
	bolt "go.etcd.io/bbolt"
)

var bucket = []byte("kv")

// Store is a kv.Store in a single bbolt bucket.
type Store struct {
	db *bolt.DB
}

var _ kv.Store = (*Store)(nil)

// Open opens or creates the database at path. The parent directory is
// created when missing. Open fails after a second if another process holds
// the file lock.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("bolt: create directory: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("bolt: open %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bolt: create bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Get returns the value for key or kv.ErrNotFound.
func (s *Store) Get(_ context.Context, key string) (string, error) {
	var (
		value string
		found bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucket).Get([]byte(key)); v != nil {
			value, found = string(v), true
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("bolt: get: %w", err)
	}
	if !found {
		return "", kv.ErrNotFound
	}
	return value, nil
}

// Set stores value under key.
func (s *Store) Set(_ context.Context, key, value string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("bolt: set: %w", err)
	}
	return nil
}

// Delete removes key or returns kv.ErrNotFound.
func (s *Store) Delete(_ context.Context, key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b.Get([]byte(key)) == nil {
			return kv.ErrNotFound
		}
		return b.Delete([]byte(key))
	})
}

// Close releases the database file.
func (s *Store) Close() error { return s.db.Close() }
