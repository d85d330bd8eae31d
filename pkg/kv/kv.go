// Package kv defines the string key-value store behind the relay's
// credential storage. Backends live in the memory, bolt and sqlite
// subpackages.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get and Delete for a missing key.
var ErrNotFound = errors.New("kv: key not found")

// Store is a persistent string key-value store. Implementations are safe for
// concurrent use.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}
