// Package credential resolves the single upstream API key used by the relay.
// A key from the environment wins over the stored one.
package credential

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/germanamz/tasksolver/pkg/kv"
	"github.com/rs/zerolog"
)

// StorageKey is the kv key holding the stored API key.
const StorageKey = "openrouter_api_key_global"

// EnvVar names the environment variable that overrides the stored key.
const EnvVar = "OPENROUTER_API_KEY"

var (
	// ErrNotFound means neither the environment nor the store has a key.
	ErrNotFound = errors.New("credential: API key not found")
	// ErrEmpty is returned by Save for a blank key.
	ErrEmpty = errors.New("credential: API key is empty")
)

// Source tells where a resolved key came from.
type Source string

const (
	SourceEnv   Source = "env"
	SourceStore Source = "store"
)

// Store resolves and persists the API key.
type Store struct {
	kv     kv.Store
	envKey string
	log    zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithEnvKey sets the environment-provided key. Blank values are ignored.
func WithEnvKey(key string) Option {
	return func(s *Store) { s.envKey = strings.TrimSpace(key) }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// New creates a Store on top of a kv backend.
func New(store kv.Store, opts ...Option) *Store {
	s := &Store{kv: store, log: zerolog.Nop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Resolve returns the key to use upstream and where it came from.
func (s *Store) Resolve(ctx context.Context) (string, Source, error) {
	if s.envKey != "" {
		s.log.Debug().Str("key", Mask(s.envKey)).Msg("using API key from environment")
		return s.envKey, SourceEnv, nil
	}

	s.log.Debug().Msg("no environment key, checking store")
	key, err := s.kv.Get(ctx, StorageKey)
	switch {
	case errors.Is(err, kv.ErrNotFound), err == nil && key == "":
		s.log.Warn().Msg("no API key in environment or store")
		return "", "", ErrNotFound
	case err != nil:
		return "", "", fmt.Errorf("credential: resolve: %w", err)
	}

	s.log.Debug().Str("key", Mask(key)).Msg("using stored API key")
	return key, SourceStore, nil
}

// Save stores key, replacing any previous one.
func (s *Store) Save(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmpty
	}
	if err := s.kv.Set(ctx, StorageKey, key); err != nil {
		return fmt.Errorf("credential: save: %w", err)
	}
	s.log.Info().Str("key", Mask(key)).Msg("API key saved")
	return nil
}

// Has reports whether a key is available from either source.
func (s *Store) Has(ctx context.Context) (bool, error) {
	_, _, err := s.Resolve(ctx)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Delete removes the stored key. A missing key is not an error.
func (s *Store) Delete(ctx context.Context) error {
	err := s.kv.Delete(ctx, StorageKey)
	if err != nil && !errors.Is(err, kv.ErrNotFound) {
		return fmt.Errorf("credential: delete: %w", err)
	}
	return nil
}

// Mask returns the first 10 characters of key followed by "...". Keys of
// 10 characters or fewer show only their first half.
func Mask(key string) string {
	const visible = 10
	if len(key) <= visible {
		return key[:len(key)/2] + "..."
	}
	return key[:visible] + "..."
}
