// Package kvtest holds the behavior every kv.Store backend must share.
package kvtest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/germanamz/tasksolver/pkg/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises a fresh store from newStore against the kv.Store contract.
func Run(t *testing.T, newStore func(t *testing.T) kv.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(ctx, "nope")
		assert.ErrorIs(t, err, kv.ErrNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, "k", "v1"))

		got, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "v1", got)
	})

	t.Run("overwrite", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, "k", "v1"))
		require.NoError(t, s.Set(ctx, "k", "v2"))

		got, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "v2", got)
	})

	t.Run("empty value", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, "k", ""))

		got, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("delete", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, "k", "v"))
		require.NoError(t, s.Delete(ctx, "k"))

		_, err := s.Get(ctx, "k")
		assert.ErrorIs(t, err, kv.ErrNotFound)
		assert.ErrorIs(t, s.Delete(ctx, "k"), kv.ErrNotFound)
	})

	t.Run("concurrent writers", func(t *testing.T) {
		s := newStore(t)

		var wg sync.WaitGroup
		for i := range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, s.Set(ctx, fmt.Sprintf("k%d", i), "v"))
			}()
		}
		wg.Wait()

		for i := range 8 {
			_, err := s.Get(ctx, fmt.Sprintf("k%d", i))
			assert.NoError(t, err)
		}
	})
}
