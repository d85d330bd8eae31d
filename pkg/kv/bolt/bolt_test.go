package bolt_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/germanamz/tasksolver/pkg/kv"
	"github.com/germanamz/tasksolver/pkg/kv/bolt"
	"github.com/germanamz/tasksolver/pkg/kv/kvtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func open(t *testing.T, path string) *bolt.Store {
	t.Helper()

	s, err := bolt.Open(path)
	require.NoError(t, err)

	return s
}

func TestStore(t *testing.T) {
	kvtest.Run(t, func(t *testing.T) kv.Store {
		s := open(t, filepath.Join(t.TempDir(), "kv.db"))
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "kv.db")
	ctx := context.Background()

	s := open(t, path)
	require.NoError(t, s.Set(ctx, "openrouter_api_key_global", "sk-or-1"))
	require.NoError(t, s.Close())

	s = open(t, path)
	defer func() { _ = s.Close() }()

	got, err := s.Get(ctx, "openrouter_api_key_global")
	require.NoError(t, err)
	assert.Equal(t, "sk-or-1", got)
}
