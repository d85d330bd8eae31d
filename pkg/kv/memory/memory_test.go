package memory_test

import (
	"context"
	"testing"

	"github.com/germanamz/tasksolver/pkg/kv"
	"github.com/germanamz/tasksolver/pkg/kv/kvtest"
	"github.com/germanamz/tasksolver/pkg/kv/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	kvtest.Run(t, func(*testing.T) kv.Store { return memory.New() })
}

func TestStore_ZeroValue(t *testing.T) {
	var s memory.Store

	require.NoError(t, s.Set(context.Background(), "a", "1"))
	got, err := s.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "1", got)
}

func TestStore_Keys(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "b", "2"))
	require.NoError(t, s.Set(ctx, "a", "1"))

	assert.Equal(t, []string{"a", "b"}, s.Keys())
}
