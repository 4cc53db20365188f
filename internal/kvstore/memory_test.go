package kvstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySetGetDelete(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	_, exists, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.Set(ctx, "k", "v", 0))
	value, exists, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, "v", value)

	require.NoError(t, store.Set(ctx, "k", "v2", 0))
	value, _, _ = store.Get(ctx, "k")
	assert.Equal(t, "v2", value)

	require.NoError(t, store.Delete(ctx, "k"))
	_, exists, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)

	// Deleting a missing key is fine
	require.NoError(t, store.Delete(ctx, "k"))
}

func TestMemoryTTL(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	current := time.Now()
	store.SetClock(func() time.Time { return current })

	require.NoError(t, store.Set(ctx, "ephemeral", "v", 10*time.Minute))
	require.NoError(t, store.Set(ctx, "durable", "v", 0))

	_, exists, _ := store.Get(ctx, "ephemeral")
	assert.True(t, exists)

	current = current.Add(11 * time.Minute)

	_, exists, _ = store.Get(ctx, "ephemeral")
	assert.False(t, exists, "entry past its deadline must read as absent")
	_, exists, _ = store.Get(ctx, "durable")
	assert.True(t, exists, "zero TTL never expires")
}

func TestMemorySweep(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	current := time.Now()
	store.SetClock(func() time.Time { return current })

	require.NoError(t, store.Set(ctx, "a", "v", time.Minute))
	require.NoError(t, store.Set(ctx, "b", "v", time.Hour))
	require.NoError(t, store.Set(ctx, "c", "v", 0))
	assert.Equal(t, 3, store.Len())

	current = current.Add(2 * time.Minute)
	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 2, store.Len())
}
