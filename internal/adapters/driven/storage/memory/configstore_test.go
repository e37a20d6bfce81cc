package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_Empty(t *testing.T) {
	store := NewConfigStore()
	assert.Equal(t, ":memory:", store.Path())
	assert.Empty(t, store.Keys())
}

func TestConfigStore_Seeded(t *testing.T) {
	store := NewConfigStore(
		map[string]any{"storage.backend": "sqlite"},
		map[string]any{"analysis.chunk_size": 300, "storage.backend": "memory"},
	)

	assert.Equal(t, []string{"analysis.chunk_size", "storage.backend"}, store.Keys())
	backend, ok := store.Get("storage.backend")
	require.True(t, ok)
	assert.Equal(t, "memory", backend, "later seeds win")
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("storage.path", "/data"))
	require.NoError(t, store.Set("analysis.chunk_size", 800))

	val, ok := store.Get("storage.path")
	assert.True(t, ok)
	assert.Equal(t, "/data", val)

	val, ok = store.Get("analysis.chunk_size")
	assert.True(t, ok)
	assert.Equal(t, 800, val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_KeysSorted(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("b", 1))
	require.NoError(t, store.Set("a", 2))
	require.NoError(t, store.Set("b", 3))
	assert.Equal(t, []string{"a", "b"}, store.Keys())
}

func TestConfigStore_ConcurrentSet(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("key", n)
			_, _ = store.Get("key")
			_ = store.Keys()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, []string{"key"}, store.Keys())
}
