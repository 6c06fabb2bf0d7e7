package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("llm.provider", "openai"))

	val, ok := store.Get("llm.provider")
	assert.True(t, ok)
	assert.Equal(t, "openai", val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_Seeded(t *testing.T) {
	seed := map[string]any{"retrieval.top_k": int64(8)}
	store := NewConfigStore(seed, map[string]any{"answer.mismatch_policy": "accept"})

	topK, ok := store.Get("retrieval.top_k")
	require.True(t, ok)
	assert.Equal(t, int64(8), topK)

	// The seed map is copied.
	seed["retrieval.top_k"] = int64(1)
	topK, _ = store.Get("retrieval.top_k")
	assert.Equal(t, int64(8), topK)

	policy, _ := store.Get("answer.mismatch_policy")
	assert.Equal(t, "accept", policy)
}

func TestConfigStore_SaveCounts(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Save())
	require.NoError(t, store.Save())

	assert.Equal(t, 2, store.Saves())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = store.Set(fmt.Sprintf("key.%d", i), i)
		}(i)
		go func(i int) {
			defer wg.Done()
			_, _ = store.Get(fmt.Sprintf("key.%d", i))
		}(i)
	}
	wg.Wait()

	for i := range 50 {
		v, ok := store.Get(fmt.Sprintf("key.%d", i))
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
}
