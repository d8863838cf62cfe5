package store_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hypehammer/auctioncore/go/internal/store"
)

type doc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMemoryStoreGetSet(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	var missing doc
	err := s.Get(ctx, "col", "a", &missing)
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Set(ctx, "col", "a", doc{Name: "first", Count: 1}))

	var got doc
	require.NoError(t, s.Get(ctx, "col", "a", &got))
	assert.Equal(t, doc{Name: "first", Count: 1}, got)

	// Overwrite replaces the document.
	require.NoError(t, s.Set(ctx, "col", "a", doc{Name: "second", Count: 2}))
	require.NoError(t, s.Get(ctx, "col", "a", &got))
	assert.Equal(t, "second", got.Name)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	original := doc{Name: "kept", Count: 1}
	require.NoError(t, s.Set(ctx, "col", "a", original))

	var first doc
	require.NoError(t, s.Get(ctx, "col", "a", &first))
	first.Name = "mutated"

	var second doc
	require.NoError(t, s.Get(ctx, "col", "a", &second))
	assert.Equal(t, "kept", second.Name)
}

func TestMemoryStoreDelete(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "col", "a", doc{Name: "x"}))
	require.NoError(t, s.Delete(ctx, "col", "a"))

	var got doc
	assert.ErrorIs(t, s.Get(ctx, "col", "a", &got), store.ErrNotFound)

	// Deleting a missing document is not an error.
	assert.NoError(t, s.Delete(ctx, "col", "a"))
	assert.NoError(t, s.Delete(ctx, "other", "a"))
}

func TestMemoryStoreList(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	docs, err := s.List(ctx, "col")
	require.NoError(t, err)
	assert.Empty(t, docs)

	require.NoError(t, s.Set(ctx, "col", "a", doc{Name: "a"}))
	require.NoError(t, s.Set(ctx, "col", "b", doc{Name: "b"}))
	require.NoError(t, s.Set(ctx, "other", "c", doc{Name: "c"}))

	docs, err = s.List(ctx, "col")
	require.NoError(t, err)
	require.Len(t, docs, 2)

	names := map[string]bool{}
	for _, raw := range docs {
		var d doc
		require.NoError(t, json.Unmarshal(raw, &d))
		names[d.Name] = true
	}
	assert.True(t, names["a"])
	assert.True(t, names["b"])
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i%10))
			_ = s.Set(ctx, "col", key, doc{Count: i})
			var got doc
			_ = s.Get(ctx, "col", key, &got)
			_, _ = s.List(ctx, "col")
		}(i)
	}
	wg.Wait()

	docs, err := s.List(ctx, "col")
	require.NoError(t, err)
	assert.Len(t, docs, 10)
}
