package providers

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solenne/mend/heal"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	s.Add(EntryTypeContent, "c1")

	ok, err := s.Exists(ctx, EntryTypeContent, "c1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Exists(ctx, EntryTypeContent, "c2")
	require.NoError(t, err)
	assert.False(t, ok)

	// Same id under a different type is a different entry.
	ok, err = s.Exists(ctx, EntryTypePathStep, "c1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreResolver(t *testing.T) {
	ctx := context.Background()

	t.Run("nil store accepts everything", func(t *testing.T) {
		r := &storeResolver{}
		ok, err := r.Resolve(ctx, heal.Reference{EntryType: EntryTypeContent, ID: "anything"})
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Nil(t, r.References(map[string]any{"related_node_ids": []any{"a"}}))
	})

	t.Run("consults the store", func(t *testing.T) {
		s := NewMemoryStore()
		s.Add(EntryTypeContent, "c1")
		r := &storeResolver{store: s, refs: contentRefs}

		ok, err := r.Resolve(ctx, heal.Reference{EntryType: EntryTypeContent, ID: "c1"})
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = r.Resolve(ctx, heal.Reference{EntryType: EntryTypeContent, ID: "gone"})
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "index.db")

	s, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Add(ctx, EntryTypeContent, "c1"))
	// Idempotent.
	require.NoError(t, s.Add(ctx, EntryTypeContent, "c1"))

	ok, err := s.Exists(ctx, EntryTypeContent, "c1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Exists(ctx, EntryTypeContent, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStoreInMemory(t *testing.T) {
	s, err := OpenSQLiteStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	ok, err := s.Exists(context.Background(), EntryTypeContent, "c1")
	require.NoError(t, err)
	assert.False(t, ok)
}
