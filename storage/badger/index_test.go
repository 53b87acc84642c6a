package badger

import (
	"context"
	"testing"

	"github.com/poiesic/textvault/core"
	"github.com/poiesic/textvault/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestIndex(t *testing.T) storage.VectorIndex {
	t.Helper()

	index, backend, err := NewMemoryIndex()
	require.NoError(t, err)
	t.Cleanup(func() {
		index.Close()
		backend.Close()
	})
	return index
}

func testEntry(id string) *core.VectorEntry {
	return &core.VectorEntry{
		ID:     id,
		Values: []float32{0.25, -0.5, 0.75},
		Meta: core.ChunkMeta{
			SourceID:    "doc-1",
			ChunkIndex:  0,
			TotalChunks: 1,
			Type:        "text",
			Content:     "stored content",
			Base:        map[string]string{"origin": "test"},
		},
	}
}

func TestIndex_UpsertAndGet(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	entry := testEntry("text-doc-1-chunk-0-aaaa1111")
	require.NoError(t, index.Upsert(ctx, entry))

	got, err := index.Get(ctx, entry.ID)
	require.NoError(t, err)

	assert.Equal(t, entry.ID, got.ID)
	assert.Equal(t, entry.Values, got.Values)
	assert.Equal(t, entry.Meta.Content, got.Meta.Content)
	assert.Equal(t, "test", got.Meta.Base["origin"])
}

func TestIndex_GetMissing(t *testing.T) {
	index := setupTestIndex(t)

	_, err := index.Get(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIndex_UpsertReplaces(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	entry := testEntry("text-doc-1-chunk-0-bbbb2222")
	require.NoError(t, index.Upsert(ctx, entry))

	entry.Values = []float32{1, 2, 3}
	require.NoError(t, index.Upsert(ctx, entry))

	got, err := index.Get(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3}, got.Values)
}

func TestIndex_UpsertAfterClose(t *testing.T) {
	index, backend, err := NewMemoryIndex()
	require.NoError(t, err)
	index.Close()
	backend.Close()

	err = index.Upsert(context.Background(), testEntry("text-doc-1-chunk-0-cccc3333"))
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestIndex_CancelledContext(t *testing.T) {
	index := setupTestIndex(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := index.Upsert(ctx, testEntry("text-doc-1-chunk-0-dddd4444"))
	assert.ErrorIs(t, err, context.Canceled)
}
