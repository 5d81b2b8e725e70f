package memory

import (
	"context"
	"testing"

	"github.com/poiesic/ragline/core"
	"github.com/poiesic/ragline/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chunkWithVector(id core.ID, content string, vector []float32) *core.Chunk {
	return &core.Chunk{
		ID:        id,
		Content:   content,
		Embedding: vector,
		Metadata:  core.ChunkMetadata{DocumentID: "doc-1"},
	}
}

func TestIndexTopK(t *testing.T) {
	ctx := context.Background()

	t.Run("ranks by cosine similarity descending", func(t *testing.T) {
		idx := NewIndex()
		require.NoError(t, idx.Upsert(ctx,
			chunkWithVector(1, "orthogonal", []float32{0, 1}),
			chunkWithVector(2, "close", []float32{0.9, 0.1}),
			chunkWithVector(3, "exact", []float32{1, 0}),
		))

		results, err := idx.TopK(ctx, []float32{1, 0}, 3)
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, "exact", results[0].Content)
		assert.Equal(t, "close", results[1].Content)
		assert.Equal(t, "orthogonal", results[2].Content)
	})

	t.Run("ties break by insertion order", func(t *testing.T) {
		idx := NewIndex()
		same := []float32{1, 0}
		require.NoError(t, idx.Upsert(ctx,
			chunkWithVector(10, "first", same),
			chunkWithVector(11, "second", same),
			chunkWithVector(12, "third", same),
		))

		results, err := idx.TopK(ctx, []float32{1, 0}, 3)
		require.NoError(t, err)
		assert.Equal(t, "first", results[0].Content)
		assert.Equal(t, "second", results[1].Content)
		assert.Equal(t, "third", results[2].Content)
	})

	t.Run("returns min of k and size", func(t *testing.T) {
		idx := NewIndex()
		require.NoError(t, idx.Upsert(ctx, chunkWithVector(1, "only", []float32{1, 0})))

		results, err := idx.TopK(ctx, []float32{1, 0}, 5)
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("zero-norm query scores zero everywhere", func(t *testing.T) {
		idx := NewIndex()
		require.NoError(t, idx.Upsert(ctx,
			chunkWithVector(1, "a", []float32{1, 0}),
			chunkWithVector(2, "b", []float32{0, 1}),
		))

		results, err := idx.TopK(ctx, []float32{0, 0}, 2)
		require.NoError(t, err)
		require.Len(t, results, 2)
		// All scores zero; insertion order decides.
		assert.Equal(t, "a", results[0].Content)
		assert.Equal(t, "b", results[1].Content)
	})

	t.Run("non-positive k rejected", func(t *testing.T) {
		idx := NewIndex()
		_, err := idx.TopK(ctx, []float32{1}, 0)
		assert.ErrorIs(t, err, storage.ErrInvalidQuery)
	})
}

func TestIndexUpsert(t *testing.T) {
	ctx := context.Background()

	t.Run("same id keeps insertion rank", func(t *testing.T) {
		idx := NewIndex()
		same := []float32{1, 0}
		require.NoError(t, idx.Upsert(ctx,
			chunkWithVector(1, "original", same),
			chunkWithVector(2, "second", same),
		))
		require.NoError(t, idx.Upsert(ctx, chunkWithVector(1, "updated", same)))

		count, err := idx.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		results, err := idx.TopK(ctx, same, 2)
		require.NoError(t, err)
		assert.Equal(t, "updated", results[0].Content, "updated chunk keeps its original rank")
		assert.Equal(t, "second", results[1].Content)
	})

	t.Run("nil chunks skipped", func(t *testing.T) {
		idx := NewIndex()
		require.NoError(t, idx.Upsert(ctx, nil, chunkWithVector(1, "kept", []float32{1})))
		count, err := idx.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestIndexReplace(t *testing.T) {
	ctx := context.Background()
	idx := NewIndex()

	require.NoError(t, idx.Upsert(ctx,
		chunkWithVector(1, "old-a", []float32{1, 0}),
		chunkWithVector(2, "old-b", []float32{0, 1}),
	))

	require.NoError(t, idx.Replace(ctx, []*core.Chunk{
		chunkWithVector(3, "new-a", []float32{1, 0}),
	}))

	count, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	results, err := idx.TopK(ctx, []float32{1, 0}, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "new-a", results[0].Content)
}
