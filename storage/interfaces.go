package storage

import (
	"context"

	"github.com/poiesic/ragline/core"
)

// VectorStore stores embedded chunks and ranks them by similarity.
// Implementations must be thread-safe and support concurrent access.
type VectorStore interface {
	// Upsert stores chunk+embedding pairs. A chunk with an already-stored ID
	// replaces the stored copy but keeps its original insertion rank.
	Upsert(ctx context.Context, chunks ...*core.Chunk) error

	// Replace atomically swaps the entire stored set for chunks.
	Replace(ctx context.Context, chunks []*core.Chunk) error

	// TopK returns up to k chunks ranked by cosine similarity to vector,
	// highest first. Ties are broken by insertion order so results are
	// deterministic. Returns fewer than k results when the store holds less.
	TopK(ctx context.Context, vector []float32, k int) ([]*core.Chunk, error)

	// Count returns the number of stored chunks.
	Count(ctx context.Context) (int, error)

	// Close releases resources held by the store.
	Close() error
}
