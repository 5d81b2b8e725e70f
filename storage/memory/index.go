package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/poiesic/ragline/core"
	"github.com/poiesic/ragline/storage"
)

// Index is an in-memory vector store. Chunks keep their insertion order,
// which doubles as the deterministic tie-break for equal similarity scores.
type Index struct {
	mu     sync.RWMutex
	chunks []*core.Chunk
	byID   map[core.ID]int
}

var _ storage.VectorStore = (*Index)(nil)

// NewIndex creates an empty in-memory index.
func NewIndex() *Index {
	return &Index{byID: make(map[core.ID]int)}
}

// Upsert stores chunks. A chunk whose ID is already present replaces the
// stored copy in place, keeping its original insertion rank.
func (idx *Index) Upsert(ctx context.Context, chunks ...*core.Chunk) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for _, chunk := range chunks {
		if chunk == nil {
			continue
		}
		if pos, ok := idx.byID[chunk.ID]; ok {
			idx.chunks[pos] = chunk
			continue
		}
		idx.byID[chunk.ID] = len(idx.chunks)
		idx.chunks = append(idx.chunks, chunk)
	}
	return nil
}

// Replace atomically swaps the stored set for chunks.
func (idx *Index) Replace(ctx context.Context, chunks []*core.Chunk) error {
	next := make([]*core.Chunk, 0, len(chunks))
	nextByID := make(map[core.ID]int, len(chunks))
	for _, chunk := range chunks {
		if chunk == nil {
			continue
		}
		if pos, ok := nextByID[chunk.ID]; ok {
			next[pos] = chunk
			continue
		}
		nextByID[chunk.ID] = len(next)
		next = append(next, chunk)
	}

	idx.mu.Lock()
	idx.chunks = next
	idx.byID = nextByID
	idx.mu.Unlock()
	return nil
}

// TopK ranks stored chunks by cosine similarity to vector, descending, and
// returns the first k. The sort is stable, so equal scores resolve to
// insertion order. A zero-norm vector pair scores 0.
func (idx *Index) TopK(ctx context.Context, vector []float32, k int) ([]*core.Chunk, error) {
	if k <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	idx.mu.RLock()
	scored := make([]scoredChunk, len(idx.chunks))
	for i, chunk := range idx.chunks {
		scored[i] = scoredChunk{
			chunk: chunk,
			score: core.CosineSimilarity(vector, chunk.Embedding),
		}
	}
	idx.mu.RUnlock()

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if k > len(scored) {
		k = len(scored)
	}
	result := make([]*core.Chunk, k)
	for i := 0; i < k; i++ {
		result[i] = scored[i].chunk
	}
	return result, nil
}

// Count returns the number of stored chunks.
func (idx *Index) Count(ctx context.Context) (int, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.chunks), nil
}

// Close is a no-op for the in-memory index.
func (idx *Index) Close() error {
	return nil
}

type scoredChunk struct {
	chunk *core.Chunk
	score float32
}
