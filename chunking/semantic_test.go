package chunking

import (
	"strconv"
	"strings"
	"testing"

	"github.com/poiesic/ragline/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSemanticChunker(t *testing.T) {
	t.Run("packs whole sentences", func(t *testing.T) {
		chunker, err := New(core.ChunkingConfig{
			Strategy: core.StrategySemantic, ChunkSize: 60, SemanticThreshold: 0.5,
		})
		require.NoError(t, err)

		content := "First sentence here. Second sentence there. Third sentence now. Fourth closes it."
		chunks, err := chunker.Chunk(testDoc(content))
		require.NoError(t, err)
		require.Greater(t, len(chunks), 1)

		// Every chunk ends on a sentence terminator.
		for _, chunk := range chunks {
			last := chunk.Content[len(chunk.Content)-1]
			assert.Contains(t, ".!?", string(last), "chunk %q must end a sentence", chunk.Content)
		}
	})

	t.Run("records sentence counts", func(t *testing.T) {
		chunker, err := New(core.ChunkingConfig{
			Strategy: core.StrategySemantic, ChunkSize: 1000, SemanticThreshold: 0.5,
		})
		require.NoError(t, err)

		chunks, err := chunker.Chunk(testDoc("One. Two. Three."))
		require.NoError(t, err)
		require.Len(t, chunks, 1)

		count, err := strconv.Atoi(chunks[0].Metadata.Extra["sentences"])
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})

	t.Run("single oversized sentence is kept whole", func(t *testing.T) {
		chunker, err := New(core.ChunkingConfig{
			Strategy: core.StrategySemantic, ChunkSize: 20, SemanticThreshold: 0.5,
		})
		require.NoError(t, err)

		content := "This one sentence is considerably longer than the chunk size allows."
		chunks, err := chunker.Chunk(testDoc(content))
		require.NoError(t, err)
		require.Len(t, chunks, 1)
		assert.Equal(t, strings.TrimSpace(content), chunks[0].Content)
	})
}
