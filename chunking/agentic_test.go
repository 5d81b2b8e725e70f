package chunking

import (
	"strings"
	"testing"

	"github.com/poiesic/ragline/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgenticChunker(t *testing.T) {
	t.Run("small sections pass through as structural", func(t *testing.T) {
		chunker, err := New(core.ChunkingConfig{Strategy: core.StrategyAgentic, ChunkSize: 500})
		require.NoError(t, err)

		content := "# One\nShort section body.\n# Two\nAnother short body.\n"
		chunks, err := chunker.Chunk(testDoc(content))
		require.NoError(t, err)
		require.Len(t, chunks, 2)

		for _, chunk := range chunks {
			assert.Equal(t, "structural", chunk.Metadata.Extra["refinement"])
		}
	})

	t.Run("oversized sections are re-split by sentence", func(t *testing.T) {
		chunker, err := New(core.ChunkingConfig{Strategy: core.StrategyAgentic, ChunkSize: 120})
		require.NoError(t, err)

		// One long single-line section, well past 80% of the chunk size.
		content := strings.Repeat("A short sentence sits here. ", 15) + "\n"
		chunks, err := chunker.Chunk(testDoc(content))
		require.NoError(t, err)
		require.Greater(t, len(chunks), 1)

		threshold := 120 * 8 / 10
		for _, chunk := range chunks {
			assert.Equal(t, "sentence-resplit", chunk.Metadata.Extra["refinement"])
			assert.NotEmpty(t, chunk.Metadata.Extra["sentences"])
			assert.LessOrEqual(t, len(chunk.Content), threshold)
		}
	})

	t.Run("mixed document keeps boundary reasons", func(t *testing.T) {
		chunker, err := New(core.ChunkingConfig{Strategy: core.StrategyAgentic, ChunkSize: 120})
		require.NoError(t, err)

		content := "Tiny intro.\n# Long Part\n" + strings.Repeat("Words fill the section up. ", 10) + "\n"
		chunks, err := chunker.Chunk(testDoc(content))
		require.NoError(t, err)
		require.Greater(t, len(chunks), 2)

		assert.Equal(t, core.BoundaryHeader, chunks[0].Metadata.BoundaryReason)
		assert.Equal(t, "structural", chunks[0].Metadata.Extra["refinement"])

		for _, chunk := range chunks[1:] {
			assert.Equal(t, "sentence-resplit", chunk.Metadata.Extra["refinement"])
			assert.Equal(t, core.BoundarySize, chunk.Metadata.BoundaryReason)
		}
	})
}
