package chunking

import (
	"strings"
	"testing"

	"github.com/poiesic/ragline/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentChunker(t *testing.T) {
	t.Run("markdown header opens a new chunk", func(t *testing.T) {
		chunker, err := New(core.ChunkingConfig{Strategy: core.StrategyDocument, ChunkSize: 500})
		require.NoError(t, err)

		content := "Intro paragraph before any heading.\n# Section One\nBody of section one.\n"
		chunks, err := chunker.Chunk(testDoc(content))
		require.NoError(t, err)
		require.Len(t, chunks, 2)

		assert.Equal(t, "Intro paragraph before any heading.", chunks[0].Content)
		assert.Equal(t, core.BoundaryHeader, chunks[0].Metadata.BoundaryReason)

		assert.Equal(t, "# Section One\nBody of section one.", chunks[1].Content)
		assert.Equal(t, core.BoundaryFinal, chunks[1].Metadata.BoundaryReason)
		assert.Equal(t, strings.Index(content, "# Section One"), chunks[1].Metadata.StartOffset)
	})

	t.Run("all caps title is a boundary", func(t *testing.T) {
		chunker, err := New(core.ChunkingConfig{Strategy: core.StrategyDocument, ChunkSize: 500})
		require.NoError(t, err)

		content := "Some leading text.\nCHAPTER ONE\nThe chapter begins.\n"
		chunks, err := chunker.Chunk(testDoc(content))
		require.NoError(t, err)
		require.Len(t, chunks, 2)
		assert.Equal(t, core.BoundaryHeader, chunks[0].Metadata.BoundaryReason)
		assert.True(t, strings.HasPrefix(chunks[1].Content, "CHAPTER ONE"))
	})

	t.Run("setext underline is a boundary", func(t *testing.T) {
		chunker, err := New(core.ChunkingConfig{Strategy: core.StrategyDocument, ChunkSize: 500})
		require.NoError(t, err)

		content := "Preamble text here.\nSection Title\n=============\nSection body.\n"
		chunks, err := chunker.Chunk(testDoc(content))
		require.NoError(t, err)
		require.Len(t, chunks, 2)
		assert.Equal(t, core.BoundaryHeader, chunks[0].Metadata.BoundaryReason)
		assert.True(t, strings.HasPrefix(chunks[1].Content, "Section Title"))
	})

	t.Run("oversized buffer flushes on size", func(t *testing.T) {
		chunker, err := New(core.ChunkingConfig{Strategy: core.StrategyDocument, ChunkSize: 50})
		require.NoError(t, err)

		var sb strings.Builder
		for i := 0; i < 9; i++ {
			sb.WriteString("a line of plain text without headers\n")
		}
		chunks, err := chunker.Chunk(testDoc(sb.String()))
		require.NoError(t, err)
		require.Greater(t, len(chunks), 1)

		for i, chunk := range chunks[:len(chunks)-1] {
			assert.Equal(t, core.BoundarySize, chunk.Metadata.BoundaryReason, "chunk %d", i)
		}
		assert.Equal(t, core.BoundaryFinal, chunks[len(chunks)-1].Metadata.BoundaryReason)
	})

	t.Run("no headers yields single chunk under size", func(t *testing.T) {
		chunker, err := New(core.ChunkingConfig{Strategy: core.StrategyDocument, ChunkSize: 500})
		require.NoError(t, err)

		chunks, err := chunker.Chunk(testDoc("just one short paragraph\nacross two lines\n"))
		require.NoError(t, err)
		require.Len(t, chunks, 1)
		assert.Equal(t, core.BoundaryFinal, chunks[0].Metadata.BoundaryReason)
		assert.Equal(t, 0, chunks[0].Metadata.StartOffset)
	})
}
