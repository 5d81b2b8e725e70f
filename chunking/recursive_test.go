package chunking

import (
	"strings"
	"testing"

	"github.com/poiesic/ragline/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecursiveChunker(t *testing.T) {
	t.Run("separator-free text falls back to hard splits", func(t *testing.T) {
		chunker, err := New(core.ChunkingConfig{Strategy: core.StrategyRecursive, ChunkSize: 100, ChunkOverlap: 20})
		require.NoError(t, err)

		content := strings.Repeat("a", 1000)
		chunks, err := chunker.Chunk(testDoc(content))
		require.NoError(t, err)

		// ~ceil(1000 / (100-20)) chunks when no separator matches.
		assert.GreaterOrEqual(t, len(chunks), 12)
		assert.LessOrEqual(t, len(chunks), 14)

		for _, chunk := range chunks {
			assert.LessOrEqual(t, len(chunk.Content), 100)
		}
	})

	t.Run("paragraph boundaries preferred", func(t *testing.T) {
		chunker, err := New(core.ChunkingConfig{Strategy: core.StrategyRecursive, ChunkSize: 80, ChunkOverlap: 0})
		require.NoError(t, err)

		content := "First paragraph stays whole.\n\nSecond paragraph stays whole too.\n\nThird one here."
		chunks, err := chunker.Chunk(testDoc(content))
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(chunks), 2)

		// No chunk cuts through the middle of a paragraph.
		for _, chunk := range chunks {
			for _, paragraph := range strings.Split(chunk.Content, "\n\n") {
				trimmed := strings.TrimSpace(paragraph)
				if trimmed == "" {
					continue
				}
				assert.Contains(t, content, trimmed)
			}
		}
	})

	t.Run("overlap carries tail into next chunk", func(t *testing.T) {
		chunker, err := New(core.ChunkingConfig{Strategy: core.StrategyRecursive, ChunkSize: 50, ChunkOverlap: 10})
		require.NoError(t, err)

		raw := make([]byte, 200)
		for i := range raw {
			raw[i] = byte('a' + i%26)
		}
		chunks, err := chunker.Chunk(testDoc(string(raw)))
		require.NoError(t, err)
		require.Greater(t, len(chunks), 1)

		for i := 1; i < len(chunks); i++ {
			prevTail := chunks[i-1].Content[len(chunks[i-1].Content)-10:]
			assert.True(t, strings.HasPrefix(chunks[i].Content, prevTail),
				"chunk %d must start with the previous chunk's tail", i)
		}
	})

	t.Run("custom separators", func(t *testing.T) {
		chunker, err := New(core.ChunkingConfig{
			Strategy:     core.StrategyRecursive,
			ChunkSize:    10,
			ChunkOverlap: 0,
			Separators:   []string{"|"},
		})
		require.NoError(t, err)

		chunks, err := chunker.Chunk(testDoc("alpha|beta|gamma|delta"))
		require.NoError(t, err)
		require.NotEmpty(t, chunks)

		for _, chunk := range chunks {
			assert.LessOrEqual(t, len(chunk.Content), 11)
		}
	})

	t.Run("round trip through embedding size budget", func(t *testing.T) {
		chunker, err := New(core.ChunkingConfig{Strategy: core.StrategyRecursive, ChunkSize: 200, ChunkOverlap: 40})
		require.NoError(t, err)

		content := strings.Repeat("Some words make a sentence. ", 50)
		chunks, err := chunker.Chunk(testDoc(content))
		require.NoError(t, err)

		// Packed chunks may exceed ChunkSize by at most the overlap seed.
		for _, chunk := range chunks {
			assert.LessOrEqual(t, len(chunk.Content), 200+40)
		}
	})
}
