package chunking

import (
	"testing"

	"github.com/poiesic/ragline/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wordCounter struct{}

func (wordCounter) Count(text string) int {
	count := 1
	for i := 0; i < len(text); i++ {
		if text[i] == ' ' {
			count++
		}
	}
	return count
}

func TestWithTokenCounter(t *testing.T) {
	chunker, err := New(core.ChunkingConfig{Strategy: core.StrategyFixed, ChunkSize: 100},
		WithTokenCounter(wordCounter{}))
	require.NoError(t, err)

	chunks, err := chunker.Chunk(testDoc("four words right here"))
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, 4, chunks[0].Metadata.TokenEstimate)
}

func TestEstimateCounter(t *testing.T) {
	c := EstimateCounter{}
	assert.Equal(t, core.EstimateTokens("abcdefgh"), c.Count("abcdefgh"))
	assert.Equal(t, 2, c.Count("abcdefgh"))
}
