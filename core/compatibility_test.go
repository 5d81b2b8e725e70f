package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCompatibility(t *testing.T) {
	t.Run("chunk size exceeds token limit", func(t *testing.T) {
		result := ValidateCompatibility(
			ChunkingConfig{Strategy: StrategyRecursive, ChunkSize: 4000},
			EmbeddingConfig{Model: "small-model", Dimensions: 768, MaxTokens: 512},
		)

		assert.False(t, result.IsCompatible)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "1000 tokens")
		assert.Contains(t, result.Errors[0], "512")
		require.NotEmpty(t, result.Recommendations)
		assert.Contains(t, result.Recommendations[0], "reduce chunk size")
	})

	t.Run("comfortable fit", func(t *testing.T) {
		result := ValidateCompatibility(
			ChunkingConfig{Strategy: StrategyRecursive, ChunkSize: 1000, ChunkOverlap: 200},
			EmbeddingConfig{Dimensions: 768, MaxTokens: 512},
		)

		assert.True(t, result.IsCompatible)
		assert.Empty(t, result.Errors)
		assert.Empty(t, result.Warnings)
	})

	t.Run("close to token limit warns", func(t *testing.T) {
		// 1700 chars -> 425 tokens, 83% of the 512 limit
		result := ValidateCompatibility(
			ChunkingConfig{Strategy: StrategyRecursive, ChunkSize: 1700},
			EmbeddingConfig{Dimensions: 768, MaxTokens: 512},
		)

		assert.True(t, result.IsCompatible)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "80%")
	})

	t.Run("excessive overlap warns", func(t *testing.T) {
		result := ValidateCompatibility(
			ChunkingConfig{Strategy: StrategyFixed, ChunkSize: 100, ChunkOverlap: 60},
			EmbeddingConfig{Dimensions: 768, MaxTokens: 512},
		)

		assert.True(t, result.IsCompatible)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "redundant")
	})

	t.Run("fixed strategy with large model recommends structure", func(t *testing.T) {
		result := ValidateCompatibility(
			ChunkingConfig{Strategy: StrategyFixed, ChunkSize: 1000},
			EmbeddingConfig{Dimensions: 3072, MaxTokens: 8192},
		)

		assert.True(t, result.IsCompatible)
		require.NotEmpty(t, result.Recommendations)
		assert.Contains(t, result.Recommendations[0], "structure-aware")
	})

	t.Run("semantic strategy with small model warns", func(t *testing.T) {
		result := ValidateCompatibility(
			ChunkingConfig{Strategy: StrategySemantic, ChunkSize: 1000, SemanticThreshold: 0.5},
			EmbeddingConfig{Dimensions: 384, MaxTokens: 512},
		)

		assert.True(t, result.IsCompatible)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "384-dimension")
	})
}

func TestCosineSimilarity(t *testing.T) {
	t.Run("identical vectors", func(t *testing.T) {
		v := []float32{1, 2, 3}
		assert.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-6)
	})

	t.Run("orthogonal vectors", func(t *testing.T) {
		assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-6)
	})

	t.Run("opposite vectors", func(t *testing.T) {
		assert.InDelta(t, -1.0, CosineSimilarity([]float32{1, 1}, []float32{-1, -1}), 1e-6)
	})

	t.Run("zero norm is zero", func(t *testing.T) {
		assert.Equal(t, float32(0), CosineSimilarity([]float32{0, 0}, []float32{1, 2}))
		assert.Equal(t, float32(0), CosineSimilarity([]float32{1, 2}, []float32{0, 0}))
	})

	t.Run("length mismatch is zero", func(t *testing.T) {
		assert.Equal(t, float32(0), CosineSimilarity([]float32{1}, []float32{1, 2}))
	})
}

func TestNormalizeVector(t *testing.T) {
	out := NormalizeVector([]float32{3, 4})
	assert.InDelta(t, 0.6, out[0], 1e-6)
	assert.InDelta(t, 0.8, out[1], 1e-6)

	zero := []float32{0, 0, 0}
	assert.Equal(t, zero, NormalizeVector(zero))
}
