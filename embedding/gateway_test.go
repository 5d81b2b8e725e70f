package embedding

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/ragline/ai/mock"
	"github.com/poiesic/ragline/core"
	"github.com/poiesic/ragline/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEmbeddingConfig() core.EmbeddingConfig {
	return core.EmbeddingConfig{
		Provider:   "openai",
		Model:      "embeddinggemma",
		Dimensions: 8,
		MaxTokens:  512,
		BatchSize:  2,
	}
}

func testLimiter() *ratelimit.Limiter {
	return ratelimit.New(1000, time.Minute)
}

func TestNewGateway(t *testing.T) {
	t.Run("requires embedder", func(t *testing.T) {
		_, err := NewGateway(nil, testEmbeddingConfig(), testLimiter())
		assert.ErrorIs(t, err, ErrEmbedderRequired)
	})

	t.Run("requires limiter", func(t *testing.T) {
		_, err := NewGateway(mock.NewEmbedder(), testEmbeddingConfig(), nil)
		assert.ErrorIs(t, err, ErrLimiterRequired)
	})

	t.Run("validates config", func(t *testing.T) {
		cfg := testEmbeddingConfig()
		cfg.BatchSize = 0
		_, err := NewGateway(mock.NewEmbedder(), cfg, testLimiter())
		assert.ErrorIs(t, err, core.ErrInvalidConfiguration)
	})
}

func TestEmbedBatch(t *testing.T) {
	t.Run("empty input is a precondition error", func(t *testing.T) {
		g, err := NewGateway(mock.NewEmbedder(), testEmbeddingConfig(), testLimiter())
		require.NoError(t, err)
		defer g.Release()

		_, err = g.EmbedBatch(context.Background(), nil)
		assert.ErrorIs(t, err, core.ErrPrecondition)
		assert.ErrorIs(t, err, ErrNoTexts)
	})

	t.Run("one vector per text in input order", func(t *testing.T) {
		embedder := mock.NewEmbedder()
		embedder.Dimensions = 8

		g, err := NewGateway(embedder, testEmbeddingConfig(), testLimiter())
		require.NoError(t, err)
		defer g.Release()

		texts := []string{"alpha", "beta", "gamma", "delta", "epsilon"}
		vectors, err := g.EmbedBatch(context.Background(), texts)
		require.NoError(t, err)
		require.Len(t, vectors, len(texts))

		for i, text := range texts {
			expected := core.NormalizeVector(mock.DeterministicVector(text, 8))
			assert.Equal(t, expected, vectors[i], "vector %d must match its text", i)
		}
		assert.False(t, g.Degraded())
	})

	t.Run("provider failure degrades to fallback vectors", func(t *testing.T) {
		embedder := mock.NewEmbedder()
		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, errors.New("quota exhausted")
		}

		g, err := NewGateway(embedder, testEmbeddingConfig(), testLimiter())
		require.NoError(t, err)
		defer g.Release()

		vectors, err := g.EmbedBatch(context.Background(), []string{"a", "b", "c"})
		require.NoError(t, err, "provider failure must degrade, not fail")
		require.Len(t, vectors, 3)

		for i, v := range vectors {
			assert.Len(t, v, 8, "fallback vector %d must have configured dimensions", i)
		}
		assert.True(t, g.Degraded())
	})

	t.Run("degraded state is sticky and resettable", func(t *testing.T) {
		calls := 0
		embedder := mock.NewEmbedder()
		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			calls++
			return nil, errors.New("boom")
		}

		cfg := testEmbeddingConfig()
		cfg.BatchSize = 10

		g, err := NewGateway(embedder, cfg, testLimiter())
		require.NoError(t, err)
		defer g.Release()

		_, err = g.EmbedBatch(context.Background(), []string{"one"})
		require.NoError(t, err)
		require.True(t, g.Degraded())

		// Degraded gateway never calls the provider again.
		before := calls
		_, err = g.EmbedBatch(context.Background(), []string{"two"})
		require.NoError(t, err)
		assert.Equal(t, before, calls)

		g.ResetDegraded()
		assert.False(t, g.Degraded())
	})

	t.Run("fallback vectors are deterministic", func(t *testing.T) {
		a := fallbackVector("same text", 16)
		b := fallbackVector("same text", 16)
		c := fallbackVector("other text", 16)

		assert.Equal(t, a, b)
		assert.NotEqual(t, a, c)
		assert.Len(t, a, 16)
	})
}

func TestEmbedQuery(t *testing.T) {
	t.Run("embeds single text", func(t *testing.T) {
		embedder := mock.NewEmbedder()
		embedder.Dimensions = 8

		g, err := NewGateway(embedder, testEmbeddingConfig(), testLimiter())
		require.NoError(t, err)
		defer g.Release()

		vector, err := g.EmbedQuery(context.Background(), "what is a badger")
		require.NoError(t, err)
		assert.Len(t, vector, 8)
	})

	t.Run("empty text is a precondition error", func(t *testing.T) {
		g, err := NewGateway(mock.NewEmbedder(), testEmbeddingConfig(), testLimiter())
		require.NoError(t, err)
		defer g.Release()

		_, err = g.EmbedQuery(context.Background(), "")
		assert.ErrorIs(t, err, core.ErrPrecondition)
	})

	t.Run("falls back on provider failure", func(t *testing.T) {
		embedder := mock.NewEmbedder()
		embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return nil, errors.New("connection refused")
		}

		g, err := NewGateway(embedder, testEmbeddingConfig(), testLimiter())
		require.NoError(t, err)
		defer g.Release()

		vector, err := g.EmbedQuery(context.Background(), "question")
		require.NoError(t, err)
		assert.Len(t, vector, 8)
		assert.True(t, g.Degraded())
	})
}
