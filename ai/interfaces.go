package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a
	// batch. The returned slice contains embeddings in the same order as the
	// input texts. Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// StreamFunc receives one generated text fragment. Returning an error stops
// generation; implementations must return ctx.Err() once ctx is cancelled so
// the provider stops issuing further work promptly.
type StreamFunc func(ctx context.Context, fragment string) error

// GenerationRequest carries the inputs of one generation call.
type GenerationRequest struct {
	Prompt       string
	SystemPrompt string
	Temperature  float64
	MaxTokens    int
}

// Generator produces text incrementally from a prompt.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// GenerateStream generates text for the request, invoking fn once per
	// fragment as the provider produces it. Fragment concatenation order is
	// production order. Returns after the final fragment has been delivered
	// or on the first error.
	GenerateStream(ctx context.Context, req GenerationRequest, fn StreamFunc) error
}

// Provider aggregates AI services for convenient initialization and
// lifecycle management. A provider creates and manages Embedder and
// Generator instances, ensuring they share configuration appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Generator returns the text generation service.
	// The returned Generator is safe for concurrent use.
	Generator() Generator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
