package embedding

import "errors"

var (
	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrLimiterRequired is returned when a rate limiter is not provided.
	ErrLimiterRequired = errors.New("rate limiter required")

	// ErrNoTexts is returned when EmbedBatch is called with an empty input.
	ErrNoTexts = errors.New("no texts to embed")
)
