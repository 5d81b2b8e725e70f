package pipeline

import "errors"

var (
	// ErrIngestInProgress indicates an ingest was requested while another
	// ingest is still running on the same engine.
	ErrIngestInProgress = errors.New("ingest already in progress")

	// ErrProviderRequired indicates the engine was built without an AI provider.
	ErrProviderRequired = errors.New("ai provider is required")

	// ErrLimiterRequired indicates the engine was built without a rate limiter.
	ErrLimiterRequired = errors.New("rate limiter is required")

	// ErrNoQuestions indicates Evaluate was called with no test questions.
	ErrNoQuestions = errors.New("no test questions provided")
)
