package chunking

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/poiesic/ragline/core"
)

// Chunker splits a document's text into an ordered sequence of chunks.
// Implementations are deterministic and safe for concurrent use.
type Chunker interface {
	// Chunk splits the document's content. Chunk order is emission order;
	// indexes are consecutive starting at 0.
	Chunk(doc *core.Document) ([]core.Chunk, error)

	// Strategy returns the strategy id this chunker implements.
	Strategy() core.Strategy
}

// Option configures a Chunker.
type Option func(*options)

type options struct {
	counter TokenCounter
}

// WithTokenCounter sets the token counter used for per-chunk token estimates.
// Default is the character-based estimator.
func WithTokenCounter(counter TokenCounter) Option {
	return func(o *options) {
		if counter != nil {
			o.counter = counter
		}
	}
}

// New creates the chunker for the configured strategy. The configuration is
// validated first; a copy is kept so later caller mutations have no effect.
func New(cfg core.ChunkingConfig, opts ...Option) (Chunker, error) {
	if err := core.ValidateChunkingConfig(&cfg); err != nil {
		return nil, err
	}

	o := &options{counter: EstimateCounter{}}
	for _, opt := range opts {
		opt(o)
	}

	switch cfg.Strategy {
	case core.StrategyFixed:
		return &fixedChunker{cfg: cfg, counter: o.counter}, nil
	case core.StrategyRecursive:
		seps := cfg.Separators
		if len(seps) == 0 {
			seps = core.DefaultSeparators()
		}
		return &recursiveChunker{cfg: cfg, separators: seps, counter: o.counter}, nil
	case core.StrategyDocument:
		return &documentChunker{cfg: cfg, counter: o.counter}, nil
	case core.StrategySemantic:
		return &semanticChunker{cfg: cfg, counter: o.counter}, nil
	case core.StrategyAgentic:
		return &agenticChunker{
			structural: documentChunker{cfg: cfg, counter: o.counter},
			cfg:        cfg,
			counter:    o.counter,
		}, nil
	}
	// Unreachable: ValidateChunkingConfig rejects unknown strategies.
	return nil, fmt.Errorf("%w: %q", core.ErrUnknownStrategy, cfg.Strategy)
}

// ValidationResult collects configuration problems found by Validate.
type ValidationResult struct {
	Errors   []string
	Warnings []string
}

// OK reports whether validation found no errors.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Validate checks a chunking configuration, optionally against an embedding
// configuration's token ceiling. Every strategy rejects a non-positive chunk
// size and an overlap that is not strictly smaller than the chunk size.
func Validate(cfg core.ChunkingConfig, embedding *core.EmbeddingConfig) ValidationResult {
	var result ValidationResult

	if !cfg.Strategy.Valid() {
		result.Errors = append(result.Errors, fmt.Sprintf("unknown chunking strategy %q", cfg.Strategy))
	}

	if cfg.ChunkSize <= 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("chunk size must be positive, got %d", cfg.ChunkSize))
	} else if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		result.Errors = append(result.Errors, fmt.Sprintf(
			"chunk overlap %d must be non-negative and smaller than chunk size %d",
			cfg.ChunkOverlap, cfg.ChunkSize))
	}

	if cfg.Strategy == core.StrategySemantic {
		if cfg.SemanticThreshold < 0.1 || cfg.SemanticThreshold > 1.0 {
			result.Errors = append(result.Errors, fmt.Sprintf(
				"semantic threshold must be within [0.1, 1.0], got %g", cfg.SemanticThreshold))
		}
	}

	if cfg.Strategy == core.StrategyAgentic {
		result.Warnings = append(result.Warnings,
			"agentic chunking runs a structural pass plus sentence re-splitting and is significantly more expensive than other strategies")
	}

	if embedding != nil && embedding.MaxTokens > 0 && cfg.ChunkSize > 0 {
		estimated := (cfg.ChunkSize + 3) / 4
		if estimated > embedding.MaxTokens {
			result.Errors = append(result.Errors, fmt.Sprintf(
				"chunks of %d characters (~%d tokens) exceed the embedding model token limit %d",
				cfg.ChunkSize, estimated, embedding.MaxTokens))
		} else if estimated*10 >= embedding.MaxTokens*8 {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"chunks of %d characters (~%d tokens) are close to the embedding model token limit %d",
				cfg.ChunkSize, estimated, embedding.MaxTokens))
		}
	}

	return result
}

// piece is an intermediate fragment produced by a strategy before assembly.
type piece struct {
	content string
	// start is the offset of content in the original text, or -1 when the
	// strategy cannot track it exactly (assemble then locates the trimmed
	// content from a moving cursor).
	start  int
	reason string
	extra  map[string]string
}

// assemble converts raw pieces into chunks: trims whitespace, drops empty
// fragments, assigns consecutive indexes, resolves offsets, and computes
// token estimates and content-derived IDs.
func assemble(doc *core.Document, strategy core.Strategy, counter TokenCounter, pieces []piece) []core.Chunk {
	chunks := make([]core.Chunk, 0, len(pieces))
	cursor := 0

	for _, p := range pieces {
		trimmed := strings.TrimSpace(p.content)
		if trimmed == "" {
			continue
		}

		start := p.start
		if start >= 0 {
			start += len(p.content) - len(strings.TrimLeft(p.content, " \t\r\n"))
		} else if idx := strings.Index(doc.Content[cursor:], trimmed); idx >= 0 {
			start = cursor + idx
		} else {
			start = cursor
		}
		end := start + len(trimmed)
		if end > len(doc.Content) {
			end = len(doc.Content)
		}

		index := len(chunks)
		chunks = append(chunks, core.Chunk{
			ID:      core.IDFromContent(doc.ID + ":" + strconv.Itoa(index) + ":" + trimmed),
			Content: trimmed,
			Metadata: core.ChunkMetadata{
				DocumentID:     doc.ID,
				ChunkIndex:     index,
				StartOffset:    start,
				EndOffset:      end,
				TokenEstimate:  counter.Count(trimmed),
				SourceStrategy: strategy,
				BoundaryReason: p.reason,
				Extra:          p.extra,
			},
		})

		// Advance past the chunk start only, so overlapping chunks still
		// resolve against the original text.
		cursor = start + 1
	}

	return chunks
}
