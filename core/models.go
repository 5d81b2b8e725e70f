package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities, generated from content hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// Identical content always produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Strategy identifies a chunking algorithm. The set is closed; dispatch is
// done with a switch, not a registry.
type Strategy string

const (
	// StrategyFixed slides a fixed-size character window across the text.
	StrategyFixed Strategy = "fixed"
	// StrategyRecursive splits on an ordered separator list, descending to
	// finer separators only when a coarser one cannot split.
	StrategyRecursive Strategy = "recursive"
	// StrategyDocument splits on structural boundaries such as headers.
	StrategyDocument Strategy = "document"
	// StrategySemantic packs sentences greedily up to the chunk size.
	StrategySemantic Strategy = "semantic"
	// StrategyAgentic runs document chunking then re-splits oversized chunks
	// sentence by sentence. Slowest, highest fidelity.
	StrategyAgentic Strategy = "agentic"
)

// Strategies lists every supported chunking strategy.
func Strategies() []Strategy {
	return []Strategy{StrategyFixed, StrategyRecursive, StrategyDocument, StrategySemantic, StrategyAgentic}
}

// Valid reports whether s names a known strategy.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyFixed, StrategyRecursive, StrategyDocument, StrategySemantic, StrategyAgentic:
		return true
	}
	return false
}

// Boundary reasons recorded by structure-aware strategies.
const (
	BoundaryHeader = "headerBoundary"
	BoundarySize   = "sizeBoundary"
	BoundaryFinal  = "finalChunk"
)

// Document is a unit of ingested text. It is owned by the pipeline instance
// for the lifetime of that instance and never mutated after creation.
type Document struct {
	ID       string
	Name     string
	Content  string
	Metadata map[string]string
}

// ChunkMetadata carries positional and provenance information for a chunk.
type ChunkMetadata struct {
	DocumentID string
	// ChunkIndex is 0-based and assigned in emission order by the strategy.
	// It is not globally unique across documents.
	ChunkIndex     int
	StartOffset    int
	EndOffset      int
	TokenEstimate  int
	SourceStrategy Strategy
	// BoundaryReason records why the chunk ended (document/agentic strategies).
	BoundaryReason string
	// Extra holds strategy-specific fields such as sentence counts.
	Extra map[string]string
}

// Chunk is a contiguous slice of a document's text plus metadata. It is
// derived from exactly one document by exactly one strategy invocation and is
// immutable once produced. Embedding is attached after the fact by the
// pipeline; nil until then.
type Chunk struct {
	ID        ID
	Content   string
	Metadata  ChunkMetadata
	Embedding []float32
}

// ChunkingConfig configures a chunking strategy. Read-only input; the
// chunking component never mutates it. Invariant: 0 <= ChunkOverlap < ChunkSize.
type ChunkingConfig struct {
	Strategy     Strategy
	ChunkSize    int // characters
	ChunkOverlap int // characters
	// Separators overrides the recursive strategy's separator descent order.
	Separators []string
	// SemanticThreshold gates semantic boundary detection; required for the
	// semantic strategy, in [0.1, 1.0].
	SemanticThreshold float64
	PreserveStructure bool
}

// DefaultSeparators is the recursive strategy's separator descent order.
func DefaultSeparators() []string {
	return []string{"\n\n", "\n", ". ", " "}
}

// EmbeddingConfig describes the embedding provider and model.
// Dimensions must match the vector length the provider returns for Model.
type EmbeddingConfig struct {
	Provider   string
	Model      string
	Dimensions int
	MaxTokens  int
	BatchSize  int
	APIKey     string
}

// RetrievalConfig configures retrieval behavior.
type RetrievalConfig struct {
	TopK int
}

// DefaultTopK is used when RetrievalConfig.TopK is unset.
const DefaultTopK = 5

// GenerationConfig configures the answer generation call.
type GenerationConfig struct {
	Model        string
	Temperature  float64
	MaxTokens    int
	SystemPrompt string
}

// PipelineConfig is the full configuration surface a caller provides when
// creating a pipeline.
type PipelineConfig struct {
	Chunking   ChunkingConfig
	Embedding  EmbeddingConfig
	Retrieval  RetrievalConfig
	Generation GenerationConfig
}

// PipelineStatus is a snapshot of a pipeline's observable state. Mutated only
// by the owning engine; callers receive copies.
type PipelineStatus struct {
	IsReady           bool
	DocumentsIngested int
	LastActivity      time.Time
	Errors            []string
	Warnings          []string
}
