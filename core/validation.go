// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import "fmt"

// ValidateChunkingConfig validates a ChunkingConfig according to domain rules.
//
// Validation rules:
//   - Strategy must name a known strategy
//   - ChunkSize must be positive
//   - 0 <= ChunkOverlap < ChunkSize
//   - SemanticThreshold must be in [0.1, 1.0] for the semantic strategy
func ValidateChunkingConfig(cfg *ChunkingConfig) error {
	if cfg == nil {
		return fmt.Errorf("%w: chunking config is nil", ErrInvalidConfiguration)
	}

	if !cfg.Strategy.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidConfiguration, ErrUnknownStrategy, cfg.Strategy)
	}

	if cfg.ChunkSize <= 0 {
		return fmt.Errorf("%w: %w: got %d", ErrInvalidConfiguration, ErrInvalidChunkSize, cfg.ChunkSize)
	}

	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		return fmt.Errorf("%w: %w: overlap %d, size %d",
			ErrInvalidConfiguration, ErrInvalidOverlap, cfg.ChunkOverlap, cfg.ChunkSize)
	}

	if cfg.Strategy == StrategySemantic {
		if cfg.SemanticThreshold < 0.1 || cfg.SemanticThreshold > 1.0 {
			return fmt.Errorf("%w: %w: got %g", ErrInvalidConfiguration, ErrInvalidThreshold, cfg.SemanticThreshold)
		}
	}

	return nil
}

// ValidateDocument validates a Document before ingestion.
//
// Validation rules:
//   - Content must not be empty
//
// NOT validated:
//   - ID (assigned by the service when empty)
//   - Metadata (optional, free-form)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrPrecondition)
	}
	if doc.Content == "" {
		return fmt.Errorf("%w: %w", ErrPrecondition, ErrEmptyContent)
	}
	return nil
}

// ValidateEmbeddingConfig validates an EmbeddingConfig.
func ValidateEmbeddingConfig(cfg *EmbeddingConfig) error {
	if cfg == nil {
		return fmt.Errorf("%w: embedding config is nil", ErrInvalidConfiguration)
	}
	if cfg.Dimensions <= 0 {
		return fmt.Errorf("%w: embedding dimensions must be positive, got %d", ErrInvalidConfiguration, cfg.Dimensions)
	}
	if cfg.MaxTokens <= 0 {
		return fmt.Errorf("%w: embedding max tokens must be positive, got %d", ErrInvalidConfiguration, cfg.MaxTokens)
	}
	if cfg.BatchSize <= 0 {
		return fmt.Errorf("%w: embedding batch size must be positive, got %d", ErrInvalidConfiguration, cfg.BatchSize)
	}
	return nil
}
