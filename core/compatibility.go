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

// CompatibilityResult is the outcome of cross-checking a chunking
// configuration against an embedding model's limits.
type CompatibilityResult struct {
	IsCompatible    bool
	Errors          []string
	Warnings        []string
	Recommendations []string
}

// ValidateCompatibility cross-checks a chunking configuration against an
// embedding configuration. Pure function; no side effects.
//
// A configured chunk is estimated at ceil(ChunkSize/4) tokens. Exceeding the
// model's token ceiling is an error; landing within 80-100% of it is a
// warning. Overlap above half the chunk size and strategy/dimension
// mismatches produce warnings and recommendations.
func ValidateCompatibility(chunking ChunkingConfig, embedding EmbeddingConfig) CompatibilityResult {
	result := CompatibilityResult{IsCompatible: true}

	estimatedTokens := 0
	if chunking.ChunkSize > 0 {
		estimatedTokens = (chunking.ChunkSize + 3) / 4
	}

	if embedding.MaxTokens > 0 {
		if estimatedTokens > embedding.MaxTokens {
			result.IsCompatible = false
			result.Errors = append(result.Errors, fmt.Sprintf(
				"chunk size %d (~%d tokens) exceeds embedding model token limit %d",
				chunking.ChunkSize, estimatedTokens, embedding.MaxTokens))
			result.Recommendations = append(result.Recommendations, fmt.Sprintf(
				"reduce chunk size to at most %d characters", embedding.MaxTokens*8/10*4))
		} else if estimatedTokens*10 >= embedding.MaxTokens*8 {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"chunk size %d (~%d tokens) is within 80%% of embedding model token limit %d",
				chunking.ChunkSize, estimatedTokens, embedding.MaxTokens))
		}
	}

	if chunking.ChunkSize > 0 && chunking.ChunkOverlap*2 > chunking.ChunkSize {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"overlap %d is more than half the chunk size %d; chunks will be highly redundant",
			chunking.ChunkOverlap, chunking.ChunkSize))
	}

	if chunking.Strategy == StrategyFixed && embedding.Dimensions > 1536 {
		result.Recommendations = append(result.Recommendations, fmt.Sprintf(
			"embedding model has %d dimensions; a structure-aware strategy (document, semantic) would make better use of it than fixed windows",
			embedding.Dimensions))
	}

	if chunking.Strategy == StrategySemantic && embedding.Dimensions > 0 && embedding.Dimensions < 768 {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"semantic chunking with a %d-dimension embedding model may not capture enough nuance to justify its cost",
			embedding.Dimensions))
	}

	return result
}
