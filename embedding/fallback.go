package embedding

import (
	"hash/fnv"

	"github.com/poiesic/ragline/core"
)

// FallbackWarning is recorded on the pipeline status whenever fallback
// vectors substitute for real embeddings.
const FallbackWarning = "using fallback embeddings due to API error"

// fallbackVector creates a deterministic placeholder vector for text with
// the configured dimensionality. The same text always produces the same
// unit-length vector, so degraded ingests remain reproducible and still
// support similarity ranking.
func fallbackVector(text string, dim int) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	vector := make([]float32, dim)
	for i := 0; i < dim; i++ {
		seed = seed*1664525 + 1013904223 // LCG constants
		vector[i] = float32(seed%1000)/500.0 - 1.0
	}

	return core.NormalizeVector(vector)
}
