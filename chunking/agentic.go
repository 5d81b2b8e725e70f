package chunking

import "github.com/poiesic/ragline/core"

// agenticChunker runs the document strategy first, then re-splits any chunk
// exceeding 80% of ChunkSize using the same sentence-greedy packing as the
// semantic strategy. Deliberately the slowest, highest-fidelity strategy.
type agenticChunker struct {
	structural documentChunker
	cfg        core.ChunkingConfig
	counter    TokenCounter
}

var _ Chunker = (*agenticChunker)(nil)

func (c *agenticChunker) Strategy() core.Strategy {
	return core.StrategyAgentic
}

func (c *agenticChunker) Chunk(doc *core.Document) ([]core.Chunk, error) {
	if err := core.ValidateDocument(doc); err != nil {
		return nil, err
	}

	resplitThreshold := c.cfg.ChunkSize * 8 / 10

	var pieces []piece
	for _, structural := range c.structural.pieces(doc.Content) {
		if len(structural.content) <= resplitThreshold {
			structural.extra = map[string]string{"refinement": "structural"}
			pieces = append(pieces, structural)
			continue
		}

		for _, resplit := range packSentences(structural.content, resplitThreshold, structural.reason) {
			resplit.extra["refinement"] = "sentence-resplit"
			pieces = append(pieces, resplit)
		}
	}

	return assemble(doc, core.StrategyAgentic, c.counter, pieces), nil
}
