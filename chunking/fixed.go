package chunking

import "github.com/poiesic/ragline/core"

// fixedChunker slides a window of ChunkSize characters across the text with a
// stride of ChunkSize-ChunkOverlap. O(n), exact offsets.
type fixedChunker struct {
	cfg     core.ChunkingConfig
	counter TokenCounter
}

var _ Chunker = (*fixedChunker)(nil)

func (c *fixedChunker) Strategy() core.Strategy {
	return core.StrategyFixed
}

func (c *fixedChunker) Chunk(doc *core.Document) ([]core.Chunk, error) {
	if err := core.ValidateDocument(doc); err != nil {
		return nil, err
	}

	text := doc.Content
	step := c.cfg.ChunkSize - c.cfg.ChunkOverlap

	var pieces []piece
	for start := 0; start < len(text); start += step {
		end := start + c.cfg.ChunkSize
		if end > len(text) {
			end = len(text)
		}

		pieces = append(pieces, piece{content: text[start:end], start: start})

		if end == len(text) {
			break
		}
	}

	return assemble(doc, core.StrategyFixed, c.counter, pieces), nil
}
