package chunking

import (
	"strings"

	"github.com/poiesic/ragline/core"
)

// recursiveChunker splits on an ordered separator list, descending to the
// next separator only when the current one cannot split a segment. Parts are
// packed into a running buffer up to ChunkSize; each flushed buffer seeds the
// next with its last ChunkOverlap characters for continuity.
type recursiveChunker struct {
	cfg        core.ChunkingConfig
	separators []string
	counter    TokenCounter
}

var _ Chunker = (*recursiveChunker)(nil)

func (c *recursiveChunker) Strategy() core.Strategy {
	return core.StrategyRecursive
}

func (c *recursiveChunker) Chunk(doc *core.Document) ([]core.Chunk, error) {
	if err := core.ValidateDocument(doc); err != nil {
		return nil, err
	}

	parts := c.splitParts(doc.Content, c.separators)

	var pieces []piece
	buffer := ""
	for _, part := range parts {
		if buffer != "" && len(buffer)+len(part) > c.cfg.ChunkSize {
			pieces = append(pieces, piece{content: buffer, start: -1})
			if c.cfg.ChunkOverlap > 0 && len(buffer) > c.cfg.ChunkOverlap {
				buffer = buffer[len(buffer)-c.cfg.ChunkOverlap:]
			} else {
				buffer = ""
			}
		}
		buffer += part
	}
	if strings.TrimSpace(buffer) != "" {
		pieces = append(pieces, piece{content: buffer, start: -1})
	}

	return assemble(doc, core.StrategyRecursive, c.counter, pieces), nil
}

// splitParts breaks text into parts no larger than ChunkSize where possible.
// Separators are kept attached to the preceding part so that concatenating
// all parts reconstructs the input. A separator is never retried on a segment
// it already failed to split, so the descent always terminates.
func (c *recursiveChunker) splitParts(text string, separators []string) []string {
	if len(text) <= c.cfg.ChunkSize {
		return []string{text}
	}
	if len(separators) == 0 {
		return c.hardSplit(text)
	}

	sep := separators[0]
	split := strings.SplitAfter(text, sep)
	if len(split) == 1 {
		// Separator absent; descend to the next one.
		return c.splitParts(text, separators[1:])
	}

	var parts []string
	for _, segment := range split {
		if segment == "" {
			continue
		}
		if len(segment) > c.cfg.ChunkSize {
			parts = append(parts, c.splitParts(segment, separators[1:])...)
		} else {
			parts = append(parts, segment)
		}
	}
	return parts
}

// hardSplit slices text into stride-sized pieces once every separator has
// been exhausted. The stride leaves room for the continuity overlap so packed
// chunks stay within ChunkSize.
func (c *recursiveChunker) hardSplit(text string) []string {
	step := c.cfg.ChunkSize - c.cfg.ChunkOverlap
	if step <= 0 {
		step = c.cfg.ChunkSize
	}

	var parts []string
	for start := 0; start < len(text); start += step {
		end := start + step
		if end > len(text) {
			end = len(text)
		}
		parts = append(parts, text[start:end])
	}
	return parts
}
