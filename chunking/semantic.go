package chunking

import (
	"strconv"
	"strings"

	"github.com/poiesic/ragline/core"
)

// semanticChunker splits on sentence terminators and greedily packs
// sentences into chunks under ChunkSize. This is a coherence-oriented
// approximation; a production refinement would detect boundaries from
// embedding similarity gated by SemanticThreshold.
type semanticChunker struct {
	cfg     core.ChunkingConfig
	counter TokenCounter
}

var _ Chunker = (*semanticChunker)(nil)

func (c *semanticChunker) Strategy() core.Strategy {
	return core.StrategySemantic
}

func (c *semanticChunker) Chunk(doc *core.Document) ([]core.Chunk, error) {
	if err := core.ValidateDocument(doc); err != nil {
		return nil, err
	}

	pieces := packSentences(doc.Content, c.cfg.ChunkSize, "")
	return assemble(doc, core.StrategySemantic, c.counter, pieces), nil
}

// packSentences splits text into sentences and packs them greedily into
// pieces no larger than maxSize where sentence boundaries allow. Each piece
// records its sentence count; reason, when set, is applied to every piece.
func packSentences(text string, maxSize int, reason string) []piece {
	sentences := splitSentences(text)

	var pieces []piece
	buffer := ""
	count := 0

	flush := func() {
		if strings.TrimSpace(buffer) == "" {
			buffer = ""
			count = 0
			return
		}
		pieces = append(pieces, piece{
			content: buffer,
			start:   -1,
			reason:  reason,
			extra:   map[string]string{"sentences": strconv.Itoa(count)},
		})
		buffer = ""
		count = 0
	}

	for _, sentence := range sentences {
		if buffer != "" && len(buffer)+len(sentence) > maxSize {
			flush()
		}
		buffer += sentence
		count++
	}
	flush()

	return pieces
}

// splitSentences cuts text after each sentence terminator (. ! ?), keeping
// the terminator with its sentence. Concatenating the result reconstructs
// the input.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			sentences = append(sentences, text[start:i+1])
			start = i + 1
		}
	}
	if start < len(text) {
		sentences = append(sentences, text[start:])
	}
	return sentences
}
