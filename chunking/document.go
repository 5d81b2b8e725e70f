package chunking

import (
	"strings"
	"unicode"

	"github.com/poiesic/ragline/core"
)

// documentChunker scans text line by line and flushes the accumulated buffer
// at structural boundaries: markdown ATX headers, short ALL-CAPS lines, and
// setext-style underlined titles. A buffer exceeding ChunkSize is flushed
// regardless of structure. Each chunk records why it ended.
type documentChunker struct {
	cfg     core.ChunkingConfig
	counter TokenCounter
}

var _ Chunker = (*documentChunker)(nil)

func (c *documentChunker) Strategy() core.Strategy {
	return core.StrategyDocument
}

func (c *documentChunker) Chunk(doc *core.Document) ([]core.Chunk, error) {
	if err := core.ValidateDocument(doc); err != nil {
		return nil, err
	}

	return assemble(doc, core.StrategyDocument, c.counter, c.pieces(doc.Content)), nil
}

func (c *documentChunker) pieces(text string) []piece {
	lines := splitLines(text)

	var pieces []piece
	buffer := ""
	bufferStart := 0
	offset := 0

	flush := func(reason string) {
		if strings.TrimSpace(buffer) != "" {
			pieces = append(pieces, piece{content: buffer, start: bufferStart, reason: reason})
		}
		buffer = ""
	}

	for i, line := range lines {
		var next string
		if i+1 < len(lines) {
			next = lines[i+1]
		}

		if buffer != "" && isHeaderLine(line, next) {
			flush(core.BoundaryHeader)
		}

		if buffer == "" {
			bufferStart = offset
		}
		buffer += line
		offset += len(line)

		if len(buffer) > c.cfg.ChunkSize {
			flush(core.BoundarySize)
		}
	}
	flush(core.BoundaryFinal)

	return pieces
}

// splitLines splits text into lines with their trailing newline kept, so
// concatenating the result reconstructs the input.
func splitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, text[start:i+1])
			start = i + 1
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

// isHeaderLine reports whether line opens a new section: a markdown ATX
// header, a short ALL-CAPS line, or a line underlined by = or - on the
// following line.
func isHeaderLine(line, next string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}

	if strings.HasPrefix(trimmed, "#") {
		return true
	}

	if isAllCapsTitle(trimmed) {
		return true
	}

	return isSetextUnderline(next)
}

// isAllCapsTitle reports whether trimmed is a short line of upper-case text.
func isAllCapsTitle(trimmed string) bool {
	if len(trimmed) > 60 {
		return false
	}

	hasLetter := false
	for _, r := range trimmed {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}

// isSetextUnderline reports whether line consists solely of = or - characters.
func isSetextUnderline(line string) bool {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < 2 {
		return false
	}
	for _, r := range trimmed {
		if r != '=' && r != '-' {
			return false
		}
	}
	return true
}
