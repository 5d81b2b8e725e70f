package chunking

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
	"github.com/poiesic/ragline/core"
)

// TokenCounter counts tokens in text. Implementations must be deterministic.
type TokenCounter interface {
	Count(text string) int
}

// EstimateCounter approximates token counts as characters/4, rounded up.
// Used where a true tokenizer is unavailable.
type EstimateCounter struct{}

// Count returns the character-based token estimate for text.
func (EstimateCounter) Count(text string) int {
	return core.EstimateTokens(text)
}

// TikTokenCounter counts tokens with a tiktoken BPE encoding. It is exact for
// OpenAI-family models but requires the encoding tables to be available.
type TikTokenCounter struct {
	encoder *tiktoken.Tiktoken
}

var _ TokenCounter = (*TikTokenCounter)(nil)

// NewTikTokenCounter creates a counter for the given encoding name.
// An empty name selects "cl100k_base".
func NewTikTokenCounter(encoding string) (*TikTokenCounter, error) {
	if encoding == "" {
		encoding = "cl100k_base"
	}
	encoder, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to get tiktoken encoding %q: %w", encoding, err)
	}
	return &TikTokenCounter{encoder: encoder}, nil
}

// Count returns the exact token count of text under the configured encoding.
func (c *TikTokenCounter) Count(text string) int {
	return len(c.encoder.Encode(text, nil, nil))
}
