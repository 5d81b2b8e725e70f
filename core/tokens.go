package core

// EstimateTokens approximates the token count of text as characters/4,
// rounded up. It is used wherever a true tokenizer is unavailable. The
// estimate is deterministic and monotonic in text length.
func EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	return (len(text) + 3) / 4
}
