package prompt

import (
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// EstimateTokens is a coarse approximation: words * 4/3. It exists for
// display only and never gates a call.
func EstimateTokens(text string) int {
	words := len(strings.Fields(text))
	return words * 4 / 3
}

// CountTokens returns the exact token count when the model has a known
// tiktoken encoding, falling back to EstimateTokens otherwise (Cortex-hosted
// models have no published encoding).
func CountTokens(model, text string) int {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return EstimateTokens(text)
	}
	return len(enc.Encode(text, nil, nil))
}
