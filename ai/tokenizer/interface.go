// Package tokenizer provides the text tokenization abstraction shared by the
// Text Chunker and the LLM Gateway's token accounting: both need the same
// deterministic token count so chunk-size accounting and provider accounting
// never drift.
package tokenizer

import "context"

// TextEstimator estimates the number of tokens in text content, for usage
// tracking and cost estimation purposes.
type TextEstimator interface {
	// EstimateText estimates the number of tokens in the given text.
	EstimateText(ctx context.Context, text string) (int, error)
}

// Encoder converts text into a sequence of token IDs.
type Encoder interface {
	// Encode converts the given text into a sequence of token IDs.
	Encode(ctx context.Context, text string) ([]int, error)
}

// Decoder converts a sequence of token IDs back into text.
type Decoder interface {
	// Decode converts a sequence of token IDs back into text.
	Decode(ctx context.Context, tokens []int) (string, error)
}

// Tokenizer combines both encoding and decoding capabilities. Implementations
// must round-trip: decoding the tokens produced by encoding a text should
// yield the original text (or a semantically equivalent representation).
type Tokenizer interface {
	Encoder
	Decoder
}
