package tokenizer

import (
	"context"
	"testing"

	"github.com/pkoukk/tiktoken-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewTiktokenWithCL100KBase tests the convenience constructor
func TestNewTiktokenWithCL100KBase(t *testing.T) {
	t.Run("creates tiktoken with CL100K_BASE encoding", func(t *testing.T) {
		tk := NewTiktokenWithCL100KBase()

		require.NotNil(t, tk)
		assert.Equal(t, tiktoken.MODEL_CL100K_BASE, tk.encodingName)
		assert.NotNil(t, tk.encoding)
	})

	t.Run("multiple calls create independent instances", func(t *testing.T) {
		tk1 := NewTiktokenWithCL100KBase()
		tk2 := NewTiktokenWithCL100KBase()

		assert.NotSame(t, tk1, tk2)
	})
}

// TestNewTiktoken tests the main constructor
func TestNewTiktoken(t *testing.T) {
	t.Run("valid encoding name", func(t *testing.T) {
		tk, err := NewTiktoken(tiktoken.MODEL_CL100K_BASE)

		require.NoError(t, err)
		require.NotNil(t, tk)
		assert.Equal(t, tiktoken.MODEL_CL100K_BASE, tk.encodingName)
		assert.NotNil(t, tk.encoding)
	})

	t.Run("GPT-3.5 encoding", func(t *testing.T) {
		tk, err := NewTiktoken("cl100k_base")

		require.NoError(t, err)
		require.NotNil(t, tk)
		assert.Equal(t, "cl100k_base", tk.encodingName)
	})

	t.Run("invalid encoding name", func(t *testing.T) {
		tk, err := NewTiktoken("invalid_encoding")

		require.Error(t, err)
		assert.Nil(t, tk)
	})

	t.Run("empty encoding name", func(t *testing.T) {
		tk, err := NewTiktoken("")

		require.Error(t, err)
		assert.Nil(t, tk)
	})
}

// TestTiktoken_EstimateText tests text token estimation
func TestTiktoken_EstimateText(t *testing.T) {
	ctx := context.Background()
	tk := NewTiktokenWithCL100KBase()

	t.Run("simple text", func(t *testing.T) {
		count, err := tk.EstimateText(ctx, "hello world")

		require.NoError(t, err)
		assert.Greater(t, count, 0)
		assert.LessOrEqual(t, count, 10) // Should be around 2 tokens
	})

	t.Run("empty text", func(t *testing.T) {
		count, err := tk.EstimateText(ctx, "")

		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("long text", func(t *testing.T) {
		longText := "This is a long sentence that will be tokenized into multiple tokens. " +
			"It contains many words and should result in a higher token count."

		count, err := tk.EstimateText(ctx, longText)

		require.NoError(t, err)
		assert.Greater(t, count, 10)
	})

	t.Run("unicode text", func(t *testing.T) {
		count, err := tk.EstimateText(ctx, "你好世界 Hello World")

		require.NoError(t, err)
		assert.Greater(t, count, 0)
	})

	t.Run("text with emojis", func(t *testing.T) {
		count, err := tk.EstimateText(ctx, "Hello 🌍 World 🎉")

		require.NoError(t, err)
		assert.Greater(t, count, 0)
	})

	t.Run("special characters", func(t *testing.T) {
		count, err := tk.EstimateText(ctx, "!@#$%^&*()_+-=[]{}|;':\",./<>?")

		require.NoError(t, err)
		assert.Greater(t, count, 0)
	})

	t.Run("matches Encode length", func(t *testing.T) {
		text := "consistency check between EstimateText and Encode"

		count, err := tk.EstimateText(ctx, text)
		require.NoError(t, err)

		tokens, err := tk.Encode(ctx, text)
		require.NoError(t, err)

		assert.Equal(t, len(tokens), count)
	})
}

// TestTiktoken_Encode tests text encoding
func TestTiktoken_Encode(t *testing.T) {
	ctx := context.Background()
	tk := NewTiktokenWithCL100KBase()

	t.Run("simple text", func(t *testing.T) {
		tokens, err := tk.Encode(ctx, "hello world")

		require.NoError(t, err)
		assert.Greater(t, len(tokens), 0)
		assert.LessOrEqual(t, len(tokens), 10)

		for _, token := range tokens {
			assert.GreaterOrEqual(t, token, 0)
		}
	})

	t.Run("empty text", func(t *testing.T) {
		tokens, err := tk.Encode(ctx, "")

		require.NoError(t, err)
		assert.Empty(t, tokens)
	})

	t.Run("single word", func(t *testing.T) {
		tokens, err := tk.Encode(ctx, "hello")

		require.NoError(t, err)
		assert.Greater(t, len(tokens), 0)
	})

	t.Run("long text", func(t *testing.T) {
		longText := "This is a long sentence with many words that will be tokenized."

		tokens, err := tk.Encode(ctx, longText)

		require.NoError(t, err)
		assert.Greater(t, len(tokens), 5)
	})

	t.Run("unicode text", func(t *testing.T) {
		tokens, err := tk.Encode(ctx, "你好世界")

		require.NoError(t, err)
		assert.Greater(t, len(tokens), 0)
	})

	t.Run("special characters", func(t *testing.T) {
		tokens, err := tk.Encode(ctx, "!@#$%^&*()")

		require.NoError(t, err)
		assert.Greater(t, len(tokens), 0)
	})

	t.Run("emojis", func(t *testing.T) {
		tokens, err := tk.Encode(ctx, "😀🎉🌍")

		require.NoError(t, err)
		assert.Greater(t, len(tokens), 0)
	})

	t.Run("consistent encoding", func(t *testing.T) {
		text := "consistent test"

		tokens1, err1 := tk.Encode(ctx, text)
		tokens2, err2 := tk.Encode(ctx, text)

		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.Equal(t, tokens1, tokens2)
	})
}

// TestTiktoken_Decode tests token decoding
func TestTiktoken_Decode(t *testing.T) {
	ctx := context.Background()
	tk := NewTiktokenWithCL100KBase()

	t.Run("simple tokens", func(t *testing.T) {
		originalText := "hello world"
		tokens, err := tk.Encode(ctx, originalText)
		require.NoError(t, err)

		decodedText, err := tk.Decode(ctx, tokens)

		require.NoError(t, err)
		assert.Equal(t, originalText, decodedText)
	})

	t.Run("empty token slice", func(t *testing.T) {
		text, err := tk.Decode(ctx, []int{})

		require.NoError(t, err)
		assert.Empty(t, text)
	})

	t.Run("nil token slice", func(t *testing.T) {
		text, err := tk.Decode(ctx, nil)

		require.NoError(t, err)
		assert.Empty(t, text)
	})

	t.Run("round trip encoding and decoding", func(t *testing.T) {
		originalTexts := []string{
			"hello world",
			"This is a test",
			"GPT-4 is amazing",
			"Special chars: !@#$",
		}

		for _, original := range originalTexts {
			tokens, err := tk.Encode(ctx, original)
			require.NoError(t, err)

			decoded, err := tk.Decode(ctx, tokens)
			require.NoError(t, err)

			assert.Equal(t, original, decoded, "Round trip failed for: "+original)
		}
	})

	t.Run("unicode round trip", func(t *testing.T) {
		original := "你好世界 Hello"
		tokens, err := tk.Encode(ctx, original)
		require.NoError(t, err)

		decoded, err := tk.Decode(ctx, tokens)
		require.NoError(t, err)

		assert.Equal(t, original, decoded)
	})

	t.Run("emoji round trip", func(t *testing.T) {
		original := "Hello 🌍 World 🎉"
		tokens, err := tk.Encode(ctx, original)
		require.NoError(t, err)

		decoded, err := tk.Decode(ctx, tokens)
		require.NoError(t, err)

		assert.Equal(t, original, decoded)
	})
}

// TestTiktoken_InterfaceCompliance verifies interface implementations
func TestTiktoken_InterfaceCompliance(t *testing.T) {
	tk := NewTiktokenWithCL100KBase()

	t.Run("implements TextEstimator", func(t *testing.T) {
		var _ TextEstimator = tk
	})

	t.Run("implements Tokenizer", func(t *testing.T) {
		var _ Tokenizer = tk
	})

	t.Run("implements Encoder", func(t *testing.T) {
		var _ Encoder = tk
	})

	t.Run("implements Decoder", func(t *testing.T) {
		var _ Decoder = tk
	})
}

// TestTiktoken_ContextHandling tests context behavior
func TestTiktoken_ContextHandling(t *testing.T) {
	tk := NewTiktokenWithCL100KBase()

	t.Run("nil context", func(t *testing.T) {
		count, err := tk.EstimateText(nil, "test")
		require.NoError(t, err)
		assert.Greater(t, count, 0)

		tokens, err := tk.Encode(nil, "test")
		require.NoError(t, err)
		assert.Greater(t, len(tokens), 0)

		text, err := tk.Decode(nil, tokens)
		require.NoError(t, err)
		assert.NotEmpty(t, text)
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		// Context cancellation is not currently enforced, but should not cause errors
		_, err := tk.EstimateText(ctx, "test")
		assert.NoError(t, err)
	})
}

// TestTiktoken_EdgeCases tests edge cases
func TestTiktoken_EdgeCases(t *testing.T) {
	ctx := context.Background()
	tk := NewTiktokenWithCL100KBase()

	t.Run("very long text estimation", func(t *testing.T) {
		veryLongText := ""
		for i := 0; i < 100000; i++ {
			veryLongText += "a"
		}

		count, err := tk.EstimateText(ctx, veryLongText)

		require.NoError(t, err)
		assert.Greater(t, count, 1000)
	})

	t.Run("text with null bytes", func(t *testing.T) {
		text := "hello\x00world"

		count, err := tk.EstimateText(ctx, text)

		require.NoError(t, err)
		assert.Greater(t, count, 0)
	})

	t.Run("repeated encoding", func(t *testing.T) {
		text := "test"

		for i := 0; i < 100; i++ {
			tokens, err := tk.Encode(ctx, text)
			require.NoError(t, err)
			assert.Greater(t, len(tokens), 0)
		}
	})

	t.Run("large token array decoding", func(t *testing.T) {
		tokens := make([]int, 10000)
		for i := range tokens {
			tokens[i] = 100 + (i % 1000) // Valid token IDs
		}

		_, err := tk.Decode(ctx, tokens)
		require.NoError(t, err)
	})
}

// TestTiktoken_Comparison tests comparison between different encodings
func TestTiktoken_Comparison(t *testing.T) {
	ctx := context.Background()

	t.Run("different encodings both encode the same text", func(t *testing.T) {
		tk1, err := NewTiktoken("cl100k_base")
		require.NoError(t, err)

		tk2, err := NewTiktoken("o200k_base")
		require.NoError(t, err)

		text := "hello world"

		tokens1, _ := tk1.Encode(ctx, text)
		tokens2, _ := tk2.Encode(ctx, text)

		// Different encodings may produce different token sequences
		// (though they might occasionally be the same for simple text)
		assert.NotNil(t, tokens1)
		assert.NotNil(t, tokens2)
	})
}

// BenchmarkTiktoken benchmarks performance
func BenchmarkTiktoken_EstimateText(b *testing.B) {
	ctx := context.Background()
	tk := NewTiktokenWithCL100KBase()
	text := "This is a test sentence for benchmarking."

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = tk.EstimateText(ctx, text)
	}
}

func BenchmarkTiktoken_EstimateTextLong(b *testing.B) {
	ctx := context.Background()
	tk := NewTiktokenWithCL100KBase()
	text := ""
	for i := 0; i < 1000; i++ {
		text += "This is a test sentence. "
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = tk.EstimateText(ctx, text)
	}
}

func BenchmarkTiktoken_Encode(b *testing.B) {
	ctx := context.Background()
	tk := NewTiktokenWithCL100KBase()
	text := "This is a test sentence for benchmarking."

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = tk.Encode(ctx, text)
	}
}

func BenchmarkTiktoken_Decode(b *testing.B) {
	ctx := context.Background()
	tk := NewTiktokenWithCL100KBase()
	text := "This is a test sentence for benchmarking."
	tokens, _ := tk.Encode(ctx, text)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = tk.Decode(ctx, tokens)
	}
}

func BenchmarkTiktoken_RoundTrip(b *testing.B) {
	ctx := context.Background()
	tk := NewTiktokenWithCL100KBase()
	text := "This is a test sentence for benchmarking."

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tokens, _ := tk.Encode(ctx, text)
		_, _ = tk.Decode(ctx, tokens)
	}
}
