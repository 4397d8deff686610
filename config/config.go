// Package config loads the process-wide Config from environment variables
// once at startup. There is no global mutable singleton: callers obtain a
// *Config and pass it explicitly to component constructors.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cast"
)

// Config holds every recognized configuration option named in the external
// interfaces design.
type Config struct {
	LLMModel           string
	LLMEmbeddingModel  string
	LLMAPIKey          string
	LLMRequestDeadline time.Duration
	LLMRetryBudget     int

	ChunkerSizeTokens    int
	ChunkerOverlapTokens int

	RetrievalKChat      int
	RetrievalKSynthesis int

	IngestionWorkers int

	SessionTurnDeadline time.Duration

	DocMaxBytes int64

	VectorDim int

	QdrantURL        string
	QdrantCollection string

	PostgresDSN string

	HTTPAddr string
}

// defaults mirrors the defaults called out in the component design (§4.1,
// §4.2, §4.6, §4.7) and the external interfaces configuration table (§6).
func defaults() *Config {
	return &Config{
		LLMModel:             "gpt-4o-mini",
		LLMEmbeddingModel:    "text-embedding-3-small",
		LLMRequestDeadline:   30 * time.Second,
		LLMRetryBudget:       3,
		ChunkerSizeTokens:    1000,
		ChunkerOverlapTokens: 200,
		RetrievalKChat:       5,
		RetrievalKSynthesis:  10,
		IngestionWorkers:     4,
		SessionTurnDeadline:  30 * time.Second,
		DocMaxBytes:          25 << 20,
		VectorDim:            1536,
		QdrantCollection:     "callprep_chunks",
		HTTPAddr:             ":8080",
	}
}

// env looks up key, falling back to def when unset or empty.
func env(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

// Load builds a Config from environment variables layered over the
// defaults above, then validates it.
func Load() (*Config, error) {
	c := defaults()

	c.LLMModel = env("LLM_MODEL", c.LLMModel)
	c.LLMEmbeddingModel = env("LLM_EMBEDDING_MODEL", c.LLMEmbeddingModel)
	c.LLMAPIKey = env("LLM_API_KEY", c.LLMAPIKey)
	if v := os.Getenv("LLM_REQUEST_DEADLINE_MS"); v != "" {
		c.LLMRequestDeadline = time.Duration(cast.ToInt64(v)) * time.Millisecond
	}
	if v := os.Getenv("LLM_RETRY_BUDGET"); v != "" {
		c.LLMRetryBudget = cast.ToInt(v)
	}
	if v := os.Getenv("CHUNKER_SIZE_TOKENS"); v != "" {
		c.ChunkerSizeTokens = cast.ToInt(v)
	}
	if v := os.Getenv("CHUNKER_OVERLAP_TOKENS"); v != "" {
		c.ChunkerOverlapTokens = cast.ToInt(v)
	}
	if v := os.Getenv("RETRIEVAL_K_CHAT"); v != "" {
		c.RetrievalKChat = cast.ToInt(v)
	}
	if v := os.Getenv("RETRIEVAL_K_SYNTHESIS"); v != "" {
		c.RetrievalKSynthesis = cast.ToInt(v)
	}
	if v := os.Getenv("INGESTION_WORKERS"); v != "" {
		c.IngestionWorkers = cast.ToInt(v)
	}
	if v := os.Getenv("SESSION_TURN_DEADLINE_MS"); v != "" {
		c.SessionTurnDeadline = time.Duration(cast.ToInt64(v)) * time.Millisecond
	}
	if v := os.Getenv("DOC_MAX_BYTES"); v != "" {
		c.DocMaxBytes = cast.ToInt64(v)
	}
	if v := os.Getenv("VECTOR_DIM"); v != "" {
		c.VectorDim = cast.ToInt(v)
	}
	c.QdrantURL = env("QDRANT_URL", c.QdrantURL)
	c.QdrantCollection = env("QDRANT_COLLECTION", c.QdrantCollection)
	c.PostgresDSN = env("POSTGRES_DSN", c.PostgresDSN)
	c.HTTPAddr = env("HTTP_ADDR", c.HTTPAddr)

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks internal consistency of the options; it is run once at
// process start.
func (c *Config) Validate() error {
	if c.ChunkerOverlapTokens >= c.ChunkerSizeTokens {
		return fmt.Errorf("config: chunker overlap tokens (%d) must be less than chunk size tokens (%d)", c.ChunkerOverlapTokens, c.ChunkerSizeTokens)
	}
	if c.RetrievalKChat <= 0 || c.RetrievalKSynthesis <= 0 {
		return fmt.Errorf("config: retrieval k values must be positive")
	}
	if c.IngestionWorkers <= 0 {
		return fmt.Errorf("config: ingestion.workers must be positive")
	}
	if c.VectorDim <= 0 {
		return fmt.Errorf("config: vector.dim must be positive")
	}
	if c.LLMRetryBudget < 0 {
		return fmt.Errorf("config: llm.retry_budget must be non-negative")
	}
	return nil
}
