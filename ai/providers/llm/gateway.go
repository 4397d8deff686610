// Package llm is the LLM Gateway (component C1): the single place the rest
// of the system calls out to the completion/embedding provider. It wraps
// the vendor SDK client the way the teacher's ai/providers/openaiv2 and
// ai/extensions/models/openai packages wrap it — a thin Api struct holding
// the client, with retry/backoff/deadline/logging layered on top as
// independent middleware rather than baked into each call site.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"golang.org/x/sync/singleflight"

	"github.com/sideletter/callprep/apperr"
	pkgmath "github.com/sideletter/callprep/pkg/math"
)

// Role is a chat message role.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a chat-style prompt.
type Message struct {
	Role    Role
	Content string
}

// Usage carries token accounting for observability only; the spec
// explicitly scopes this out of any billing/business logic.
type Usage struct {
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
}

// Gateway is the LLM Gateway contract. Every call is stateless: nothing
// about one call influences how the next is made.
type Gateway interface {
	// Embed batches texts into a single provider call and returns vectors
	// in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Complete requests a free-text completion bounded by maxTokens.
	Complete(ctx context.Context, messages []Message, temperature float64, maxTokens int) (string, error)

	// CompleteJSON requests a JSON-mode completion and decodes it into out,
	// which must be a pointer to a struct whose type also serves as the
	// schema reflected via invopop/jsonschema.
	CompleteJSON(ctx context.Context, messages []Message, out any, temperature float64, maxTokens int) error
}

// Config configures the OpenAI-backed Gateway.
type Config struct {
	Model           string
	EmbeddingModel  string
	APIKey          string
	RequestDeadline time.Duration
	RetryBudget     int
	BaseURL         string
}

// jsonRetryBudget is the escalating-instruction retry count for
// CompleteJSON, fixed by the spec at K=2 regardless of the gateway's
// general transport retry budget.
const jsonRetryBudget = 2

// Logger is the narrow structured-logging surface the Gateway depends on,
// matching the teacher's ai/providers/middlewares/logger.Logger shape.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// OpenAIGateway is the production Gateway backed by an *openai.Client.
type OpenAIGateway struct {
	client *openai.Client
	cfg    Config
	log    Logger

	// embedGroup coalesces concurrent Embed calls that request the exact
	// same batch of texts (e.g. two retrieval callers racing on an
	// identical query) into a single provider round trip, the way the
	// teacher's ai/client request layer collapses duplicate in-flight
	// calls.
	embedGroup singleflight.Group
}

var _ Gateway = (*OpenAIGateway)(nil)

// New builds an OpenAIGateway. log may be nil, in which case logging is a
// no-op (callers normally pass a slog-backed Logger; see cmd/server).
func New(cfg Config, log Logger) *OpenAIGateway {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := openai.NewClient(opts...)
	if cfg.RetryBudget <= 0 {
		cfg.RetryBudget = 3
	}
	if cfg.RequestDeadline <= 0 {
		cfg.RequestDeadline = 30 * time.Second
	}
	return &OpenAIGateway{client: &client, cfg: cfg, log: log}
}

func (g *OpenAIGateway) logf(level string, msg string, args ...any) {
	if g.log == nil {
		return
	}
	switch level {
	case "warn":
		g.log.Warn(msg, args...)
	case "error":
		g.log.Error(msg, args...)
	default:
		g.log.Debug(msg, args...)
	}
}

func (g *OpenAIGateway) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	key := strings.Join(texts, "\x1f")
	v, err, _ := g.embedGroup.Do(key, func() (any, error) {
		return g.embedUncached(ctx, texts)
	})
	if err != nil {
		return nil, err
	}
	return v.([][]float32), nil
}

func (g *OpenAIGateway) embedUncached(ctx context.Context, texts []string) ([][]float32, error) {
	var out [][]float32
	err := g.withRetry(ctx, "embed", func(ctx context.Context) error {
		resp, err := g.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
			Model: openai.EmbeddingModel(g.cfg.EmbeddingModel),
			Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		})
		if err != nil {
			return err
		}
		if len(resp.Data) != len(texts) {
			return apperr.New(apperr.ProviderInvalid, fmt.Sprintf("embed: expected %d vectors, got %d", len(texts), len(resp.Data)))
		}
		byIndex := make([][]float32, len(texts))
		for _, d := range resp.Data {
			vec := pkgmath.ConvertSlice[float64, float32](d.Embedding)
			if d.Index < 0 || int(d.Index) >= len(byIndex) {
				return apperr.New(apperr.ProviderInvalid, "embed: response index out of range")
			}
			byIndex[d.Index] = vec
		}
		out = byIndex
		g.logf("debug", "llm gateway embed", "count", len(texts), "prompt_tokens", resp.Usage.PromptTokens)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (g *OpenAIGateway) Complete(ctx context.Context, messages []Message, temperature float64, maxTokens int) (string, error) {
	var text string
	err := g.withRetry(ctx, "complete", func(ctx context.Context) error {
		resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model:       openai.ChatModel(g.cfg.Model),
			Messages:    toAPIMessages(messages),
			Temperature: openai.Float(temperature),
			MaxTokens:   openai.Int(int64(maxTokens)),
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return apperr.New(apperr.ProviderInvalid, "complete: no choices returned")
		}
		text = resp.Choices[0].Message.Content
		g.logf("debug", "llm gateway complete", "completion_tokens", resp.Usage.CompletionTokens)
		return nil
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

func (g *OpenAIGateway) CompleteJSON(ctx context.Context, messages []Message, out any, temperature float64, maxTokens int) error {
	schemaJSON, err := reflectSchema(out)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "reflect json schema", err)
	}

	prompt := append([]Message(nil), messages...)
	var lastErr error
	for attempt := 0; attempt <= jsonRetryBudget; attempt++ {
		if attempt > 0 {
			prompt = append(prompt, Message{
				Role: RoleSystem,
				Content: fmt.Sprintf(
					"Your previous response was not valid JSON matching the required schema: %v. "+
						"You MUST return valid JSON matching this schema exactly:\n%s", lastErr, schemaJSON),
			})
		}

		var raw string
		err := g.withRetry(ctx, "complete_json", func(ctx context.Context) error {
			resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
				Model:       openai.ChatModel(g.cfg.Model),
				Messages:    toAPIMessages(prompt),
				Temperature: openai.Float(temperature),
				MaxTokens:   openai.Int(int64(maxTokens)),
				ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
					OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
				},
			})
			if err != nil {
				return err
			}
			if len(resp.Choices) == 0 {
				return apperr.New(apperr.ProviderInvalid, "complete_json: no choices returned")
			}
			raw = resp.Choices[0].Message.Content
			return nil
		})
		if err != nil {
			if apperr.Is(err, apperr.ProviderUnavailable) {
				return err
			}
			lastErr = err
			continue
		}

		if err := json.Unmarshal([]byte(raw), out); err != nil {
			lastErr = fmt.Errorf("decode json: %w", err)
			g.logf("warn", "llm gateway complete_json decode failed", "attempt", attempt, "err", lastErr.Error())
			continue
		}
		if v, ok := out.(interface{ Validate() error }); ok {
			if err := v.Validate(); err != nil {
				lastErr = fmt.Errorf("schema validation: %w", err)
				g.logf("warn", "llm gateway complete_json validation failed", "attempt", attempt, "err", lastErr.Error())
				continue
			}
		}
		return nil
	}
	return apperr.Wrap(apperr.ProviderInvalid, "complete_json: exhausted retries", lastErr)
}

// withRetry wraps fn with the shared exponential-backoff-with-jitter retry
// policy, enforcing the per-call deadline and classifying the terminal
// error as PROVIDER_UNAVAILABLE (transport) or leaving schema/decoding
// errors as already-tagged PROVIDER_INVALID.
func (g *OpenAIGateway) withRetry(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	cctx, cancel := context.WithTimeout(ctx, g.cfg.RequestDeadline)
	defer cancel()

	var lastErr error
	for attempt := 0; attempt <= g.cfg.RetryBudget; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * 200 * time.Millisecond
			jitter := time.Duration(rand.Int64N(int64(backoff) / 2+1))
			select {
			case <-cctx.Done():
				return apperr.Wrap(apperr.ProviderUnavailable, op+": deadline exceeded during backoff", cctx.Err())
			case <-time.After(backoff + jitter):
			}
		}

		err := fn(cctx)
		if err == nil {
			return nil
		}
		var appErr *apperr.Error
		if errors.As(err, &appErr) && appErr.Kind == apperr.ProviderInvalid {
			return err
		}
		lastErr = err
		g.logf("warn", "llm gateway "+op+" attempt failed", "attempt", attempt, "err", err.Error())
	}
	return apperr.Wrap(apperr.ProviderUnavailable, op+": retries exhausted", lastErr)
}

func toAPIMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

func reflectSchema(v any) (string, error) {
	r := &jsonschema.Reflector{DoNotReference: true, ExpandedStruct: true}
	schema := r.Reflect(v)
	schema.Version = ""
	data, err := schema.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(data), nil
}
