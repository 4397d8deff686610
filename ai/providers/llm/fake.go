package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"sync"
)

// FakeGateway is a deterministic Gateway stub for tests: no network calls,
// no randomness. Embed produces a reproducible vector per text so that
// retrieval ranking can be asserted against exactly, and Complete/
// CompleteJSON are driven by caller-registered canned responses rather
// than a real model.
type FakeGateway struct {
	Dim int

	mu        sync.Mutex
	responses []string
	jsonFn    func(messages []Message, out any) error
	calls     []Message

	// Gate, when non-nil, is closed by the test once it has observed the
	// in-flight Complete call, letting the test deterministically overlap a
	// second caller before the first returns.
	Gate chan struct{}
}

var _ Gateway = (*FakeGateway)(nil)

// NewFake builds a FakeGateway producing dim-dimensional embeddings.
func NewFake(dim int) *FakeGateway {
	return &FakeGateway{Dim: dim}
}

// CallsSoFar returns the messages observed by Complete/CompleteJSON calls so
// far, for tests that need to synchronize on an in-flight call.
func (f *FakeGateway) CallsSoFar() []Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Message(nil), f.calls...)
}

// QueueComplete registers a canned response returned by the next Complete
// call, in FIFO order. If the queue is empty, Complete echoes the last
// user message.
func (f *FakeGateway) QueueComplete(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, text)
}

// SetCompleteJSON installs a callback used to populate CompleteJSON's out
// parameter, letting tests control synthesis/evaluation output directly.
func (f *FakeGateway) SetCompleteJSON(fn func(messages []Message, out any) error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jsonFn = fn
}

// Embed produces one bag-of-words style vector per text: each token hashes
// deterministically into a dimension and accumulates a count, then the
// vector is L2-normalized. Texts sharing vocabulary land closer in cosine
// space than unrelated texts, which is the only property retrieval tests
// need from an embedding.
func (f *FakeGateway) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = f.embedOne(text)
	}
	return out, nil
}

func (f *FakeGateway) embedOne(text string) []float32 {
	dim := f.Dim
	if dim <= 0 {
		dim = 32
	}
	vec := make([]float32, dim)
	for _, tok := range tokenize(text) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		idx := int(h.Sum32()) % dim
		if idx < 0 {
			idx += dim
		}
		vec[idx]++
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec
	}
	n := float32(1.0 / sqrt(norm))
	for i := range vec {
		vec[i] *= n
	}
	return vec
}

func sqrt(x float64) float64 {
	if x == 0 {
		return 0
	}
	z := x
	for i := 0; i < 40; i++ {
		z -= (z*z - x) / (2 * z)
	}
	return z
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	sort.Strings(fields)
	return fields
}

func (f *FakeGateway) Complete(ctx context.Context, messages []Message, temperature float64, maxTokens int) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, messages...)
	gate := f.Gate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	f.mu.Lock()
	if len(f.responses) > 0 {
		resp := f.responses[0]
		f.responses = f.responses[1:]
		f.mu.Unlock()
		return resp, nil
	}
	f.mu.Unlock()

	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			return fmt.Sprintf("echo: %s", messages[i].Content), nil
		}
	}
	return "", nil
}

func (f *FakeGateway) CompleteJSON(ctx context.Context, messages []Message, out any, temperature float64, maxTokens int) error {
	f.mu.Lock()
	fn := f.jsonFn
	f.mu.Unlock()
	if fn != nil {
		return fn(messages, out)
	}
	return json.Unmarshal([]byte("{}"), out)
}
