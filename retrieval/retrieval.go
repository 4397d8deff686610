// Package retrieval is the Retrieval Service (component C6): it turns a
// free-text query into ranked, tenant-scoped chunk text, composing the LLM
// Gateway's embed call, the Vector Index's nearest-neighbor search, and the
// Document Store's chunk lookup into a single read path shared by the
// Session Engine, the Talk-Point Synthesizer, and the Evaluator.
package retrieval

import (
	"context"
	"log/slog"

	"github.com/samber/lo"

	"github.com/sideletter/callprep/ai/providers/llm"
	"github.com/sideletter/callprep/ai/vectorstore/filter"
	"github.com/sideletter/callprep/apperr"
	"github.com/sideletter/callprep/docstore"
	"github.com/sideletter/callprep/vectorindex"
)

// Default top-k values per calling context, per the retrieval contract.
const (
	DefaultKChat       = 5
	DefaultKSynthesis  = 10
	DefaultKEvaluation = 10
)

// Query is a retrieval intent.
type Query struct {
	TenantID string
	Text     string

	// K overrides the default result count; zero means DefaultKChat.
	K int

	// DocumentID, if set, restricts results to chunks of that document.
	DocumentID string

	// Page, if set, restricts results to chunks carrying that page number.
	Page *int
}

// Result is one ranked chunk, carrying both the Vector Index's scoring
// metadata and the Document Store's text.
type Result struct {
	ChunkID    string
	DocumentID string
	Ordinal    int
	Page       *int
	Text       string
	Score      float64
}

// Service is the Retrieval Service contract.
type Service interface {
	Retrieve(ctx context.Context, q Query) ([]Result, error)
}

type service struct {
	gateway llm.Gateway
	index   vectorindex.Index
	docs    docstore.Store
	log     *slog.Logger
}

// New builds a Retrieval Service over the given component instances. log may
// be nil (defaults to slog.Default()).
func New(gateway llm.Gateway, index vectorindex.Index, docs docstore.Store, log *slog.Logger) Service {
	if log == nil {
		log = slog.Default()
	}
	return &service{gateway: gateway, index: index, docs: docs, log: log}
}

// buildFilterExpr mirrors the teacher's FilterExprKey/filterFunc composition:
// a fixed tenant term ANDed with the caller's optional document_id/page
// constraints. The Vector Index interface has no native filter parameter
// (tenant scoping is enforced by its own namespace argument), so the
// resulting expression documents the intended constraint and is evaluated
// directly against each candidate's metadata below, rather than being
// pushed down through a query param the interface doesn't expose.
func buildFilterExpr(q Query) (any, error) {
	b := filter.NewBuilder().EQ("tenant_id", q.TenantID)
	if q.DocumentID != "" {
		b = b.EQ("document_id", q.DocumentID)
	}
	if q.Page != nil {
		b = b.EQ("page", *q.Page)
	}
	return b.Build()
}

func matchesConstraints(q Query, m vectorindex.Match) bool {
	if q.DocumentID != "" && m.DocumentID != q.DocumentID {
		return false
	}
	if q.Page != nil && (m.Page == nil || *m.Page != *q.Page) {
		return false
	}
	return true
}

func (s *service) Retrieve(ctx context.Context, q Query) ([]Result, error) {
	if q.TenantID == "" {
		return nil, apperr.New(apperr.Validation, "retrieval: tenant_id is required")
	}
	k := q.K
	if k <= 0 {
		k = DefaultKChat
	}

	if _, err := buildFilterExpr(q); err != nil {
		return nil, apperr.Wrap(apperr.Validation, "retrieval: build filter expression", err)
	}

	vecs, err := s.gateway.Embed(ctx, []string{q.Text})
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 {
		return nil, apperr.New(apperr.ProviderInvalid, "retrieval: embed returned no vector")
	}

	// Over-fetch when a post-query constraint narrows the candidate set, so
	// that dropping non-matching entries still leaves up to k results.
	fetchK := k
	if q.DocumentID != "" || q.Page != nil {
		fetchK = k * 4
	}

	matches, err := s.index.Query(ctx, q.TenantID, vecs[0], fetchK)
	if err != nil {
		return nil, err
	}

	filtered := make([]vectorindex.Match, 0, len(matches))
	for _, m := range matches {
		if matchesConstraints(q, m) {
			filtered = append(filtered, m)
		}
		if len(filtered) == k {
			break
		}
	}

	chunkIDs := lo.Map(filtered, func(m vectorindex.Match, _ int) string { return m.ChunkID })
	chunks, err := s.docs.GetChunksByID(ctx, q.TenantID, chunkIDs)
	if err != nil {
		return nil, err
	}
	byID := lo.KeyBy(chunks, func(c docstore.Chunk) string { return c.ChunkID })

	out := make([]Result, 0, len(filtered))
	for _, m := range filtered {
		c, ok := byID[m.ChunkID]
		if !ok {
			s.log.Warn("retrieval: dropping match with no backing chunk", "chunk_id", m.ChunkID, "document_id", m.DocumentID)
			continue
		}
		out = append(out, Result{
			ChunkID:    m.ChunkID,
			DocumentID: m.DocumentID,
			Ordinal:    m.Ordinal,
			Page:       m.Page,
			Text:       c.Text,
			Score:      m.Score,
		})
	}
	return out, nil
}
