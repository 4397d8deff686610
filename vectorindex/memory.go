package vectorindex

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/samber/lo"
)

// MemoryIndex is an in-process Index backed by a tenant-keyed map of
// entries, scored by brute-force cosine similarity on Query. It is the
// reference implementation and the one exercised by unit tests; Qdrant is
// the production backend for any corpus beyond a few thousand chunks.
type MemoryIndex struct {
	mu      sync.Mutex
	tenants map[string]map[string]Entry // tenantID -> chunkID -> entry
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{tenants: make(map[string]map[string]Entry)}
}

func (m *MemoryIndex) Insert(_ context.Context, tenantID string, entries []Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	bucket, ok := m.tenants[tenantID]
	if !ok {
		bucket = make(map[string]Entry, len(entries))
		m.tenants[tenantID] = bucket
	}
	for _, e := range entries {
		e.TenantID = tenantID
		bucket[e.ChunkID] = e
	}
	return nil
}

func (m *MemoryIndex) DeleteByDocument(_ context.Context, tenantID, documentID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	bucket, ok := m.tenants[tenantID]
	if !ok {
		return 0, nil
	}
	n := 0
	for id, e := range bucket {
		if e.DocumentID == documentID {
			delete(bucket, id)
			n++
		}
	}
	return n, nil
}

func (m *MemoryIndex) Query(_ context.Context, tenantID string, embedding []float32, k int) ([]Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	bucket := m.tenants[tenantID]
	matches := lo.MapToSlice(bucket, func(_ string, e Entry) Match {
		return Match{
			ChunkID:    e.ChunkID,
			DocumentID: e.DocumentID,
			Ordinal:    e.Ordinal,
			Page:       e.Page,
			Score:      cosine(embedding, e.Embedding),
		}
	})

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		if matches[i].Ordinal != matches[j].Ordinal {
			return matches[i].Ordinal < matches[j].Ordinal
		}
		return matches[i].DocumentID < matches[j].DocumentID
	})

	if k > 0 && len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

func (m *MemoryIndex) Count(_ context.Context, tenantID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tenants[tenantID]), nil
}

func (m *MemoryIndex) Reset(_ context.Context, tenantID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tenants, tenantID)
	return nil
}

func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
