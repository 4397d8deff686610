package evaluation

import (
	"context"
	"sync"

	"github.com/sideletter/callprep/apperr"
)

// MemoryStore is an in-process Evaluation Store guarded by a mutex.
type MemoryStore struct {
	mu          sync.Mutex
	evaluations map[string]*Evaluation // sessionID -> latest evaluation
	tenants     map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		evaluations: make(map[string]*Evaluation),
		tenants:     make(map[string]string),
	}
}

var _ Store = (*MemoryStore)(nil)

func (m *MemoryStore) Upsert(_ context.Context, e *Evaluation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *e
	m.evaluations[e.SessionID] = &cp
	m.tenants[e.SessionID] = e.TenantID
	return nil
}

func (m *MemoryStore) Get(_ context.Context, tenantID, sessionID string) (*Evaluation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.evaluations[sessionID]
	if !ok || e.TenantID != tenantID {
		return nil, apperr.New(apperr.NotFound, "evaluation not found: "+sessionID)
	}
	cp := *e
	return &cp, nil
}
