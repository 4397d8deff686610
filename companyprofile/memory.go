package companyprofile

import (
	"context"
	"sync"
	"time"

	"github.com/sideletter/callprep/apperr"
)

// MemoryStore is an in-process, mutex-guarded CompanyProfile Store, matching
// the tenant-keyed map style used throughout the package's sibling stores.
type MemoryStore struct {
	mu       sync.Mutex
	profiles map[string]*Profile // tenantID -> profile
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]*Profile)}
}

func (m *MemoryStore) Put(_ context.Context, p *Profile) error {
	if err := validate(p); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *p
	cp.UpdatedAt = time.Now().UTC()
	m.profiles[p.TenantID] = &cp
	return nil
}

func (m *MemoryStore) Get(_ context.Context, tenantID string) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[tenantID]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "companyprofile: no profile set for tenant")
	}
	cp := *p
	return &cp, nil
}
