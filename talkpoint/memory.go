package talkpoint

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/sideletter/callprep/apperr"
)

// MemoryStore is an in-process Artifact Store guarded by a mutex.
type MemoryStore struct {
	mu        sync.Mutex
	artifacts map[string]*Artifact
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{artifacts: make(map[string]*Artifact)}
}

var _ Store = (*MemoryStore)(nil)

func (m *MemoryStore) Put(_ context.Context, a *Artifact) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if a.ArtifactID == "" {
		a.ArtifactID = uuid.NewString()
	}
	cp := *a
	m.artifacts[a.ArtifactID] = &cp
	return a.ArtifactID, nil
}

func (m *MemoryStore) Get(_ context.Context, tenantID, artifactID string) (*Artifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.artifacts[artifactID]
	if !ok || a.TenantID != tenantID {
		return nil, apperr.New(apperr.NotFound, "talk point artifact not found: "+artifactID)
	}
	cp := *a
	return &cp, nil
}

func (m *MemoryStore) List(_ context.Context, tenantID string, skip, limit int) ([]*Artifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var all []*Artifact
	for _, a := range m.artifacts {
		if a.TenantID == tenantID {
			cp := *a
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	if skip >= len(all) {
		return nil, nil
	}
	end := min(skip+limit, len(all))
	if limit <= 0 {
		end = len(all)
	}
	return all[skip:end], nil
}

func (m *MemoryStore) Delete(_ context.Context, tenantID, artifactID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.artifacts[artifactID]
	if !ok || a.TenantID != tenantID {
		return nil
	}
	delete(m.artifacts, artifactID)
	return nil
}
