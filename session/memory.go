package session

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/sideletter/callprep/apperr"
)

// MemoryStore is an in-process Session Store guarded by a mutex, used by
// tests and suitable for a single-process deployment.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

var _ Store = (*MemoryStore)(nil)

func (m *MemoryStore) Create(_ context.Context, s *Session) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s.SessionID == "" {
		s.SessionID = uuid.NewString()
	}
	cp := *s
	m.sessions[s.SessionID] = &cp
	return s.SessionID, nil
}

func (m *MemoryStore) lookup(tenantID, sessionID string) (*Session, error) {
	s, ok := m.sessions[sessionID]
	if !ok || s.TenantID != tenantID {
		return nil, apperr.New(apperr.NotFound, "session not found: "+sessionID)
	}
	return s, nil
}

func (m *MemoryStore) Get(_ context.Context, tenantID, sessionID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.lookup(tenantID, sessionID)
	if err != nil {
		return nil, err
	}
	cp := *s
	cp.Transcript = append([]Turn(nil), s.Transcript...)
	return &cp, nil
}

func (m *MemoryStore) AppendTurns(_ context.Context, tenantID, sessionID string, turns ...Turn) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.lookup(tenantID, sessionID)
	if err != nil {
		return err
	}
	s.Transcript = append(s.Transcript, turns...)
	return nil
}

func (m *MemoryStore) Transition(_ context.Context, tenantID, sessionID string, from, to Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.lookup(tenantID, sessionID)
	if err != nil {
		return err
	}
	if s.Status != from {
		return apperr.New(apperr.StateConflict, "session: expected status "+string(from)+", got "+string(s.Status))
	}
	s.Status = to
	return nil
}
