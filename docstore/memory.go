package docstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sideletter/callprep/apperr"
)

// MemoryStore is an in-process Document Store backed by keyed maps guarded
// by a mutex. It is used by tests and is a legitimate deployment choice for
// a single-process install; it implements Store identically to the
// Postgres backend.
type MemoryStore struct {
	mu      sync.Mutex
	docs    map[string]*Document   // documentID -> doc
	chunks  map[string][]Chunk     // documentID -> chunks (ordinal order)
	byChunk map[string]Chunk       // chunkID -> chunk, for GetChunksByID
	tenant  map[string]string      // documentID -> tenantID, for tenant scoping checks
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:    make(map[string]*Document),
		chunks:  make(map[string][]Chunk),
		byChunk: make(map[string]Chunk),
		tenant:  make(map[string]string),
	}
}

func (m *MemoryStore) Create(_ context.Context, doc *Document) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if doc.DocumentID == "" {
		doc.DocumentID = uuid.NewString()
	}
	doc.Status = Uploading
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now().UTC()
	}
	cp := *doc
	m.docs[doc.DocumentID] = &cp
	m.tenant[doc.DocumentID] = doc.TenantID
	return doc.DocumentID, nil
}

func (m *MemoryStore) lookup(tenantID, documentID string) (*Document, error) {
	d, ok := m.docs[documentID]
	if !ok || d.TenantID != tenantID {
		return nil, apperr.New(apperr.NotFound, "document not found: "+documentID)
	}
	return d, nil
}

func (m *MemoryStore) Transition(_ context.Context, tenantID, documentID string, from, to Status, fields *TransitionFields) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, err := m.lookup(tenantID, documentID)
	if err != nil {
		return err
	}
	if d.Status != from {
		return apperr.New(apperr.StateConflict, "document "+documentID+" is not in expected status "+string(from))
	}
	d.Status = to
	if fields != nil {
		if fields.PageCount != nil {
			d.PageCount = fields.PageCount
		}
		if fields.ChunkCount != nil {
			d.ChunkCount = fields.ChunkCount
		}
		if fields.IndexedAt != nil {
			d.IndexedAt = fields.IndexedAt
		}
		if fields.ClaimedAt != nil {
			d.ClaimedAt = fields.ClaimedAt
		}
	}
	return nil
}

func (m *MemoryStore) SetFailed(_ context.Context, tenantID, documentID string, errKind, detail string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, err := m.lookup(tenantID, documentID)
	if err != nil {
		return err
	}
	if d.Status == Failed {
		return nil // idempotent
	}
	d.Status = Failed
	d.Error = errKind + ": " + detail
	return nil
}

func (m *MemoryStore) PutChunks(_ context.Context, tenantID, documentID string, chunks []Chunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.lookup(tenantID, documentID); err != nil {
		return err
	}

	for _, old := range m.chunks[documentID] {
		delete(m.byChunk, old.ChunkID)
	}

	cp := make([]Chunk, len(chunks))
	copy(cp, chunks)
	sort.Slice(cp, func(i, j int) bool { return cp[i].Ordinal < cp[j].Ordinal })
	m.chunks[documentID] = cp
	for _, c := range cp {
		m.byChunk[c.ChunkID] = c
	}
	return nil
}

func (m *MemoryStore) GetChunks(_ context.Context, tenantID, documentID string) ([]Chunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.lookup(tenantID, documentID); err != nil {
		return nil, err
	}
	out := make([]Chunk, len(m.chunks[documentID]))
	copy(out, m.chunks[documentID])
	return out, nil
}

func (m *MemoryStore) GetChunksByID(_ context.Context, tenantID string, chunkIDs []string) ([]Chunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Chunk, 0, len(chunkIDs))
	for _, id := range chunkIDs {
		c, ok := m.byChunk[id]
		if !ok || c.TenantID != tenantID {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *MemoryStore) List(_ context.Context, tenantID string, skip, limit int) ([]Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var all []Document
	for _, d := range m.docs {
		if d.TenantID == tenantID {
			all = append(all, *d)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UploadedAt.After(all[j].UploadedAt) })

	if skip >= len(all) {
		return nil, nil
	}
	end := min(skip+limit, len(all))
	if limit <= 0 {
		end = len(all)
	}
	return all[skip:end], nil
}

func (m *MemoryStore) Get(_ context.Context, tenantID, documentID string) (*Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, err := m.lookup(tenantID, documentID)
	if err != nil {
		return nil, err
	}
	cp := *d
	return &cp, nil
}

func (m *MemoryStore) Delete(ctx context.Context, tenantID, documentID string, onVectorDelete func(ctx context.Context, documentID string) error) error {
	m.mu.Lock()
	d, err := m.lookup(tenantID, documentID)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	for _, old := range m.chunks[documentID] {
		delete(m.byChunk, old.ChunkID)
	}
	delete(m.chunks, documentID)
	m.mu.Unlock()

	if onVectorDelete != nil {
		if err := retryVectorDelete(ctx, func(ctx context.Context) error { return onVectorDelete(ctx, documentID) }); err != nil {
			m.mu.Lock()
			d.Status = Orphan
			m.mu.Unlock()
			return apperr.Wrap(apperr.Orphan, "vector delete failed after retries, document parked for janitor retry", err)
		}
	}

	m.mu.Lock()
	delete(m.docs, documentID)
	delete(m.tenant, documentID)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) ListOrphans(_ context.Context, limit int) ([]Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Document
	for _, d := range m.docs {
		if d.Status != Orphan {
			continue
		}
		out = append(out, *d)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *MemoryStore) ResolveOrphan(_ context.Context, tenantID, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.docs[documentID]
	if !ok || d.TenantID != tenantID {
		return apperr.New(apperr.NotFound, "document not found: "+documentID)
	}
	if d.Status != Orphan {
		return apperr.New(apperr.StateConflict, "document "+documentID+" is not ORPHAN")
	}
	delete(m.docs, documentID)
	delete(m.tenant, documentID)
	return nil
}

func (m *MemoryStore) ReclaimStale(_ context.Context, olderThan time.Duration) ([]ReclaimedDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().UTC().Add(-olderThan)
	var reclaimed []ReclaimedDocument
	for id, d := range m.docs {
		if d.Status != Processing {
			continue
		}
		if d.ClaimedAt != nil && d.ClaimedAt.After(cutoff) {
			continue
		}
		now := time.Now().UTC()
		d.ClaimedAt = &now
		reclaimed = append(reclaimed, ReclaimedDocument{TenantID: d.TenantID, DocumentID: id})
	}
	return reclaimed, nil
}
