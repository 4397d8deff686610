package ingestion

import (
	"context"
	"sync"

	"github.com/sideletter/callprep/apperr"
)

// BlobStore holds the raw uploaded bytes the Document Store only tracks by
// size. It is a separate component from docstore.Store because the byte
// size field is all the persisted Document row needs; the bytes themselves
// are write-once, read-once (by the extractor) and never otherwise queried.
type BlobStore interface {
	Put(ctx context.Context, tenantID, documentID string, data []byte) error
	Get(ctx context.Context, tenantID, documentID string) ([]byte, error)
	Delete(ctx context.Context, tenantID, documentID string) error
}

// MemoryBlobStore is an in-process BlobStore guarded by a mutex.
type MemoryBlobStore struct {
	mu   sync.Mutex
	data map[string][]byte
	tnt  map[string]string
}

func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{data: make(map[string][]byte), tnt: make(map[string]string)}
}

var _ BlobStore = (*MemoryBlobStore)(nil)

func (m *MemoryBlobStore) Put(_ context.Context, tenantID, documentID string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := append([]byte(nil), data...)
	m.data[documentID] = cp
	m.tnt[documentID] = tenantID
	return nil
}

func (m *MemoryBlobStore) Get(_ context.Context, tenantID, documentID string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.data[documentID]
	if !ok || m.tnt[documentID] != tenantID {
		return nil, apperr.New(apperr.NotFound, "blob not found: "+documentID)
	}
	return append([]byte(nil), d...), nil
}

func (m *MemoryBlobStore) Delete(_ context.Context, tenantID, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tnt[documentID] != tenantID {
		return nil
	}
	delete(m.data, documentID)
	delete(m.tnt, documentID)
	return nil
}
