// Package docstore is the Document Store (component C4): the primary
// record of uploaded documents, their lifecycle state machine, and their
// chunk rows. It owns Document and Chunk exclusively; the Vector Index
// owns VectorEntries derived from the same chunk_id space.
package docstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Status is a Document's lifecycle state.
type Status string

const (
	Uploading  Status = "UPLOADING"
	Processing Status = "PROCESSING"
	Indexed    Status = "INDEXED"
	Failed     Status = "FAILED"
	// Orphan is the sub-state a document is parked in when its chunks
	// were deleted from the primary store but the best-effort vector
	// delete did not yet succeed; a janitor retries it.
	Orphan Status = "ORPHAN"
)

// Document is the primary record of an uploaded document.
type Document struct {
	DocumentID string
	TenantID   string
	Filename   string
	MIME       string
	ByteSize   int64
	Source     string
	Status     Status
	PageCount  *int
	ChunkCount *int
	UploadedAt time.Time
	IndexedAt  *time.Time
	ClaimedAt  *time.Time
	Error      string
}

// Chunk is a contiguous, size-bounded slice of a document's extracted text.
type Chunk struct {
	ChunkID    string
	DocumentID string
	TenantID   string
	Ordinal    int
	Text       string
	Page       *int
}

// ChunkID derives the stable chunk_id from (document_id, ordinal), per the
// spec's requirement that Documents, Chunks, and VectorEntries be
// reconciled without back-pointers. Grounded on the teacher's
// ai/media/document/id.Sha256Generator: a salted sha256 digest of the
// marshaled key fields, hex-encoded.
func ChunkID(documentID string, ordinal int) string {
	h := sha256.New()
	h.Write([]byte(documentID))
	h.Write([]byte{0})
	h.Write([]byte(fmt.Sprintf("%d", ordinal)))
	return hex.EncodeToString(h.Sum(nil))
}

// Store is the Document Store interface; both the in-memory and Postgres
// backends implement it identically so callers (the Ingestion Pipeline, the
// Retrieval Service, the API layer) are backend-agnostic.
type Store interface {
	// Create inserts doc with initial status UPLOADING and returns its
	// assigned DocumentID.
	Create(ctx context.Context, doc *Document) (string, error)

	// Transition performs a compare-and-set on status: it succeeds only if
	// the document's current status equals from, otherwise it fails with
	// apperr.StateConflict. fields, if non-nil, are merged onto the row in
	// the same atomic step.
	Transition(ctx context.Context, tenantID, documentID string, from, to Status, fields *TransitionFields) error

	// SetFailed is an idempotent terminal transition to FAILED.
	SetFailed(ctx context.Context, tenantID, documentID string, errKind, detail string) error

	// PutChunks replaces any existing chunks for documentID with chunks.
	PutChunks(ctx context.Context, tenantID, documentID string, chunks []Chunk) error

	// GetChunks returns every chunk row for documentID in ordinal order.
	GetChunks(ctx context.Context, tenantID, documentID string) ([]Chunk, error)

	// GetChunksByID batch-fetches chunk rows by chunk_id, preserving the
	// requested order and silently omitting IDs with no matching row (the
	// Retrieval Service treats this as a benign race with deletion).
	GetChunksByID(ctx context.Context, tenantID string, chunkIDs []string) ([]Chunk, error)

	List(ctx context.Context, tenantID string, skip, limit int) ([]Document, error)
	Get(ctx context.Context, tenantID, documentID string) (*Document, error)

	// Delete removes the document row and its chunks. onVectorDelete is
	// invoked with the document_id to perform the best-effort Vector Index
	// cascade; if it fails after bounded retries the document is left in
	// ORPHAN instead of being removed.
	Delete(ctx context.Context, tenantID, documentID string, onVectorDelete func(ctx context.Context, documentID string) error) error

	// ReclaimStale finds documents stuck in PROCESSING past deadline and
	// CAS-transitions them PROCESSING->PROCESSING with a fresh ClaimedAt so
	// a worker may pick them up again. Returns the reclaimed documents.
	ReclaimStale(ctx context.Context, olderThan time.Duration) ([]ReclaimedDocument, error)

	// ListOrphans returns up to limit documents parked in ORPHAN (limit<=0
	// means no cap), across every tenant, for the reconciliation janitor to
	// retry. Documents are returned with their TenantID populated so the
	// janitor needs no extra lookup.
	ListOrphans(ctx context.Context, limit int) ([]Document, error)

	// ResolveOrphan removes an ORPHAN document's row once a retried Vector
	// Index delete has finally succeeded. Fails with apperr.NotFound if the
	// document is missing, and with apperr.StateConflict if it exists but is
	// no longer ORPHAN.
	ResolveOrphan(ctx context.Context, tenantID, documentID string) error
}

// ReclaimedDocument identifies one document the janitor reclaimed, carrying
// enough to re-enqueue an ingestion task without an extra lookup.
type ReclaimedDocument struct {
	TenantID   string
	DocumentID string
}

// TransitionFields carries the optional fields a Transition call may set
// atomically alongside the status change.
type TransitionFields struct {
	PageCount  *int
	ChunkCount *int
	IndexedAt  *time.Time
	ClaimedAt  *time.Time
}
