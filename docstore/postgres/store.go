// Package postgres is the production Document Store backend: a
// pgx-driven database/sql connection with schema migrations applied at
// startup via golang-migrate, grounded on the pack's tarsy repository's
// pkg/database.NewClient bootstrap (connection pooling + embedded
// migrations run automatically on startup).
package postgres

import (
	"context"
	stdsql "database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/google/uuid"

	"github.com/sideletter/callprep/apperr"
	"github.com/sideletter/callprep/docstore"
)

//go:embed migrations
var migrationsFS embed.FS

// Store is the Postgres-backed docstore.Store implementation.
type Store struct {
	db *stdsql.DB
}

// Open connects to dsn, applies pending migrations, and returns a ready
// Store. Callers should defer Close.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := stdsql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("docstore/postgres: open: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("docstore/postgres: ping: %w", err)
	}

	if err := migrateUp(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("docstore/postgres: migrate: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func migrateUp(db *stdsql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return err
	}
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func (s *Store) Create(ctx context.Context, doc *docstore.Document) (string, error) {
	if doc.DocumentID == "" {
		doc.DocumentID = uuid.NewString()
	}
	doc.Status = docstore.Uploading
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (document_id, tenant_id, filename, mime, byte_size, source, status, uploaded_at, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, '')`,
		doc.DocumentID, doc.TenantID, doc.Filename, doc.MIME, doc.ByteSize, doc.Source, doc.Status, doc.UploadedAt)
	if err != nil {
		return "", fmt.Errorf("docstore/postgres: create: %w", err)
	}
	return doc.DocumentID, nil
}

func (s *Store) Transition(ctx context.Context, tenantID, documentID string, from, to docstore.Status, fields *docstore.TransitionFields) error {
	set := "status = $1"
	args := []any{to}
	n := 2
	if fields != nil {
		if fields.PageCount != nil {
			set += fmt.Sprintf(", page_count = $%d", n)
			args = append(args, *fields.PageCount)
			n++
		}
		if fields.ChunkCount != nil {
			set += fmt.Sprintf(", chunk_count = $%d", n)
			args = append(args, *fields.ChunkCount)
			n++
		}
		if fields.IndexedAt != nil {
			set += fmt.Sprintf(", indexed_at = $%d", n)
			args = append(args, *fields.IndexedAt)
			n++
		}
		if fields.ClaimedAt != nil {
			set += fmt.Sprintf(", claimed_at = $%d", n)
			args = append(args, *fields.ClaimedAt)
			n++
		}
	}
	args = append(args, tenantID, documentID, from)
	query := fmt.Sprintf(`UPDATE documents SET %s WHERE tenant_id = $%d AND document_id = $%d AND status = $%d`, set, n, n+1, n+2)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("docstore/postgres: transition: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		if _, err := s.Get(ctx, tenantID, documentID); err != nil {
			return err
		}
		return apperr.New(apperr.StateConflict, "document "+documentID+" is not in expected status "+string(from))
	}
	return nil
}

func (s *Store) SetFailed(ctx context.Context, tenantID, documentID string, errKind, detail string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE documents SET status = $1, error = $2
		WHERE tenant_id = $3 AND document_id = $4 AND status <> $1`,
		docstore.Failed, errKind+": "+detail, tenantID, documentID)
	if err != nil {
		return fmt.Errorf("docstore/postgres: set_failed: %w", err)
	}
	return nil
}

func (s *Store) PutChunks(ctx context.Context, tenantID, documentID string, chunks []docstore.Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks WHERE document_id = $1`, documentID); err != nil {
		return err
	}
	for _, c := range chunks {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO chunks (chunk_id, document_id, tenant_id, ordinal, text, page)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (chunk_id) DO UPDATE SET text = EXCLUDED.text, page = EXCLUDED.page, ordinal = EXCLUDED.ordinal`,
			c.ChunkID, documentID, tenantID, c.Ordinal, c.Text, c.Page); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) GetChunks(ctx context.Context, tenantID, documentID string) ([]docstore.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT chunk_id, document_id, tenant_id, ordinal, text, page FROM chunks
		WHERE tenant_id = $1 AND document_id = $2 ORDER BY ordinal ASC`, tenantID, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanChunks(rows)
}

func (s *Store) GetChunksByID(ctx context.Context, tenantID string, chunkIDs []string) ([]docstore.Chunk, error) {
	if len(chunkIDs) == 0 {
		return nil, nil
	}
	byID := make(map[string]docstore.Chunk, len(chunkIDs))
	rows, err := s.db.QueryContext(ctx, `
		SELECT chunk_id, document_id, tenant_id, ordinal, text, page FROM chunks
		WHERE tenant_id = $1 AND chunk_id = ANY($2)`, tenantID, chunkIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	found, err := scanChunks(rows)
	if err != nil {
		return nil, err
	}
	for _, c := range found {
		byID[c.ChunkID] = c
	}
	out := make([]docstore.Chunk, 0, len(chunkIDs))
	for _, id := range chunkIDs {
		if c, ok := byID[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func scanChunks(rows *stdsql.Rows) ([]docstore.Chunk, error) {
	var out []docstore.Chunk
	for rows.Next() {
		var c docstore.Chunk
		if err := rows.Scan(&c.ChunkID, &c.DocumentID, &c.TenantID, &c.Ordinal, &c.Text, &c.Page); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) List(ctx context.Context, tenantID string, skip, limit int) ([]docstore.Document, error) {
	if limit <= 0 {
		limit = 1 << 30
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT document_id, tenant_id, filename, mime, byte_size, source, status, page_count, chunk_count, uploaded_at, indexed_at, claimed_at, error
		FROM documents WHERE tenant_id = $1 ORDER BY uploaded_at DESC OFFSET $2 LIMIT $3`, tenantID, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []docstore.Document
	for rows.Next() {
		var d docstore.Document
		if err := rows.Scan(&d.DocumentID, &d.TenantID, &d.Filename, &d.MIME, &d.ByteSize, &d.Source, &d.Status,
			&d.PageCount, &d.ChunkCount, &d.UploadedAt, &d.IndexedAt, &d.ClaimedAt, &d.Error); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, tenantID, documentID string) (*docstore.Document, error) {
	var d docstore.Document
	err := s.db.QueryRowContext(ctx, `
		SELECT document_id, tenant_id, filename, mime, byte_size, source, status, page_count, chunk_count, uploaded_at, indexed_at, claimed_at, error
		FROM documents WHERE tenant_id = $1 AND document_id = $2`, tenantID, documentID).
		Scan(&d.DocumentID, &d.TenantID, &d.Filename, &d.MIME, &d.ByteSize, &d.Source, &d.Status,
			&d.PageCount, &d.ChunkCount, &d.UploadedAt, &d.IndexedAt, &d.ClaimedAt, &d.Error)
	if errors.Is(err, stdsql.ErrNoRows) {
		return nil, apperr.New(apperr.NotFound, "document not found: "+documentID)
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Store) Delete(ctx context.Context, tenantID, documentID string, onVectorDelete func(ctx context.Context, documentID string) error) error {
	if _, err := s.Get(ctx, tenantID, documentID); err != nil {
		return err
	}

	if onVectorDelete != nil {
		retryErr := retryVectorDelete(ctx, func(ctx context.Context) error { return onVectorDelete(ctx, documentID) })
		if retryErr != nil {
			_, _ = s.db.ExecContext(ctx, `UPDATE documents SET status = $1 WHERE tenant_id = $2 AND document_id = $3`,
				docstore.Orphan, tenantID, documentID)
			return apperr.Wrap(apperr.Orphan, "vector delete failed after retries, document parked for janitor retry", retryErr)
		}
	}

	_, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE tenant_id = $1 AND document_id = $2`, tenantID, documentID)
	return err
}

func (s *Store) ListOrphans(ctx context.Context, limit int) ([]docstore.Document, error) {
	query := `SELECT document_id, tenant_id, filename, mime, byte_size, source, status, page_count, chunk_count, uploaded_at, indexed_at, claimed_at, error
		FROM documents WHERE status = $1`
	args := []any{docstore.Orphan}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []docstore.Document
	for rows.Next() {
		var d docstore.Document
		if err := rows.Scan(&d.DocumentID, &d.TenantID, &d.Filename, &d.MIME, &d.ByteSize, &d.Source, &d.Status,
			&d.PageCount, &d.ChunkCount, &d.UploadedAt, &d.IndexedAt, &d.ClaimedAt, &d.Error); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) ResolveOrphan(ctx context.Context, tenantID, documentID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE tenant_id = $1 AND document_id = $2 AND status = $3`,
		tenantID, documentID, docstore.Orphan)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := s.Get(ctx, tenantID, documentID); err != nil {
			return err
		}
		return apperr.New(apperr.StateConflict, "document "+documentID+" is not ORPHAN")
	}
	return nil
}

func (s *Store) ReclaimStale(ctx context.Context, olderThan time.Duration) ([]docstore.ReclaimedDocument, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	rows, err := s.db.QueryContext(ctx, `
		UPDATE documents SET claimed_at = $1
		WHERE status = $2 AND (claimed_at IS NULL OR claimed_at <= $3)
		RETURNING document_id, tenant_id`, time.Now().UTC(), docstore.Processing, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reclaimed []docstore.ReclaimedDocument
	for rows.Next() {
		var rd docstore.ReclaimedDocument
		if err := rows.Scan(&rd.DocumentID, &rd.TenantID); err != nil {
			return nil, err
		}
		reclaimed = append(reclaimed, rd)
	}
	return reclaimed, rows.Err()
}
