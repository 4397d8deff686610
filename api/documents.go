package api

import (
	"context"
	"io"
	"net/http"

	"github.com/sideletter/callprep/apperr"
	"github.com/sideletter/callprep/docstore"
)

type documentView struct {
	DocumentID string  `json:"document_id"`
	Filename   string  `json:"filename"`
	MIME       string  `json:"mime"`
	Bytes      int64   `json:"bytes"`
	Status     string  `json:"status"`
	ChunkCount *int    `json:"chunk_count,omitempty"`
	PageCount  *int    `json:"page_count,omitempty"`
	UploadedAt string  `json:"uploaded_at"`
	IndexedAt  *string `json:"indexed_at,omitempty"`
	Error      string  `json:"error,omitempty"`
}

func (a *API) uploadDocument(w http.ResponseWriter, r *http.Request) {
	tenant, err := tenantID(r)
	if err != nil {
		writeError(w, a.logger(), err)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, a.logger(), apperr.Wrap(apperr.Validation, "parse multipart form", err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, a.logger(), apperr.Wrap(apperr.Validation, "missing file part", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, a.logger(), apperr.Wrap(apperr.Validation, "read uploaded file", err))
		return
	}

	mime := header.Header.Get("Content-Type")
	if mime == "" {
		mime = "application/octet-stream"
	}

	documentID, err := a.Pipeline.Enqueue(r.Context(), tenant, header.Filename, mime, data)
	if err != nil {
		writeError(w, a.logger(), err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{"document_id": documentID, "status": "processing"})
}

func (a *API) listDocuments(w http.ResponseWriter, r *http.Request) {
	tenant, err := tenantID(r)
	if err != nil {
		writeError(w, a.logger(), err)
		return
	}
	skip := parseIntDefault(r.URL.Query().Get("skip"), 0)
	limit := parseIntDefault(r.URL.Query().Get("limit"), 20)

	docs, err := a.Docs.List(r.Context(), tenant, skip, limit)
	if err != nil {
		writeError(w, a.logger(), err)
		return
	}

	views := make([]documentView, len(docs))
	for i, d := range docs {
		views[i] = documentViewOf(d)
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": views})
}

func (a *API) getDocument(w http.ResponseWriter, r *http.Request) {
	tenant, err := tenantID(r)
	if err != nil {
		writeError(w, a.logger(), err)
		return
	}
	doc, err := a.Docs.Get(r.Context(), tenant, r.PathValue("id"))
	if err != nil {
		writeError(w, a.logger(), err)
		return
	}
	writeJSON(w, http.StatusOK, documentViewOf(*doc))
}

func (a *API) deleteDocument(w http.ResponseWriter, r *http.Request) {
	tenant, err := tenantID(r)
	if err != nil {
		writeError(w, a.logger(), err)
		return
	}
	documentID := r.PathValue("id")

	err = a.Docs.Delete(r.Context(), tenant, documentID, func(ctx context.Context, docID string) error {
		_, delErr := a.Index.DeleteByDocument(ctx, tenant, docID)
		return delErr
	})
	if err != nil {
		writeError(w, a.logger(), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

func documentViewOf(d docstore.Document) documentView {
	v := documentView{
		DocumentID: d.DocumentID,
		Filename:   d.Filename,
		MIME:       d.MIME,
		Bytes:      d.ByteSize,
		Status:     string(d.Status),
		ChunkCount: d.ChunkCount,
		PageCount:  d.PageCount,
		UploadedAt: d.UploadedAt.Format(timeLayout),
		Error:      d.Error,
	}
	if d.IndexedAt != nil {
		s := d.IndexedAt.Format(timeLayout)
		v.IndexedAt = &s
	}
	return v
}
