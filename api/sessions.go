package api

import (
	"encoding/json"
	"net/http"

	"github.com/sideletter/callprep/apperr"
	"github.com/sideletter/callprep/session"
)

type createSessionRequest struct {
	PreparationType session.PreparationType `json:"preparation_type"`
	ContextPayload  struct {
		CustomerName    string            `json:"customer_name"`
		CustomerPersona string            `json:"customer_persona"`
		DealStage       session.DealStage `json:"deal_stage"`
		CompanyProfile  string            `json:"company_profile"`
		CustomerContext string            `json:"customer_context"`
	} `json:"context_payload"`
}

func (a *API) createSession(w http.ResponseWriter, r *http.Request) {
	tenant, err := tenantID(r)
	if err != nil {
		writeError(w, a.logger(), err)
		return
	}
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, a.logger(), apperr.Wrap(apperr.Validation, "decode request body", err))
		return
	}

	sessionID, err := a.Sessions.Create(r.Context(), tenant, req.PreparationType, session.ContextPayload{
		CustomerName:    req.ContextPayload.CustomerName,
		CustomerPersona: req.ContextPayload.CustomerPersona,
		DealStage:       req.ContextPayload.DealStage,
		CompanyProfile:  req.ContextPayload.CompanyProfile,
		CustomerContext: req.ContextPayload.CustomerContext,
	})
	if err != nil {
		writeError(w, a.logger(), err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"session_id": sessionID, "status": "in_progress"})
}

func (a *API) getSession(w http.ResponseWriter, r *http.Request) {
	// The Session Engine contract has no read-only Get; sessions are read
	// through the same Store the Engine wraps. Callers wire a session.Store
	// implementation directly for this handler via API.SessionStore.
	tenant, err := tenantID(r)
	if err != nil {
		writeError(w, a.logger(), err)
		return
	}
	if a.SessionStore == nil {
		writeError(w, a.logger(), apperr.New(apperr.Internal, "session store not wired"))
		return
	}
	s, err := a.SessionStore.Get(r.Context(), tenant, r.PathValue("id"))
	if err != nil {
		writeError(w, a.logger(), err)
		return
	}
	writeJSON(w, http.StatusOK, sessionViewOf(s))
}

type messageRequest struct {
	Message string `json:"message"`
}

func (a *API) postMessage(w http.ResponseWriter, r *http.Request) {
	tenant, err := tenantID(r)
	if err != nil {
		writeError(w, a.logger(), err)
		return
	}
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, a.logger(), apperr.Wrap(apperr.Validation, "decode request body", err))
		return
	}

	result, err := a.Sessions.Turn(r.Context(), tenant, r.PathValue("id"), req.Message)
	if err != nil {
		writeError(w, a.logger(), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"assistant_text":      result.AssistantText,
		"turn_index":          result.TurnIndex,
		"retrieved_chunk_ids": result.RetrievedChunkIDs,
	})
}

func (a *API) completeSession(w http.ResponseWriter, r *http.Request) {
	tenant, err := tenantID(r)
	if err != nil {
		writeError(w, a.logger(), err)
		return
	}
	if err := a.Sessions.Complete(r.Context(), tenant, r.PathValue("id")); err != nil {
		writeError(w, a.logger(), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "completed"})
}

func (a *API) archiveSession(w http.ResponseWriter, r *http.Request) {
	tenant, err := tenantID(r)
	if err != nil {
		writeError(w, a.logger(), err)
		return
	}
	if err := a.Sessions.Archive(r.Context(), tenant, r.PathValue("id")); err != nil {
		writeError(w, a.logger(), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "archived"})
}

func (a *API) evaluateSession(w http.ResponseWriter, r *http.Request) {
	tenant, err := tenantID(r)
	if err != nil {
		writeError(w, a.logger(), err)
		return
	}
	eval, err := a.Evaluator.Evaluate(r.Context(), tenant, r.PathValue("id"))
	if err != nil {
		writeError(w, a.logger(), err)
		return
	}
	writeJSON(w, http.StatusOK, eval)
}

func sessionViewOf(s *session.Session) map[string]any {
	transcript := make([]map[string]any, len(s.Transcript))
	for i, t := range s.Transcript {
		transcript[i] = map[string]any{
			"role":                t.Role,
			"text":                t.Text,
			"timestamp":           t.Timestamp.Format(timeLayout),
			"retrieved_chunk_ids": t.RetrievedChunkIDs,
		}
	}
	return map[string]any{
		"session_id":       s.SessionID,
		"preparation_type": s.PreparationType,
		"status":           s.Status,
		"transcript":       transcript,
	}
}
