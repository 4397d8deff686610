package api

import (
	"encoding/json"
	"net/http"

	"github.com/sideletter/callprep/apperr"
	"github.com/sideletter/callprep/session"
	"github.com/sideletter/callprep/talkpoint"
)

// companyProfileContext fetches the tenant's optional CompanyProfile for use
// as synthesis context (§3's "Used as context for synthesis; never
// retrieved as a chunk"). A tenant with no profile set is not an error —
// synthesis simply proceeds without the extra context.
func (a *API) companyProfileContext(r *http.Request, tenant string) (valueProp, industry string) {
	if a.CompanyProfiles == nil {
		return "", ""
	}
	p, err := a.CompanyProfiles.Get(r.Context(), tenant)
	if err != nil {
		return "", ""
	}
	return p.ValueProposition, p.Industry
}

type generateTalkPointRequest struct {
	Topic           string            `json:"topic"`
	DealStage       session.DealStage `json:"deal_stage"`
	CustomerContext string            `json:"customer_context"`
}

func (a *API) generateTalkPoint(w http.ResponseWriter, r *http.Request) {
	tenant, err := tenantID(r)
	if err != nil {
		writeError(w, a.logger(), err)
		return
	}
	var req generateTalkPointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, a.logger(), apperr.Wrap(apperr.Validation, "decode request body", err))
		return
	}

	valueProp, industry := a.companyProfileContext(r, tenant)
	artifact, err := a.TalkPoints.Synthesize(r.Context(), talkpoint.Request{
		TenantID:        tenant,
		Topic:           req.Topic,
		DealStage:       req.DealStage,
		CustomerContext: req.CustomerContext,
		CompanyProfile:  valueProp,
		Industry:        industry,
	})
	if err != nil {
		writeError(w, a.logger(), err)
		return
	}
	writeJSON(w, http.StatusOK, artifact)
}

func (a *API) getTalkPoint(w http.ResponseWriter, r *http.Request) {
	tenant, err := tenantID(r)
	if err != nil {
		writeError(w, a.logger(), err)
		return
	}
	artifact, err := a.TPStore.Get(r.Context(), tenant, r.PathValue("id"))
	if err != nil {
		writeError(w, a.logger(), err)
		return
	}
	writeJSON(w, http.StatusOK, artifact)
}

func (a *API) listTalkPoints(w http.ResponseWriter, r *http.Request) {
	tenant, err := tenantID(r)
	if err != nil {
		writeError(w, a.logger(), err)
		return
	}
	skip := parseIntDefault(r.URL.Query().Get("skip"), 0)
	limit := parseIntDefault(r.URL.Query().Get("limit"), 20)

	artifacts, err := a.TPStore.List(r.Context(), tenant, skip, limit)
	if err != nil {
		writeError(w, a.logger(), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"talk_points": artifacts})
}

func (a *API) deleteTalkPoint(w http.ResponseWriter, r *http.Request) {
	tenant, err := tenantID(r)
	if err != nil {
		writeError(w, a.logger(), err)
		return
	}
	if err := a.TPStore.Delete(r.Context(), tenant, r.PathValue("id")); err != nil {
		writeError(w, a.logger(), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}
