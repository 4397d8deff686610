package api

import (
	"encoding/json"
	"net/http"

	"github.com/sideletter/callprep/apperr"
	"github.com/sideletter/callprep/companyprofile"
)

type companyProfileRequest struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	ValueProposition string `json:"value_proposition"`
	Industry         string `json:"industry"`
}

func companyProfileView(p *companyprofile.Profile) map[string]any {
	return map[string]any{
		"name":              p.Name,
		"description":       p.Description,
		"value_proposition": p.ValueProposition,
		"industry":          p.Industry,
		"updated_at":        p.UpdatedAt.Format(timeLayout),
	}
}

func (a *API) getCompanyProfile(w http.ResponseWriter, r *http.Request) {
	tenant, err := tenantID(r)
	if err != nil {
		writeError(w, a.logger(), err)
		return
	}
	p, err := a.CompanyProfiles.Get(r.Context(), tenant)
	if err != nil {
		writeError(w, a.logger(), err)
		return
	}
	writeJSON(w, http.StatusOK, companyProfileView(p))
}

func (a *API) putCompanyProfile(w http.ResponseWriter, r *http.Request) {
	tenant, err := tenantID(r)
	if err != nil {
		writeError(w, a.logger(), err)
		return
	}
	var req companyProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, a.logger(), apperr.Wrap(apperr.Validation, "decode request body", err))
		return
	}
	p := &companyprofile.Profile{
		TenantID:         tenant,
		Name:             req.Name,
		Description:      req.Description,
		ValueProposition: req.ValueProposition,
		Industry:         req.Industry,
	}
	if err := a.CompanyProfiles.Put(r.Context(), p); err != nil {
		writeError(w, a.logger(), err)
		return
	}
	writeJSON(w, http.StatusOK, companyProfileView(p))
}
