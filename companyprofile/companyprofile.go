// Package companyprofile holds the optional per-tenant CompanyProfile
// entity: the name, description, value proposition, and industry used as
// synthesis context by the Talk-Point Synthesizer. It is never retrieved
// as a chunk and carries no relation to the Vector Index.
package companyprofile

import (
	"context"
	"time"

	"github.com/sideletter/callprep/apperr"
)

// Profile is the optional per-tenant company context record.
type Profile struct {
	TenantID         string
	Name             string
	Description      string
	ValueProposition string
	Industry         string
	UpdatedAt        time.Time
}

// Store persists at most one Profile per tenant.
type Store interface {
	// Put upserts the tenant's Profile.
	Put(ctx context.Context, p *Profile) error
	// Get returns apperr.NotFound if the tenant has never set a profile.
	Get(ctx context.Context, tenantID string) (*Profile, error)
}

func validate(p *Profile) error {
	if p.TenantID == "" {
		return apperr.New(apperr.Validation, "companyprofile: tenant_id is required")
	}
	if p.Name == "" {
		return apperr.New(apperr.Validation, "companyprofile: name is required")
	}
	return nil
}
