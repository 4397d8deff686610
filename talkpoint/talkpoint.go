// Package talkpoint is the Talk-Point Synthesizer (component C8): it turns
// a topic plus retrieved context into a structured seven-section briefing
// artifact, using the same invopop/jsonschema + complete_json machinery
// the LLM Gateway exposes for schema-constrained generation.
package talkpoint

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sideletter/callprep/ai/providers/llm"
	"github.com/sideletter/callprep/apperr"
	"github.com/sideletter/callprep/retrieval"
	"github.com/sideletter/callprep/session"
)

// ObjectionResponse is one entry of the Objection Handling section.
type ObjectionResponse struct {
	Objection string `json:"objection" jsonschema:"required,description=A specific objection a prospect is likely to raise"`
	Response  string `json:"response" jsonschema:"required,description=An evidence-aware response to that objection"`
}

// Sections is the seven-section schema handed to complete_json. Every
// string field is required and non-empty; ObjectionHandling must contain
// at least one entry.
type Sections struct {
	OpeningHook      string              `json:"opening_hook" jsonschema:"required,description=A one-line hook to open the call"`
	ProblemStatement string              `json:"problem_statement" jsonschema:"required"`
	SolutionOverview string              `json:"solution_overview" jsonschema:"required"`
	KeyBenefits      string              `json:"key_benefits" jsonschema:"required"`
	ProofPoints      string              `json:"proof_points" jsonschema:"required"`
	ObjectionHandling []ObjectionResponse `json:"objection_handling" jsonschema:"required,minItems=1"`
	CallToAction     string              `json:"call_to_action" jsonschema:"required"`
}

// Validate is invoked by the gateway's CompleteJSON before accepting a
// decoded response, enforcing the non-empty constraints JSON Schema alone
// cannot express for an LLM-authored document.
func (s *Sections) Validate() error {
	fields := map[string]string{
		"opening_hook":      s.OpeningHook,
		"problem_statement": s.ProblemStatement,
		"solution_overview": s.SolutionOverview,
		"key_benefits":      s.KeyBenefits,
		"proof_points":      s.ProofPoints,
		"call_to_action":    s.CallToAction,
	}
	for name, v := range fields {
		if v == "" {
			return fmt.Errorf("talk point section %q must be non-empty", name)
		}
	}
	if len(s.ObjectionHandling) == 0 {
		return fmt.Errorf("objection_handling must contain at least one entry")
	}
	for i, o := range s.ObjectionHandling {
		if o.Objection == "" || o.Response == "" {
			return fmt.Errorf("objection_handling[%d] must have non-empty objection and response", i)
		}
	}
	return nil
}

// Artifact is the persisted talk-point briefing.
type Artifact struct {
	ArtifactID  string
	TenantID    string
	Topic       string
	DealStage   session.DealStage
	Sections    Sections
	SourcesUsed int
	CreatedAt   time.Time
}

// Store persists Artifacts.
type Store interface {
	Put(ctx context.Context, a *Artifact) (string, error)
	Get(ctx context.Context, tenantID, artifactID string) (*Artifact, error)
	List(ctx context.Context, tenantID string, skip, limit int) ([]*Artifact, error)
	Delete(ctx context.Context, tenantID, artifactID string) error
}

// Request is the synthesis input.
type Request struct {
	TenantID        string
	Topic           string
	DealStage       session.DealStage
	CustomerContext string
	CompanyProfile  string
	Industry        string
}

const topK = 10

// Synthesizer is the Talk-Point Synthesizer contract.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) (*Artifact, error)
}

type synthesizer struct {
	retriever retrieval.Service
	gateway   llm.Gateway
	store     Store
}

func New(retriever retrieval.Service, gateway llm.Gateway, store Store) Synthesizer {
	return &synthesizer{retriever: retriever, gateway: gateway, store: store}
}

func (s *synthesizer) Synthesize(ctx context.Context, req Request) (*Artifact, error) {
	if req.TenantID == "" || req.Topic == "" {
		return nil, apperr.New(apperr.Validation, "talkpoint: tenant_id and topic are required")
	}

	queryText := req.Topic
	if req.DealStage != "" {
		queryText += " at deal stage " + string(req.DealStage)
	}
	if req.Industry != "" {
		queryText += " for an organization in the " + req.Industry + " industry"
	}
	if req.CompanyProfile != "" {
		queryText += ". Value proposition: " + req.CompanyProfile
	}

	results, err := s.retriever.Retrieve(ctx, retrieval.Query{TenantID: req.TenantID, Text: queryText, K: topK})
	if err != nil {
		results = nil
	}

	var sections Sections
	messages := buildPrompt(req, results)
	if err := s.gateway.CompleteJSON(ctx, messages, &sections, 0.3, 1200); err != nil {
		return nil, err
	}

	artifact := &Artifact{
		ArtifactID:  uuid.NewString(),
		TenantID:    req.TenantID,
		Topic:       req.Topic,
		DealStage:   req.DealStage,
		Sections:    sections,
		SourcesUsed: len(results),
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := s.store.Put(ctx, artifact); err != nil {
		return nil, err
	}
	return artifact, nil
}

func buildPrompt(req Request, results []retrieval.Result) []llm.Message {
	system := "You are a sales enablement assistant. Produce a call-prep briefing with exactly " +
		"seven sections: Opening Hook, Problem Statement, Solution Overview, Key Benefits, Proof " +
		"Points, Objection Handling, Call to Action. Objection Handling must list realistic " +
		"objections with evidence-aware responses. Base every claim on the provided context; do " +
		"not fabricate proof points."

	var contextBlock string
	if len(results) == 0 {
		contextBlock = "No supporting documents were available. State this limitation where relevant and avoid inventing proof points."
	} else {
		contextBlock = "Context:\n"
		for _, r := range results {
			contextBlock += fmt.Sprintf("- [%s#%d] %s\n", r.DocumentID, r.Ordinal, r.Text)
		}
	}

	user := fmt.Sprintf("Topic: %s\nCustomer context: %s\n\n%s", req.Topic, req.CustomerContext, contextBlock)

	return []llm.Message{
		{Role: llm.RoleSystem, Content: system},
		{Role: llm.RoleUser, Content: user},
	}
}
