// Package evaluation is the Evaluator (component C9): it scores a
// COMPLETED session's transcript against a fixed rubric, reusing the same
// invopop/jsonschema + complete_json structured-generation path as the
// Talk-Point Synthesizer.
package evaluation

import (
	"context"
	"fmt"
	"time"

	"github.com/sideletter/callprep/ai/providers/llm"
	"github.com/sideletter/callprep/apperr"
	"github.com/sideletter/callprep/session"
)

// Qualitative is one of the fixed SALES-only flag levels.
type Qualitative string

const (
	Excellent Qualitative = "EXCELLENT"
	Good      Qualitative = "GOOD"
	Fair      Qualitative = "FAIR"
	Poor      Qualitative = "POOR"
)

var validQualitative = map[Qualitative]bool{Excellent: true, Good: true, Fair: true, Poor: true}

// Dimensions holds the six numeric rubric scores, each in [0, 100].
type Dimensions struct {
	ProductKnowledge      int `json:"product_knowledge" jsonschema:"required,minimum=0,maximum=100"`
	CustomerUnderstanding int `json:"customer_understanding" jsonschema:"required,minimum=0,maximum=100"`
	ObjectionHandling     int `json:"objection_handling" jsonschema:"required,minimum=0,maximum=100"`
	ValueCommunication    int `json:"value_communication" jsonschema:"required,minimum=0,maximum=100"`
	QuestionQuality       int `json:"question_quality" jsonschema:"required,minimum=0,maximum=100"`
	ConfidenceDelivery    int `json:"confidence_delivery" jsonschema:"required,minimum=0,maximum=100"`
}

func (d Dimensions) values() []int {
	return []int{
		d.ProductKnowledge, d.CustomerUnderstanding, d.ObjectionHandling,
		d.ValueCommunication, d.QuestionQuality, d.ConfidenceDelivery,
	}
}

func (d Dimensions) meanRounded() int {
	vs := d.values()
	sum := 0
	for _, v := range vs {
		sum += v
	}
	return int(float64(sum)/float64(len(vs)) + 0.5)
}

func (d Dimensions) bounds() (min, max int) {
	vs := d.values()
	min, max = vs[0], vs[0]
	for _, v := range vs[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// SalesResult is the schema handed to complete_json for SALES sessions.
type SalesResult struct {
	Dimensions
	KnowledgeBaseUsage    Qualitative `json:"knowledge_base_usage" jsonschema:"required,enum=EXCELLENT,enum=GOOD,enum=FAIR,enum=POOR"`
	StageAppropriateness  Qualitative `json:"stage_appropriateness" jsonschema:"required,enum=EXCELLENT,enum=GOOD,enum=FAIR,enum=POOR"`
	Personalization       Qualitative `json:"personalization" jsonschema:"required,enum=EXCELLENT,enum=GOOD,enum=FAIR,enum=POOR"`
	OverallScore          int         `json:"overall_score" jsonschema:"required,minimum=0,maximum=100"`
	Strengths             []string    `json:"strengths" jsonschema:"required,minItems=1"`
	ImprovementAreas      []string    `json:"improvement_areas" jsonschema:"required,minItems=1"`
	Summary               string      `json:"summary" jsonschema:"required"`
}

// Validate enforces the overall_score-within-bounds invariant and the
// qualitative-flag enum, since JSON Schema's "enum" keyword is advisory for
// a free-text-capable model and must be checked after decoding.
func (s *SalesResult) Validate() error {
	min, max := s.Dimensions.bounds()
	if s.OverallScore < min || s.OverallScore > max {
		return fmt.Errorf("overall_score %d must lie within [%d, %d]", s.OverallScore, min, max)
	}
	for name, q := range map[string]Qualitative{
		"knowledge_base_usage":  s.KnowledgeBaseUsage,
		"stage_appropriateness": s.StageAppropriateness,
		"personalization":       s.Personalization,
	} {
		if !validQualitative[q] {
			return fmt.Errorf("%s must be one of EXCELLENT, GOOD, FAIR, POOR; got %q", name, q)
		}
	}
	if len(s.Strengths) == 0 || len(s.ImprovementAreas) == 0 {
		return fmt.Errorf("strengths and improvement_areas must each be non-empty")
	}
	if s.Summary == "" {
		return fmt.Errorf("summary must be non-empty")
	}
	return nil
}

// ReducedResult is the schema for non-SALES sessions: the six dimensions
// without the qualitative flags.
type ReducedResult struct {
	Dimensions
	OverallScore     int      `json:"overall_score" jsonschema:"required,minimum=0,maximum=100"`
	Strengths        []string `json:"strengths" jsonschema:"required,minItems=1"`
	ImprovementAreas []string `json:"improvement_areas" jsonschema:"required,minItems=1"`
	Summary          string   `json:"summary" jsonschema:"required"`
}

func (r *ReducedResult) Validate() error {
	min, max := r.Dimensions.bounds()
	if r.OverallScore < min || r.OverallScore > max {
		return fmt.Errorf("overall_score %d must lie within [%d, %d]", r.OverallScore, min, max)
	}
	if len(r.Strengths) == 0 || len(r.ImprovementAreas) == 0 {
		return fmt.Errorf("strengths and improvement_areas must each be non-empty")
	}
	if r.Summary == "" {
		return fmt.Errorf("summary must be non-empty")
	}
	return nil
}

// Evaluation is the persisted scoring record.
type Evaluation struct {
	SessionID string
	TenantID  string
	Sales     *SalesResult
	Reduced   *ReducedResult
	CreatedAt time.Time
}

// Store persists Evaluations, one per session_id (upsert).
type Store interface {
	Upsert(ctx context.Context, e *Evaluation) error
	Get(ctx context.Context, tenantID, sessionID string) (*Evaluation, error)
}

// SessionReader is the narrow slice of the Session Engine's store the
// Evaluator needs: a completed session's transcript and context.
type SessionReader interface {
	Get(ctx context.Context, tenantID, sessionID string) (*session.Session, error)
}

// Evaluator is the Evaluator contract.
type Evaluator interface {
	Evaluate(ctx context.Context, tenantID, sessionID string) (*Evaluation, error)
}

type evaluator struct {
	sessions SessionReader
	gateway  llm.Gateway
	store    Store
}

func New(sessions SessionReader, gateway llm.Gateway, store Store) Evaluator {
	return &evaluator{sessions: sessions, gateway: gateway, store: store}
}

func (e *evaluator) Evaluate(ctx context.Context, tenantID, sessionID string) (*Evaluation, error) {
	s, err := e.sessions.Get(ctx, tenantID, sessionID)
	if err != nil {
		return nil, err
	}
	if s.Status != session.Completed {
		return nil, apperr.New(apperr.StateConflict, "evaluation: session must be COMPLETED")
	}

	messages := buildPrompt(s)

	eval := &Evaluation{SessionID: sessionID, TenantID: tenantID, CreatedAt: time.Now().UTC()}
	if s.PreparationType == session.Sales {
		var result SalesResult
		if err := e.gateway.CompleteJSON(ctx, messages, &result, 0.1, 1000); err != nil {
			return nil, err
		}
		eval.Sales = &result
	} else {
		var result ReducedResult
		if err := e.gateway.CompleteJSON(ctx, messages, &result, 0.1, 1000); err != nil {
			return nil, err
		}
		eval.Reduced = &result
	}

	if err := e.store.Upsert(ctx, eval); err != nil {
		return nil, err
	}
	return eval, nil
}

func buildPrompt(s *session.Session) []llm.Message {
	system := "You are a sales coaching evaluator. Score the transcript on product_knowledge, " +
		"customer_understanding, objection_handling, value_communication, question_quality, and " +
		"confidence_delivery, each from 0 to 100. Also rate knowledge_base_usage, " +
		"stage_appropriateness, and personalization as one of EXCELLENT, GOOD, FAIR, POOR. " +
		"Compute overall_score as the rounded mean of the six numeric dimensions. " +
		"List concrete strengths and improvement_areas grounded in the transcript."

	transcript := "Transcript:\n"
	for _, t := range s.Transcript {
		transcript += fmt.Sprintf("%s: %s\n", t.Role, t.Text)
	}
	if s.PreparationType == session.Sales {
		transcript += fmt.Sprintf("\nDeal stage: %s\n", s.Context.DealStage)
	}

	return []llm.Message{
		{Role: llm.RoleSystem, Content: system},
		{Role: llm.RoleUser, Content: transcript},
	}
}
