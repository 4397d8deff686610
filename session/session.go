// Package session is the Session Engine (component C7): the sales-call
// chat state machine. It owns Session and TranscriptTurn rows, serializes
// concurrent turn requests per session, and assembles the sliding-window
// prompt handed to the LLM Gateway.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sideletter/callprep/ai/providers/llm"
	"github.com/sideletter/callprep/apperr"
	"github.com/sideletter/callprep/pkg/safe"
	"github.com/sideletter/callprep/retrieval"
)

// Status is a Session's lifecycle state.
type Status string

const (
	InProgress Status = "IN_PROGRESS"
	Completed  Status = "COMPLETED"
	Archived   Status = "ARCHIVED"
)

// PreparationType selects the persona contract and context validation rule.
type PreparationType string

const (
	Sales  PreparationType = "SALES"
	Custom PreparationType = "CUSTOM"
)

// DealStage is the required enum for SALES sessions.
type DealStage string

const (
	DealStageProspecting   DealStage = "PROSPECTING"
	DealStageDiscovery     DealStage = "DISCOVERY"
	DealStageQualification DealStage = "QUALIFICATION"
	DealStageProposal      DealStage = "PROPOSAL"
	DealStageNegotiation   DealStage = "NEGOTIATION"
	DealStageClosing       DealStage = "CLOSING"
	DealStageFollowUp      DealStage = "FOLLOW_UP"
)

var validDealStages = map[DealStage]bool{
	DealStageProspecting:   true,
	DealStageDiscovery:     true,
	DealStageQualification: true,
	DealStageProposal:      true,
	DealStageNegotiation:   true,
	DealStageClosing:       true,
	DealStageFollowUp:      true,
}

// ContextPayload carries the preparation-type-specific setup data. For SALES
// sessions this is {customer_name, customer_persona, deal_stage}; DealStage
// is validated against validDealStages only when PreparationType is Sales.
type ContextPayload struct {
	CustomerName    string
	CustomerPersona string
	DealStage       DealStage
	CompanyProfile  string
	CustomerContext string
	Extra           map[string]string
}

func (c ContextPayload) validate(pt PreparationType) error {
	if pt == Sales {
		if c.DealStage == "" || !validDealStages[c.DealStage] {
			return apperr.New(apperr.Validation, "session: deal_stage is required and must be a valid enum value for SALES sessions")
		}
	}
	return nil
}

// TurnRole distinguishes transcript speakers.
type TurnRole string

const (
	RoleUser      TurnRole = "USER"
	RoleAssistant TurnRole = "ASSISTANT"
)

// Turn is one transcript entry.
type Turn struct {
	Role              TurnRole
	Text              string
	Timestamp         time.Time
	RetrievedChunkIDs []string
}

// Session is the persisted aggregate.
type Session struct {
	SessionID       string
	TenantID        string
	PreparationType PreparationType
	Context         ContextPayload
	Status          Status
	Transcript      []Turn
	CreatedAt       time.Time
}

// exchangeCount returns the number of complete USER/ASSISTANT pairs.
func (s *Session) exchangeCount() int {
	n := 0
	for i := 0; i+1 < len(s.Transcript); i += 2 {
		if s.Transcript[i].Role == RoleUser && s.Transcript[i+1].Role == RoleAssistant {
			n++
		}
	}
	return n
}

// Store persists Session aggregates. Both turns of a successful exchange
// must be written together (AppendTurns), or neither.
type Store interface {
	Create(ctx context.Context, s *Session) (string, error)
	Get(ctx context.Context, tenantID, sessionID string) (*Session, error)
	// AppendTurns appends turns atomically to sessionID's transcript.
	AppendTurns(ctx context.Context, tenantID, sessionID string, turns ...Turn) error
	// Transition performs a compare-and-set on status.
	Transition(ctx context.Context, tenantID, sessionID string, from, to Status) error
}

// TurnResult is what a successful turn call returns to the API layer.
type TurnResult struct {
	AssistantText     string
	RetrievedChunkIDs []string
	TurnIndex         int
}

const windowTurns = 10

const personaSystemPrompt = "You act as the described prospective customer. Ask realistic, " +
	"evidence-aware questions about the product or service under discussion. Use the provided " +
	"context only where a real customer in this role plausibly would; do not invent facts the " +
	"context does not support."

// Engine is the Session Engine contract.
type Engine interface {
	Create(ctx context.Context, tenantID string, preparationType PreparationType, context ContextPayload) (string, error)
	Turn(ctx context.Context, tenantID, sessionID, userText string) (TurnResult, error)
	Complete(ctx context.Context, tenantID, sessionID string) error
	Archive(ctx context.Context, tenantID, sessionID string) error
}

type engine struct {
	store     Store
	retriever retrieval.Service
	gateway   llm.Gateway
	maxTokens int
	log       *slog.Logger

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// New builds a Session Engine. maxTokens bounds each assistant completion.
func New(store Store, retriever retrieval.Service, gateway llm.Gateway, maxTokens int, log *slog.Logger) Engine {
	if maxTokens <= 0 {
		maxTokens = 512
	}
	if log == nil {
		log = slog.Default()
	}
	return &engine{
		store:     store,
		retriever: retriever,
		gateway:   gateway,
		maxTokens: maxTokens,
		log:       log,
		locks:     make(map[string]*sync.Mutex),
	}
}

func (e *engine) Create(ctx context.Context, tenantID string, preparationType PreparationType, context ContextPayload) (string, error) {
	if err := context.validate(preparationType); err != nil {
		return "", err
	}
	s := &Session{
		SessionID:       uuid.NewString(),
		TenantID:        tenantID,
		PreparationType: preparationType,
		Context:         context,
		Status:          InProgress,
		CreatedAt:       time.Now().UTC(),
	}
	return e.store.Create(ctx, s)
}

// lockFor returns the keyed mutex for sessionID, creating it on first use.
// The map itself is never pruned: a long-lived process accumulates one
// mutex per distinct session, an acceptable tradeoff against the
// correctness risk of removing a lock another goroutine may still hold.
func (e *engine) lockFor(sessionID string) *sync.Mutex {
	e.locksMu.Lock()
	defer e.locksMu.Unlock()
	l, ok := e.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[sessionID] = l
	}
	return l
}

func (e *engine) Turn(ctx context.Context, tenantID, sessionID, userText string) (TurnResult, error) {
	lock := e.lockFor(sessionID)
	if !lock.TryLock() {
		return TurnResult{}, apperr.New(apperr.SessionBusy, "session: a turn is already in progress for this session")
	}
	defer lock.Unlock()

	var (
		result TurnResult
		opErr  error
	)
	safe.WithRecover(func() {
		result, opErr = e.turnLocked(ctx, tenantID, sessionID, userText)
	}, func(panicErr error) {
		opErr = apperr.Wrap(apperr.Internal, "session: turn handler panicked", panicErr)
	})()

	return result, opErr
}

func (e *engine) turnLocked(ctx context.Context, tenantID, sessionID, userText string) (TurnResult, error) {
	s, err := e.store.Get(ctx, tenantID, sessionID)
	if err != nil {
		return TurnResult{}, err
	}
	if s.Status != InProgress {
		return TurnResult{}, apperr.New(apperr.StateConflict, "session: turn requires IN_PROGRESS status")
	}

	var (
		chunkIDs []string
		contextBlocks []string
	)
	if s.PreparationType == Sales {
		results, rerr := e.retriever.Retrieve(ctx, retrieval.Query{TenantID: tenantID, Text: userText})
		if rerr != nil {
			contextBlocks = nil
			chunkIDs = nil
			e.log.Warn("session: proceeding with empty context", "kind", string(apperr.RetrievalDegraded),
				"tenant_id", tenantID, "session_id", sessionID, "err", rerr)
		} else {
			for _, r := range results {
				chunkIDs = append(chunkIDs, r.ChunkID)
				contextBlocks = append(contextBlocks, fmt.Sprintf("[source %s#%d] %s", r.DocumentID, r.Ordinal, r.Text))
			}
		}
	}

	messages := e.assemblePrompt(s, contextBlocks, userText)

	assistantText, err := e.gateway.Complete(ctx, messages, 0.4, e.maxTokens)
	if err != nil {
		return TurnResult{}, err
	}

	now := time.Now().UTC()
	userTurn := Turn{Role: RoleUser, Text: userText, Timestamp: now}
	assistantTurn := Turn{Role: RoleAssistant, Text: assistantText, Timestamp: now, RetrievedChunkIDs: chunkIDs}
	if err := e.store.AppendTurns(ctx, tenantID, sessionID, userTurn, assistantTurn); err != nil {
		return TurnResult{}, err
	}

	return TurnResult{
		AssistantText:     assistantText,
		RetrievedChunkIDs: chunkIDs,
		TurnIndex:         len(s.Transcript) + 1,
	}, nil
}

// assemblePrompt builds the prompt the way the teacher's MessageWindowStore
// builds a chat history: a single merged system message followed by the
// last windowTurns transcript entries, followed by the new user turn. The
// persona contract and the retrieved context blocks are merged into one
// system message rather than kept as a separate stream, since this engine
// has exactly one system voice per turn.
func (e *engine) assemblePrompt(s *Session, contextBlocks []string, userText string) []llm.Message {
	system := personaSystemPrompt
	if s.PreparationType == Sales {
		if s.Context.CustomerName != "" {
			system += fmt.Sprintf("\n\nYou are %s.", s.Context.CustomerName)
		}
		if s.Context.CustomerPersona != "" {
			system += fmt.Sprintf(" Persona: %s.", s.Context.CustomerPersona)
		}
		if s.Context.DealStage != "" {
			system += fmt.Sprintf(" This conversation is at the %s stage of the sales process.", s.Context.DealStage)
		}
	}
	if len(contextBlocks) > 0 {
		system += "\n\nContext:\n"
		for _, b := range contextBlocks {
			system += "- " + b + "\n"
		}
	} else {
		system += "\n\nNo supporting context documents were available for this turn."
	}

	messages := []llm.Message{{Role: llm.RoleSystem, Content: system}}

	window := applySlidingWindow(s.Transcript, windowTurns)
	for _, t := range window {
		role := llm.RoleUser
		if t.Role == RoleAssistant {
			role = llm.RoleAssistant
		}
		messages = append(messages, llm.Message{Role: role, Content: t.Text})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: userText})
	return messages
}

// applySlidingWindow keeps the last n transcript turns, mirroring the
// teacher's applySlidingWindow (system messages merged separately, here by
// the caller; this function only handles the rolling user/assistant window).
func applySlidingWindow(turns []Turn, n int) []Turn {
	if len(turns) <= n {
		return turns
	}
	return turns[len(turns)-n:]
}

func (e *engine) Complete(ctx context.Context, tenantID, sessionID string) error {
	s, err := e.store.Get(ctx, tenantID, sessionID)
	if err != nil {
		return err
	}
	if s.exchangeCount() < 3 {
		return apperr.New(apperr.Validation, "session: completion requires at least three complete exchanges")
	}
	return e.store.Transition(ctx, tenantID, sessionID, InProgress, Completed)
}

func (e *engine) Archive(ctx context.Context, tenantID, sessionID string) error {
	s, err := e.store.Get(ctx, tenantID, sessionID)
	if err != nil {
		return err
	}
	return e.store.Transition(ctx, tenantID, sessionID, s.Status, Archived)
}
