package domain

import (
	"context"
	"time"
)

type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

type DisputeSource string

const (
	SourceLedger DisputeSource = "ledger"
	SourceLegacy DisputeSource = "legacy"
)

// ReversalRequest is a ledger row: the canonical record of a score dispute.
// Rows are created on submission, mutated only when a final decision is
// recorded, and never deleted.
type ReversalRequest struct {
	ID                   string
	AuditID              string
	ScorecardTable       string
	RequestedByEmail     string
	RequestedAt          time.Time
	EmployeeEmail        string
	EmployeeName         string
	DisputeType          string
	Justification        string
	DisputedParameters   []string
	Attachments          []string
	ScoreBefore          float64
	ScoreAfter           *float64
	FinalDecision        *Decision
	FinalDecisionAt      *time.Time
	FinalDecisionByName  string
	FinalDecisionByEmail string
	SLAHours             *float64
	WithinScope          *bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// WorkflowStateRecord is one append-only step of a dispute's review history.
// Exactly one record per reversal request carries IsCurrent=true.
type WorkflowStateRecord struct {
	ID                string
	ReversalRequestID string
	State             WorkflowState
	IsCurrent         bool
	CreatedAt         time.Time
}

// ReconciledDispute is the read-only merged view handed to callers: audit-row
// context overlaid with ledger fields, tagged with its resolved workflow state
// and provenance.
type ReconciledDispute struct {
	ID             string
	Source         DisputeSource
	AuditID        string
	ScorecardTable string
	ScorecardName  string

	RequestedByEmail   string
	RequestedAt        time.Time
	EmployeeEmail      string
	EmployeeName       string
	DisputeType        string
	Justification      string
	DisputedParameters []string
	Attachments        []string

	ScoreBefore          float64
	ScoreAfter           *float64
	FinalDecision        *Decision
	FinalDecisionAt      *time.Time
	FinalDecisionByName  string
	FinalDecisionByEmail string
	SLAHours             *float64
	WithinScope          *bool

	// Audit-row context. Zero-valued when the audit table could not be
	// resolved (reduced context).
	AuditEmployeeEmail    string
	AuditorEmail          string
	AuditorName           string
	InteractionID         string
	AuditSubmittedAt      time.Time
	AuditScore            float64
	PassingStatus         string
	AcknowledgementStatus string

	// StoredState is the state recorded in workflow history (or parsed from
	// an explicit state field). LegacyStatus is the raw free-text status of a
	// pre-ledger row. Classify resolves the two into WorkflowState.
	StoredState      WorkflowState
	LegacyStatus     string
	TeamLeadApproved bool

	WorkflowState WorkflowState
}

// Classify resolves the dispute's effective workflow state. A recorded final
// decision always wins: workflow history can lag a committed decision when the
// history write failed after the decision write succeeded, and stale
// intermediate history must never resurrect a decided dispute.
func (d *ReconciledDispute) Classify() WorkflowState {
	if d.FinalDecision != nil {
		if *d.FinalDecision == DecisionApproved {
			return StateApproved
		}
		return StateRejected
	}
	if d.StoredState != "" {
		return d.StoredState
	}
	if d.LegacyStatus != "" {
		return StateFromLegacyStatus(d.LegacyStatus)
	}
	return StateSubmitted
}

// IsPending reports whether the dispute still awaits a decision. The
// team-lead-approved flag covers a known gap where the team_lead_approved
// transition record was never written: such disputes are pending even when
// their stored history says otherwise.
func (d *ReconciledDispute) IsPending() bool {
	if d.Classify().IsPending() {
		return true
	}
	return d.TeamLeadApproved && d.FinalDecision == nil
}

// DedupKey identifies a dispute across sources: the ledger entry and a legacy
// row for the same audit collapse to one key, and the ledger entry wins.
func (d *ReconciledDispute) DedupKey() string {
	return d.ScorecardTable + "\x00" + d.AuditID
}

type ReversalFilter struct {
	RequestedByEmail string
	EmployeeEmail    string
	Limit            int
}

// DecisionUpdate carries every field the decision write touches. The ledger
// update, the new current workflow record and the old-current flip execute as
// one transaction.
type DecisionUpdate struct {
	RequestID     string
	Decision      Decision
	DecidedAt     time.Time
	DeciderName   string
	DeciderEmail  string
	ScoreAfter    float64
	SLAHours      *float64
	StateRecordID string
}

type ReversalRepository interface {
	Create(ctx context.Context, request *ReversalRequest, initialStateID string) error
	GetByID(ctx context.Context, id string) (*ReversalRequest, error)
	List(ctx context.Context, filter ReversalFilter) ([]*ReversalRequest, error)
	CurrentStates(ctx context.Context, requestIDs []string) (map[string]*WorkflowStateRecord, error)
	AppendState(ctx context.Context, record *WorkflowStateRecord) error
	RecordDecision(ctx context.Context, update DecisionUpdate) error
}

type SubmitReversalInput struct {
	AuditID            string
	ScorecardID        string
	RequestedByEmail   string
	EmployeeEmail      string
	EmployeeName       string
	DisputeType        string
	Justification      string
	DisputedParameters []string
	Attachments        []string
	ScoreBefore        float64
	WithinScope        *bool
}

type GetDisputesOptions struct {
	Caller Caller

	// Optional pre-filters applied to the ledger query and the legacy scan.
	RequestedByEmail string
	EmployeeEmail    string

	OnlyPending bool
	Limit       int
}

type DisputeStats struct {
	Total   int
	Pending int
	ByState map[WorkflowState]int
}

type ReversalUsecase interface {
	SubmitReversal(ctx context.Context, input *SubmitReversalInput) (*ReversalRequest, error)
	GetDisputes(ctx context.Context, opts GetDisputesOptions) ([]*ReconciledDispute, error)
	GetDispute(ctx context.Context, id string, caller Caller) (*ReconciledDispute, error)
	GetStats(ctx context.Context, caller Caller) (*DisputeStats, error)
	AdvanceWorkflow(ctx context.Context, requestID string, toState WorkflowState, actorEmail string) error
	Decide(ctx context.Context, requestID string, decision Decision, newScore float64, deciderName, deciderEmail string) error
}

// Message is a raw broker payload.
type Message struct {
	Key   []byte
	Value []byte
}
