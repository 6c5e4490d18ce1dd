package domain

import (
	"context"
	"time"
)

// AuditRow is an externally owned record in a per-scorecard audit table. Old
// tables embed dispute fields directly on the row; those fields stay nil/zero
// for tables that never carried them.
type AuditRow struct {
	ID                    string
	EmployeeEmail         string
	EmployeeName          string
	AuditorEmail          string
	AuditorName           string
	InteractionID         string
	SubmittedAt           time.Time
	Score                 float64
	PassingStatus         string
	AcknowledgementStatus string

	ReversalRequestedAt *time.Time
	ReversalRequestedBy string
	ReversalReason      string
	ReversalStatus      string
	ReversalApproved    *bool
	ReversalRespondedAt *time.Time
	TeamLeadApproved    bool
	ScoreBeforeReversal *float64
}

// AuditDecisionFields is the whitelisted set of audit-row columns a decision
// may touch. Anything outside this struct never reaches the audit table.
type AuditDecisionFields struct {
	Score         float64
	PassingStatus string
	Status        string
	Approved      bool
	RespondedAt   time.Time
}

type LegacyScanFilter struct {
	EmployeeEmail string
	Limit         int
}

type AuditRepository interface {
	FetchByIDs(ctx context.Context, table string, auditIDs []string) ([]*AuditRow, error)
	ScanLegacy(ctx context.Context, table string, filter LegacyScanFilter) ([]*AuditRow, error)
	ApplyDecision(ctx context.Context, table, auditID string, fields AuditDecisionFields) error
}
