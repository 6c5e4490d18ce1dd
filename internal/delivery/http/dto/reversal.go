package dto

import (
	"time"

	"github.com/qualitrace/qa-reversal-service/internal/domain"
)

type SubmitReversalRequest struct {
	AuditID            string   `json:"audit_id" binding:"required"`
	ScorecardID        string   `json:"scorecard_id" binding:"required"`
	EmployeeEmail      string   `json:"employee_email"`
	EmployeeName       string   `json:"employee_name"`
	DisputeType        string   `json:"dispute_type"`
	Justification      string   `json:"justification"`
	DisputedParameters []string `json:"disputed_parameters"`
	Attachments        []string `json:"attachments"`
	ScoreBefore        float64  `json:"score_before"`
	WithinScope        *bool    `json:"within_scope"`
}

type SubmitReversalResponse struct {
	ID            string    `json:"id"`
	WorkflowState string    `json:"workflow_state"`
	RequestedAt   time.Time `json:"requested_at"`
}

type DecisionRequest struct {
	Decision    string  `json:"decision" binding:"required"`
	NewScore    float64 `json:"new_score"`
	DeciderName string  `json:"decider_name"`
}

type AdvanceRequest struct {
	ToState string `json:"to_state" binding:"required"`
}

type DisputeResponse struct {
	ID             string `json:"id"`
	Source         string `json:"source"`
	AuditID        string `json:"audit_id"`
	ScorecardTable string `json:"scorecard_table"`
	ScorecardName  string `json:"scorecard_name,omitempty"`

	RequestedByEmail   string    `json:"requested_by_email"`
	RequestedAt        time.Time `json:"requested_at"`
	EmployeeEmail      string    `json:"employee_email"`
	EmployeeName       string    `json:"employee_name"`
	DisputeType        string    `json:"dispute_type,omitempty"`
	Justification      string    `json:"justification,omitempty"`
	DisputedParameters []string  `json:"disputed_parameters,omitempty"`
	Attachments        []string  `json:"attachments,omitempty"`

	ScoreBefore     float64    `json:"score_before"`
	ScoreAfter      *float64   `json:"score_after,omitempty"`
	FinalDecision   *string    `json:"final_decision,omitempty"`
	FinalDecisionAt *time.Time `json:"final_decision_at,omitempty"`
	SLAHours        *float64   `json:"sla_hours,omitempty"`

	AuditorEmail          string    `json:"auditor_email,omitempty"`
	AuditorName           string    `json:"auditor_name,omitempty"`
	InteractionID         string    `json:"interaction_id,omitempty"`
	AuditSubmittedAt      time.Time `json:"audit_submitted_at,omitempty"`
	AuditScore            float64   `json:"audit_score"`
	PassingStatus         string    `json:"passing_status,omitempty"`
	AcknowledgementStatus string    `json:"acknowledgement_status,omitempty"`

	WorkflowState string `json:"workflow_state"`
	Pending       bool   `json:"pending"`
}

type StatsResponse struct {
	Total   int            `json:"total"`
	Pending int            `json:"pending"`
	ByState map[string]int `json:"by_state"`
}

func ToDisputeResponse(d *domain.ReconciledDispute) DisputeResponse {
	resp := DisputeResponse{
		ID:                    d.ID,
		Source:                string(d.Source),
		AuditID:               d.AuditID,
		ScorecardTable:        d.ScorecardTable,
		ScorecardName:         d.ScorecardName,
		RequestedByEmail:      d.RequestedByEmail,
		RequestedAt:           d.RequestedAt,
		EmployeeEmail:         d.EmployeeEmail,
		EmployeeName:          d.EmployeeName,
		DisputeType:           d.DisputeType,
		Justification:         d.Justification,
		DisputedParameters:    d.DisputedParameters,
		Attachments:           d.Attachments,
		ScoreBefore:           d.ScoreBefore,
		ScoreAfter:            d.ScoreAfter,
		FinalDecisionAt:       d.FinalDecisionAt,
		SLAHours:              d.SLAHours,
		AuditorEmail:          d.AuditorEmail,
		AuditorName:           d.AuditorName,
		InteractionID:         d.InteractionID,
		AuditSubmittedAt:      d.AuditSubmittedAt,
		AuditScore:            d.AuditScore,
		PassingStatus:         d.PassingStatus,
		AcknowledgementStatus: d.AcknowledgementStatus,
		WorkflowState:         string(d.WorkflowState),
		Pending:               d.IsPending(),
	}
	if d.FinalDecision != nil {
		decision := string(*d.FinalDecision)
		resp.FinalDecision = &decision
	}
	return resp
}
