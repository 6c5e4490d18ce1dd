package models

import (
	"time"

	"github.com/lib/pq"
)

type ReversalRequestModel struct {
	ID                   string `gorm:"primaryKey"`
	AuditID              string `gorm:"uniqueIndex:idx_reversal_audit_table"`
	ScorecardTable       string `gorm:"uniqueIndex:idx_reversal_audit_table"`
	RequestedByEmail     string `gorm:"index"`
	RequestedAt          time.Time
	EmployeeEmail        string `gorm:"index"`
	EmployeeName         string
	DisputeType          string
	Justification        string
	DisputedParameters   pq.StringArray `gorm:"type:text[]"`
	Attachments          pq.StringArray `gorm:"type:text[]"`
	ScoreBefore          float64
	ScoreAfter           *float64
	FinalDecision        *string
	FinalDecisionAt      *time.Time
	FinalDecisionByName  string
	FinalDecisionByEmail string
	SlaHours             *float64
	WithinScope          *bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (ReversalRequestModel) TableName() string {
	return "reversal_requests"
}
