package logger

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// ReversalDecisionEvent is the persisted audit trail of final decisions,
// separate from the ledger itself so it can be queried and retained
// independently.
type ReversalDecisionEvent struct {
	ID                uint `gorm:"primaryKey"`
	ReversalRequestID string
	AuditID           string
	ScorecardTable    string
	Decision          string
	ScoreBefore       float64
	ScoreAfter        float64
	SlaHours          float64
	DeciderEmail      string
	Timestamp         time.Time
}

type DecisionEventLogger interface {
	LogDecision(ctx context.Context, event ReversalDecisionEvent) error
}

type PGDecisionEventLogger struct {
	db *gorm.DB
}

func NewPGDecisionEventLogger(db *gorm.DB) *PGDecisionEventLogger {
	db.AutoMigrate(&ReversalDecisionEvent{})
	return &PGDecisionEventLogger{db: db}
}

func (l *PGDecisionEventLogger) LogDecision(ctx context.Context, event ReversalDecisionEvent) error {
	return l.db.WithContext(ctx).Create(&event).Error
}
