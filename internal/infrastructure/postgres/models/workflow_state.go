package models

import "time"

type WorkflowStateRecordModel struct {
	ID                string `gorm:"primaryKey"`
	ReversalRequestID string `gorm:"index"`
	State             string
	IsCurrent         bool `gorm:"index"`
	CreatedAt         time.Time
}

func (WorkflowStateRecordModel) TableName() string {
	return "workflow_state_records"
}
