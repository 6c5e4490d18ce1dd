package models

import "time"

type ScorecardModel struct {
	ID               string `gorm:"primaryKey"`
	DisplayName      string
	TableName_       string `gorm:"column:table_name"`
	IsActive         bool   `gorm:"index"`
	PassingThreshold float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (ScorecardModel) TableName() string {
	return "scorecards"
}
