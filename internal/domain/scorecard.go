package domain

import "context"

// Scorecard is immutable reference data binding an audit template to the
// physical table its audits live in. Loaded once per session and cached.
type Scorecard struct {
	ID               string
	DisplayName      string
	TableName        string
	IsActive         bool
	PassingThreshold float64
}

type ScorecardRepository interface {
	ListActive(ctx context.Context) ([]*Scorecard, error)
}
