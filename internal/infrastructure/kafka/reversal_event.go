package publisher

type ReversalEvent struct {
	ReversalRequestID string  `json:"reversal_request_id"`
	AuditID           string  `json:"audit_id"`
	ScorecardTable    string  `json:"scorecard_table"`
	EmployeeEmail     string  `json:"employee_email"`
	RequestedBy       string  `json:"requested_by"`
	Stage             string  `json:"stage"`
	Decision          string  `json:"decision,omitempty"`
	ScoreBefore       float64 `json:"score_before"`
	ScoreAfter        float64 `json:"score_after,omitempty"`
	SlaHours          float64 `json:"sla_hours,omitempty"`
}
