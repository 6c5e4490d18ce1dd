package repository

import (
	"context"
	"time"

	"github.com/qualitrace/qa-reversal-service/internal/domain"
	"gorm.io/gorm"
)

// DefaultAuditRepository reads and (narrowly) writes the per-scorecard audit
// tables. Table names always come from the scorecard catalog, never from
// request input, and every write goes through the whitelist in ApplyDecision.
type DefaultAuditRepository struct {
	db *gorm.DB
}

func NewDefaultAuditRepository(db *gorm.DB) *DefaultAuditRepository {
	return &DefaultAuditRepository{db: db}
}

// auditRowScan maps the shared audit-table shape. Older tables miss the
// reversal_* columns entirely; SELECT * scanning leaves those fields zero,
// which is exactly the reduced shape the domain expects.
type auditRowScan struct {
	ID                    string     `gorm:"column:id"`
	EmployeeEmail         string     `gorm:"column:employee_email"`
	EmployeeName          string     `gorm:"column:employee_name"`
	AuditorEmail          string     `gorm:"column:auditor_email"`
	AuditorName           string     `gorm:"column:auditor_name"`
	InteractionID         string     `gorm:"column:interaction_id"`
	SubmittedAt           time.Time  `gorm:"column:submitted_at"`
	Score                 float64    `gorm:"column:score"`
	PassingStatus         string     `gorm:"column:passing_status"`
	AcknowledgementStatus string     `gorm:"column:acknowledgement_status"`
	ReversalRequestedAt   *time.Time `gorm:"column:reversal_requested_at"`
	ReversalRequestedBy   string     `gorm:"column:reversal_requested_by"`
	ReversalReason        string     `gorm:"column:reversal_reason"`
	ReversalStatus        string     `gorm:"column:reversal_status"`
	ReversalApproved      *bool      `gorm:"column:reversal_approved"`
	ReversalRespondedAt   *time.Time `gorm:"column:reversal_responded_at"`
	TeamLeadApproved      bool       `gorm:"column:team_lead_approved"`
	ScoreBeforeReversal   *float64   `gorm:"column:score_before_reversal"`
}

func (s *auditRowScan) toDomain() *domain.AuditRow {
	return &domain.AuditRow{
		ID:                    s.ID,
		EmployeeEmail:         s.EmployeeEmail,
		EmployeeName:          s.EmployeeName,
		AuditorEmail:          s.AuditorEmail,
		AuditorName:           s.AuditorName,
		InteractionID:         s.InteractionID,
		SubmittedAt:           s.SubmittedAt,
		Score:                 s.Score,
		PassingStatus:         s.PassingStatus,
		AcknowledgementStatus: s.AcknowledgementStatus,
		ReversalRequestedAt:   s.ReversalRequestedAt,
		ReversalRequestedBy:   s.ReversalRequestedBy,
		ReversalReason:        s.ReversalReason,
		ReversalStatus:        s.ReversalStatus,
		ReversalApproved:      s.ReversalApproved,
		ReversalRespondedAt:   s.ReversalRespondedAt,
		TeamLeadApproved:      s.TeamLeadApproved,
		ScoreBeforeReversal:   s.ScoreBeforeReversal,
	}
}

func (r *DefaultAuditRepository) FetchByIDs(ctx context.Context, table string, auditIDs []string) ([]*domain.AuditRow, error) {
	if len(auditIDs) == 0 {
		return nil, nil
	}
	var scans []auditRowScan
	if err := r.db.WithContext(ctx).Table(table).
		Where("id IN ?", auditIDs).
		Find(&scans).Error; err != nil {
		return nil, err
	}

	rows := make([]*domain.AuditRow, len(scans))
	for i := range scans {
		rows[i] = scans[i].toDomain()
	}
	return rows, nil
}

// ScanLegacy finds pre-ledger disputes: rows whose embedded request timestamp
// is set. Tables without reversal columns fail the query; the caller treats
// that as an empty contribution.
func (r *DefaultAuditRepository) ScanLegacy(ctx context.Context, table string, filter domain.LegacyScanFilter) ([]*domain.AuditRow, error) {
	query := r.db.WithContext(ctx).Table(table).
		Where("reversal_requested_at IS NOT NULL")
	if filter.EmployeeEmail != "" {
		query = query.Where("employee_email = ?", filter.EmployeeEmail)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var scans []auditRowScan
	if err := query.Order("reversal_requested_at DESC").Find(&scans).Error; err != nil {
		return nil, err
	}

	rows := make([]*domain.AuditRow, len(scans))
	for i := range scans {
		rows[i] = scans[i].toDomain()
	}
	return rows, nil
}

// ApplyDecision updates the originating audit row after an approved reversal.
// The updates map is the full whitelist: no other audit column is writable
// from this service.
func (r *DefaultAuditRepository) ApplyDecision(ctx context.Context, table, auditID string, fields domain.AuditDecisionFields) error {
	updates := map[string]any{
		"score":                 fields.Score,
		"passing_status":        fields.PassingStatus,
		"reversal_status":       fields.Status,
		"reversal_approved":     fields.Approved,
		"reversal_responded_at": fields.RespondedAt,
	}
	res := r.db.WithContext(ctx).Table(table).Where("id = ?", auditID).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ domain.AuditRepository = (*DefaultAuditRepository)(nil)
