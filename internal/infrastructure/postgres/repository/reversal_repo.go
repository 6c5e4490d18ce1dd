package repository

import (
	"context"
	"errors"

	"github.com/qualitrace/qa-reversal-service/internal/domain"
	"github.com/qualitrace/qa-reversal-service/internal/infrastructure/postgres/mappers"
	"github.com/qualitrace/qa-reversal-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultReversalRepository struct {
	db *gorm.DB
}

func NewDefaultReversalRepository(db *gorm.DB) *DefaultReversalRepository {
	return &DefaultReversalRepository{db: db}
}

// Create inserts the ledger row together with its initial "submitted"
// workflow record so a request is never observable without history.
func (r *DefaultReversalRepository) Create(ctx context.Context, request *domain.ReversalRequest, initialStateID string) error {
	requestModel := mappers.ToGORMReversal(request)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(requestModel).Error; err != nil {
			return err
		}
		stateRecord := models.WorkflowStateRecordModel{
			ID:                initialStateID,
			ReversalRequestID: requestModel.ID,
			State:             string(domain.StateSubmitted),
			IsCurrent:         true,
			CreatedAt:         request.RequestedAt,
		}
		return tx.Create(&stateRecord).Error
	})
}

func (r *DefaultReversalRepository) GetByID(ctx context.Context, id string) (*domain.ReversalRequest, error) {
	var requestModel models.ReversalRequestModel
	if err := r.db.WithContext(ctx).Model(&models.ReversalRequestModel{}).Where("id = ?", id).First(&requestModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return mappers.ToDomainReversal(&requestModel), nil
}

func (r *DefaultReversalRepository) List(ctx context.Context, filter domain.ReversalFilter) ([]*domain.ReversalRequest, error) {
	query := r.db.WithContext(ctx).Model(&models.ReversalRequestModel{})
	if filter.RequestedByEmail != "" {
		query = query.Where("requested_by_email = ?", filter.RequestedByEmail)
	}
	if filter.EmployeeEmail != "" {
		query = query.Where("employee_email = ?", filter.EmployeeEmail)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var requestModels []models.ReversalRequestModel
	if err := query.Order("requested_at DESC").Find(&requestModels).Error; err != nil {
		return nil, err
	}

	requests := make([]*domain.ReversalRequest, len(requestModels))
	for i, requestModel := range requestModels {
		requests[i] = mappers.ToDomainReversal(&requestModel)
	}
	return requests, nil
}

func (r *DefaultReversalRepository) CurrentStates(ctx context.Context, requestIDs []string) (map[string]*domain.WorkflowStateRecord, error) {
	if len(requestIDs) == 0 {
		return map[string]*domain.WorkflowStateRecord{}, nil
	}
	var stateModels []models.WorkflowStateRecordModel
	if err := r.db.WithContext(ctx).Model(&models.WorkflowStateRecordModel{}).
		Where("reversal_request_id IN ?", requestIDs).
		Where("is_current = ?", true).
		Find(&stateModels).Error; err != nil {
		return nil, err
	}

	states := make(map[string]*domain.WorkflowStateRecord, len(stateModels))
	for i := range stateModels {
		record := mappers.ToDomainStateRecord(&stateModels[i])
		states[record.ReversalRequestID] = record
	}
	return states, nil
}

// AppendState inserts a new current record and flips the prior one in the
// same transaction, so at most one record per request is ever current.
func (r *DefaultReversalRepository) AppendState(ctx context.Context, record *domain.WorkflowStateRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.WorkflowStateRecordModel{}).
			Where("reversal_request_id = ?", record.ReversalRequestID).
			Where("is_current = ?", true).
			Update("is_current", false).Error; err != nil {
			return err
		}
		stateModel := models.WorkflowStateRecordModel{
			ID:                record.ID,
			ReversalRequestID: record.ReversalRequestID,
			State:             string(record.State),
			IsCurrent:         true,
			CreatedAt:         record.CreatedAt,
		}
		return tx.Create(&stateModel).Error
	})
}

// RecordDecision applies a final decision: ledger fields, the new terminal
// workflow record and the old-current flip are one transaction. Writes are
// ordered ledger-first so a torn run can only leave history stale, never
// ahead of an undecided ledger row.
func (r *DefaultReversalRepository) RecordDecision(ctx context.Context, update domain.DecisionUpdate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"final_decision":          string(update.Decision),
			"final_decision_at":       update.DecidedAt,
			"final_decision_by_name":  update.DeciderName,
			"final_decision_by_email": update.DeciderEmail,
			"score_after":             update.ScoreAfter,
			"updated_at":              update.DecidedAt,
		}
		if update.SLAHours != nil {
			updates["sla_hours"] = *update.SLAHours
		}
		res := tx.Model(&models.ReversalRequestModel{}).
			Where("id = ?", update.RequestID).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}

		stateRecord := &domain.WorkflowStateRecord{
			ID:                update.StateRecordID,
			ReversalRequestID: update.RequestID,
			State:             domain.StateApproved,
			IsCurrent:         true,
			CreatedAt:         update.DecidedAt,
		}
		if update.Decision == domain.DecisionRejected {
			stateRecord.State = domain.StateRejected
		}

		if err := tx.Model(&models.WorkflowStateRecordModel{}).
			Where("reversal_request_id = ?", update.RequestID).
			Where("is_current = ?", true).
			Update("is_current", false).Error; err != nil {
			return err
		}
		stateModel := models.WorkflowStateRecordModel{
			ID:                stateRecord.ID,
			ReversalRequestID: stateRecord.ReversalRequestID,
			State:             string(stateRecord.State),
			IsCurrent:         true,
			CreatedAt:         stateRecord.CreatedAt,
		}
		return tx.Create(&stateModel).Error
	})
}

var _ domain.ReversalRepository = (*DefaultReversalRepository)(nil)
