package mappers

import (
	"github.com/qualitrace/qa-reversal-service/internal/domain"
	"github.com/qualitrace/qa-reversal-service/internal/infrastructure/postgres/models"
)

func ToDomainReversal(model *models.ReversalRequestModel) *domain.ReversalRequest {
	var decision *domain.Decision
	if model.FinalDecision != nil {
		d := domain.Decision(*model.FinalDecision)
		decision = &d
	}
	return &domain.ReversalRequest{
		ID:                   model.ID,
		AuditID:              model.AuditID,
		ScorecardTable:       model.ScorecardTable,
		RequestedByEmail:     model.RequestedByEmail,
		RequestedAt:          model.RequestedAt,
		EmployeeEmail:        model.EmployeeEmail,
		EmployeeName:         model.EmployeeName,
		DisputeType:          model.DisputeType,
		Justification:        model.Justification,
		DisputedParameters:   model.DisputedParameters,
		Attachments:          model.Attachments,
		ScoreBefore:          model.ScoreBefore,
		ScoreAfter:           model.ScoreAfter,
		FinalDecision:        decision,
		FinalDecisionAt:      model.FinalDecisionAt,
		FinalDecisionByName:  model.FinalDecisionByName,
		FinalDecisionByEmail: model.FinalDecisionByEmail,
		SLAHours:             model.SlaHours,
		WithinScope:          model.WithinScope,
		CreatedAt:            model.CreatedAt,
		UpdatedAt:            model.UpdatedAt,
	}
}

func ToGORMReversal(request *domain.ReversalRequest) *models.ReversalRequestModel {
	var decision *string
	if request.FinalDecision != nil {
		d := string(*request.FinalDecision)
		decision = &d
	}
	return &models.ReversalRequestModel{
		ID:                   request.ID,
		AuditID:              request.AuditID,
		ScorecardTable:       request.ScorecardTable,
		RequestedByEmail:     request.RequestedByEmail,
		RequestedAt:          request.RequestedAt,
		EmployeeEmail:        request.EmployeeEmail,
		EmployeeName:         request.EmployeeName,
		DisputeType:          request.DisputeType,
		Justification:        request.Justification,
		DisputedParameters:   request.DisputedParameters,
		Attachments:          request.Attachments,
		ScoreBefore:          request.ScoreBefore,
		ScoreAfter:           request.ScoreAfter,
		FinalDecision:        decision,
		FinalDecisionAt:      request.FinalDecisionAt,
		FinalDecisionByName:  request.FinalDecisionByName,
		FinalDecisionByEmail: request.FinalDecisionByEmail,
		SlaHours:             request.SLAHours,
		WithinScope:          request.WithinScope,
		CreatedAt:            request.CreatedAt,
		UpdatedAt:            request.UpdatedAt,
	}
}

func ToDomainStateRecord(model *models.WorkflowStateRecordModel) *domain.WorkflowStateRecord {
	return &domain.WorkflowStateRecord{
		ID:                model.ID,
		ReversalRequestID: model.ReversalRequestID,
		State:             domain.WorkflowState(model.State),
		IsCurrent:         model.IsCurrent,
		CreatedAt:         model.CreatedAt,
	}
}

func ToDomainScorecard(model *models.ScorecardModel) *domain.Scorecard {
	return &domain.Scorecard{
		ID:               model.ID,
		DisplayName:      model.DisplayName,
		TableName:        model.TableName_,
		IsActive:         model.IsActive,
		PassingThreshold: model.PassingThreshold,
	}
}
