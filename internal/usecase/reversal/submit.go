package reversal

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
	"github.com/qualitrace/qa-reversal-service/internal/domain"
	publisher "github.com/qualitrace/qa-reversal-service/internal/infrastructure/kafka"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// SubmitReversal opens a dispute: a ledger row plus its initial "submitted"
// workflow record, written together.
func (uc *DefaultReversalUsecase) SubmitReversal(ctx context.Context, input *domain.SubmitReversalInput) (*domain.ReversalRequest, error) {
	if input.AuditID == "" || input.ScorecardID == "" || input.RequestedByEmail == "" {
		return nil, status.Error(codes.InvalidArgument, "audit id, scorecard id and requester are required")
	}

	table, err := uc.locator.ResolveTable(ctx, input.ScorecardID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, status.Error(codes.InvalidArgument, "unknown scorecard")
		}
		return nil, status.Error(codes.Internal, err.Error())
	}

	idGenerator, err := nanoid.Standard(15)
	if err != nil {
		return nil, err
	}

	request := &domain.ReversalRequest{
		ID:                 idGenerator(),
		AuditID:            input.AuditID,
		ScorecardTable:     table,
		RequestedByEmail:   input.RequestedByEmail,
		RequestedAt:        uc.now(),
		EmployeeEmail:      input.EmployeeEmail,
		EmployeeName:       input.EmployeeName,
		DisputeType:        input.DisputeType,
		Justification:      input.Justification,
		DisputedParameters: input.DisputedParameters,
		Attachments:        input.Attachments,
		ScoreBefore:        input.ScoreBefore,
		WithinScope:        input.WithinScope,
	}

	if err := uc.reversalRepo.Create(ctx, request, uuid.NewString()); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	if uc.metrics != nil {
		uc.metrics.RecordSubmission(table)
	}

	if uc.eventPublisher != nil {
		go func(event publisher.ReversalEvent) {
			if err := uc.eventPublisher.PublishReversal(event); err != nil {
				slog.Error("failed to publish kafka reversal event", "stage", "submitted", "error", err.Error())
			}
		}(publisher.ReversalEvent{
			ReversalRequestID: request.ID,
			AuditID:           request.AuditID,
			ScorecardTable:    request.ScorecardTable,
			EmployeeEmail:     request.EmployeeEmail,
			RequestedBy:       request.RequestedByEmail,
			Stage:             "submitted",
			ScoreBefore:       request.ScoreBefore,
		})
	}

	return request, nil
}
