package reversal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/qualitrace/qa-reversal-service/internal/domain"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// AdvanceWorkflow moves a dispute one step through the review graph by
// appending a new current workflow record. Transitions are validated against
// the dispute's effective state, so a recorded decision blocks everything but
// acknowledgement even when stored history lags.
func (uc *DefaultReversalUsecase) AdvanceWorkflow(ctx context.Context, requestID string, toState domain.WorkflowState, actorEmail string) error {
	target, ok := domain.ParseWorkflowState(string(toState))
	if !ok {
		return status.Error(codes.InvalidArgument, fmt.Sprintf("unknown workflow state %q", toState))
	}

	request, err := uc.reversalRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return status.Error(codes.NotFound, "reversal request not found")
		}
		return status.Error(codes.Internal, err.Error())
	}

	states, err := uc.reversalRepo.CurrentStates(ctx, []string{request.ID})
	if err != nil {
		return status.Error(codes.Internal, err.Error())
	}

	effective := &domain.ReconciledDispute{FinalDecision: request.FinalDecision}
	if state, ok := states[request.ID]; ok {
		effective.StoredState = state.State
	}
	from := effective.Classify()

	if !domain.CanTransition(from, target) {
		return status.Error(codes.FailedPrecondition,
			fmt.Sprintf("cannot move reversal from %s to %s", from, target))
	}

	record := &domain.WorkflowStateRecord{
		ID:                uuid.NewString(),
		ReversalRequestID: request.ID,
		State:             target,
		IsCurrent:         true,
		CreatedAt:         uc.now(),
	}
	if err := uc.reversalRepo.AppendState(ctx, record); err != nil {
		return status.Error(codes.Internal, err.Error())
	}

	slog.Info("reversal workflow advanced",
		"reversal_request_id", request.ID,
		"from", string(from),
		"to", string(target),
		"actor", actorEmail)
	return nil
}
