package reversal

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"github.com/google/uuid"
	"github.com/qualitrace/qa-reversal-service/internal/domain"
	publisher "github.com/qualitrace/qa-reversal-service/internal/infrastructure/kafka"
	"github.com/qualitrace/qa-reversal-service/internal/infrastructure/logger"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Decide records the final decision on a dispute. The ledger decision fields,
// the SLA and the terminal workflow record commit in one transaction; the
// audit-row sync that follows an approval is best-effort and independently
// retryable, with the ledger staying authoritative when it fails.
func (uc *DefaultReversalUsecase) Decide(ctx context.Context, requestID string, decision domain.Decision, newScore float64, deciderName, deciderEmail string) error {
	if requestID == "" {
		return status.Error(codes.InvalidArgument, "reversal request id is required")
	}
	if decision != domain.DecisionApproved && decision != domain.DecisionRejected {
		return status.Error(codes.InvalidArgument, "decision must be approved or rejected")
	}

	request, err := uc.reversalRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return status.Error(codes.NotFound, "reversal request not found")
		}
		return status.Error(codes.Internal, err.Error())
	}

	decidedAt := uc.now()

	// SLA is computed once and never recomputed, even if the decision is
	// re-recorded (last write wins on everything else).
	var slaHours *float64
	slaValue := 0.0
	if request.SLAHours != nil {
		slaValue = *request.SLAHours
	} else {
		computed := math.Round(decidedAt.Sub(request.RequestedAt).Hours()*100) / 100
		slaHours = &computed
		slaValue = computed
	}

	update := domain.DecisionUpdate{
		RequestID:     request.ID,
		Decision:      decision,
		DecidedAt:     decidedAt,
		DeciderName:   deciderName,
		DeciderEmail:  deciderEmail,
		ScoreAfter:    newScore,
		SLAHours:      slaHours,
		StateRecordID: uuid.NewString(),
	}
	if err := uc.reversalRepo.RecordDecision(ctx, update); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return status.Error(codes.NotFound, "reversal request not found")
		}
		return status.Error(codes.Internal, err.Error())
	}

	if uc.metrics != nil {
		uc.metrics.RecordDecision(request.ScorecardTable, string(decision), slaValue)
	}

	if uc.decisionLog != nil {
		event := logger.ReversalDecisionEvent{
			ReversalRequestID: request.ID,
			AuditID:           request.AuditID,
			ScorecardTable:    request.ScorecardTable,
			Decision:          string(decision),
			ScoreBefore:       request.ScoreBefore,
			ScoreAfter:        newScore,
			SlaHours:          slaValue,
			DeciderEmail:      deciderEmail,
			Timestamp:         decidedAt,
		}
		if err := uc.decisionLog.LogDecision(ctx, event); err != nil {
			slog.Error("failed to log reversal decision event", "reversal_request_id", request.ID, "error", err.Error())
		}
	}

	if uc.eventPublisher != nil {
		go func(event publisher.ReversalEvent) {
			if err := uc.eventPublisher.PublishReversal(event); err != nil {
				slog.Error("failed to publish kafka reversal event", "stage", "decided", "error", err.Error())
			}
		}(publisher.ReversalEvent{
			ReversalRequestID: request.ID,
			AuditID:           request.AuditID,
			ScorecardTable:    request.ScorecardTable,
			EmployeeEmail:     request.EmployeeEmail,
			RequestedBy:       request.RequestedByEmail,
			Stage:             "decided",
			Decision:          string(decision),
			ScoreBefore:       request.ScoreBefore,
			ScoreAfter:        newScore,
			SlaHours:          slaValue,
		})
	}

	if decision == domain.DecisionApproved {
		uc.syncAuditRow(ctx, request, newScore, update)
	}
	return nil
}

// syncAuditRow pushes an approved decision into the originating audit row
// through the column whitelist. Failure leaves the dispute
// ledger-authoritative-but-audit-row-stale: the read path re-derives the
// terminal state from the recorded decision, so this only logs and counts.
func (uc *DefaultReversalUsecase) syncAuditRow(ctx context.Context, request *domain.ReversalRequest, newScore float64, update domain.DecisionUpdate) {
	sc, err := uc.locator.ByTable(ctx, request.ScorecardTable)
	if err != nil {
		slog.Error("audit row left stale after approved reversal",
			"reversal_request_id", request.ID,
			"table", request.ScorecardTable,
			"error", errors.Join(domain.ErrInconsistentState, err).Error())
		if uc.metrics != nil {
			uc.metrics.RecordAuditSyncFailure(request.ScorecardTable)
		}
		return
	}

	passingStatus := "Failing"
	if newScore >= sc.PassingThreshold {
		passingStatus = "Passing"
	}
	fields := domain.AuditDecisionFields{
		Score:         newScore,
		PassingStatus: passingStatus,
		Status:        "Approved",
		Approved:      true,
		RespondedAt:   update.DecidedAt,
	}
	if err := uc.auditRepo.ApplyDecision(ctx, request.ScorecardTable, request.AuditID, fields); err != nil {
		slog.Error("audit row left stale after approved reversal",
			"reversal_request_id", request.ID,
			"table", request.ScorecardTable,
			"audit_id", request.AuditID,
			"error", errors.Join(domain.ErrInconsistentState, err).Error())
		if uc.metrics != nil {
			uc.metrics.RecordAuditSyncFailure(request.ScorecardTable)
		}
	}
}
