package reversal

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/qualitrace/qa-reversal-service/internal/domain"
)

// ScanLegacy surfaces disputes recorded before the ledger existed: audit rows
// carrying an embedded reversal timestamp. Every active scorecard table is
// scanned in parallel; audit tables evolve independently and older ones lack
// the reversal columns entirely, so a failing table is logged and skipped,
// never fatal to the scan.
func (uc *DefaultReversalUsecase) ScanLegacy(ctx context.Context, filter domain.LegacyScanFilter) []*domain.ReconciledDispute {
	scorecards, err := uc.locator.Active(ctx)
	if err != nil {
		slog.Error("legacy scan skipped: scorecard catalog unavailable", "error", err.Error())
		return nil
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	var disputes []*domain.ReconciledDispute
	for _, sc := range scorecards {
		wg.Add(1)
		go func(sc *domain.Scorecard) {
			defer wg.Done()
			scanCtx, cancel := context.WithTimeout(ctx, uc.perTableTimeout)
			defer cancel()

			rows, err := uc.auditRepo.ScanLegacy(scanCtx, sc.TableName, filter)
			if err != nil {
				slog.Warn("legacy scan failed for table, omitting",
					"table", sc.TableName, "error", err.Error())
				if uc.metrics != nil {
					uc.metrics.RecordLegacyScanFailure(sc.TableName)
				}
				return
			}

			mu.Lock()
			defer mu.Unlock()
			for _, row := range rows {
				disputes = append(disputes, buildLegacyDispute(sc, row))
			}
		}(sc)
	}
	wg.Wait()
	return disputes
}

func buildLegacyDispute(sc *domain.Scorecard, row *domain.AuditRow) *domain.ReconciledDispute {
	dispute := &domain.ReconciledDispute{
		// Stable synthetic id: dedup key against ledger entries for the same
		// audit, and a stable handle for callers.
		ID:             fmt.Sprintf("legacy:%s:%s", sc.TableName, row.ID),
		Source:         domain.SourceLegacy,
		AuditID:        row.ID,
		ScorecardTable: sc.TableName,
		ScorecardName:  sc.DisplayName,

		RequestedByEmail: row.ReversalRequestedBy,
		EmployeeEmail:    row.EmployeeEmail,
		EmployeeName:     row.EmployeeName,
		Justification:    row.ReversalReason,

		AuditEmployeeEmail:    row.EmployeeEmail,
		AuditorEmail:          row.AuditorEmail,
		AuditorName:           row.AuditorName,
		InteractionID:         row.InteractionID,
		AuditSubmittedAt:      row.SubmittedAt,
		AuditScore:            row.Score,
		PassingStatus:         row.PassingStatus,
		AcknowledgementStatus: row.AcknowledgementStatus,

		LegacyStatus:     row.ReversalStatus,
		TeamLeadApproved: row.TeamLeadApproved,
	}
	if row.ReversalRequestedAt != nil {
		dispute.RequestedAt = *row.ReversalRequestedAt
	}
	if row.ScoreBeforeReversal != nil {
		dispute.ScoreBefore = *row.ScoreBeforeReversal
	} else {
		dispute.ScoreBefore = row.Score
	}
	if row.ReversalApproved != nil {
		decision := domain.DecisionRejected
		if *row.ReversalApproved {
			decision = domain.DecisionApproved
		}
		dispute.FinalDecision = &decision
		dispute.FinalDecisionAt = row.ReversalRespondedAt
	}
	dispute.WorkflowState = dispute.Classify()
	return dispute
}
