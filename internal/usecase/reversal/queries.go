package reversal

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/qualitrace/qa-reversal-service/internal/domain"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// GetDisputes returns the reconciled view over both physical dispute
// representations: the unified ledger and the legacy per-scorecard rows.
// Per-table failures degrade the result instead of failing it; only a broken
// ledger aborts the call.
func (uc *DefaultReversalUsecase) GetDisputes(ctx context.Context, opts domain.GetDisputesOptions) ([]*domain.ReconciledDispute, error) {
	requests, err := uc.reversalRepo.List(ctx, domain.ReversalFilter{
		RequestedByEmail: opts.RequestedByEmail,
		EmployeeEmail:    opts.EmployeeEmail,
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	auditsByTable := uc.fetchAuditRows(ctx, requests)

	requestIDs := make([]string, len(requests))
	for i, request := range requests {
		requestIDs[i] = request.ID
	}
	states, err := uc.reversalRepo.CurrentStates(ctx, requestIDs)
	if err != nil {
		// Missing history defaults every dispute to submitted; the
		// final-decision precedence in Classify still forces decided ones
		// terminal.
		slog.Error("failed to load workflow states, defaulting", "error", err.Error())
		states = map[string]*domain.WorkflowStateRecord{}
	}

	disputes := make([]*domain.ReconciledDispute, 0, len(requests))
	covered := make(map[string]bool, len(requests))
	for _, request := range requests {
		dispute, ok := uc.buildLedgerDispute(ctx, request, auditsByTable, states[request.ID])
		covered[request.ScorecardTable+"\x00"+request.AuditID] = true
		if !ok {
			continue
		}
		disputes = append(disputes, dispute)
	}

	legacyFilter := domain.LegacyScanFilter{EmployeeEmail: opts.EmployeeEmail, Limit: opts.Limit}
	for _, dispute := range uc.ScanLegacy(ctx, legacyFilter) {
		if covered[dispute.DedupKey()] {
			continue
		}
		disputes = append(disputes, dispute)
	}

	visible := disputes[:0]
	for _, dispute := range disputes {
		if !opts.Caller.CanSee(dispute) {
			continue
		}
		if opts.OnlyPending && !dispute.IsPending() {
			continue
		}
		visible = append(visible, dispute)
	}

	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].RequestedAt.After(visible[j].RequestedAt)
	})
	if opts.Limit > 0 && len(visible) > opts.Limit {
		visible = visible[:opts.Limit]
	}
	return visible, nil
}

func (uc *DefaultReversalUsecase) GetDispute(ctx context.Context, id string, caller domain.Caller) (*domain.ReconciledDispute, error) {
	request, err := uc.reversalRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, status.Error(codes.NotFound, "reversal request not found")
		}
		return nil, status.Error(codes.Internal, err.Error())
	}

	auditsByTable := uc.fetchAuditRows(ctx, []*domain.ReversalRequest{request})
	states, err := uc.reversalRepo.CurrentStates(ctx, []string{request.ID})
	if err != nil {
		slog.Error("failed to load workflow state", "reversal_request_id", request.ID, "error", err.Error())
		states = map[string]*domain.WorkflowStateRecord{}
	}

	dispute, ok := uc.buildLedgerDispute(ctx, request, auditsByTable, states[request.ID])
	if !ok || !caller.CanSee(dispute) {
		return nil, status.Error(codes.NotFound, "reversal request not found")
	}
	return dispute, nil
}

func (uc *DefaultReversalUsecase) GetStats(ctx context.Context, caller domain.Caller) (*domain.DisputeStats, error) {
	disputes, err := uc.GetDisputes(ctx, domain.GetDisputesOptions{Caller: caller})
	if err != nil {
		return nil, err
	}
	stats := &domain.DisputeStats{
		Total:   len(disputes),
		ByState: make(map[domain.WorkflowState]int),
	}
	for _, dispute := range disputes {
		stats.ByState[dispute.WorkflowState]++
		if dispute.IsPending() {
			stats.Pending++
		}
	}
	if uc.metrics != nil {
		uc.metrics.RecordPendingCount(float64(stats.Pending))
	}
	return stats, nil
}

// tableAudits holds one table's batch-fetch result. A table that errored has
// failed=true and contributes nothing; its ledger rows are omitted rather
// than failing the whole read.
type tableAudits struct {
	rows   map[string]*domain.AuditRow
	failed bool
	known  bool
}

func (uc *DefaultReversalUsecase) fetchAuditRows(ctx context.Context, requests []*domain.ReversalRequest) map[string]*tableAudits {
	idsByTable := make(map[string][]string)
	for _, request := range requests {
		idsByTable[request.ScorecardTable] = append(idsByTable[request.ScorecardTable], request.AuditID)
	}

	results := make(map[string]*tableAudits, len(idsByTable))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for table, auditIDs := range idsByTable {
		// Only catalog-registered tables are queried. A ledger row pointing at
		// an unregistered table is still surfaced, just without audit context.
		if _, err := uc.locator.ByTable(ctx, table); err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				slog.Error("scorecard catalog lookup failed", "table", table, "error", err.Error())
			}
			mu.Lock()
			results[table] = &tableAudits{known: false}
			mu.Unlock()
			continue
		}

		wg.Add(1)
		go func(table string, auditIDs []string) {
			defer wg.Done()
			fetchCtx, cancel := context.WithTimeout(ctx, uc.perTableTimeout)
			defer cancel()

			rows, err := uc.auditRepo.FetchByIDs(fetchCtx, table, auditIDs)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				slog.Error("audit batch fetch failed, omitting table", "table", table, "error", err.Error())
				if uc.metrics != nil {
					uc.metrics.RecordSourceFailure(table)
				}
				results[table] = &tableAudits{known: true, failed: true}
				return
			}
			byID := make(map[string]*domain.AuditRow, len(rows))
			for _, row := range rows {
				byID[row.ID] = row
			}
			results[table] = &tableAudits{known: true, rows: byID}
		}(table, auditIDs)
	}
	wg.Wait()
	return results
}

// buildLedgerDispute merges one ledger row with its audit context. The merge
// starts from the audit row and overlays ledger fields, which win on
// collision. Returns ok=false when the row must be omitted (failed table or
// orphaned audit linkage).
func (uc *DefaultReversalUsecase) buildLedgerDispute(
	ctx context.Context,
	request *domain.ReversalRequest,
	auditsByTable map[string]*tableAudits,
	state *domain.WorkflowStateRecord,
) (*domain.ReconciledDispute, bool) {
	dispute := &domain.ReconciledDispute{
		ID:                   request.ID,
		Source:               domain.SourceLedger,
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
		FinalDecision:        request.FinalDecision,
		FinalDecisionAt:      request.FinalDecisionAt,
		FinalDecisionByName:  request.FinalDecisionByName,
		FinalDecisionByEmail: request.FinalDecisionByEmail,
		SLAHours:             request.SLAHours,
		WithinScope:          request.WithinScope,
	}
	if state != nil {
		dispute.StoredState = state.State
		if state.State == domain.StateTeamLeadApproved {
			dispute.TeamLeadApproved = true
		}
	}

	table, tracked := auditsByTable[request.ScorecardTable]
	switch {
	case !tracked || !table.known:
		// Reduced context: unknown scorecard table, surfaced without merge.
	case table.failed:
		return nil, false
	default:
		audit, ok := table.rows[request.AuditID]
		if !ok {
			// Orphaned dispute: the audit it contests no longer exists.
			slog.Warn("dropping reversal request with missing audit row",
				"reversal_request_id", request.ID,
				"table", request.ScorecardTable,
				"audit_id", request.AuditID)
			return nil, false
		}
		dispute.AuditEmployeeEmail = audit.EmployeeEmail
		dispute.AuditorEmail = audit.AuditorEmail
		dispute.AuditorName = audit.AuditorName
		dispute.InteractionID = audit.InteractionID
		dispute.AuditSubmittedAt = audit.SubmittedAt
		dispute.AuditScore = audit.Score
		dispute.PassingStatus = audit.PassingStatus
		dispute.AcknowledgementStatus = audit.AcknowledgementStatus
		if audit.TeamLeadApproved {
			dispute.TeamLeadApproved = true
		}
		if dispute.EmployeeEmail == "" {
			dispute.EmployeeEmail = audit.EmployeeEmail
		}
		if dispute.EmployeeName == "" {
			dispute.EmployeeName = audit.EmployeeName
		}
	}

	if sc, err := uc.locator.ByTable(ctx, request.ScorecardTable); err == nil {
		dispute.ScorecardName = sc.DisplayName
	}
	dispute.WorkflowState = dispute.Classify()
	return dispute, true
}
