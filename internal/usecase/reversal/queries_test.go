package reversal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/qualitrace/qa-reversal-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	voiceCard = &domain.Scorecard{
		ID: "sc-voice", DisplayName: "Voice QA", TableName: "voice_audits",
		IsActive: true, PassingThreshold: 80,
	}
	chatCard = &domain.Scorecard{
		ID: "sc-chat", DisplayName: "Chat QA", TableName: "chat_audits",
		IsActive: true, PassingThreshold: 85,
	}
	adminCaller = domain.Caller{Email: "admin@corp.example", Role: domain.RoleAdmin}
)

func seedLedgerRequest(repo *fakeReversalRepo, id, table, auditID string, requestedAt time.Time) *domain.ReversalRequest {
	request := &domain.ReversalRequest{
		ID:               id,
		AuditID:          auditID,
		ScorecardTable:   table,
		RequestedByEmail: "agent@corp.example",
		RequestedAt:      requestedAt,
		EmployeeEmail:    "agent@corp.example",
		EmployeeName:     "Agent Example",
		Justification:    "score dispute",
		ScoreBefore:      70,
	}
	repo.Create(context.Background(), request, "state-"+id)
	return request
}

func seedAuditRow(audit *fakeAuditRepo, table, id, employee string) *domain.AuditRow {
	row := &domain.AuditRow{
		ID:            id,
		EmployeeEmail: employee,
		EmployeeName:  "Agent Example",
		AuditorEmail:  "auditor@corp.example",
		SubmittedAt:   testNow.Add(-72 * time.Hour),
		Score:         70,
		PassingStatus: "Failing",
	}
	audit.tables[table] = append(audit.tables[table], row)
	return row
}

func TestGetDisputesMergesLedgerAndAudit(t *testing.T) {
	repo := newFakeReversalRepo()
	audit := newFakeAuditRepo()
	seedAuditRow(audit, "voice_audits", "a-1", "agent@corp.example")
	seedLedgerRequest(repo, "r-1", "voice_audits", "a-1", testNow.Add(-time.Hour))
	uc := newTestUsecase(repo, audit, voiceCard)

	disputes, err := uc.GetDisputes(context.Background(), domain.GetDisputesOptions{Caller: adminCaller})
	require.NoError(t, err)
	require.Len(t, disputes, 1)

	d := disputes[0]
	assert.Equal(t, domain.SourceLedger, d.Source)
	assert.Equal(t, "Voice QA", d.ScorecardName)
	assert.Equal(t, "auditor@corp.example", d.AuditorEmail)
	assert.Equal(t, domain.StateSubmitted, d.WorkflowState)
	assert.True(t, d.IsPending())
}

func TestGetDisputesLedgerWinsOverLegacyDuplicate(t *testing.T) {
	repo := newFakeReversalRepo()
	audit := newFakeAuditRepo()
	row := seedAuditRow(audit, "voice_audits", "a-1", "agent@corp.example")
	// The same audit carries embedded legacy dispute fields from before the
	// ledger migration.
	row.ReversalRequestedAt = timePtr(testNow.Add(-48 * time.Hour))
	row.ReversalStatus = "Pending Team Lead Review"
	seedLedgerRequest(repo, "r-1", "voice_audits", "a-1", testNow.Add(-time.Hour))
	uc := newTestUsecase(repo, audit, voiceCard)

	disputes, err := uc.GetDisputes(context.Background(), domain.GetDisputesOptions{Caller: adminCaller})
	require.NoError(t, err)
	require.Len(t, disputes, 1)
	assert.Equal(t, domain.SourceLedger, disputes[0].Source)
	assert.Equal(t, "r-1", disputes[0].ID)
}

func TestGetDisputesIncludesLegacyOnlyRows(t *testing.T) {
	repo := newFakeReversalRepo()
	audit := newFakeAuditRepo()
	row := seedAuditRow(audit, "chat_audits", "a-9", "other@corp.example")
	row.ReversalRequestedAt = timePtr(testNow.Add(-24 * time.Hour))
	row.ReversalRequestedBy = "lead@corp.example"
	row.ReversalStatus = "Approved"
	row.ReversalApproved = boolPtr(true)
	uc := newTestUsecase(repo, audit, voiceCard, chatCard)

	disputes, err := uc.GetDisputes(context.Background(), domain.GetDisputesOptions{Caller: adminCaller})
	require.NoError(t, err)
	require.Len(t, disputes, 1)

	d := disputes[0]
	assert.Equal(t, domain.SourceLegacy, d.Source)
	assert.Equal(t, "legacy:chat_audits:a-9", d.ID)
	assert.Equal(t, domain.StateApproved, d.WorkflowState)
}

func TestGetDisputesDropsOrphanedLedgerRow(t *testing.T) {
	repo := newFakeReversalRepo()
	audit := newFakeAuditRepo()
	// Ledger row whose audit was deleted: the table answers, the row is gone.
	seedLedgerRequest(repo, "r-orphan", "voice_audits", "a-gone", testNow.Add(-time.Hour))
	uc := newTestUsecase(repo, audit, voiceCard)

	disputes, err := uc.GetDisputes(context.Background(), domain.GetDisputesOptions{Caller: adminCaller})
	require.NoError(t, err)
	assert.Empty(t, disputes)
}

func TestGetDisputesSurvivesBrokenTable(t *testing.T) {
	repo := newFakeReversalRepo()
	audit := newFakeAuditRepo()
	seedAuditRow(audit, "voice_audits", "a-1", "agent@corp.example")
	seedLedgerRequest(repo, "r-1", "voice_audits", "a-1", testNow.Add(-time.Hour))
	seedLedgerRequest(repo, "r-2", "chat_audits", "a-2", testNow.Add(-2*time.Hour))
	audit.fetchErr["chat_audits"] = errors.New("permission denied for relation chat_audits")
	uc := newTestUsecase(repo, audit, voiceCard, chatCard)

	disputes, err := uc.GetDisputes(context.Background(), domain.GetDisputesOptions{Caller: adminCaller})
	require.NoError(t, err)
	require.Len(t, disputes, 1)
	assert.Equal(t, "r-1", disputes[0].ID)
}

func TestGetDisputesUnknownTableReducedContext(t *testing.T) {
	repo := newFakeReversalRepo()
	audit := newFakeAuditRepo()
	// The scorecard behind this table was deactivated; the dispute is still
	// surfaced, just without audit context.
	seedLedgerRequest(repo, "r-1", "retired_audits", "a-1", testNow.Add(-time.Hour))
	uc := newTestUsecase(repo, audit, voiceCard)

	disputes, err := uc.GetDisputes(context.Background(), domain.GetDisputesOptions{Caller: adminCaller})
	require.NoError(t, err)
	require.Len(t, disputes, 1)
	assert.Empty(t, disputes[0].AuditorEmail)
	assert.Empty(t, disputes[0].ScorecardName)
}

func TestGetDisputesVisibilityForRestrictedCaller(t *testing.T) {
	repo := newFakeReversalRepo()
	audit := newFakeAuditRepo()
	seedAuditRow(audit, "voice_audits", "a-1", "agent@corp.example")
	seedAuditRow(audit, "voice_audits", "a-2", "other@corp.example")
	seedLedgerRequest(repo, "r-1", "voice_audits", "a-1", testNow.Add(-time.Hour))
	other := seedLedgerRequest(repo, "r-2", "voice_audits", "a-2", testNow.Add(-2*time.Hour))
	other.RequestedByEmail = "other@corp.example"
	other.EmployeeEmail = "other@corp.example"
	repo.requests["r-2"] = other
	uc := newTestUsecase(repo, audit, voiceCard)

	caller := domain.Caller{Email: "agent@corp.example", Role: domain.RoleEmployee}
	disputes, err := uc.GetDisputes(context.Background(), domain.GetDisputesOptions{Caller: caller})
	require.NoError(t, err)
	require.Len(t, disputes, 1)
	assert.Equal(t, "r-1", disputes[0].ID)
}

func TestGetDisputesOnlyPending(t *testing.T) {
	repo := newFakeReversalRepo()
	audit := newFakeAuditRepo()
	seedAuditRow(audit, "voice_audits", "a-1", "agent@corp.example")
	seedAuditRow(audit, "voice_audits", "a-2", "agent@corp.example")
	seedLedgerRequest(repo, "r-1", "voice_audits", "a-1", testNow.Add(-time.Hour))
	decided := seedLedgerRequest(repo, "r-2", "voice_audits", "a-2", testNow.Add(-2*time.Hour))
	decision := domain.DecisionRejected
	decided.FinalDecision = &decision
	repo.requests["r-2"] = decided
	uc := newTestUsecase(repo, audit, voiceCard)

	disputes, err := uc.GetDisputes(context.Background(), domain.GetDisputesOptions{
		Caller:      adminCaller,
		OnlyPending: true,
	})
	require.NoError(t, err)
	require.Len(t, disputes, 1)
	assert.Equal(t, "r-1", disputes[0].ID)
}

func TestGetDisputesSortedByRecencyAndLimited(t *testing.T) {
	repo := newFakeReversalRepo()
	audit := newFakeAuditRepo()
	for i, id := range []string{"a-1", "a-2", "a-3"} {
		seedAuditRow(audit, "voice_audits", id, "agent@corp.example")
		seedLedgerRequest(repo, "r-"+id, "voice_audits", id, testNow.Add(-time.Duration(i+1)*time.Hour))
	}
	uc := newTestUsecase(repo, audit, voiceCard)

	disputes, err := uc.GetDisputes(context.Background(), domain.GetDisputesOptions{
		Caller: adminCaller,
		Limit:  2,
	})
	require.NoError(t, err)
	require.Len(t, disputes, 2)
	assert.Equal(t, "r-a-1", disputes[0].ID)
	assert.Equal(t, "r-a-2", disputes[1].ID)
}

func TestGetDisputesDecisionPrecedenceOverStaleState(t *testing.T) {
	repo := newFakeReversalRepo()
	audit := newFakeAuditRepo()
	seedAuditRow(audit, "voice_audits", "a-1", "agent@corp.example")
	request := seedLedgerRequest(repo, "r-1", "voice_audits", "a-1", testNow.Add(-time.Hour))
	decision := domain.DecisionApproved
	request.FinalDecision = &decision
	repo.requests["r-1"] = request
	// Workflow history was never updated past qa_review.
	repo.current["r-1"] = &domain.WorkflowStateRecord{
		ID: "st-1", ReversalRequestID: "r-1", State: domain.StateQAReview, IsCurrent: true,
	}
	uc := newTestUsecase(repo, audit, voiceCard)

	disputes, err := uc.GetDisputes(context.Background(), domain.GetDisputesOptions{Caller: adminCaller})
	require.NoError(t, err)
	require.Len(t, disputes, 1)
	assert.Equal(t, domain.StateApproved, disputes[0].WorkflowState)
	assert.False(t, disputes[0].IsPending())
}

func TestGetDisputeByID(t *testing.T) {
	repo := newFakeReversalRepo()
	audit := newFakeAuditRepo()
	seedAuditRow(audit, "voice_audits", "a-1", "agent@corp.example")
	seedLedgerRequest(repo, "r-1", "voice_audits", "a-1", testNow.Add(-time.Hour))
	uc := newTestUsecase(repo, audit, voiceCard)

	dispute, err := uc.GetDispute(context.Background(), "r-1", adminCaller)
	require.NoError(t, err)
	assert.Equal(t, "r-1", dispute.ID)

	_, err = uc.GetDispute(context.Background(), "missing", adminCaller)
	assert.Error(t, err)

	// Restricted stranger gets not-found, not someone else's dispute.
	stranger := domain.Caller{Email: "stranger@corp.example", Role: domain.RoleEmployee}
	_, err = uc.GetDispute(context.Background(), "r-1", stranger)
	assert.Error(t, err)
}

func TestGetStats(t *testing.T) {
	repo := newFakeReversalRepo()
	audit := newFakeAuditRepo()
	seedAuditRow(audit, "voice_audits", "a-1", "agent@corp.example")
	seedAuditRow(audit, "voice_audits", "a-2", "agent@corp.example")
	seedLedgerRequest(repo, "r-1", "voice_audits", "a-1", testNow.Add(-time.Hour))
	decided := seedLedgerRequest(repo, "r-2", "voice_audits", "a-2", testNow.Add(-2*time.Hour))
	decision := domain.DecisionApproved
	decided.FinalDecision = &decision
	repo.requests["r-2"] = decided
	uc := newTestUsecase(repo, audit, voiceCard)

	stats, err := uc.GetStats(context.Background(), adminCaller)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.ByState[domain.StateSubmitted])
	assert.Equal(t, 1, stats.ByState[domain.StateApproved])
}
