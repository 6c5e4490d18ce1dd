package reversal

import (
	"context"
	"sync"
	"time"

	"github.com/qualitrace/qa-reversal-service/internal/domain"
	"github.com/qualitrace/qa-reversal-service/internal/usecase/scorecard"
)

type fakeReversalRepo struct {
	mu        sync.Mutex
	requests  map[string]*domain.ReversalRequest
	current   map[string]*domain.WorkflowStateRecord
	appended  []*domain.WorkflowStateRecord
	decisions []domain.DecisionUpdate

	listErr     error
	statesErr   error
	decisionErr error
}

func newFakeReversalRepo() *fakeReversalRepo {
	return &fakeReversalRepo{
		requests: make(map[string]*domain.ReversalRequest),
		current:  make(map[string]*domain.WorkflowStateRecord),
	}
}

func (f *fakeReversalRepo) Create(_ context.Context, request *domain.ReversalRequest, initialStateID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *request
	f.requests[request.ID] = &stored
	f.current[request.ID] = &domain.WorkflowStateRecord{
		ID:                initialStateID,
		ReversalRequestID: request.ID,
		State:             domain.StateSubmitted,
		IsCurrent:         true,
		CreatedAt:         request.RequestedAt,
	}
	return nil
}

func (f *fakeReversalRepo) GetByID(_ context.Context, id string) (*domain.ReversalRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	request, ok := f.requests[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *request
	return &clone, nil
}

func (f *fakeReversalRepo) List(_ context.Context, filter domain.ReversalFilter) ([]*domain.ReversalRequest, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.ReversalRequest
	for _, request := range f.requests {
		if filter.RequestedByEmail != "" && request.RequestedByEmail != filter.RequestedByEmail {
			continue
		}
		if filter.EmployeeEmail != "" && request.EmployeeEmail != filter.EmployeeEmail {
			continue
		}
		clone := *request
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakeReversalRepo) CurrentStates(_ context.Context, requestIDs []string) (map[string]*domain.WorkflowStateRecord, error) {
	if f.statesErr != nil {
		return nil, f.statesErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]*domain.WorkflowStateRecord)
	for _, id := range requestIDs {
		if record, ok := f.current[id]; ok {
			clone := *record
			out[id] = &clone
		}
	}
	return out, nil
}

func (f *fakeReversalRepo) AppendState(_ context.Context, record *domain.WorkflowStateRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *record
	f.appended = append(f.appended, &clone)
	f.current[record.ReversalRequestID] = &clone
	return nil
}

func (f *fakeReversalRepo) RecordDecision(_ context.Context, update domain.DecisionUpdate) error {
	if f.decisionErr != nil {
		return f.decisionErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	request, ok := f.requests[update.RequestID]
	if !ok {
		return domain.ErrNotFound
	}
	f.decisions = append(f.decisions, update)

	decision := update.Decision
	request.FinalDecision = &decision
	decidedAt := update.DecidedAt
	request.FinalDecisionAt = &decidedAt
	request.FinalDecisionByName = update.DeciderName
	request.FinalDecisionByEmail = update.DeciderEmail
	scoreAfter := update.ScoreAfter
	request.ScoreAfter = &scoreAfter
	if update.SLAHours != nil {
		sla := *update.SLAHours
		request.SLAHours = &sla
	}

	state := domain.StateApproved
	if decision == domain.DecisionRejected {
		state = domain.StateRejected
	}
	f.current[update.RequestID] = &domain.WorkflowStateRecord{
		ID:                update.StateRecordID,
		ReversalRequestID: update.RequestID,
		State:             state,
		IsCurrent:         true,
		CreatedAt:         update.DecidedAt,
	}
	return nil
}

type appliedDecision struct {
	table   string
	auditID string
	fields  domain.AuditDecisionFields
}

type fakeAuditRepo struct {
	mu       sync.Mutex
	tables   map[string][]*domain.AuditRow
	fetchErr map[string]error
	scanErr  map[string]error
	applied  []appliedDecision
	applyErr error
}

func newFakeAuditRepo() *fakeAuditRepo {
	return &fakeAuditRepo{
		tables:   make(map[string][]*domain.AuditRow),
		fetchErr: make(map[string]error),
		scanErr:  make(map[string]error),
	}
}

func (f *fakeAuditRepo) FetchByIDs(_ context.Context, table string, auditIDs []string) ([]*domain.AuditRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fetchErr[table]; err != nil {
		return nil, err
	}
	wanted := make(map[string]bool, len(auditIDs))
	for _, id := range auditIDs {
		wanted[id] = true
	}
	var out []*domain.AuditRow
	for _, row := range f.tables[table] {
		if wanted[row.ID] {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeAuditRepo) ScanLegacy(_ context.Context, table string, filter domain.LegacyScanFilter) ([]*domain.AuditRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.scanErr[table]; err != nil {
		return nil, err
	}
	var out []*domain.AuditRow
	for _, row := range f.tables[table] {
		if row.ReversalRequestedAt == nil {
			continue
		}
		if filter.EmployeeEmail != "" && row.EmployeeEmail != filter.EmployeeEmail {
			continue
		}
		out = append(out, row)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (f *fakeAuditRepo) ApplyDecision(_ context.Context, table, auditID string, fields domain.AuditDecisionFields) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.applyErr != nil {
		return f.applyErr
	}
	f.applied = append(f.applied, appliedDecision{table: table, auditID: auditID, fields: fields})
	return nil
}

type fakeScorecardRepo struct {
	mu         sync.Mutex
	scorecards []*domain.Scorecard
	calls      int
	err        error
}

func (f *fakeScorecardRepo) ListActive(_ context.Context) ([]*domain.Scorecard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.scorecards, nil
}

var testNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func newTestUsecase(reversalRepo *fakeReversalRepo, auditRepo *fakeAuditRepo, scorecards ...*domain.Scorecard) *DefaultReversalUsecase {
	return newTestUsecaseWithScorecardRepo(reversalRepo, auditRepo, &fakeScorecardRepo{scorecards: scorecards})
}

func newTestUsecaseWithScorecardRepo(reversalRepo *fakeReversalRepo, auditRepo *fakeAuditRepo, scRepo *fakeScorecardRepo) *DefaultReversalUsecase {
	locator := scorecard.NewLocator(scRepo)
	uc := NewDefaultReversalUsecase(reversalRepo, auditRepo, locator, nil, nil, nil, time.Second)
	uc.now = func() time.Time { return testNow }
	return uc
}

func timePtr(t time.Time) *time.Time { return &t }

func boolPtr(b bool) *bool { return &b }

func floatPtr(f float64) *float64 { return &f }
