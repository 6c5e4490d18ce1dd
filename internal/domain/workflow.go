package domain

import "strings"

type WorkflowState string

const (
	StateSubmitted        WorkflowState = "submitted"
	StateTeamLeadReview   WorkflowState = "team_lead_review"
	StateTeamLeadApproved WorkflowState = "team_lead_approved"
	StateTeamLeadRejected WorkflowState = "team_lead_rejected"
	StateQAReview         WorkflowState = "qa_review"
	StateCQCReview        WorkflowState = "cqc_review"
	StateCQCSentBack      WorkflowState = "cqc_sent_back"
	StateAgentReReview    WorkflowState = "agent_re_review"
	StateApproved         WorkflowState = "approved"
	StateRejected         WorkflowState = "rejected"
	StateAcknowledged     WorkflowState = "acknowledged"
)

var pendingStates = map[WorkflowState]bool{
	StateSubmitted:        true,
	StateTeamLeadReview:   true,
	StateTeamLeadApproved: true,
	StateQAReview:         true,
	StateCQCReview:        true,
	StateCQCSentBack:      true,
	StateAgentReReview:    true,
}

// allowedTransitions is the review workflow graph. The
// qa_review -> cqc_sent_back -> agent_re_review -> qa_review cycle is
// intentional: CQC can bounce a dispute back to the agent any number of times.
var allowedTransitions = map[WorkflowState][]WorkflowState{
	StateSubmitted:        {StateTeamLeadReview},
	StateTeamLeadReview:   {StateTeamLeadApproved, StateTeamLeadRejected},
	StateTeamLeadApproved: {StateQAReview, StateCQCReview},
	StateQAReview:         {StateCQCSentBack, StateApproved, StateRejected},
	StateCQCReview:        {StateCQCSentBack, StateApproved, StateRejected},
	StateCQCSentBack:      {StateAgentReReview, StateApproved, StateRejected},
	StateAgentReReview:    {StateQAReview, StateApproved, StateRejected},
	StateApproved:         {StateAcknowledged},
	StateRejected:         {StateAcknowledged},
}

func (s WorkflowState) IsPending() bool {
	return pendingStates[s]
}

func (s WorkflowState) IsTerminal() bool {
	return s == StateApproved || s == StateRejected ||
		s == StateAcknowledged || s == StateTeamLeadRejected
}

func CanTransition(from, to WorkflowState) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func ParseWorkflowState(raw string) (WorkflowState, bool) {
	switch s := WorkflowState(strings.ToLower(strings.TrimSpace(raw))); s {
	case StateSubmitted, StateTeamLeadReview, StateTeamLeadApproved,
		StateTeamLeadRejected, StateQAReview, StateCQCReview,
		StateCQCSentBack, StateAgentReReview, StateApproved,
		StateRejected, StateAcknowledged:
		return s, true
	}
	return "", false
}

// legacyStatusMatchers translates the free-text status column of pre-ledger
// audit rows into workflow states. Matching is ordered: more specific
// patterns must come before the generic ones they contain ("team lead
// rejected" before "rejected"), so keep this table sorted by priority.
var legacyStatusMatchers = []struct {
	substr string
	state  WorkflowState
}{
	{"team lead review", StateTeamLeadReview},
	{"team lead rejected", StateTeamLeadRejected},
	{"auditor review", StateQAReview},
	{"qa review", StateQAReview},
	{"cqc review", StateCQCReview},
	{"sent back", StateCQCSentBack},
	{"re-review", StateAgentReReview},
	{"approved", StateApproved},
	{"rejected", StateRejected},
	{"acknowledged", StateAcknowledged},
}

// StateFromLegacyStatus maps a legacy free-text status to a workflow state.
// Unknown or empty text falls back to submitted.
func StateFromLegacyStatus(raw string) WorkflowState {
	normalized := strings.ToLower(raw)
	for _, m := range legacyStatusMatchers {
		if strings.Contains(normalized, m.substr) {
			return m.state
		}
	}
	return StateSubmitted
}
