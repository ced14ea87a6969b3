package agents

import (
	"context"
	"fmt"

	"health-content-web/internal/domain"
	"health-content-web/internal/store"
)

// GateOutcome is the stored result of one quality gate.
type GateOutcome struct {
	Passed    bool           `json:"passed"`
	Value     map[string]any `json:"value"`
	Threshold map[string]any `json:"threshold,omitempty"`
}

type ApprovalResult struct {
	Status       domain.WorkflowStatus  `json:"status"`
	QualityGates map[string]GateOutcome `json:"quality_gates"`
	AllPassed    bool                   `json:"all_passed"`
}

// ApproverAgent routes a draft to staff review or back to AI review from its gate results.
type ApproverAgent struct {
	store store.Store
}

func NewApproverAgent(s store.Store) *ApproverAgent {
	return &ApproverAgent{store: s}
}

// Run reads the gates correlated with draftID and moves the draft to its next workflow status.
func (a *ApproverAgent) Run(ctx context.Context, draftID string) (ApprovalResult, error) {
	gates, err := a.store.ListGates(ctx, draftID)
	if err != nil {
		return ApprovalResult{}, err
	}

	outcomes, allPassed := EvaluateGates(gates)
	next := NextWorkflowStatus(allPassed)

	if err := a.store.UpdateDraft(ctx, draftID, store.DraftUpdate{WorkflowStatus: &next}); err != nil {
		return ApprovalResult{}, fmt.Errorf("failed to route draft: %w", err)
	}

	return ApprovalResult{
		Status:       next,
		QualityGates: outcomes,
		AllPassed:    allPassed,
	}, nil
}

// EvaluateGates returns the per-gate breakdown and whether every gate passed.
// No gates means nothing was evaluated, which does not count as passing.
func EvaluateGates(gates []domain.QualityGate) (map[string]GateOutcome, bool) {
	outcomes := make(map[string]GateOutcome, len(gates))
	allPassed := len(gates) > 0
	for _, g := range gates {
		outcomes[g.GateName] = GateOutcome{
			Passed:    g.Passed,
			Value:     g.Value,
			Threshold: g.Threshold,
		}
		if !g.Passed {
			allPassed = false
		}
	}
	return outcomes, allPassed
}

func NextWorkflowStatus(allPassed bool) domain.WorkflowStatus {
	if allPassed {
		return domain.WorkflowStaffReview
	}
	return domain.WorkflowAIReview
}
