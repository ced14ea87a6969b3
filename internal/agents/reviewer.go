package agents

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"health-content-web/internal/ai"
	"health-content-web/internal/domain"
	"health-content-web/internal/store"
)

const (
	ClinicalAccuracyThreshold = 90

	ReviewApproved    = "approved"
	ReviewNeedsReview = "needs_review"
	ReviewRejected    = "rejected"
	// ReviewUnreviewed marks a review the model could not perform.
	ReviewUnreviewed = "unreviewed"

	fallbackClinicalScore = 85
	fallbackSafetyScore   = 100
)

type ReviewResult struct {
	Status                string   `json:"status"`
	ClinicalAccuracyScore int      `json:"clinical_accuracy_score"`
	SafetyScore           int      `json:"safety_score"`
	Issues                []string `json:"issues"`
	Recommendations       []string `json:"recommendations"`
	Passed                bool     `json:"passed"`
	Fallback              bool     `json:"fallback"`
}

type reviewResponse struct {
	Status                string   `json:"status"`
	ClinicalAccuracyScore *int     `json:"clinical_accuracy_score"`
	SafetyScore           *int     `json:"safety_score"`
	Issues                []string `json:"issues"`
	Recommendations       []string `json:"recommendations"`
}

func (r *reviewResponse) Validate() error {
	switch r.Status {
	case ReviewApproved, ReviewNeedsReview, ReviewRejected:
	default:
		return fmt.Errorf("unknown review status %q", r.Status)
	}
	if err := checkScore("clinical_accuracy_score", r.ClinicalAccuracyScore); err != nil {
		return err
	}
	return checkScore("safety_score", r.SafetyScore)
}

// ReviewerAgent scores a draft for clinical accuracy and records the clinical_accuracy gate.
type ReviewerAgent struct {
	store store.Store
	llm   ai.TextGenerator
}

func NewReviewerAgent(s store.Store, llm ai.TextGenerator) *ReviewerAgent {
	return &ReviewerAgent{store: s, llm: llm}
}

// Run fails when the draft is missing, the gate cannot be stored or the run is cancelled.
// A review the model could not perform never passes the gate.
func (a *ReviewerAgent) Run(ctx context.Context, draftID string) (ReviewResult, error) {
	draft, err := a.store.GetDraft(ctx, draftID)
	if err != nil {
		return ReviewResult{}, err
	}

	result, err := a.review(ctx, draft)
	if err != nil {
		return ReviewResult{}, err
	}
	result.Passed = !result.Fallback && result.ClinicalAccuracyScore >= ClinicalAccuracyThreshold

	gate := &domain.QualityGate{
		RequestID: draftID,
		GateName:  domain.GateClinicalAccuracy,
		Passed:    result.Passed,
		Value: map[string]any{
			"clinical_score": result.ClinicalAccuracyScore,
			"safety_score":   result.SafetyScore,
			"fallback":       result.Fallback,
		},
		Threshold: map[string]any{"min": ClinicalAccuracyThreshold},
	}
	if err := a.store.UpsertGate(ctx, gate); err != nil {
		return result, err
	}

	score := result.ClinicalAccuracyScore
	if err := a.store.UpdateDraft(ctx, draftID, store.DraftUpdate{LLMScore: &score}); err != nil {
		return result, err
	}
	return result, nil
}

func (a *ReviewerAgent) review(ctx context.Context, draft *domain.Draft) (ReviewResult, error) {
	raw, err := a.llm.Complete(ctx, ai.Prompt{
		System:      reviewerSystemPrompt,
		User:        reviewerPrompt(draft.Title, draft.Content),
		Temperature: 0.3,
		MaxTokens:   1000,
		JSON:        true,
	})
	if err == nil {
		var resp reviewResponse
		if resp, err = ai.DecodeJSON[reviewResponse](raw); err == nil {
			return ReviewResult{
				Status:                resp.Status,
				ClinicalAccuracyScore: *resp.ClinicalAccuracyScore,
				SafetyScore:           *resp.SafetyScore,
				Issues:                resp.Issues,
				Recommendations:       resp.Recommendations,
			}, nil
		}
	}
	if !ai.IsFallbackCause(err) {
		return ReviewResult{}, fmt.Errorf("failed to review draft %s: %w", draft.ID, err)
	}

	slog.WarnContext(ctx, "Reviewer stage could not review draft", "agent", "reviewer", "draft_id", draft.ID, "error", err)
	return ReviewResult{
		Status:                ReviewUnreviewed,
		ClinicalAccuracyScore: fallbackClinicalScore,
		SafetyScore:           fallbackSafetyScore,
		Issues:                []string{},
		Recommendations:       []string{"Manual review recommended"},
		Fallback:              true,
	}, nil
}

func checkScore(name string, v *int) error {
	if v == nil {
		return errors.New(name + " is required")
	}
	if *v < 0 || *v > 100 {
		return fmt.Errorf("%s %d is outside 0-100", name, *v)
	}
	return nil
}
