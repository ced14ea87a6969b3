package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"health-content-web/internal/domain"
)

// finishTimeout bounds the terminal status write and error notification of a failed run.
const finishTimeout = 10 * time.Second

// contentExecution holds the state of one run: its payload, the active stage and the draft once written.
type contentExecution struct {
	pipeline  *ContentPipeline
	payload   domain.GenerateTaskPayload
	startTime time.Time

	stage      domain.RequestStatus
	draftID    string
	draftTitle string
}

// run moves the request through every stage in order and records the outcome.
func (e *contentExecution) run(ctx context.Context) (err error) {
	p := e.pipeline

	// Any stage error marks the request failed and notifies Slack.
	defer func() {
		if err != nil {
			e.fail(ctx, err)
		}
	}()

	// --- Stage 1: Research ---
	if err = e.enter(ctx, domain.StatusResearch); err != nil {
		return err
	}
	research := p.runResearchStep(ctx, e)

	// --- Stage 2: Writing ---
	if err = e.enter(ctx, domain.StatusWriting); err != nil {
		return err
	}
	if err = p.runWriterStep(ctx, e, research); err != nil {
		return fmt.Errorf("writing stage failed: %w", err)
	}

	// --- Stage 3: Clinical review ---
	if err = e.enter(ctx, domain.StatusReviewing); err != nil {
		return err
	}
	if err = p.runReviewStep(ctx, e); err != nil {
		return fmt.Errorf("reviewing stage failed: %w", err)
	}

	// --- Stage 4: SEO ---
	if err = e.enter(ctx, domain.StatusSEO); err != nil {
		return err
	}
	if err = p.runSEOStep(ctx, e); err != nil {
		return fmt.Errorf("seo stage failed: %w", err)
	}

	// --- Stage 5: Hero image ---
	if err = e.enter(ctx, domain.StatusImaging); err != nil {
		return err
	}
	p.runImageStep(ctx, e)

	// --- Stage 6: Approval ---
	if err = e.enter(ctx, domain.StatusApproving); err != nil {
		return err
	}
	approval, err := p.runApprovalStep(ctx, e)
	if err != nil {
		return fmt.Errorf("approving stage failed: %w", err)
	}

	if err = p.store.FinishRequest(ctx, e.payload.RequestID, domain.StatusComplete, ""); err != nil {
		return fmt.Errorf("failed to complete request: %w", err)
	}
	e.stage = domain.StatusComplete
	p.metrics.RunsTotal.WithLabelValues(string(domain.StatusComplete)).Inc()

	slog.InfoContext(ctx, "Pipeline execution completed",
		"request_id", e.payload.RequestID,
		"draft_id", e.draftID,
		"workflow_status", approval.Status,
		"all_passed", approval.AllPassed,
		"elapsed", time.Since(e.startTime).String(),
	)

	// Notification failures never change the run outcome.
	if notifyErr := p.slack.Notify(ctx, e.draftURL(), e.notification(string(approval.Status))); notifyErr != nil {
		slog.ErrorContext(ctx, "Notification failed", "request_id", e.payload.RequestID, "error", notifyErr)
	}
	return nil
}

// enter persists the upcoming stage so pollers observe progress.
func (e *contentExecution) enter(ctx context.Context, next domain.RequestStatus) error {
	if err := e.pipeline.store.UpdateRequestStatus(ctx, e.payload.RequestID, next); err != nil {
		return fmt.Errorf("failed to set request status %s: %w", next, err)
	}
	e.stage = next
	slog.InfoContext(ctx, "Stage started", "request_id", e.payload.RequestID, "stage", next)
	return nil
}

// fail marks the request failed. Artifacts of earlier stages stay in place.
func (e *contentExecution) fail(ctx context.Context, cause error) {
	p := e.pipeline
	p.metrics.RunsTotal.WithLabelValues(string(domain.StatusFailed)).Inc()

	slog.ErrorContext(ctx, "Pipeline execution failed",
		"request_id", e.payload.RequestID,
		"stage", e.stage,
		"draft_id", e.draftID,
		"error", cause,
	)

	// The run context may already be cancelled at shutdown.
	finishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), finishTimeout)
	defer cancel()
	if err := p.store.FinishRequest(finishCtx, e.payload.RequestID, domain.StatusFailed, cause.Error()); err != nil {
		slog.ErrorContext(ctx, "Failed to mark request failed", "request_id", e.payload.RequestID, "error", err)
	}

	req := e.notification("")
	req.FailedStage = string(e.stage)
	if err := p.slack.NotifyError(finishCtx, cause, req); err != nil {
		slog.ErrorContext(ctx, "Failed to send error notification", "error", err)
	}
}
