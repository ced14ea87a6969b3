package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"health-content-web/internal/agents"
)

// runResearchStep never fails. Its first idea steers the writer.
func (p *ContentPipeline) runResearchStep(ctx context.Context, exec *contentExecution) agents.ResearchResult {
	start := time.Now()
	res := p.stages.Research.Run(ctx, agents.ResearchInput{
		Topic:    exec.payload.Topic,
		Keywords: exec.payload.Keywords,
	})
	p.metrics.ObserveStage("research", start, nil)
	if res.Fallback {
		p.metrics.Fallback("research")
	}
	return res
}

// runWriterStep persists the draft and links it to the request.
func (p *ContentPipeline) runWriterStep(ctx context.Context, exec *contentExecution, research agents.ResearchResult) (err error) {
	start := time.Now()
	defer func() { p.metrics.ObserveStage("writing", start, err) }()

	in := agents.WriterInput{
		Topic:      exec.payload.Topic,
		CategoryID: exec.payload.CategoryID,
		Keywords:   exec.payload.Keywords,
	}
	if len(research.Topics) > 0 {
		idea := research.Topics[0]
		in.Idea = &idea
	}

	res, err := p.stages.Writer.Run(ctx, in)
	if err != nil {
		return err
	}
	if res.Fallback {
		p.metrics.Fallback("writer")
	}

	exec.draftID = res.DraftID
	exec.draftTitle = res.Title
	if err := p.store.AttachDraft(ctx, exec.payload.RequestID, res.DraftID); err != nil {
		return fmt.Errorf("failed to link draft %s: %w", res.DraftID, err)
	}
	return nil
}

func (p *ContentPipeline) runReviewStep(ctx context.Context, exec *contentExecution) (err error) {
	start := time.Now()
	defer func() { p.metrics.ObserveStage("reviewing", start, err) }()

	res, err := p.stages.Reviewer.Run(ctx, exec.draftID)
	if err != nil {
		return err
	}
	if res.Fallback {
		p.metrics.Fallback("reviewer")
	}
	slog.InfoContext(ctx, "Clinical review recorded",
		"draft_id", exec.draftID,
		"status", res.Status,
		"score", res.ClinicalAccuracyScore,
		"passed", res.Passed,
	)
	return nil
}

func (p *ContentPipeline) runSEOStep(ctx context.Context, exec *contentExecution) (err error) {
	start := time.Now()
	defer func() { p.metrics.ObserveStage("seo", start, err) }()

	res, err := p.stages.SEO.Run(ctx, exec.draftID)
	if err != nil {
		return err
	}
	if res.Fallback {
		p.metrics.Fallback("seo")
	}
	slog.InfoContext(ctx, "SEO score recorded", "draft_id", exec.draftID, "score", res.SEOScore, "passed", res.Passed)
	return nil
}

// runImageStep never fails. A missing image leaves the draft without a hero image.
func (p *ContentPipeline) runImageStep(ctx context.Context, exec *contentExecution) {
	start := time.Now()
	res := p.stages.Image.Run(ctx, agents.ImageInput{
		DraftID: exec.draftID,
		Title:   exec.draftTitle,
		Topic:   exec.payload.Topic,
	})
	p.metrics.ObserveStage("imaging", start, nil)
	if res.Fallback {
		p.metrics.Fallback("image")
	}
}

func (p *ContentPipeline) runApprovalStep(ctx context.Context, exec *contentExecution) (res agents.ApprovalResult, err error) {
	start := time.Now()
	defer func() { p.metrics.ObserveStage("approving", start, err) }()

	return p.stages.Approver.Run(ctx, exec.draftID)
}
