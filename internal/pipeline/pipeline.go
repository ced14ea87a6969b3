package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"health-content-web/internal/adapters"
	"health-content-web/internal/agents"
	"health-content-web/internal/config"
	"health-content-web/internal/domain"
	"health-content-web/internal/metrics"
)

// --- Stage interfaces ---

type Researcher interface {
	Run(ctx context.Context, in agents.ResearchInput) agents.ResearchResult
}

type Writer interface {
	Run(ctx context.Context, in agents.WriterInput) (agents.WriterResult, error)
}

type Reviewer interface {
	Run(ctx context.Context, draftID string) (agents.ReviewResult, error)
}

type Optimizer interface {
	Run(ctx context.Context, draftID string) (agents.SEOResult, error)
}

type Illustrator interface {
	Run(ctx context.Context, in agents.ImageInput) agents.ImageResult
}

type Approver interface {
	Run(ctx context.Context, draftID string) (agents.ApprovalResult, error)
}

// Stages are the six stage agents in pipeline order.
type Stages struct {
	Research Researcher
	Writer   Writer
	Reviewer Reviewer
	SEO      Optimizer
	Image    Illustrator
	Approver Approver
}

func (s Stages) validate() error {
	if s.Research == nil || s.Writer == nil || s.Reviewer == nil || s.SEO == nil || s.Image == nil || s.Approver == nil {
		return errors.New("all six pipeline stages are required")
	}
	return nil
}

// RequestStore is the part of the store that tracks generation requests.
type RequestStore interface {
	UpdateRequestStatus(ctx context.Context, id string, status domain.RequestStatus) error
	AttachDraft(ctx context.Context, requestID, draftID string) error
	FinishRequest(ctx context.Context, id string, status domain.RequestStatus, errMsg string) error
}

// ContentPipeline runs the stage agents for one generation request at a time.
type ContentPipeline struct {
	cfg     *config.Config
	store   RequestStore
	stages  Stages
	slack   adapters.SlackNotifier
	metrics *metrics.Pipeline
}

func NewContentPipeline(
	cfg *config.Config,
	store RequestStore,
	stages Stages,
	slack adapters.SlackNotifier,
	m *metrics.Pipeline,
) (*ContentPipeline, error) {
	if store == nil {
		return nil, errors.New("request store is required")
	}
	if err := stages.validate(); err != nil {
		return nil, err
	}
	if slack == nil {
		slack = adapters.NewSlackAdapter("")
	}
	if m == nil {
		m = metrics.NewPipeline()
	}
	return &ContentPipeline{
		cfg:     cfg,
		store:   store,
		stages:  stages,
		slack:   slack,
		metrics: m,
	}, nil
}

// Execute runs every stage for the request named in payload. The request ends as
// complete or failed; artifacts of finished stages are kept either way.
func (p *ContentPipeline) Execute(ctx context.Context, payload domain.GenerateTaskPayload) error {
	exec := &contentExecution{
		pipeline:  p,
		payload:   payload,
		startTime: time.Now(),
		stage:     domain.StatusPending,
	}

	p.metrics.InFlight.Inc()
	defer p.metrics.InFlight.Dec()

	slog.InfoContext(ctx, "Pipeline execution started",
		"request_id", payload.RequestID,
		"topic", payload.Topic,
	)
	return exec.run(ctx)
}
