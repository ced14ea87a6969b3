package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"

	"health-content-web/internal/agents"
	"health-content-web/internal/config"
	"health-content-web/internal/domain"
	"health-content-web/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Fakes ---

type recordingStore struct {
	mu       sync.Mutex
	statuses []domain.RequestStatus
	draftID  string
	final    domain.RequestStatus
	errMsg   string
}

func (s *recordingStore) UpdateRequestStatus(_ context.Context, _ string, status domain.RequestStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses = append(s.statuses, status)
	return nil
}

func (s *recordingStore) AttachDraft(_ context.Context, _ string, draftID string) error {
	s.draftID = draftID
	return nil
}

func (s *recordingStore) FinishRequest(ctx context.Context, _ string, status domain.RequestStatus, errMsg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.final = status
	s.errMsg = errMsg
	return nil
}

type calls struct {
	mu    sync.Mutex
	names []string
}

func (c *calls) add(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names = append(c.names, name)
}

type fakeResearch struct{ c *calls }

func (f fakeResearch) Run(context.Context, agents.ResearchInput) agents.ResearchResult {
	f.c.add("research")
	return agents.ResearchResult{Topics: []agents.Idea{{Title: "Idea one", PrimaryKeyword: "sleep"}}}
}

type fakeWriter struct {
	c    *calls
	seen *agents.WriterInput
}

func (f fakeWriter) Run(_ context.Context, in agents.WriterInput) (agents.WriterResult, error) {
	f.c.add("writer")
	*f.seen = in
	return agents.WriterResult{DraftID: "draft-1", Title: "Better Sleep"}, nil
}

type fakeReviewer struct {
	c   *calls
	err error
}

func (f fakeReviewer) Run(context.Context, string) (agents.ReviewResult, error) {
	f.c.add("reviewer")
	if f.err != nil {
		return agents.ReviewResult{}, f.err
	}
	return agents.ReviewResult{Status: "approved", ClinicalAccuracyScore: 95, Passed: true}, nil
}

type fakeSEO struct{ c *calls }

func (f fakeSEO) Run(context.Context, string) (agents.SEOResult, error) {
	f.c.add("seo")
	return agents.SEOResult{SEOScore: 70, Fallback: true}, nil
}

type fakeImage struct{ c *calls }

func (f fakeImage) Run(context.Context, agents.ImageInput) agents.ImageResult {
	f.c.add("image")
	return agents.ImageResult{Source: "none", Fallback: true}
}

type fakeApprover struct{ c *calls }

func (f fakeApprover) Run(context.Context, string) (agents.ApprovalResult, error) {
	f.c.add("approver")
	return agents.ApprovalResult{Status: domain.WorkflowAIReview}, nil
}

type fakeSlack struct {
	notified    []domain.NotificationRequest
	draftURLs   []string
	errored     []domain.NotificationRequest
	notifyError error
}

func (f *fakeSlack) Notify(_ context.Context, draftURL string, req domain.NotificationRequest) error {
	f.draftURLs = append(f.draftURLs, draftURL)
	f.notified = append(f.notified, req)
	return f.notifyError
}

func (f *fakeSlack) NotifyError(_ context.Context, _ error, req domain.NotificationRequest) error {
	f.errored = append(f.errored, req)
	return nil
}

type fixture struct {
	pipeline *ContentPipeline
	store    *recordingStore
	calls    *calls
	slack    *fakeSlack
	metrics  *metrics.Pipeline
	writerIn *agents.WriterInput
}

func newFixture(t *testing.T, reviewErr error) *fixture {
	t.Helper()
	c := &calls{}
	f := &fixture{
		store:    &recordingStore{},
		calls:    c,
		slack:    &fakeSlack{},
		metrics:  metrics.NewPipeline(),
		writerIn: &agents.WriterInput{},
	}
	p, err := NewContentPipeline(
		&config.Config{ServiceURL: "https://content.example.com"},
		f.store,
		Stages{
			Research: fakeResearch{c},
			Writer:   fakeWriter{c: c, seen: f.writerIn},
			Reviewer: fakeReviewer{c: c, err: reviewErr},
			SEO:      fakeSEO{c},
			Image:    fakeImage{c},
			Approver: fakeApprover{c},
		},
		f.slack,
		f.metrics,
	)
	require.NoError(t, err)
	f.pipeline = p
	return f
}

var payload = domain.GenerateTaskPayload{RequestID: "req-1", Topic: "Sleep hygiene", Keywords: []string{"sleep"}}

// --- Tests ---

func TestExecute_Success(t *testing.T) {
	f := newFixture(t, nil)

	require.NoError(t, f.pipeline.Execute(context.Background(), payload))

	assert.Equal(t, []string{"research", "writer", "reviewer", "seo", "image", "approver"}, f.calls.names)
	assert.Equal(t, []domain.RequestStatus{
		domain.StatusResearch,
		domain.StatusWriting,
		domain.StatusReviewing,
		domain.StatusSEO,
		domain.StatusImaging,
		domain.StatusApproving,
	}, f.store.statuses)
	assert.Equal(t, domain.StatusComplete, f.store.final)
	assert.Empty(t, f.store.errMsg)
	assert.Equal(t, "draft-1", f.store.draftID)

	require.NotNil(t, f.writerIn.Idea)
	assert.Equal(t, "Idea one", f.writerIn.Idea.Title)

	require.Len(t, f.slack.notified, 1)
	assert.Equal(t, "https://content.example.com/v1/drafts/draft-1", f.slack.draftURLs[0])
	assert.Equal(t, "Better Sleep", f.slack.notified[0].TargetTitle)
	assert.Equal(t, string(domain.WorkflowAIReview), f.slack.notified[0].WorkflowStatus)
	assert.Empty(t, f.slack.errored)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.RunsTotal.WithLabelValues("complete")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.FallbacksTotal.WithLabelValues("seo")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.FallbacksTotal.WithLabelValues("image")))
	assert.Equal(t, 0.0, testutil.ToFloat64(f.metrics.InFlight))
}

func TestExecute_StageFailureStopsPipeline(t *testing.T) {
	f := newFixture(t, errors.New("draft draft-1: record not found"))

	err := f.pipeline.Execute(context.Background(), payload)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reviewing stage failed")

	assert.Equal(t, []string{"research", "writer", "reviewer"}, f.calls.names)
	assert.Equal(t, domain.StatusFailed, f.store.final)
	assert.Contains(t, f.store.errMsg, "record not found")

	assert.Empty(t, f.slack.notified)
	require.Len(t, f.slack.errored, 1)
	assert.Equal(t, string(domain.StatusReviewing), f.slack.errored[0].FailedStage)
	assert.Equal(t, "Better Sleep", f.slack.errored[0].TargetTitle)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.RunsTotal.WithLabelValues("failed")))
}

func TestExecute_CancelledRunIsStillMarkedFailed(t *testing.T) {
	f := newFixture(t, context.Canceled)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, f.pipeline.Execute(ctx, payload), context.Canceled)
	assert.Equal(t, domain.StatusFailed, f.store.final)
	require.Len(t, f.slack.errored, 1)
}

func TestExecute_NotificationFailureKeepsCompletion(t *testing.T) {
	f := newFixture(t, nil)
	f.slack.notifyError = errors.New("webhook down")

	require.NoError(t, f.pipeline.Execute(context.Background(), payload))
	assert.Equal(t, domain.StatusComplete, f.store.final)
	assert.Empty(t, f.slack.errored)
}

func TestNewContentPipeline_RequiresStages(t *testing.T) {
	_, err := NewContentPipeline(nil, &recordingStore{}, Stages{}, nil, nil)
	assert.Error(t, err)

	_, err = NewContentPipeline(nil, nil, Stages{}, nil, nil)
	assert.Error(t, err)
}
