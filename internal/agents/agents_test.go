package agents

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"health-content-web/internal/ai"
	"health-content-web/internal/config"
	"health-content-web/internal/domain"
	"health-content-web/internal/store"

	"github.com/stretchr/testify/require"
)

// scriptedLLM answers completions from a fixed list of replies.
type scriptedLLM struct {
	mu      sync.Mutex
	replies []string
	err     error
	prompts []ai.Prompt
}

func (s *scriptedLLM) Complete(_ context.Context, p ai.Prompt) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, p)
	if s.err != nil {
		return "", s.err
	}
	if len(s.replies) == 0 {
		return "", &ai.ServiceError{Op: "complete", Provider: "scripted", Kind: ai.ErrUnavailable}
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	return r, nil
}

type scriptedImages struct {
	img ai.Image
	err error
}

func (s *scriptedImages) GenerateImage(context.Context, ai.ImageRequest) (ai.Image, error) {
	return s.img, s.err
}

var errUnavailable = &ai.ServiceError{Op: "complete", Provider: "scripted", Kind: ai.ErrUnavailable}

// errCancelled is what a provider returns when the run context is cancelled mid-call.
var errCancelled = &ai.ServiceError{Op: "complete", Provider: "scripted", Kind: ai.ErrUnavailable, Err: context.Canceled}

func openStore(t *testing.T) *store.GormStore {
	t.Helper()
	s, err := store.Open(context.Background(), store.Options{
		Driver:      config.DriverSQLite,
		DSN:         filepath.Join(t.TempDir(), "agents.db"),
		AutoMigrate: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedDraft(t *testing.T, s store.Store, d domain.Draft) *domain.Draft {
	t.Helper()
	if d.WorkflowStatus == "" {
		d.WorkflowStatus = domain.WorkflowAIReview
	}
	require.NoError(t, s.CreateDraft(context.Background(), &d, nil))
	return &d
}
