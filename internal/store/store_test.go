package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"health-content-web/internal/config"
	"health-content-web/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *GormStore {
	t.Helper()
	s, err := Open(context.Background(), Options{
		Driver:      config.DriverSQLite,
		DSN:         filepath.Join(t.TempDir(), "content.db"),
		AutoMigrate: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: "oracle", DSN: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestRequestLifecycle(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	req := &domain.GenerationRequest{
		Topic:      "Heart health",
		CategoryID: "cardiology",
		Keywords:   []string{"heart", "exercise"},
	}
	require.NoError(t, s.CreateRequest(ctx, req))
	require.NotEmpty(t, req.ID)

	got, err := s.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Equal(t, []string{"heart", "exercise"}, []string(got.Keywords))
	assert.Nil(t, got.CompletedAt)

	require.NoError(t, s.UpdateRequestStatus(ctx, req.ID, domain.StatusWriting))
	require.NoError(t, s.AttachDraft(ctx, req.ID, "draft-1"))

	got, err = s.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusWriting, got.Status)
	require.NotNil(t, got.DraftID)
	assert.Equal(t, "draft-1", *got.DraftID)

	t.Run("non terminal finish is rejected", func(t *testing.T) {
		err := s.FinishRequest(ctx, req.ID, domain.StatusSEO, "")
		assert.Error(t, err)
	})

	require.NoError(t, s.FinishRequest(ctx, req.ID, domain.StatusFailed, "review stage: model unavailable"))
	got, err = s.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, got.Status)
	assert.Equal(t, "review stage: model unavailable", got.ErrorMessage)
	require.NotNil(t, got.CompletedAt)
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.GetRequest(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetDraft(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.UpdateRequestStatus(ctx, "missing", domain.StatusResearch)
	assert.ErrorIs(t, err, ErrNotFound)

	score := 70
	err = s.UpdateDraft(ctx, "missing", DraftUpdate{SEOScore: &score})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDraftSectionsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	draft := &domain.Draft{
		Title:          "Managing Blood Pressure",
		Slug:           "/blogs/managing-blood-pressure",
		WorkflowStatus: domain.WorkflowAIReview,
	}
	sections := []domain.DraftSection{
		{Heading: "Causes", Content: "a", OrderIndex: 0},
		{Heading: "Treatment", Content: "b", OrderIndex: 1},
		{Heading: "Prevention", Content: "c", OrderIndex: 2},
	}
	require.NoError(t, s.CreateDraft(ctx, draft, sections))
	require.NotEmpty(t, draft.ID)

	got, err := s.ListSections(ctx, draft.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, sec := range got {
		assert.Equal(t, i, sec.OrderIndex)
		assert.Equal(t, sections[i].Heading, sec.Heading)
		assert.Equal(t, draft.ID, sec.DraftID)
	}
}

func TestUpdateDraft(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	draft := &domain.Draft{Title: "Sleep", WorkflowStatus: domain.WorkflowAIReview}
	require.NoError(t, s.CreateDraft(ctx, draft, nil))

	meta := "Sleep well."
	score := 85
	status := domain.WorkflowStaffReview
	require.NoError(t, s.UpdateDraft(ctx, draft.ID, DraftUpdate{
		MetaDescription: &meta,
		SEOScore:        &score,
		WorkflowStatus:  &status,
	}))

	got, err := s.GetDraft(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, meta, got.MetaDescription)
	assert.Equal(t, 85, got.SEOScore)
	assert.Equal(t, domain.WorkflowStaffReview, got.WorkflowStatus)
	assert.Equal(t, "Sleep", got.Title)

	t.Run("invalid workflow status", func(t *testing.T) {
		bad := domain.WorkflowStatus("archived")
		err := s.UpdateDraft(ctx, draft.ID, DraftUpdate{WorkflowStatus: &bad})
		assert.Error(t, err)
	})

	t.Run("empty update is a no-op", func(t *testing.T) {
		assert.NoError(t, s.UpdateDraft(ctx, "missing", DraftUpdate{}))
	})
}

func TestListDraftsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	base := time.Now().UTC().Add(-time.Hour)
	for i, title := range []string{"first", "second", "third"} {
		d := &domain.Draft{Title: title, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, s.CreateDraft(ctx, d, nil))
	}

	drafts, err := s.ListDrafts(ctx, 2)
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.Equal(t, "third", drafts[0].Title)
	assert.Equal(t, "second", drafts[1].Title)

	titles, err := s.ListDraftTitles(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"third", "second", "first"}, titles)

	titles, err = s.ListDraftTitles(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"third", "second"}, titles)
}

func TestUpsertGate(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.UpsertGate(ctx, &domain.QualityGate{
		RequestID: "req-1",
		GateName:  domain.GateSEOScore,
		Passed:    false,
		Value:     map[string]any{"score": 60},
		Threshold: map[string]any{"min": 80},
	}))
	require.NoError(t, s.UpsertGate(ctx, &domain.QualityGate{
		RequestID: "req-1",
		GateName:  domain.GateSEOScore,
		Passed:    true,
		Value:     map[string]any{"score": 90},
		Threshold: map[string]any{"min": 80},
	}))
	require.NoError(t, s.UpsertGate(ctx, &domain.QualityGate{
		RequestID: "req-1",
		GateName:  domain.GateClinicalAccuracy,
		Passed:    true,
		Value:     map[string]any{"score": 95},
		Threshold: map[string]any{"min": 90},
	}))

	gates, err := s.ListGates(ctx, "req-1")
	require.NoError(t, err)
	require.Len(t, gates, 2)
	assert.Equal(t, domain.GateClinicalAccuracy, gates[0].GateName)
	assert.Equal(t, domain.GateSEOScore, gates[1].GateName)
	assert.True(t, gates[1].Passed)
	assert.EqualValues(t, 90, gates[1].Value["score"])

	other, err := s.ListGates(ctx, "req-2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestUpsertGate_WithoutUniqueConstraint(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, Options{
		Driver: config.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "shared.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	// Shared deployments keep quality_gates append-only, with no index on the pair.
	require.NoError(t, s.db.Exec(`CREATE TABLE quality_gates (
		id TEXT PRIMARY KEY,
		request_id TEXT NOT NULL,
		gate_name TEXT NOT NULL,
		passed BOOLEAN NOT NULL,
		value TEXT,
		threshold TEXT,
		created_at DATETIME,
		updated_at DATETIME
	)`).Error)

	for _, passed := range []bool{false, true} {
		require.NoError(t, s.UpsertGate(ctx, &domain.QualityGate{
			RequestID: "req-1",
			GateName:  domain.GateClinicalAccuracy,
			Passed:    passed,
			Value:     map[string]any{"score": 95},
			Threshold: map[string]any{"min": 90},
		}))
	}

	gates, err := s.ListGates(ctx, "req-1")
	require.NoError(t, err)
	require.Len(t, gates, 1)
	assert.True(t, gates[0].Passed)
}

func TestListCategories(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.db.Create(&[]domain.Category{
		{ID: "ortho", Name: "Orthopedics", Slug: "orthopedics"},
		{ID: "cardio", Name: "Cardiology", Slug: "cardiology"},
	}).Error)

	cats, err := s.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Cardiology", cats[0].Name)
	require.NoError(t, s.Ping(ctx))
}
