package handlers

import (
	"context"
	"errors"

	"health-content-web/internal/adapters"
	"health-content-web/internal/config"
	"health-content-web/internal/domain"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// pipelineAgents is reported by the health endpoint in execution order.
var pipelineAgents = []string{"research", "writer", "reviewer", "seo", "image", "approver"}

// ContentStore is the part of the store the API reads and writes.
type ContentStore interface {
	CreateRequest(ctx context.Context, req *domain.GenerationRequest) error
	GetRequest(ctx context.Context, id string) (*domain.GenerationRequest, error)
	FinishRequest(ctx context.Context, id string, status domain.RequestStatus, errMsg string) error
	GetDraft(ctx context.Context, id string) (*domain.Draft, error)
	ListDrafts(ctx context.Context, limit int) ([]domain.Draft, error)
	ListSections(ctx context.Context, draftID string) ([]domain.DraftSection, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

type Handler struct {
	cfg      *config.Config
	store    ContentStore
	tasks    adapters.TaskAdapter
	markdown goldmark.Markdown
}

// NewHandler wires the JSON API handlers. Generation requests are handed to tasks.
func NewHandler(cfg *config.Config, store ContentStore, tasks adapters.TaskAdapter) (*Handler, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if store == nil {
		return nil, errors.New("content store is required")
	}
	if tasks == nil {
		return nil, errors.New("task adapter is required")
	}

	return &Handler{
		cfg:      cfg,
		store:    store,
		tasks:    tasks,
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}, nil
}
