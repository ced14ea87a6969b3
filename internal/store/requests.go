package store

import (
	"context"
	"fmt"
	"time"

	"health-content-web/internal/domain"
)

func (s *GormStore) CreateRequest(ctx context.Context, req *domain.GenerationRequest) error {
	if req.Status == "" {
		req.Status = domain.StatusPending
	}
	if err := s.db.WithContext(ctx).Create(req).Error; err != nil {
		return fmt.Errorf("failed to create generation request: %w", err)
	}
	return nil
}

func (s *GormStore) GetRequest(ctx context.Context, id string) (*domain.GenerationRequest, error) {
	var req domain.GenerationRequest
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&req).Error; err != nil {
		return nil, notFound(err, "generation request", id)
	}
	return &req, nil
}

// UpdateRequestStatus records the stage a request has moved to.
func (s *GormStore) UpdateRequestStatus(ctx context.Context, id string, status domain.RequestStatus) error {
	return s.updateRequest(ctx, id, map[string]any{
		"status":     status,
		"updated_at": time.Now().UTC(),
	})
}

// AttachDraft links the draft written for a request.
func (s *GormStore) AttachDraft(ctx context.Context, requestID, draftID string) error {
	return s.updateRequest(ctx, requestID, map[string]any{
		"draft_id":   draftID,
		"updated_at": time.Now().UTC(),
	})
}

// FinishRequest moves a request to a terminal status and stamps completed_at.
func (s *GormStore) FinishRequest(ctx context.Context, id string, status domain.RequestStatus, errMsg string) error {
	if !status.IsTerminal() {
		return fmt.Errorf("status %q is not terminal", status)
	}
	now := time.Now().UTC()
	return s.updateRequest(ctx, id, map[string]any{
		"status":        status,
		"error_message": errMsg,
		"completed_at":  now,
		"updated_at":    now,
	})
}

func (s *GormStore) updateRequest(ctx context.Context, id string, cols map[string]any) error {
	res := s.db.WithContext(ctx).Model(&domain.GenerationRequest{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return fmt.Errorf("failed to update generation request %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("generation request %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *GormStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := s.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}
