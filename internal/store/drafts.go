package store

import (
	"context"
	"fmt"
	"time"

	"health-content-web/internal/domain"

	"gorm.io/gorm"
)

// CreateDraft inserts a draft together with its sections. Sections get the new draft id.
func (s *GormStore) CreateDraft(ctx context.Context, draft *domain.Draft, sections []domain.DraftSection) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(draft).Error; err != nil {
			return fmt.Errorf("failed to create draft: %w", err)
		}
		if len(sections) == 0 {
			return nil
		}
		for i := range sections {
			sections[i].DraftID = draft.ID
		}
		if err := tx.Create(&sections).Error; err != nil {
			return fmt.Errorf("failed to create draft sections: %w", err)
		}
		return nil
	})
}

func (s *GormStore) GetDraft(ctx context.Context, id string) (*domain.Draft, error) {
	var draft domain.Draft
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&draft).Error; err != nil {
		return nil, notFound(err, "draft", id)
	}
	return &draft, nil
}

// ListDrafts returns at most limit drafts, newest first.
func (s *GormStore) ListDrafts(ctx context.Context, limit int) ([]domain.Draft, error) {
	var drafts []domain.Draft
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&drafts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	return drafts, nil
}

// ListDraftTitles returns the titles of the newest limit drafts.
func (s *GormStore) ListDraftTitles(ctx context.Context, limit int) ([]string, error) {
	var titles []string
	err := s.db.WithContext(ctx).
		Model(&domain.Draft{}).
		Order("created_at DESC").
		Limit(limit).
		Pluck("title", &titles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list draft titles: %w", err)
	}
	return titles, nil
}

// ListSections returns the sections of a draft in rendering order.
func (s *GormStore) ListSections(ctx context.Context, draftID string) ([]domain.DraftSection, error) {
	var sections []domain.DraftSection
	err := s.db.WithContext(ctx).
		Where("draft_id = ?", draftID).
		Order("order_index").
		Find(&sections).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sections of draft %s: %w", draftID, err)
	}
	return sections, nil
}

func (s *GormStore) UpdateDraft(ctx context.Context, id string, update DraftUpdate) error {
	cols := update.columns()
	if len(cols) == 0 {
		return nil
	}
	if ws, ok := cols["workflow_status"].(domain.WorkflowStatus); ok && !ws.Valid() {
		return fmt.Errorf("invalid workflow status %q", ws)
	}
	cols["updated_at"] = time.Now().UTC()

	res := s.db.WithContext(ctx).Model(&domain.Draft{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return fmt.Errorf("failed to update draft %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("draft %s: %w", id, ErrNotFound)
	}
	return nil
}

// UpsertGate writes a gate result, replacing an earlier result with the same request id and gate name.
// The lookup runs in a transaction so the table needs no unique constraint on the pair.
func (s *GormStore) UpsertGate(ctx context.Context, gate *domain.QualityGate) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.QualityGate
		err := tx.Where("request_id = ? AND gate_name = ?", gate.RequestID, gate.GateName).
			Order("created_at DESC").
			Limit(1).
			Find(&existing).Error
		if err != nil {
			return err
		}
		if existing.ID == "" {
			return tx.Create(gate).Error
		}

		gate.ID = existing.ID
		gate.CreatedAt = existing.CreatedAt
		return tx.Model(&existing).Updates(map[string]any{
			"passed":     gate.Passed,
			"value":      gate.Value,
			"threshold":  gate.Threshold,
			"updated_at": time.Now().UTC(),
		}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to record quality gate %s: %w", gate.GateName, err)
	}
	return nil
}

func (s *GormStore) ListGates(ctx context.Context, requestID string) ([]domain.QualityGate, error) {
	var gates []domain.QualityGate
	err := s.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("gate_name").
		Find(&gates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list quality gates of %s: %w", requestID, err)
	}
	return gates, nil
}
