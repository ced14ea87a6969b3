package handlers

import (
	"net/http"
	"time"

	"health-content-web/internal/config"
	"health-content-web/internal/domain"

	"github.com/go-chi/chi/v5"
)

type statusResponse struct {
	ID           string               `json:"id"`
	Status       domain.RequestStatus `json:"status"`
	Topic        string               `json:"topic"`
	CurrentAgent string               `json:"current_agent"`
	DraftID      *string              `json:"draft_id"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
	CompletedAt  *time.Time           `json:"completed_at"`
	Error        string               `json:"error,omitempty"`
}

// GenerationStatus reports where a request is in the pipeline.
func (h *Handler) GenerationStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "requestID")
	if !validID(id) {
		writeError(w, http.StatusNotFound, codeNotFound, "generation request not found")
		return
	}

	req, err := h.store.GetRequest(r.Context(), id)
	if err != nil {
		h.handleStoreError(w, r, "generation request", id, err)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{
		ID:           req.ID,
		Status:       req.Status,
		Topic:        req.Topic,
		CurrentAgent: string(req.Status),
		DraftID:      req.DraftID,
		CreatedAt:    req.CreatedAt,
		UpdatedAt:    req.UpdatedAt,
		CompletedAt:  req.CompletedAt,
		Error:        req.ErrorMessage,
	})
}

// Health is the liveness probe.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"version": config.ServiceVersion,
		"agents":  pipelineAgents,
	})
}

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.ListCategories(r.Context())
	if err != nil {
		h.handleStoreError(w, r, "categories", "", err)
		return
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": categories,
		"count":      len(categories),
	})
}
