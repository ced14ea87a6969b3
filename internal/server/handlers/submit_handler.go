package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"health-content-web/internal/domain"
)

type generateRequest struct {
	Topic       string   `json:"topic"`
	CategoryID  string   `json:"category_id"`
	Keywords    []string `json:"keywords"`
	RequestedBy *string  `json:"requested_by"`
}

type generateResponse struct {
	ID        string               `json:"id"`
	Status    domain.RequestStatus `json:"status"`
	Topic     string               `json:"topic"`
	CreatedAt time.Time            `json:"created_at"`
}

// HandleGenerate records a generation request and schedules the pipeline for it.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in generateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	if err := dec.Decode(&in); err != nil {
		slog.WarnContext(ctx, "Failed to decode generation request", "error", err)
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "request body must be a JSON object")
		return
	}

	in.Topic = strings.TrimSpace(in.Topic)
	in.CategoryID = strings.TrimSpace(in.CategoryID)
	if in.Topic == "" || in.CategoryID == "" {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "topic and category_id are required")
		return
	}
	keywords := make([]string, 0, len(in.Keywords))
	for _, kw := range in.Keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}

	req := &domain.GenerationRequest{
		Topic:       in.Topic,
		CategoryID:  in.CategoryID,
		Keywords:    keywords,
		Status:      domain.StatusPending,
		RequestedBy: in.RequestedBy,
	}
	if err := h.store.CreateRequest(ctx, req); err != nil {
		h.handleStoreError(w, r, "generation request", "", err)
		return
	}

	payload := domain.GenerateTaskPayload{
		RequestID:  req.ID,
		Topic:      req.Topic,
		CategoryID: req.CategoryID,
		Keywords:   keywords,
	}
	if err := h.tasks.EnqueueGenerateTask(ctx, payload); err != nil {
		slog.ErrorContext(ctx, "Failed to enqueue generation task", "request_id", req.ID, "error", err)
		if finishErr := h.store.FinishRequest(ctx, req.ID, domain.StatusFailed, err.Error()); finishErr != nil {
			slog.ErrorContext(ctx, "Failed to mark request failed", "request_id", req.ID, "error", finishErr)
		}
		writeError(w, http.StatusServiceUnavailable, codeServiceUnavailable, "generation could not be scheduled")
		return
	}

	slog.InfoContext(ctx, "Generation request accepted", "request_id", req.ID, "topic", req.Topic)
	writeJSON(w, http.StatusAccepted, generateResponse{
		ID:        req.ID,
		Status:    req.Status,
		Topic:     req.Topic,
		CreatedAt: req.CreatedAt,
	})
}
