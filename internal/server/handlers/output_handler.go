package handlers

import (
	"bytes"
	"log/slog"
	"net/http"

	"health-content-web/internal/config"
	"health-content-web/internal/domain"

	"github.com/go-chi/chi/v5"
)

type draftResponse struct {
	Draft       *domain.Draft         `json:"draft"`
	Sections    []domain.DraftSection `json:"sections"`
	ContentHTML string                `json:"content_html"`
}

// ListDrafts returns the newest drafts.
func (h *Handler) ListDrafts(w http.ResponseWriter, r *http.Request) {
	drafts, err := h.store.ListDrafts(r.Context(), draftListLimit(h.cfg))
	if err != nil {
		h.handleStoreError(w, r, "drafts", "", err)
		return
	}
	if drafts == nil {
		drafts = []domain.Draft{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"drafts": drafts,
		"count":  len(drafts),
	})
}

// draftListLimit returns the configured page size, clamped to 1..MaxDraftListLimit.
func draftListLimit(cfg *config.Config) int {
	if cfg.DraftListLimit <= 0 {
		return config.DefaultDraftListLimit
	}
	return min(cfg.DraftListLimit, config.MaxDraftListLimit)
}

// GetDraft returns a draft with its sections and the article rendered to HTML.
func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "draftID")
	if !validID(id) {
		writeError(w, http.StatusNotFound, codeNotFound, "draft not found")
		return
	}

	draft, err := h.store.GetDraft(ctx, id)
	if err != nil {
		h.handleStoreError(w, r, "draft", id, err)
		return
	}
	sections, err := h.store.ListSections(ctx, id)
	if err != nil {
		h.handleStoreError(w, r, "draft sections", id, err)
		return
	}
	if sections == nil {
		sections = []domain.DraftSection{}
	}

	writeJSON(w, http.StatusOK, draftResponse{
		Draft:       draft,
		Sections:    sections,
		ContentHTML: h.renderContent(r, draft),
	})
}

// renderContent converts the stored markdown to HTML. Raw HTML in the source is not passed through.
func (h *Handler) renderContent(r *http.Request, draft *domain.Draft) string {
	var buf bytes.Buffer
	if err := h.markdown.Convert([]byte(draft.Content), &buf); err != nil {
		slog.WarnContext(r.Context(), "Failed to render draft content", "draft_id", draft.ID, "error", err)
		return ""
	}
	return buf.String()
}
