package server

import (
	"net/http"

	"health-content-web/internal/builder"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the http.Handler with middleware and every route mounted.
func NewRouter(h *builder.AppHandlers) http.Handler {
	r := chi.NewRouter()

	setupCommonMiddleware(r)
	setupRoutes(r, h)

	return r
}

func setupCommonMiddleware(r *chi.Mux) {
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.CleanPath)
}

func setupRoutes(r chi.Router, h *builder.AppHandlers) {
	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", h.API.Health)

		// --- Routes that require an ID token when authentication is enabled ---
		r.Group(func(r chi.Router) {
			if h.Auth != nil {
				r.Use(h.Auth.Middleware)
			}

			r.Post("/generate", h.API.HandleGenerate)
			r.Get("/generate/{requestID}", h.API.GenerationStatus)

			r.Get("/drafts", h.API.ListDrafts)
			r.Get("/drafts/{draftID}", h.API.GetDraft)

			r.Get("/categories", h.API.Categories)
		})
	})

	r.Method(http.MethodGet, "/metrics", h.Metrics)
}
