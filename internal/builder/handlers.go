package builder

import (
	"fmt"
	"net/http"

	"health-content-web/internal/app"
	"health-content-web/internal/controllers/auth"
	"health-content-web/internal/server/handlers"
)

// AppHandlers holds every HTTP handler the router mounts.
type AppHandlers struct {
	// Auth is nil when API_AUDIENCE is not set and the API is open.
	Auth    *auth.Handler
	API     *handlers.Handler
	Metrics http.Handler
}

// BuildHandlers assembles the HTTP handlers from the container.
func BuildHandlers(c *app.Container) (*AppHandlers, error) {
	api, err := handlers.NewHandler(c.Config, c.Store, c.TaskAdapter)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize API handler: %w", err)
	}

	return &AppHandlers{
		Auth:    createAuthHandler(c),
		API:     api,
		Metrics: c.Metrics.Handler(),
	}, nil
}

func createAuthHandler(c *app.Container) *auth.Handler {
	cfg := c.Config
	if cfg.APIAudience == "" {
		return nil
	}
	return auth.NewHandler(auth.Config{
		Audience:       cfg.APIAudience,
		AllowedEmails:  cfg.AllowedEmails,
		AllowedDomains: cfg.AllowedDomains,
	}, nil)
}
