package builder

import (
	"context"
	"fmt"
	"log/slog"

	"health-content-web/internal/adapters"
	"health-content-web/internal/app"
	"health-content-web/internal/config"
	"health-content-web/internal/metrics"
	"health-content-web/internal/store"
)

// BuildContainer connects to external services and assembles the application's dependencies.
// Resources opened before a failure are released.
func BuildContainer(ctx context.Context, cfg *config.Config) (_ *app.Container, err error) {
	c := &app.Container{Config: cfg}
	defer func() {
		if err != nil {
			c.Close()
		}
	}()

	// 1. Store
	s, err := store.Open(ctx, store.OptionsFromConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	c.Store = s

	// 2. Hero image storage (optional)
	c.ImageStore, err = buildImageStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// 3. AI provider
	c.AI, err = buildAIClient(ctx, cfg, c.ImageStore)
	if err != nil {
		return nil, err
	}

	// 4. Adapters and metrics
	c.SlackNotifier = adapters.NewSlackAdapter(cfg.SlackWebhookURL)
	c.Metrics = metrics.NewPipeline()

	// 5. Pipeline and task execution
	c.Pipeline, err = buildPipeline(cfg, s, c.AI, c.SlackNotifier, c.Metrics)
	if err != nil {
		return nil, err
	}
	c.TaskAdapter = buildTaskAdapter(c.Pipeline, s)

	slog.Info("Application container ready",
		"ai_provider", c.AI.Provider(),
		"database_driver", cfg.DatabaseDriver,
		"hero_image_bucket", cfg.HeroImageBucket,
	)
	return c, nil
}
