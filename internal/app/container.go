package app

import (
	"context"
	"log/slog"

	"health-content-web/internal/adapters"
	"health-content-web/internal/ai"
	"health-content-web/internal/config"
	"health-content-web/internal/metrics"
	"health-content-web/internal/pipeline"
	"health-content-web/internal/store"
)

// Container holds the application's dependencies, built once at startup.
type Container struct {
	Config *config.Config

	// Persistence and storage
	Store      store.Store
	ImageStore *adapters.GCSImageStore

	// AI provider shared by the stage agents
	AI ai.Client

	// Business logic
	Pipeline *pipeline.ContentPipeline
	Metrics  *metrics.Pipeline

	// Asynchronous tasks
	TaskAdapter *adapters.LocalTaskAdapter

	// External adapters
	SlackNotifier adapters.SlackNotifier
}

// Close releases every resource held by the container. Running generation tasks get the
// shutdown timeout to finish. Tasks still running after it are cancelled and their requests
// marked failed before the store closes.
func (c *Container) Close() {
	if c.TaskAdapter != nil {
		timeout := config.DefaultShutdownTimeout
		if c.Config != nil && c.Config.ShutdownTimeout > 0 {
			timeout = c.Config.ShutdownTimeout
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		if err := c.TaskAdapter.Drain(ctx); err != nil {
			slog.Warn("generation tasks still running at shutdown", "error", err)
		}
		cancel()
	}
	if c.AI != nil {
		if err := c.AI.Close(); err != nil {
			slog.Error("failed to close AI client", "error", err)
		}
	}
	if c.ImageStore != nil {
		if err := c.ImageStore.Close(); err != nil {
			slog.Error("failed to close image store", "error", err)
		}
	}
	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			slog.Error("failed to close store", "error", err)
		}
	}
}
