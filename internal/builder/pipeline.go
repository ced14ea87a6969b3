package builder

import (
	"fmt"

	"health-content-web/internal/adapters"
	"health-content-web/internal/ai"
	"health-content-web/internal/config"
	"health-content-web/internal/metrics"
	"health-content-web/internal/pipeline"
	"health-content-web/internal/store"
)

// buildPipeline creates the stage agents and the orchestrator that runs them.
func buildPipeline(
	cfg *config.Config,
	s store.Store,
	client ai.Client,
	slack adapters.SlackNotifier,
	m *metrics.Pipeline,
) (*pipeline.ContentPipeline, error) {
	p, err := pipeline.NewContentPipeline(cfg, s, buildStages(s, client), slack, m)
	if err != nil {
		return nil, fmt.Errorf("failed to create content pipeline: %w", err)
	}
	return p, nil
}
