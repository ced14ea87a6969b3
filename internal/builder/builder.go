package builder

import (
	"context"
	"fmt"

	"health-content-web/internal/adapters"
	"health-content-web/internal/agents"
	"health-content-web/internal/ai"
	"health-content-web/internal/config"
	"health-content-web/internal/pipeline"
	"health-content-web/internal/store"
)

// buildAIClient initializes the provider selected by AI_PROVIDER.
func buildAIClient(ctx context.Context, cfg *config.Config, images *adapters.GCSImageStore) (ai.Client, error) {
	// A nil *GCSImageStore must reach the client as a nil interface.
	var imageStore ai.ImageStore
	if images != nil {
		imageStore = images
	}
	client, err := ai.NewFromConfig(ctx, cfg, imageStore)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize AI client: %w", err)
	}
	return client, nil
}

// buildStages creates the six stage agents around a shared store and AI client.
func buildStages(s store.Store, client ai.Client) pipeline.Stages {
	return pipeline.Stages{
		Research: agents.NewResearchAgent(s, client),
		Writer:   agents.NewWriterAgent(s, client),
		Reviewer: agents.NewReviewerAgent(s, client),
		SEO:      agents.NewSEOAgent(s, client),
		Image:    agents.NewImageAgent(s, client),
		Approver: agents.NewApproverAgent(s),
	}
}
