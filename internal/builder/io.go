package builder

import (
	"context"
	"fmt"

	"health-content-web/internal/adapters"
	"health-content-web/internal/config"
)

// buildImageStore opens the hero image bucket. Without HERO_IMAGE_BUCKET it returns nil and
// providers that return raw image bytes fall back to the placeholder image.
func buildImageStore(ctx context.Context, cfg *config.Config) (*adapters.GCSImageStore, error) {
	if cfg.HeroImageBucket == "" {
		return nil, nil
	}
	s, err := adapters.NewGCSImageStore(ctx, *cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create hero image store: %w", err)
	}
	return s, nil
}
