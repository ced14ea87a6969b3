package ai

import (
	"context"
	"fmt"

	"health-content-web/internal/config"
)

// Unconfigured is the client used when AI_PROVIDER is "none". Every call reports
// missing credentials so the stage agents take their fallback paths.
type Unconfigured struct{}

func (Unconfigured) Provider() string { return config.ProviderNone }

func (Unconfigured) Close() error { return nil }

func (Unconfigured) Complete(context.Context, Prompt) (string, error) {
	return "", newServiceError("complete", config.ProviderNone, ErrMissingCredentials, nil)
}

func (Unconfigured) GenerateImage(context.Context, ImageRequest) (Image, error) {
	return Image{}, newServiceError("generate image", config.ProviderNone, ErrMissingCredentials, nil)
}

// NewFromConfig builds the client selected by AI_PROVIDER.
func NewFromConfig(ctx context.Context, cfg *config.Config, images ImageStore) (Client, error) {
	var (
		client Client
		err    error
	)
	switch cfg.AIProvider {
	case config.ProviderOpenAI:
		client, err = NewOpenAIClient(OpenAIConfig{
			APIKey:        cfg.OpenAIAPIKey,
			BaseURL:       cfg.OpenAIBaseURL,
			Model:         cfg.OpenAIModel,
			LongFormModel: cfg.OpenAIWriterModel,
			ImageModel:    cfg.OpenAIImageModel,
			Timeout:       cfg.AIRequestTimeout,
		})
	case config.ProviderGemini:
		client, err = NewGeminiClient(ctx, GeminiConfig{
			APIKey:     cfg.GeminiAPIKey,
			Model:      cfg.GeminiModel,
			ImageModel: cfg.GeminiImageModel,
			Timeout:    cfg.AIRequestTimeout,
		}, images)
	case config.ProviderNone, "":
		return Unconfigured{}, nil
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", cfg.AIProvider)
	}
	if err != nil {
		return nil, err
	}
	return client, nil
}
