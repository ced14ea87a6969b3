package agents

import (
	"context"
	"log/slog"

	"health-content-web/internal/ai"
	"health-content-web/internal/store"
)

const imageSourceNone = "none"

type ImageInput struct {
	DraftID string
	Title   string
	Topic   string
}

type ImageResult struct {
	URL      string `json:"url"`
	AltText  string `json:"alt_text"`
	Source   string `json:"source"`
	Note     string `json:"note,omitempty"`
	Fallback bool   `json:"fallback"`
}

// ImageAgent generates the hero image of a draft.
type ImageAgent struct {
	store  store.Store
	images ai.ImageGenerator
}

func NewImageAgent(s store.Store, images ai.ImageGenerator) *ImageAgent {
	return &ImageAgent{store: s, images: images}
}

// Run never fails. Without an image the draft keeps its current hero_image_url.
func (a *ImageAgent) Run(ctx context.Context, in ImageInput) ImageResult {
	img, err := a.images.GenerateImage(ctx, ai.ImageRequest{
		Prompt: imagePrompt(in.Title, in.Topic),
		Name:   in.DraftID,
	})
	if err != nil || img.URL == "" {
		slog.WarnContext(ctx, "Image stage returned placeholder", "agent", "image", "draft_id", in.DraftID, "error", err)
		return ImageResult{
			AltText:  "Healthcare image for: " + in.Title,
			Source:   imageSourceNone,
			Note:     "Configure an image provider API key for image generation",
			Fallback: true,
		}
	}

	result := ImageResult{
		URL:     img.URL,
		AltText: "Healthcare illustration for: " + in.Title,
		Source:  img.Source,
	}

	if in.DraftID != "" {
		url := img.URL
		if err := a.store.UpdateDraft(ctx, in.DraftID, store.DraftUpdate{HeroImageURL: &url}); err != nil {
			slog.ErrorContext(ctx, "Failed to save hero image url", "draft_id", in.DraftID, "error", err)
		}
	}
	return result
}
