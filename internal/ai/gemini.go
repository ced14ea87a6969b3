package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"health-content-web/internal/config"

	"github.com/google/uuid"
	"google.golang.org/genai"
)

const (
	geminiAspectRatio = "16:9"
	geminiImageMIME   = "image/png"
	heroImagePrefix   = "hero-images"
)

// ImageStore persists generated image bytes and returns a public URL for them.
type ImageStore interface {
	Save(ctx context.Context, object string, data []byte, contentType string) (string, error)
}

// GeminiConfig holds the settings of the Gemini provider.
type GeminiConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	ImageModel string
	Timeout    time.Duration
}

// GeminiClient implements Client with the Gemini API. Images come back as bytes and
// are saved through an ImageStore.
type GeminiClient struct {
	client     *genai.Client
	model      string
	imageModel string
	timeout    time.Duration
	images     ImageStore
}

// NewGeminiClient connects to the Gemini API. images may be nil, in which case image
// generation reports missing credentials.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig, images ImageStore) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, newServiceError("init", config.ProviderGemini, ErrMissingCredentials, errors.New("GEMINI_API_KEY is empty"))
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiClient{
		client:     client,
		model:      orDefault(cfg.Model, config.DefaultGeminiModel),
		imageModel: orDefault(cfg.ImageModel, config.DefaultGeminiImageModel),
		timeout:    cfg.Timeout,
		images:     images,
	}, nil
}

func (c *GeminiClient) Provider() string { return config.ProviderGemini }

func (c *GeminiClient) Close() error { return nil }

func (c *GeminiClient) Complete(ctx context.Context, p Prompt) (string, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	gc := &genai.GenerateContentConfig{}
	if p.System != "" {
		gc.SystemInstruction = genai.NewContentFromText(p.System, genai.RoleUser)
	}
	if p.Temperature > 0 {
		gc.Temperature = genai.Ptr(float32(p.Temperature))
	}
	if p.MaxTokens > 0 {
		gc.MaxOutputTokens = int32(p.MaxTokens)
	}
	if p.JSON {
		gc.ResponseMIMEType = "application/json"
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(p.User), gc)
	if err != nil {
		return "", unavailable("complete", c.Provider(), err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", newServiceError("complete", c.Provider(), ErrMalformedResponse, errors.New("empty response text"))
	}
	return text, nil
}

func (c *GeminiClient) GenerateImage(ctx context.Context, req ImageRequest) (Image, error) {
	if c.images == nil {
		return Image{}, newServiceError("generate image", c.Provider(), ErrMissingCredentials, errors.New("HERO_IMAGE_BUCKET is empty"))
	}

	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Models.GenerateImages(ctx, c.imageModel, req.Prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		AspectRatio:    geminiAspectRatio,
		OutputMIMEType: geminiImageMIME,
	})
	if err != nil {
		return Image{}, unavailable("generate image", c.Provider(), err)
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil || len(resp.GeneratedImages[0].Image.ImageBytes) == 0 {
		return Image{}, newServiceError("generate image", c.Provider(), ErrMalformedResponse, errors.New("no image bytes returned"))
	}
	generated := resp.GeneratedImages[0]

	mime := orDefault(generated.Image.MIMEType, geminiImageMIME)
	object := heroImageObject(req.Name, mime)
	url, err := c.images.Save(ctx, object, generated.Image.ImageBytes, mime)
	if err != nil {
		return Image{}, unavailable("store image", c.Provider(), err)
	}
	return Image{
		URL:           url,
		RevisedPrompt: generated.EnhancedPrompt,
		Source:        "imagen",
	}, nil
}

// heroImageObject names the stored image after name, or a random id when name is empty.
// The extension follows the reported MIME type.
func heroImageObject(name, mimeType string) string {
	if name == "" {
		name = uuid.NewString()
	}
	ext := ".png"
	switch mimeType {
	case "image/jpeg":
		ext = ".jpg"
	case "image/webp":
		ext = ".webp"
	}
	return fmt.Sprintf("%s/%s%s", heroImagePrefix, name, ext)
}
