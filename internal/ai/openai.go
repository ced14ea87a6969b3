package ai

import (
	"context"
	"errors"
	"time"

	"health-content-web/internal/config"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIConfig holds the settings of the OpenAI provider.
type OpenAIConfig struct {
	APIKey        string
	BaseURL       string
	Model         string
	LongFormModel string
	ImageModel    string
	Timeout       time.Duration
}

// OpenAIClient implements Client with chat completions and DALL·E.
type OpenAIClient struct {
	client        openai.Client
	model         string
	longFormModel string
	imageModel    string
	timeout       time.Duration
}

func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, newServiceError("init", config.ProviderOpenAI, ErrMissingCredentials, errors.New("OPENAI_API_KEY is empty"))
	}

	// Stage agents fall back on failure, so the SDK must not retry on its own.
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	c := &OpenAIClient{
		client:        openai.NewClient(opts...),
		model:         orDefault(cfg.Model, config.DefaultOpenAIModel),
		longFormModel: orDefault(cfg.LongFormModel, config.DefaultOpenAIWriterModel),
		imageModel:    orDefault(cfg.ImageModel, config.DefaultOpenAIImageModel),
		timeout:       cfg.Timeout,
	}
	return c, nil
}

func (c *OpenAIClient) Provider() string { return config.ProviderOpenAI }

func (c *OpenAIClient) Close() error { return nil }

func (c *OpenAIClient) Complete(ctx context.Context, p Prompt) (string, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	model := c.model
	if p.LongForm {
		model = c.longFormModel
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(p.System),
			openai.UserMessage(p.User),
		},
	}
	if p.Temperature > 0 {
		params.Temperature = openai.Float(p.Temperature)
	}
	if p.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(p.MaxTokens))
	}
	if p.JSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", unavailable("complete", c.Provider(), err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", newServiceError("complete", c.Provider(), ErrMalformedResponse, errors.New("empty choices"))
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) GenerateImage(ctx context.Context, req ImageRequest) (Image, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         req.Prompt,
		Model:          openai.ImageModel(c.imageModel),
		N:              openai.Int(1),
		Size:           openai.ImageGenerateParamsSize1792x1024,
		Quality:        openai.ImageGenerateParamsQualityStandard,
		ResponseFormat: openai.ImageGenerateParamsResponseFormatURL,
	})
	if err != nil {
		return Image{}, unavailable("generate image", c.Provider(), err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return Image{}, newServiceError("generate image", c.Provider(), ErrMalformedResponse, errors.New("no image url returned"))
	}
	return Image{
		URL:           resp.Data[0].URL,
		RevisedPrompt: resp.Data[0].RevisedPrompt,
		Source:        "dall-e",
	}, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
