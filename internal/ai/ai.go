// Package ai wraps the generative model providers behind two small capabilities:
// text completion and image generation.
package ai

import "context"

// Prompt is a single completion request.
type Prompt struct {
	System string
	User   string

	// LongForm selects the provider's model for long articles when it has one.
	LongForm bool

	Temperature float64
	MaxTokens   int

	// JSON asks the provider to answer with a JSON object.
	JSON bool
}

// ImageRequest describes a hero image to generate.
type ImageRequest struct {
	Prompt string
	// Name is the stored object name, without extension, when the provider returns raw bytes.
	Name string
}

// Image is a generated image reachable by URL.
type Image struct {
	URL           string
	RevisedPrompt string
	Source        string
}

// TextGenerator turns a prompt into text.
type TextGenerator interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// ImageGenerator turns a prompt into a hosted image.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req ImageRequest) (Image, error)
}

// Client is a configured provider offering both capabilities.
type Client interface {
	TextGenerator
	ImageGenerator
	Provider() string
	Close() error
}
