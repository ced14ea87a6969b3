package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const (
	DefaultOpenAIModel       = "gpt-4o-mini"
	DefaultOpenAIWriterModel = "gpt-4o"
	DefaultOpenAIImageModel  = "dall-e-3"
	DefaultGeminiModel       = "gemini-2.5-flash"
	DefaultGeminiImageModel  = "imagen-4.0-generate-001"
	// DefaultAIRequestTimeout bounds a single completion or image request. Long-form drafts take a while.
	DefaultAIRequestTimeout = 120 * time.Second
	DefaultShutdownTimeout  = 15 * time.Second
	DefaultDraftListLimit   = 10
	// MaxDraftListLimit caps GET /v1/drafts.
	MaxDraftListLimit       = 10
	ServiceVersion          = "1.0.0"

	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderNone   = "none"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds every setting of the service, read from the environment at startup.
type Config struct {
	ServiceURL      string
	Port            string
	ShutdownTimeout time.Duration

	// Store
	DatabaseDriver      string
	DatabaseURL         string
	DatabaseAutoMigrate bool
	DraftListLimit      int

	// AI providers
	AIProvider        string
	AIRequestTimeout  time.Duration
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	OpenAIModel       string
	OpenAIWriterModel string
	OpenAIImageModel  string
	GeminiAPIKey      string
	GeminiModel       string
	GeminiImageModel  string
	// HeroImageBucket is the GCS bucket that receives generated hero images when the provider returns raw bytes.
	HeroImageBucket string

	SlackWebhookURL string

	// API authentication. An empty APIAudience leaves the API open.
	APIAudience    string
	AllowedEmails  []string
	AllowedDomains []string
}

// defaults are loaded first and overridden by the environment.
var defaults = map[string]any{
	"service_url":           "http://localhost:8080",
	"port":                  "8080",
	"shutdown_timeout":      DefaultShutdownTimeout.String(),
	"database_driver":       DriverPostgres,
	"database_auto_migrate": "false",
	"draft_list_limit":      "10",
	"ai_provider":           ProviderOpenAI,
	"ai_request_timeout":    DefaultAIRequestTimeout.String(),
	"openai_model":          DefaultOpenAIModel,
	"openai_writer_model":   DefaultOpenAIWriterModel,
	"openai_image_model":    DefaultOpenAIImageModel,
	"gemini_model":          DefaultGeminiModel,
	"gemini_image_model":    DefaultGeminiImageModel,
}

// LoadConfig builds the Config from built-in defaults overlaid with environment variables.
// Environment names map to lower-case keys (OPENAI_API_KEY -> openai_api_key).
func LoadConfig() *Config {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		slog.Warn("Failed to load default configuration", "error", err)
	}
	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		slog.Warn("Failed to load environment configuration", "error", err)
	}
	return fromKoanf(k)
}

func fromKoanf(k *koanf.Koanf) *Config {
	return &Config{
		ServiceURL:      getString(k, "service_url"),
		Port:            getString(k, "port"),
		ShutdownTimeout: getDuration(k, "shutdown_timeout", DefaultShutdownTimeout),

		DatabaseDriver:      strings.ToLower(getString(k, "database_driver")),
		DatabaseURL:         getString(k, "database_url"),
		DatabaseAutoMigrate: k.Bool("database_auto_migrate"),
		DraftListLimit:      getInt(k, "draft_list_limit", DefaultDraftListLimit),

		AIProvider:        strings.ToLower(getString(k, "ai_provider")),
		AIRequestTimeout:  getDuration(k, "ai_request_timeout", DefaultAIRequestTimeout),
		OpenAIAPIKey:      getString(k, "openai_api_key"),
		OpenAIBaseURL:     getString(k, "openai_base_url"),
		OpenAIModel:       getString(k, "openai_model"),
		OpenAIWriterModel: getString(k, "openai_writer_model"),
		OpenAIImageModel:  getString(k, "openai_image_model"),
		GeminiAPIKey:      getString(k, "gemini_api_key"),
		GeminiModel:       getString(k, "gemini_model"),
		GeminiImageModel:  getString(k, "gemini_image_model"),
		HeroImageBucket:   getString(k, "hero_image_bucket"),

		SlackWebhookURL: getString(k, "slack_webhook_url"),

		APIAudience:    getString(k, "api_audience"),
		AllowedEmails:  getList(k, "allowed_emails"),
		AllowedDomains: getList(k, "allowed_domains"),
	}
}
