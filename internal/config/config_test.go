package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/content")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg := LoadConfig()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverPostgres, cfg.DatabaseDriver)
	assert.Equal(t, ProviderOpenAI, cfg.AIProvider)
	assert.Equal(t, DefaultOpenAIWriterModel, cfg.OpenAIWriterModel)
	assert.Equal(t, DefaultAIRequestTimeout, cfg.AIRequestTimeout)
	assert.Equal(t, DefaultDraftListLimit, cfg.DraftListLimit)
	assert.False(t, cfg.DatabaseAutoMigrate)
	assert.Empty(t, cfg.GeminiAPIKey)
	require.NoError(t, ValidateEssentialConfig(cfg))
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("SERVICE_URL", "https://content.example.com")
	t.Setenv("DATABASE_DRIVER", "SQLite")
	t.Setenv("DATABASE_URL", "content.db")
	t.Setenv("DATABASE_AUTO_MIGRATE", "true")
	t.Setenv("AI_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "g-test")
	t.Setenv("AI_REQUEST_TIMEOUT", "45s")
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	t.Setenv("DRAFT_LIST_LIMIT", "5")
	t.Setenv("ALLOWED_DOMAINS", "browardhealth.org, ,example.org")

	cfg := LoadConfig()
	assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	assert.True(t, cfg.DatabaseAutoMigrate)
	assert.Equal(t, ProviderGemini, cfg.AIProvider)
	assert.Equal(t, 45*time.Second, cfg.AIRequestTimeout)
	assert.Equal(t, DefaultShutdownTimeout, cfg.ShutdownTimeout)
	assert.Equal(t, 5, cfg.DraftListLimit)
	assert.Equal(t, []string{"browardhealth.org", "example.org"}, cfg.AllowedDomains)
	require.NoError(t, ValidateEssentialConfig(cfg))
}

func TestValidateEssentialConfig(t *testing.T) {
	valid := func() *Config {
		return &Config{
			ServiceURL:     "https://content.example.com",
			DatabaseDriver: DriverPostgres,
			DatabaseURL:    "postgres://db/content",
			AIProvider:     ProviderNone,
			DraftListLimit: 10,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "insecure service url", mutate: func(c *Config) { c.ServiceURL = "http://content.example.com" }, wantErr: "SERVICE_URL"},
		{name: "unknown driver", mutate: func(c *Config) { c.DatabaseDriver = "mysql" }, wantErr: "DATABASE_DRIVER"},
		{name: "missing database url", mutate: func(c *Config) { c.DatabaseURL = "" }, wantErr: "DATABASE_URL"},
		{name: "openai without key", mutate: func(c *Config) { c.AIProvider = ProviderOpenAI }, wantErr: "OPENAI_API_KEY"},
		{name: "gemini without key", mutate: func(c *Config) { c.AIProvider = ProviderGemini }, wantErr: "GEMINI_API_KEY"},
		{name: "unknown provider", mutate: func(c *Config) { c.AIProvider = "claude" }, wantErr: "AI_PROVIDER"},
		{name: "audience without allow lists", mutate: func(c *Config) { c.APIAudience = "https://content.example.com" }, wantErr: "API_AUDIENCE"},
		{name: "zero draft limit", mutate: func(c *Config) { c.DraftListLimit = 0 }, wantErr: "DRAFT_LIST_LIMIT"},
		{name: "draft limit above ten", mutate: func(c *Config) { c.DraftListLimit = 50 }, wantErr: "DRAFT_LIST_LIMIT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := ValidateEssentialConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfig_DraftListLimitAboveMaximumIsRejected(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/content")
	t.Setenv("AI_PROVIDER", "none")
	t.Setenv("DRAFT_LIST_LIMIT", "50")

	cfg := LoadConfig()
	err := ValidateEssentialConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DRAFT_LIST_LIMIT")
}

func TestHeroImageObjectURL(t *testing.T) {
	cfg := Config{HeroImageBucket: "content-images"}
	assert.Equal(t, "https://storage.googleapis.com/content-images/hero-images/a.png", cfg.HeroImageObjectURL("/hero-images/a.png"))
}
