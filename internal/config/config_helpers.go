package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/v2"
	"github.com/shouni/netarmor/securenet"
)

// HeroImageObjectURL returns the public URL of an object stored in the hero image bucket.
func (c Config) HeroImageObjectURL(object string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", c.HeroImageBucket, strings.TrimPrefix(object, "/"))
}

// --- Validation ---

// ValidateEssentialConfig checks the settings the service cannot run without.
func ValidateEssentialConfig(cfg *Config) error {
	if !IsSecureURL(cfg.ServiceURL) {
		return fmt.Errorf("security error: SERVICE_URL ('%s') must be HTTPS in production", cfg.ServiceURL)
	}

	switch cfg.DatabaseDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("configuration error: DATABASE_DRIVER '%s' is not supported", cfg.DatabaseDriver)
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("configuration error: DATABASE_URL is not set")
	}

	switch cfg.AIProvider {
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return fmt.Errorf("configuration error: OPENAI_API_KEY is not set")
		}
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return fmt.Errorf("configuration error: GEMINI_API_KEY is not set")
		}
	case ProviderNone:
		// every stage runs on its deterministic fallback
	default:
		return fmt.Errorf("configuration error: AI_PROVIDER '%s' is not supported", cfg.AIProvider)
	}

	if cfg.APIAudience != "" && len(cfg.AllowedEmails) == 0 && len(cfg.AllowedDomains) == 0 {
		return fmt.Errorf("configuration error: API_AUDIENCE is set but ALLOWED_EMAILS and ALLOWED_DOMAINS are empty")
	}

	if cfg.DraftListLimit <= 0 || cfg.DraftListLimit > MaxDraftListLimit {
		return fmt.Errorf("configuration error: DRAFT_LIST_LIMIT must be between 1 and %d", MaxDraftListLimit)
	}
	return nil
}

// IsSecureURL reports whether the URL is HTTPS or points at localhost.
func IsSecureURL(rawURL string) bool {
	return securenet.IsSecureServiceURL(rawURL)
}

// --- koanf accessors ---

func getString(k *koanf.Koanf, key string) string {
	return strings.TrimSpace(k.String(key))
}

func getInt(k *koanf.Koanf, key string, fallback int) int {
	if !k.Exists(key) {
		return fallback
	}
	if v := k.Int(key); v != 0 {
		return v
	}
	return fallback
}

// getList splits a comma separated value, dropping blank entries.
func getList(k *koanf.Koanf, key string) []string {
	var out []string
	for _, part := range strings.Split(getString(k, key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getDuration(k *koanf.Koanf, key string, fallback time.Duration) time.Duration {
	if !k.Exists(key) {
		return fallback
	}
	d, err := time.ParseDuration(getString(k, key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
