// Package config provides environment and file configuration for the server and CLI.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/jonathan/creator-analytics/internal/llm"
)

// Config is the process configuration read from the environment.
// API keys are optional here; a missing key fails only the operation that needs it.
type Config struct {
	App       AppConfig
	Scraper   ScraperConfig
	LLM       LLMConfig
	Reddit    RedditConfig
	Insights  InsightsConfig
	RateLimit RateLimitConfig
}

// AppConfig holds process-wide settings for the HTTP server and logging.
type AppConfig struct {
	Env        string `envconfig:"APP_ENV" default:"development"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`
	Port       int    `envconfig:"PORT" default:"8080"`
	CORSOrigin string `envconfig:"CORS_ORIGIN" default:"*"`
}

// ScraperConfig configures the scraping provider's actor API.
type ScraperConfig struct {
	APIToken    string `envconfig:"APIFY_API_TOKEN"`
	BaseURL     string `envconfig:"SCRAPER_BASE_URL" default:"https://api.apify.com"`
	ResultLimit int    `envconfig:"SCRAPER_RESULT_LIMIT" default:"25"`
	Country     string `envconfig:"TIKTOK_COUNTRY" default:"US"`
}

// LLMConfig selects the report model. Only the selected provider's key is read.
type LLMConfig struct {
	Provider        string `envconfig:"LLM_PROVIDER" default:"anthropic"`
	Tier            string `envconfig:"LLM_TIER" default:"standard"`
	AnthropicAPIKey string `envconfig:"ANTHROPIC_API_KEY"`
	GeminiAPIKey    string `envconfig:"GEMINI_API_KEY"`
	BaseURL         string `envconfig:"LLM_BASE_URL" default:"https://api.anthropic.com"`
	Model           string `envconfig:"LLM_MODEL"`
	MaxTokens       int    `envconfig:"LLM_MAX_TOKENS" default:"2048"`
}

// RedditConfig configures the public Reddit listing client used for trends.
type RedditConfig struct {
	BaseURL    string   `envconfig:"REDDIT_BASE_URL" default:"https://www.reddit.com"`
	Subreddits []string `envconfig:"REDDIT_SUBREDDITS"`
}

// InsightsConfig holds defaults for insight aggregation.
type InsightsConfig struct {
	Timezone string `envconfig:"POSTING_TIMEZONE" default:"UTC"`
}

// RateLimitConfig configures inbound request limiting on the HTTP server.
type RateLimitConfig struct {
	Enabled       bool          `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	DefaultLimit  int           `envconfig:"RATE_LIMIT_DEFAULT_LIMIT" default:"600"`
	DefaultWindow time.Duration `envconfig:"RATE_LIMIT_DEFAULT_WINDOW" default:"1m"`
	Whitelist     []string      `envconfig:"RATE_LIMIT_WHITELIST"`
}

// Load reads a .env file when present, then the environment.
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges. It does not require API keys.
func (c *Config) Validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("config error: PORT must be between 1 and 65535, got %d", c.App.Port)
	}
	if c.Scraper.ResultLimit <= 0 {
		return fmt.Errorf("config error: SCRAPER_RESULT_LIMIT must be positive")
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("config error: LLM_MAX_TOKENS must be positive")
	}
	if c.RateLimit.Enabled && (c.RateLimit.DefaultLimit <= 0 || c.RateLimit.DefaultWindow <= 0) {
		return fmt.Errorf("config error: RATE_LIMIT_DEFAULT_LIMIT and RATE_LIMIT_DEFAULT_WINDOW must be positive")
	}
	if _, err := llm.ParseProvider(c.LLM.Provider); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if _, err := llm.ParseTier(c.LLM.Tier); err != nil {
		return fmt.Errorf("config error: LLM_TIER: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves POSTING_TIMEZONE.
func (c *Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.Insights.Timezone)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("config error: invalid POSTING_TIMEZONE %q: %w", name, err)
	}
	return loc, nil
}

// LLMTier resolves LLM_TIER, defaulting to the standard tier.
func (c *Config) LLMTier() llm.ModelTier {
	tier, err := llm.ParseTier(c.LLM.Tier)
	if err != nil {
		return llm.TierStandard
	}
	return tier
}

// LLMClientConfig builds the llm package configuration and selects the provider's API key.
// LLM_MODEL overrides the model of the selected tier.
func (c *Config) LLMClientConfig() (*llm.Config, string) {
	provider, err := llm.ParseProvider(c.LLM.Provider)
	if err != nil {
		provider = llm.ProviderAnthropic
	}

	cfg := llm.DefaultConfigFor(provider)
	if provider == llm.ProviderAnthropic && c.LLM.BaseURL != "" {
		cfg.BaseURL = c.LLM.BaseURL
	}
	if c.LLM.MaxTokens > 0 {
		cfg.MaxTokens = c.LLM.MaxTokens
	}
	if c.LLM.Model != "" {
		cfg = cfg.WithModel(c.LLMTier(), c.LLM.Model)
	}

	key := c.LLM.AnthropicAPIKey
	if provider == llm.ProviderGemini {
		key = c.LLM.GeminiAPIKey
	}
	return cfg, key
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
