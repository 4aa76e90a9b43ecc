package ratelimit

import (
	"net/http"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTTL         time.Duration
	Whitelist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// DefaultEndpointConfigs returns the per-endpoint limits.
// Each of these requests spends scraper or LLM credits.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Path: "/api/insights/generate", Method: http.MethodPost, Limit: 20, Window: time.Hour, Burst: 3},
		{Path: "/api/posts/live", Method: http.MethodPost, Limit: 60, Window: time.Hour, Burst: 5},
		{Path: "/api/trends", Method: http.MethodGet, Limit: 120, Window: time.Hour, Burst: 10},
	}
}

// NewConfig builds a Config with the default endpoint table.
func NewConfig(enabled bool, defaultLimit int, defaultWindow time.Duration, whitelist []string) *Config {
	allowed := make(map[string]bool, len(whitelist))
	for _, ip := range whitelist {
		if ip = strings.TrimSpace(ip); ip != "" {
			allowed[ip] = true
		}
	}
	return &Config{
		Enabled:         enabled,
		DefaultLimit:    defaultLimit,
		DefaultWindow:   defaultWindow,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		Whitelist:       allowed,
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}
