package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jonathan/creator-analytics/internal/fetch"
	"github.com/jonathan/creator-analytics/internal/metrics"
)

// DefaultAnthropicBaseURL is the public Anthropic API endpoint.
const DefaultAnthropicBaseURL = "https://api.anthropic.com"

// AnthropicVersion is sent as the anthropic-version header.
const AnthropicVersion = "2023-06-01"

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

// AnthropicClient implements Client against the /v1/messages endpoint
type AnthropicClient struct {
	config  *Config
	apiKey  string
	baseURL string
	options *fetch.Options
}

// NewAnthropicClient creates a client. opts may be nil.
func NewAnthropicClient(config *Config, apiKey string, opts *fetch.Options) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, &ConfigError{Message: "ANTHROPIC_API_KEY is not set"}
	}
	if config == nil {
		config = DefaultAnthropicConfig()
	}
	if opts == nil {
		opts = fetch.DefaultOptions()
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultAnthropicBaseURL
	}

	headers := map[string]string{
		"x-api-key":         apiKey,
		"anthropic-version": AnthropicVersion,
	}
	for k, v := range opts.Headers {
		headers[k] = v
	}

	return &AnthropicClient{
		config:  config,
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		options: &fetch.Options{Client: opts.Client, UserAgent: opts.UserAgent, Headers: headers},
	}, nil
}

// Complete sends one user message with an optional system prompt and returns the first text block
func (c *AnthropicClient) Complete(ctx context.Context, req Request) (string, error) {
	model := c.config.GetModel(req.Tier)
	if model == "" {
		return "", &ConfigError{Message: fmt.Sprintf("no model configured for tier %s", req.Tier)}
	}

	body := anthropicRequest{
		Model:     model,
		MaxTokens: c.config.maxTokens(),
		System:    req.System,
		Messages:  []anthropicMessage{{Role: "user", Content: req.Prompt}},
	}

	result, err := fetch.JSON(ctx, http.MethodPost, c.baseURL+"/v1/messages", body, c.options)
	if err != nil {
		perr := &ProviderError{Provider: ProviderAnthropic, Cause: err}
		var fetchErr *fetch.Error
		if errors.As(err, &fetchErr) && fetchErr.StatusCode > 0 {
			perr = &ProviderError{Provider: ProviderAnthropic, StatusCode: fetchErr.StatusCode, Body: fetchErr.Body}
		}
		metrics.RecordUpstream("llm", perr)
		return "", perr
	}

	text, err := firstTextBlock(result.Body)
	if err != nil {
		err = &ProviderError{Provider: ProviderAnthropic, Body: err.Error()}
	}
	metrics.RecordUpstream("llm", err)
	return text, err
}

// GetModel returns the model name for a tier
func (c *AnthropicClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close is a no-op; the client holds no connections of its own
func (c *AnthropicClient) Close() error {
	return nil
}

func firstTextBlock(body []byte) (string, error) {
	var resp anthropicResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("invalid messages response: %w", err)
	}
	for _, block := range resp.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text block in response")
}
