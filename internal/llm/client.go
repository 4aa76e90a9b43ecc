package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/jonathan/creator-analytics/internal/metrics"
	"google.golang.org/api/option"
)

// Request is a single completion with an optional system instruction.
type Request struct {
	System string
	Prompt string
	Tier   ModelTier
	// JSON asks the provider for a JSON-only answer where it supports one.
	JSON bool
}

// Client is an abstraction over LLM providers
type Client interface {
	// Complete sends a system instruction and one user message
	Complete(ctx context.Context, req Request) (string, error)
	// GetModel returns the underlying provider model for a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration.
// A missing apiKey is a *ConfigError and no connection is attempted.
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		client, err := NewGeminiClient(ctx, config, apiKey)
		if err != nil {
			return nil, err
		}
		return client, nil
	case ProviderAnthropic, "":
		client, err := NewAnthropicClient(config, apiKey, nil)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, &ConfigError{Message: fmt.Sprintf("unsupported provider %q", config.Provider)}
	}
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, &ConfigError{Message: "GEMINI_API_KEY is not set"}
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, &ConfigError{Message: fmt.Sprintf("failed to create Gemini client: %v", err)}
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// Complete sends req with the system text as the model's system instruction
func (c *GeminiClient) Complete(ctx context.Context, req Request) (string, error) {
	model, err := c.model(req.Tier)
	if err != nil {
		return "", err
	}
	if req.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}
	if req.JSON {
		model.ResponseMIMEType = "application/json"
	}
	return c.generate(ctx, model, req.Prompt)
}

func (c *GeminiClient) model(tier ModelTier) (*genai.GenerativeModel, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return nil, &ConfigError{Message: fmt.Sprintf("no model configured for tier %s", tier)}
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(0.1) // Low temperature for consistent output
	model.SetMaxOutputTokens(int32(c.config.maxTokens()))
	return model, nil
}

func (c *GeminiClient) generate(ctx context.Context, model *genai.GenerativeModel, prompt string) (string, error) {
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		err = &ProviderError{Provider: ProviderGemini, Cause: err}
		metrics.RecordUpstream("llm", err)
		return "", err
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		err = &ProviderError{Provider: ProviderGemini, Cause: err}
	}
	metrics.RecordUpstream("llm", err)
	return text, err
}

// GetModel returns the model name for a tier
func (c *GeminiClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
