package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jonathan/creator-analytics/internal/fixtures"
	"github.com/jonathan/creator-analytics/internal/llm"
	"github.com/jonathan/creator-analytics/internal/schemas"
	"github.com/jonathan/creator-analytics/internal/types"
)

// FallbackModel is the Model value of the static report.
const FallbackModel = "static"

// ParseError means the model's answer was not a valid six-section report.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("report parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("report parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Parse strips markdown fences from text and decodes a schema-valid report.
func Parse(text string) (*types.AIReport, error) {
	cleaned := llm.CleanJSONBlock(text)
	if cleaned == "" {
		return nil, &ParseError{Message: "empty response"}
	}
	if !json.Valid([]byte(cleaned)) {
		return nil, &ParseError{Message: "response is not valid JSON"}
	}
	if err := schemas.Validate(schemas.Report, []byte(cleaned)); err != nil {
		return nil, &ParseError{Message: "response does not match the report schema", Cause: err}
	}

	var doc struct {
		Sections []types.AIReportSection `json:"sections"`
	}
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return nil, &ParseError{Message: "failed to decode report", Cause: err}
	}
	return &types.AIReport{Sections: doc.Sections}, nil
}

// Generator produces reports with an LLM client.
type Generator struct {
	client llm.Client
	tier   llm.ModelTier
	now    func() time.Time
}

// NewGenerator creates a generator using the standard model tier.
func NewGenerator(client llm.Client) *Generator {
	return &Generator{client: client, tier: llm.TierStandard, now: time.Now}
}

// WithTier returns a copy of g that asks for the given model tier.
func (g *Generator) WithTier(tier llm.ModelTier) *Generator {
	next := *g
	next.tier = tier
	return &next
}

// Generate builds the prompt, calls the model once and parses the answer.
// Errors are *llm.ConfigError, *llm.ProviderError or *ParseError; callers fall back with Fallback.
func (g *Generator) Generate(ctx context.Context, in Input) (*types.AIReport, error) {
	if g == nil || g.client == nil {
		return nil, &llm.ConfigError{Message: "no LLM client configured"}
	}

	prompt, err := BuildPrompt(in)
	if err != nil {
		return nil, fmt.Errorf("failed to build prompt: %w", err)
	}

	text, err := g.client.Complete(ctx, llm.Request{System: prompt.System, Prompt: prompt.User, Tier: g.tier, JSON: true})
	if err != nil {
		return nil, err
	}

	report, err := Parse(text)
	if err != nil {
		return nil, err
	}
	report.GeneratedAt = g.now().UTC()
	report.Model = g.client.GetModel(g.tier)
	return report, nil
}

// Fallback returns the static report shown when generation fails.
func Fallback(now time.Time) (*types.AIReport, error) {
	sections, err := fixtures.ReportSections()
	if err != nil {
		return nil, err
	}
	return &types.AIReport{
		Sections:    sections,
		GeneratedAt: now.UTC(),
		Model:       FallbackModel,
		Fallback:    true,
	}, nil
}
