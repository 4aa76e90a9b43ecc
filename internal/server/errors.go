// Package server provides the internal HTTP API consumed by the creator dashboard.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/creator-analytics/internal/llm"
	"github.com/jonathan/creator-analytics/internal/report"
	"github.com/jonathan/creator-analytics/internal/scraper"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Missing keys are server configuration faults; provider failures and
// unreadable model output are upstream faults.
func HTTPStatus(err error) int {
	var (
		validationErr  *ErrValidation
		scraperCfgErr  *scraper.ConfigError
		llmCfgErr      *llm.ConfigError
		scraperProvErr *scraper.ProviderError
		scraperParse   *scraper.ParseError
		llmProvErr     *llm.ProviderError
		reportParseErr *report.ParseError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &scraperCfgErr), errors.As(err, &llmCfgErr):
		return http.StatusInternalServerError
	case errors.As(err, &scraperProvErr), errors.As(err, &scraperParse),
		errors.As(err, &llmProvErr), errors.As(err, &reportParseErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
