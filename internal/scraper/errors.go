package scraper

import "fmt"

// ConfigError indicates the scraper cannot be called because configuration is missing.
// It is returned before any network traffic.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("scraper configuration error: %s", e.Message)
}

// ProviderError represents a non-2xx response from the scraping provider
type ProviderError struct {
	ActorID    string
	StatusCode int
	Body       string
	Cause      error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("scraper actor %s failed with status %d: %s", e.ActorID, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("scraper actor %s failed: %v", e.ActorID, e.Cause)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// ParseError represents a provider response that is not a JSON array of items
type ParseError struct {
	ActorID string
	Cause   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("scraper actor %s returned an unreadable dataset: %v", e.ActorID, e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
