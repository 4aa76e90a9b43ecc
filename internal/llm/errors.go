package llm

import "fmt"

// ConfigError is returned before any network call when the client cannot be configured.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("llm configuration error: %s", e.Message)
}

// ProviderError represents a failed or non-2xx call to the LLM provider.
type ProviderError struct {
	Provider   Provider
	StatusCode int
	Body       string
	Cause      error
}

func (e *ProviderError) Error() string {
	switch {
	case e.StatusCode > 0:
		return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.StatusCode, e.Body)
	case e.Cause != nil:
		return fmt.Sprintf("%s request failed: %v", e.Provider, e.Cause)
	default:
		return fmt.Sprintf("%s request failed: %s", e.Provider, e.Body)
	}
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}
