package enhance

import "fmt"

// ConfigurationError means the selected provider's credential is absent.
// It is detected before any network call.
type ConfigurationError struct {
	Provider Provider
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s API key is not configured", e.Provider.DisplayName())
}

// ProviderError is a non-success HTTP response from a provider. It keeps
// the status and raw body, and renders the well-known statuses as
// distinct human-readable messages since each provider's API surface
// fails differently.
type ProviderError struct {
	Provider   Provider
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	name := e.Provider.DisplayName()
	switch e.StatusCode {
	case 401:
		return fmt.Sprintf("%s authentication failed: check the API key", name)
	case 403:
		return fmt.Sprintf("%s access denied: check the API key permissions", name)
	case 404:
		return fmt.Sprintf("%s endpoint not found: check the API key and endpoint", name)
	case 429:
		return fmt.Sprintf("%s rate limit exceeded: try again later", name)
	}
	return fmt.Sprintf("%s API error: status %d - %s", name, e.StatusCode, e.Body)
}

// ResponseShapeError is a 2xx provider response that does not match the
// expected schema.
type ResponseShapeError struct {
	Provider Provider
	Reason   string
}

func (e *ResponseShapeError) Error() string {
	return fmt.Sprintf("%s returned an unexpected response shape: %s", e.Provider.DisplayName(), e.Reason)
}
