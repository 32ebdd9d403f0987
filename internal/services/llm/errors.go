package llm

import "fmt"

// ExternalServiceError wraps a failed model call (network, auth, rate limit)
type ExternalServiceError struct {
	Provider ProviderType
	Model    string
	Err      error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s API call failed (model %s): %v", e.Provider, e.Model, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}
