package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors forming the shared failure taxonomy. Callers dispatch with
// errors.Is; infrastructure adapters wrap these with context via %w.
var (
	ErrUnknownModel      = errors.New("unknown model")
	ErrCredentialMissing = errors.New("credential missing")
	ErrCredentialInvalid = errors.New("credential invalid")
	ErrInvalidSecret     = errors.New("invalid secret")
	ErrAuth              = errors.New("authentication failed")
	ErrRateLimited       = errors.New("rate limited")
	ErrNetwork           = errors.New("network error")
	ErrTimeout           = errors.New("request timed out")
	ErrStorage           = errors.New("storage error")
)

// ProviderError reports a non-auth, non-rate-limit HTTP failure returned by a
// provider endpoint, carrying the status code for diagnostics.
type ProviderError struct {
	Family     ProviderFamily
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: provider error (HTTP %d)", e.Family, e.StatusCode)
	}
	return fmt.Sprintf("%s: provider error (HTTP %d): %s", e.Family, e.StatusCode, e.Message)
}

// Retryable reports whether the error belongs to the transient class that the
// lookup router may retry once with backoff.
func Retryable(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrNetwork) || errors.Is(err, ErrTimeout)
}
