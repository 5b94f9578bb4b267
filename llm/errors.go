package llm

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidAPIKey indicates the API key is missing or was rejected.
	ErrInvalidAPIKey = errors.New("llm: invalid API key")

	// ErrRateLimited indicates the provider's rate limit has been exceeded.
	ErrRateLimited = errors.New("llm: rate limit exceeded")

	// ErrProviderUnavailable indicates the provider failed server-side or was unreachable.
	ErrProviderUnavailable = errors.New("llm: provider unavailable")

	// ErrMalformedResponse indicates no structured record could be extracted from a response.
	ErrMalformedResponse = errors.New("llm: malformed response")
)

// UnsupportedProviderError is returned when a provider identifier is not one
// of the known backends. It is raised before any network call.
type UnsupportedProviderError struct {
	Provider string
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("unsupported provider %q", e.Provider)
}

// ProviderCallError wraps a failed outbound call.
type ProviderCallError struct {
	Provider   ProviderID
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderCallError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider '%s' error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider '%s' error: %s", e.Provider, e.Message)
}

func (e *ProviderCallError) Unwrap() error {
	return e.Err
}

// MalformedResponseError carries the raw text a structured record could not
// be extracted from.
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed response (%d bytes): %v", len(e.Raw), e.Err)
	}
	return fmt.Sprintf("malformed response (%d bytes)", len(e.Raw))
}

func (e *MalformedResponseError) Unwrap() error {
	return ErrMalformedResponse
}

// newCallError maps an HTTP status to the matching sentinel.
func newCallError(provider ProviderID, status int, message string, cause error) *ProviderCallError {
	var sentinel error
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		sentinel = ErrInvalidAPIKey
	case status == http.StatusTooManyRequests:
		sentinel = ErrRateLimited
	case status >= 500:
		sentinel = ErrProviderUnavailable
	default:
		sentinel = cause
	}
	if sentinel != nil && cause != nil && sentinel != cause {
		sentinel = fmt.Errorf("%w: %w", sentinel, cause)
	}
	return &ProviderCallError{
		Provider:   provider,
		StatusCode: status,
		Message:    message,
		Err:        sentinel,
	}
}

// IsRetryable reports whether a caller may reasonably retry the whole
// operation: rate limits, server failures and transport errors.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrProviderUnavailable) {
		return true
	}
	var callErr *ProviderCallError
	if errors.As(err, &callErr) {
		return callErr.StatusCode == 0 && !errors.Is(err, ErrInvalidAPIKey)
	}
	return false
}

// IsAuthError reports whether err is an authentication failure.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrInvalidAPIKey)
}

// IsMalformed reports whether err came from structured-record extraction.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformedResponse)
}
