package ismt

import (
	"fmt"
	"time"
)

// ConfigError represents an invalid client configuration.
type ConfigError struct {
	// Client is the configured client name (may be empty if that is what
	// failed validation).
	Client string

	// Field is the configuration field that failed.
	Field string

	// Message describes the failure.
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("client %q config error: %s: %s", e.Client, e.Field, e.Message)
}

// AuthError represents a rejected credential (HTTP 401 or 403).
type AuthError struct {
	// Operation is the API operation that was rejected.
	Operation string

	// Message is the error body returned by the API.
	Message string
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: authentication rejected: %s", e.Operation, e.Message)
}

// RateLimitError represents an HTTP 429 from the API itself.
// Seeing one means the server-side limit is stricter than the local gate;
// the caller decides whether to retry after RetryAfter.
type RateLimitError struct {
	// Operation is the API operation that was throttled.
	Operation string

	// RetryAfter is the server-suggested wait (zero if not provided).
	RetryAfter time.Duration

	// Message is the error body returned by the API.
	Message string
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s: rate limited by server (retry after %s): %s",
			e.Operation, e.RetryAfter, e.Message)
	}
	return fmt.Sprintf("%s: rate limited by server: %s", e.Operation, e.Message)
}

// APIError represents a non-success reply: either a non-2xx HTTP status or
// a 200 whose body carries an application-level error.
type APIError struct {
	// Operation is the API operation that failed.
	Operation string

	// StatusCode is the HTTP status (0 for application-level errors on 200).
	StatusCode int

	// Code is the application error code, when the body carried one.
	Code string

	// Message is the error description.
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: API error (status %d): %s", e.Operation, e.StatusCode, e.Message)
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: API error (code %s): %s", e.Operation, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: API error: %s", e.Operation, e.Message)
}

// ParseError represents a serialization or response-parsing failure.
type ParseError struct {
	// Operation is the API operation being performed.
	Operation string

	// RawResponse is the body that failed to parse (empty for request-side
	// serialization failures).
	RawResponse string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: parse error: %v", e.Operation, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// TransportError represents a failed HTTP exchange (network error, timeout).
type TransportError struct {
	// Operation is the API operation being performed.
	Operation string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport error: %v", e.Operation, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *TransportError) Unwrap() error {
	return e.Cause
}
