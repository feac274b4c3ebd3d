package gate

import "fmt"

// ConfigError represents an invalid gate configuration.
// It is returned by New and is not retryable.
type ConfigError struct {
	// Field is the configuration field that failed validation.
	Field string

	// Message is a human-readable description of the failure.
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("gate config error: %s %s", e.Field, e.Message)
}

// CancelledError reports that a caller abandoned the admission wait.
// The gate does not retry on the caller's behalf; retry policy belongs to
// the caller.
type CancelledError struct {
	// Cause is the context error that interrupted the wait.
	Cause error
}

// Error implements the error interface.
func (e *CancelledError) Error() string {
	return fmt.Sprintf("admission wait cancelled: %v", e.Cause)
}

// Unwrap returns the underlying context error, so callers can test the
// result with errors.Is(err, context.Canceled) or context.DeadlineExceeded.
func (e *CancelledError) Unwrap() error {
	return e.Cause
}
