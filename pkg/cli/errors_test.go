package cli

import (
	"context"
	"errors"
	"testing"
	"time"

	"truemark-hq/callisto/pkg/gate"
	"truemark-hq/callisto/pkg/ismt"
)

func TestConfigError(t *testing.T) {
	err := &ConfigError{
		Field:   "api.base_url",
		Message: "missing required field",
	}

	expected := "configuration error in api.base_url: missing required field"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}

	// No field: the message stands alone
	err = &ConfigError{Message: "failed to load config"}
	expected = "configuration error: failed to load config"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewConfigError(t *testing.T) {
	err := NewConfigError("field", "message")
	if err.Field != "field" {
		t.Errorf("Field = %q, want %q", err.Field, "field")
	}
	if err.Message != "message" {
		t.Errorf("Message = %q, want %q", err.Message, "message")
	}
}

func TestCommandError(t *testing.T) {
	underlyingErr := errors.New("underlying error")
	err := NewCommandError("submit", underlyingErr)

	expected := "submit: underlying error"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}

	if !errors.Is(err, underlyingErr) {
		t.Error("errors.Is() should see through CommandError")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"plain error", errors.New("boom"), ExitFailure},
		{"transport error", &ismt.TransportError{Operation: "create_document", Cause: errors.New("refused")}, ExitFailure},
		{"api error", &ismt.APIError{Operation: "create_document", Code: "INVALID_DOC"}, ExitFailure},
		{"cli config error", NewConfigError("journal.backend", "unsupported"), ExitConfig},
		{"gate config error", &gate.ConfigError{Field: "capacity", Message: "must be positive"}, ExitConfig},
		{"client config error", &ismt.ConfigError{Field: "name", Message: "required"}, ExitConfig},
		{"cancelled admission", &gate.CancelledError{Cause: context.Canceled}, ExitCancelled},
		{"deadline exceeded", context.DeadlineExceeded, ExitCancelled},
		{"auth rejected", &ismt.AuthError{Operation: "create_document", Message: "token expired"}, ExitAuth},
		{"server rate limit", &ismt.RateLimitError{Operation: "create_document", RetryAfter: 2 * time.Second}, ExitRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCode_SeesThroughCommandError(t *testing.T) {
	err := NewCommandError("submit", &ismt.AuthError{Operation: "create_document"})
	if got := ExitCode(err); got != ExitAuth {
		t.Errorf("ExitCode = %d, want %d", got, ExitAuth)
	}

	err = NewCommandError("submit", &gate.CancelledError{Cause: context.DeadlineExceeded})
	if got := ExitCode(err); got != ExitCancelled {
		t.Errorf("ExitCode = %d, want %d", got, ExitCancelled)
	}
}
