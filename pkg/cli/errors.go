package cli

import (
	"context"
	"errors"
	"fmt"

	"truemark-hq/callisto/pkg/gate"
	"truemark-hq/callisto/pkg/ismt"
)

// Process exit codes. Marking pipelines drive callisto from scripts and
// branch on these, so each failure class keeps a stable code.
const (
	// ExitOK means the command succeeded.
	ExitOK = 0
	// ExitFailure covers transport, storage, and unclassified errors.
	ExitFailure = 1
	// ExitConfig covers configuration and usage errors.
	ExitConfig = 2
	// ExitCancelled means the command was interrupted, typically while
	// waiting for admission.
	ExitCancelled = 3
	// ExitAuth means the API rejected the credential.
	ExitAuth = 4
	// ExitRateLimited means the server throttled the request despite the
	// local gate.
	ExitRateLimited = 5
)

// ConfigError reports an invalid configuration value or bad command usage.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "configuration error: " + e.Message
	}
	return fmt.Sprintf("configuration error in %s: %s", e.Field, e.Message)
}

// CommandError attaches the failing command to an underlying error. It
// unwraps, so classification and errors.Is/As see through it.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// ExitCode classifies an error into a process exit code. Cancellation wins
// over everything else: an interrupted batch is not a submission failure.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var cancelled *gate.CancelledError
	if errors.As(err, &cancelled) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return ExitCancelled
	}

	var authErr *ismt.AuthError
	if errors.As(err, &authErr) {
		return ExitAuth
	}

	var rateErr *ismt.RateLimitError
	if errors.As(err, &rateErr) {
		return ExitRateLimited
	}

	var cfgErr *ConfigError
	var gateCfgErr *gate.ConfigError
	var clientCfgErr *ismt.ConfigError
	if errors.As(err, &cfgErr) || errors.As(err, &gateCfgErr) || errors.As(err, &clientCfgErr) {
		return ExitConfig
	}

	return ExitFailure
}
