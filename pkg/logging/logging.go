// Package logging configures structured logging for Callisto.
//
// Loggers are built on log/slog. Every component obtains its logger via
// slog.Default().With("component", name), so a single Setup call at process
// start controls level, format and destination for the whole binary.
//
// Handlers are wrapped with a redacting layer that masks authentication
// tokens and detached signatures before they reach the output stream. API
// tokens issued by GIS MT are long-lived credentials and must never land in
// logs verbatim.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Output formats accepted by Setup.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Options controls how the process-wide logger is built.
type Options struct {
	// Level is the minimum level: "debug", "info", "warn" or "error".
	Level string

	// Format selects the handler: "text" or "json".
	Format string

	// Writer receives log output. Defaults to os.Stderr.
	Writer io.Writer
}

// Setup builds a redacting slog.Logger from opts and installs it as the
// process default. It returns the logger so callers can hold a direct
// reference.
func Setup(opts Options) (*slog.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: redactAttr,
	}

	var handler slog.Handler
	switch opts.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(writer, handlerOpts)
	case FormatText, "":
		handler = slog.NewTextHandler(writer, handlerOpts)
	default:
		return nil, fmt.Errorf("unknown log format: %s", opts.Format)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, nil
}

// ParseLevel converts a level name into a slog.Level. An empty name means
// info.
func ParseLevel(name string) (slog.Level, error) {
	switch name {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", name)
	}
}
