package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"truemark-hq/callisto/pkg/cli"
	"truemark-hq/callisto/pkg/config"
	"truemark-hq/callisto/pkg/gate"
	"truemark-hq/callisto/pkg/ismt"
	"truemark-hq/callisto/pkg/journal"
	"truemark-hq/callisto/pkg/journal/recorder"
	"truemark-hq/callisto/pkg/journal/storage"
	"truemark-hq/callisto/pkg/logging"
	"truemark-hq/callisto/pkg/metrics"
)

// loadConfig loads the configuration file, applies env overrides, and
// installs the process logger. The --verbose flag forces debug level.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	if _, err := logging.Setup(logging.Options{
		Level:  level,
		Format: cfg.Logging.Format,
	}); err != nil {
		return nil, cli.NewConfigError("logging", err.Error())
	}

	return cfg, nil
}

// clientBundle holds the wired client stack for a command invocation.
type clientBundle struct {
	client   *ismt.Client
	gate     *gate.Gate
	metrics  *metrics.Metrics
	recorder *recorder.Recorder
	storage  journal.Storage
	server   *http.Server
}

// buildClient wires the admission gate, metrics, journal and API client from
// configuration.
func buildClient(cfg *config.Config) (*clientBundle, error) {
	period, err := cfg.RateLimit.Period()
	if err != nil {
		return nil, cli.NewConfigError("rate_limit.unit", err.Error())
	}

	g, err := gate.New(period, cfg.RateLimit.Capacity)
	if err != nil {
		return nil, cli.NewConfigError("rate_limit", err.Error())
	}

	var m *metrics.Metrics
	var srv *http.Server
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		m = metrics.New(reg)
		srv = &http.Server{
			Addr:              cfg.Metrics.ListenAddress,
			Handler:           metrics.Handler(reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go serveMetrics(srv)
	}

	b := &clientBundle{gate: g, metrics: m, server: srv}

	if cfg.Journal.Enabled {
		var store journal.Storage
		switch cfg.Journal.Backend {
		case "sqlite":
			store, err = storage.NewSQLiteStorage(&storage.SQLiteConfig{
				Path: cfg.Journal.Path,
			})
			if err != nil {
				return nil, cli.NewCommandError("journal", err)
			}
		case "memory":
			store = storage.NewMemoryStorage()
		default:
			return nil, cli.NewConfigError("journal.backend",
				fmt.Sprintf("unsupported backend: %s", cfg.Journal.Backend))
		}
		b.storage = store
		b.recorder = recorder.NewRecorder(store, &recorder.Config{
			Enabled: true,
			Metrics: m,
		})
	}

	clientCfg := ismt.ClientConfig{
		Name:         "callisto",
		BaseURL:      cfg.API.BaseURL,
		Timeout:      cfg.API.Timeout(),
		UserAgent:    cfg.API.UserAgent,
		ProductGroup: cfg.API.ProductGroup,
	}
	if b.recorder != nil {
		clientCfg.Recorder = b.recorder
	}

	client, err := ismt.NewClient(clientCfg, g, m)
	if err != nil {
		b.close()
		return nil, err
	}
	b.client = client

	return b, nil
}

// serveMetrics runs the metrics listener. A bind failure must not kill the
// command, but it must not be silent either.
func serveMetrics(srv *http.Server) {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Default().Error("metrics listener failed",
			"address", srv.Addr,
			"error", err,
		)
	}
}

// close flushes the journal and releases client resources.
func (b *clientBundle) close() {
	if b.client != nil {
		b.client.Close()
	}
	if b.recorder != nil {
		b.recorder.Close()
	}
	if b.storage != nil {
		b.storage.Close()
	}
	if b.server != nil {
		b.server.Close()
	}
}

// openJournalStorage opens the configured journal backend for read-side
// commands (list, prune).
func openJournalStorage(cfg *config.Config) (journal.Storage, error) {
	if !cfg.Journal.Enabled {
		return nil, cli.NewConfigError("journal.enabled", "journal is disabled in configuration")
	}

	switch cfg.Journal.Backend {
	case "sqlite":
		store, err := storage.NewSQLiteStorage(&storage.SQLiteConfig{
			Path: cfg.Journal.Path,
		})
		if err != nil {
			return nil, cli.NewCommandError("journal", err)
		}
		return store, nil
	case "memory":
		// A fresh memory store is always empty, which makes read commands
		// meaningless. Reject instead of silently returning nothing.
		return nil, cli.NewConfigError("journal.backend",
			"memory backend does not persist records between runs")
	default:
		return nil, cli.NewConfigError("journal.backend",
			fmt.Sprintf("unsupported backend: %s", cfg.Journal.Backend))
	}
}
