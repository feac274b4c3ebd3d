package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a configuration file and reports reloads.
//
// The watcher re-loads and re-validates the file on every change and invokes
// the callback with the new configuration. It watches the containing
// directory rather than the file itself so that editors and config
// management tools that replace the file atomically are still observed.
//
// The watcher only reports; deciding what is reloadable is the consumer's
// job. In particular a rate-limit change requires constructing a new gate;
// the running gate's window state is never mutated in place.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	onChange func(*Config)
	logger   *slog.Logger

	mu       sync.Mutex
	debounce *time.Timer
	done     chan struct{}
	closed   bool
}

// debounceDelay coalesces the bursts of events editors produce per save.
const debounceDelay = 200 * time.Millisecond

// NewWatcher creates a watcher for the configuration file at path.
// The callback runs on the watcher goroutine and receives the freshly
// loaded, validated configuration.
func NewWatcher(path string, onChange func(*Config)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %q: %w", filepath.Dir(path), err)
	}

	w := &Watcher{
		path:     path,
		watcher:  fw,
		onChange: onChange,
		logger:   slog.Default().With("component", "config.watcher"),
		done:     make(chan struct{}),
	}

	go w.loop()

	w.logger.Info("configuration watcher started", "path", path)

	return w, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	close(w.done)

	return w.watcher.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.scheduleReload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("configuration watch error", "error", err)
		}
	}
}

// scheduleReload debounces change events and triggers one reload per burst.
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(debounceDelay, w.reload)
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.logger.Error("configuration reload failed, keeping previous configuration",
			"path", w.path,
			"error", err,
		)
		return
	}

	w.logger.Info("configuration reloaded", "path", w.path)

	if w.onChange != nil {
		w.onChange(cfg)
	}
}
