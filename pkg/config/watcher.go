// Copyright 2026 © The Orquestrador Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"
)

type fileStamp struct {
	modTime time.Time
	size    int64
}

// Watcher monitors configuration files for changes and triggers reload.
// Only settings that are safe to change at runtime (such as log.level)
// should be acted upon by listeners.
type Watcher struct {
	mu        sync.RWMutex
	opts      Options
	paths     []string
	interval  time.Duration
	stamps    map[string]fileStamp
	config    *Config
	listeners []func(*Config)
	stopOnce  sync.Once
	stopCh    chan struct{}
	doneCh    chan struct{}
	logger    *slog.Logger
}

// WatcherOption configures the watcher.
type WatcherOption func(*Watcher)

// WithWatchInterval sets the polling interval for file changes.
func WithWatchInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithWatchLogger sets the logger for the watcher.
func WithWatchLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWatcher loads the configuration described by opts and prepares to
// watch its file and profile file.
func NewWatcher(opts Options, watchOpts ...WatcherOption) (*Watcher, error) {
	w := &Watcher{
		opts:     opts,
		interval: time.Second,
		stamps:   make(map[string]fileStamp),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		logger:   slog.Default(),
	}
	for _, opt := range watchOpts {
		opt(w)
	}

	if opts.Path != "" {
		w.paths = append(w.paths, opts.Path)
		if p := profileConfigPath(opts.Path, resolveProfile(opts)); p != "" {
			w.paths = append(w.paths, p)
		}
	}
	for _, path := range w.paths {
		if st, ok := stat(path); ok {
			w.stamps[path] = st
		}
	}

	cfg, err := LoadWithOptions(opts)
	if err != nil {
		return nil, err
	}
	w.config = cfg
	return w, nil
}

// OnChange registers a callback to be called when config changes.
func (w *Watcher) OnChange(fn func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.listeners = append(w.listeners, fn)
}

// Config returns the current configuration.
func (w *Watcher) Config() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.config
}

// Start begins watching for configuration changes.
func (w *Watcher) Start(ctx context.Context) {
	go w.watch(ctx)
}

// Stop stops the watcher and waits for it to exit. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	<-w.doneCh
}

func (w *Watcher) watch(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			if w.checkForChanges() {
				w.reload()
			}
		}
	}
}

func (w *Watcher) checkForChanges() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	changed := false
	for _, path := range w.paths {
		st, ok := stat(path)
		if !ok {
			continue
		}
		last, exists := w.stamps[path]
		if !exists || st.modTime.After(last.modTime) || st.size != last.size {
			w.stamps[path] = st
			changed = true
		}
	}
	return changed
}

func (w *Watcher) reload() {
	w.logger.Info("config file changed, reloading")

	cfg, err := LoadWithOptions(w.opts)
	if err != nil {
		w.logger.Error("failed to reload config", slog.String("error", err.Error()))
		return
	}

	w.mu.Lock()
	w.config = cfg
	listeners := make([]func(*Config), len(w.listeners))
	copy(listeners, w.listeners)
	w.mu.Unlock()

	w.logger.Info("config reloaded successfully")

	for _, fn := range listeners {
		fn(cfg)
	}
}

func stat(path string) (fileStamp, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return fileStamp{}, false
	}
	return fileStamp{modTime: info.ModTime(), size: info.Size()}, true
}
