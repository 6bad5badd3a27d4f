package config

import (
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher exposes the current configuration as an atomic snapshot, re-read
// whenever the file changes on disk. Components call Current on every tick,
// so setting changes take effect without a restart.
type Watcher struct {
	path    string
	logger  *zap.Logger
	current atomic.Pointer[Config]
	fw      *fsnotify.Watcher
	done    chan struct{}
}

// NewWatcher loads the file once and starts watching its directory. Watching
// the directory rather than the file survives editors that replace-on-save.
func NewWatcher(path string, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	cfg.Validate(logger)

	if path == "" {
		path, err = getConfigPath()
		if err != nil {
			return nil, err
		}
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fs watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch config dir: %w", err)
	}

	w := &Watcher{
		path:   path,
		logger: logger,
		fw:     fw,
		done:   make(chan struct{}),
	}
	w.current.Store(cfg)
	go w.watch()
	return w, nil
}

// Current returns the latest configuration snapshot. Never nil.
func (w *Watcher) Current() *Config {
	return w.current.Load()
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fw.Close()
}

func (w *Watcher) watch() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if event.Name != w.path {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			w.reload()
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		// Keep serving the previous snapshot on a bad edit.
		w.logger.Warn("config reload failed, keeping previous settings", zap.Error(err))
		return
	}
	cfg.Validate(w.logger)
	w.current.Store(cfg)
	w.logger.Info("configuration reloaded",
		zap.Int64("polling_interval_ms", cfg.PollingIntervalMs),
		zap.Bool("gesture_enabled", cfg.Gesture.Enabled))
}
