package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher watches the config file and reloads it on change, so log level
// and refresh schedules can be adjusted without a restart.
type Watcher struct {
	path     string
	loader   *Loader
	onReload func(*Config)
	logger   zerolog.Logger
	watcher  *fsnotify.Watcher
	done     chan struct{}
}

// NewWatcher creates a config watcher. onReload receives each successfully
// reloaded and validated configuration.
func NewWatcher(path string, onReload func(*Config), logger zerolog.Logger) (*Watcher, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is required")
	}
	if onReload == nil {
		return nil, fmt.Errorf("reload callback is required")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watch the directory, not the file: editors replace files on save.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch config directory: %w", err)
	}

	w := &Watcher{
		path:     path,
		loader:   NewLoader(path),
		onReload: onReload,
		logger:   logger,
		watcher:  fw,
		done:     make(chan struct{}),
	}

	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	var debounce *time.Timer
	validator := NewValidator()

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
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(250*time.Millisecond, func() {
				cfg, err := w.loader.Load()
				if err != nil {
					w.logger.Warn().Err(err).Msg("Config reload failed, keeping previous config")
					return
				}
				if err := validator.Validate(cfg); err != nil {
					w.logger.Warn().Err(err).Msg("Reloaded config invalid, keeping previous config")
					return
				}
				w.logger.Info().Str("path", w.path).Msg("Config reloaded")
				w.onReload(cfg)
			})
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("Config watcher error")
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
