package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Carmen-Shannon/oxy-hero/engine/logger"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads the tuning file when it changes on disk and offers the newest valid Config on Updates.
// Only the latest reload is kept; a slow consumer sees the most recent file, never a backlog.
type Watcher struct {
	path string
	log  *zap.Logger

	fs      *fsnotify.Watcher
	updates chan *Config

	closeOnce sync.Once
	done      chan struct{}
}

// NewWatcher watches the directory containing path. Editors that save by rename are handled because the
// directory, not the file, is watched.
//
// Parameters:
//   - path: the tuning file to watch
//   - log: logger for reload results, may be nil
//
// Returns:
//   - *Watcher: the watcher, not yet started
//   - error: error if the underlying fsnotify watcher cannot be created
func NewWatcher(path string, log *zap.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create config watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		path:    abs,
		log:     logger.OrNop(log).Named("config"),
		fs:      fw,
		updates: make(chan *Config, 1),
		done:    make(chan struct{}),
	}, nil
}

// Updates delivers reloaded configurations.
func (w *Watcher) Updates() <-chan *Config {
	return w.updates
}

// Start runs the event loop in a new goroutine until ctx is cancelled or Close is called.
func (w *Watcher) Start(ctx context.Context) {
	go w.run(ctx)
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.Close()
			return
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			w.reload()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("config watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	// a truncating save fires a write before the new content lands
	if info, err := os.Stat(w.path); err != nil || info.Size() == 0 {
		return
	}

	cfg, err := Load(w.path)
	if err != nil {
		w.log.Warn("config reload rejected", zap.String("path", w.path), zap.Error(err))
		return
	}
	w.log.Info("config reloaded", zap.String("path", w.path))

	// replace any unread update
	select {
	case <-w.updates:
	default:
	}
	select {
	case w.updates <- cfg:
	default:
	}
}
