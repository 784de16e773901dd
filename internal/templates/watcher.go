package templates

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the watcher waits for file events to settle
// before reloading.
const DefaultDebounce = 500 * time.Millisecond

// Watcher reloads the catalog when template files change.
type Watcher struct {
	reload   func(ctx context.Context) error
	logger   *zap.Logger
	debounce time.Duration
	watcher  *fsnotify.Watcher

	mu    sync.Mutex
	timer *time.Timer

	started bool
	stopped bool

	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
}

// NewWatcher watches paths, each a template file or directory, and calls
// reload after changes settle for debounce. A zero debounce uses
// DefaultDebounce.
func NewWatcher(paths []string, reload func(ctx context.Context) error, logger *zap.Logger, debounce time.Duration) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watch directories rather than files so editors that replace a file on
	// save keep being observed.
	watched := make(map[string]bool)
	for _, path := range paths {
		dir := path
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			dir = filepath.Dir(path)
		}
		if watched[dir] {
			continue
		}
		if err := fsWatcher.Add(dir); err != nil {
			fsWatcher.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		watched[dir] = true
		logger.Debug("watching template path", zap.String("path", dir))
	}

	return &Watcher{
		reload:   reload,
		logger:   logger,
		debounce: debounce,
		watcher:  fsWatcher,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Start runs the watch loop until ctx ends or Stop is called. Calls after
// the first, or after Stop, are ignored.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started || w.stopped {
		return
	}
	w.started = true
	go w.watchLoop(ctx)
}

// Stop ends the watch loop and waits for it to exit. A watcher that was never
// started just releases its file watches.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		w.mu.Lock()
		w.stopped = true
		started := w.started
		w.mu.Unlock()
		close(w.stopCh)
		if !started {
			w.watcher.Close()
			close(w.done)
		}
	})
	<-w.done
}

func (w *Watcher) watchLoop(ctx context.Context) {
	defer close(w.done)
	defer w.watcher.Close()
	defer w.cancelPending()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}
			w.logger.Info("template file changed",
				zap.String("file", event.Name),
				zap.String("operation", event.Op.String()),
			)
			w.schedule(ctx)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("template watcher error", zap.Error(err))

		case <-ctx.Done():
			return

		case <-w.stopCh:
			w.logger.Info("stopping template watcher")
			return
		}
	}
}

// schedule restarts the debounce timer so a burst of events causes one
// reload.
func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if err := w.reload(ctx); err != nil {
			w.logger.Warn("template reload failed", zap.Error(err))
		}
	})
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

func relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	_, ok := FormatOf(event.Name)
	return ok
}
