package plugin

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits after the last change before
// calling its reload callback.
const DefaultDebounce = 100 * time.Millisecond

// Watcher calls a reload callback when eligible units in a plugin directory
// are created, written, renamed or removed. Bursts of events are debounced
// into one call.
type Watcher struct {
	dir      string
	watcher  *fsnotify.Watcher
	reload   func()
	logger   *slog.Logger
	debounce time.Duration

	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// WithWatcherLogger sets the watcher's logger.
func WithWatcherLogger(l *slog.Logger) WatcherOption {
	return func(w *Watcher) { w.logger = l }
}

// NewWatcher starts watching dir. Call Start to begin delivering reloads and
// Stop to release the underlying watcher.
func NewWatcher(dir string, reload func(), opts ...WatcherOption) (*Watcher, error) {
	if _, err := Units(dir); err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch plugin directory: %w", err)
	}

	w := &Watcher{
		dir:      dir,
		watcher:  fw,
		reload:   reload,
		logger:   slog.Default(),
		debounce: DefaultDebounce,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start runs the watch loop in its own goroutine.
func (w *Watcher) Start() {
	go w.watchLoop()
	w.logger.Debug("plugin watcher started", "dir", w.dir)
}

// Stop ends the watch loop and closes the underlying watcher. A pending
// debounced reload is cancelled. Stop is safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopCh)
		err = w.watcher.Close()
		w.logger.Debug("plugin watcher stopped", "dir", w.dir)
	})
	return err
}

// Done is closed once the watch loop has returned.
func (w *Watcher) Done() <-chan struct{} {
	return w.doneCh
}

func (w *Watcher) watchLoop() {
	defer close(w.doneCh)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !Eligible(event.Name) {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}

			w.logger.Debug("plugin unit changed", "unit", event.Name, "op", event.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, w.fire)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("plugin watcher error", "dir", w.dir, "error", err)
		}
	}
}

func (w *Watcher) fire() {
	select {
	case <-w.stopCh:
		return
	default:
	}
	w.logger.Info("plugin directory changed, reloading", "dir", w.dir)
	w.reload()
}
