package settings

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/iw2rmb/textexpand/expander"
)

// DefaultDebounce batches the burst of events an editor produces on save.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reloads a FileStore when its file changes on disk and emits the
// changed fields on Updates.
type Watcher struct {
	store    *FileStore
	log      *zap.Logger
	debounce time.Duration

	watcher *fsnotify.Watcher
	updates chan expander.Update

	mu      sync.Mutex
	running bool
	dirty   time.Time
	stopCh  chan struct{}
	doneCh  chan struct{}
	stats   WatcherStats
}

// WatcherStats counts watcher activity.
type WatcherStats struct {
	Events  int
	Reloads int
	Emitted int
	Errors  int
}

// NewWatcher watches store's file. It watches the parent directory so
// atomic rename-on-save is seen too. debounce <= 0 selects DefaultDebounce.
func NewWatcher(store *FileStore, log *zap.Logger, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		store:    store,
		log:      log,
		debounce: debounce,
		watcher:  fw,
		updates:  make(chan expander.Update, 1),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Updates delivers one expander.Update per effective change. It is closed
// when the watcher stops.
func (w *Watcher) Updates() <-chan expander.Update { return w.updates }

func (w *Watcher) Stats() WatcherStats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// Start begins watching in a goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	dir := filepath.Dir(w.store.Path())
	if err := w.watcher.Add(dir); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}
	w.log.Info("watching settings", zap.String("path", w.store.Path()))

	go w.run(ctx)
	return nil
}

// Stop ends the watch loop and waits for it. It is safe to call more than
// once and without Start.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		w.watcher.Close()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	if err := w.watcher.Close(); err != nil {
		w.log.Error("closing settings watcher", zap.Error(err))
	}
}

// Run starts the watcher and blocks until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.Start(ctx); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
	case <-w.doneCh:
	}
	w.Stop()
	return nil
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	defer close(w.updates)

	tick := time.NewTicker(max(w.debounce/2, time.Millisecond))
	defer tick.Stop()

	base := filepath.Base(w.store.Path())
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != base || ev.Op == fsnotify.Chmod {
				continue
			}
			w.log.Debug("settings file event", zap.String("op", ev.Op.String()))
			w.mu.Lock()
			w.stats.Events++
			w.dirty = time.Now()
			w.mu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error("settings watcher", zap.Error(err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case now := <-tick.C:
			w.mu.Lock()
			due := !w.dirty.IsZero() && now.Sub(w.dirty) >= w.debounce
			if due {
				w.dirty = time.Time{}
			}
			w.mu.Unlock()
			if due && !w.reload(ctx) {
				return
			}
		}
	}
}

// reload rereads the store and emits what changed. It returns false when
// the watcher is shutting down.
func (w *Watcher) reload(ctx context.Context) bool {
	prev := w.store.Settings()
	if err := w.store.Load(); err != nil {
		w.log.Warn("keeping previous settings", zap.Error(err))
		w.mu.Lock()
		w.stats.Errors++
		w.mu.Unlock()
		return true
	}
	w.mu.Lock()
	w.stats.Reloads++
	w.mu.Unlock()

	u := Diff(prev, w.store.Settings())
	if u.Empty() {
		return true
	}
	select {
	case w.updates <- u:
	case <-ctx.Done():
		return false
	case <-w.stopCh:
		return false
	}
	w.mu.Lock()
	w.stats.Emitted++
	w.mu.Unlock()
	return true
}
