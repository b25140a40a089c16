package config

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay lets an editor finish writing before the file is re-read.
const reloadDelay = 100 * time.Millisecond

// changeNotifier fans reload results out to registered callbacks.
type changeNotifier struct {
	mu        sync.RWMutex
	callbacks []func(error)
}

func newChangeNotifier() *changeNotifier {
	return &changeNotifier{}
}

// OnChange registers a callback.
func (n *changeNotifier) OnChange(callback func(error)) {
	if callback == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.callbacks = append(n.callbacks, callback)
}

// NotifyChange calls every callback with err.
func (n *changeNotifier) NotifyChange(err error) {
	n.mu.RLock()
	callbacks := slices.Clone(n.callbacks)
	n.mu.RUnlock()

	for _, callback := range callbacks {
		callback(err)
	}
}

// hotReloader watches one file and calls reload after it changes. The
// parent directory is watched so that editors replacing the file through a
// rename are seen too.
type hotReloader struct {
	mu      sync.Mutex
	watcher *fsnotify.Watcher
	path    string
	reload  func()
	onError func(error)
	cancel  context.CancelFunc
	done    chan struct{}
}

func newHotReloader(path string, reload func(), onError func(error)) (*hotReloader, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to resolve config path %s: %w", path, err)
	}

	return &hotReloader{
		watcher: watcher,
		path:    abs,
		reload:  reload,
		onError: onError,
	}, nil
}

// Start begins watching.
func (h *hotReloader) Start(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cancel != nil {
		return errors.New("hot reload already started")
	}
	if err := h.watcher.Add(filepath.Dir(h.path)); err != nil {
		return fmt.Errorf("failed to watch config file %s: %w", h.path, err)
	}

	ctx, h.cancel = context.WithCancel(ctx)
	h.done = make(chan struct{})
	go h.watch(ctx)
	return nil
}

// Stop ends the watch loop and closes the watcher.
func (h *hotReloader) Stop() {
	h.mu.Lock()
	cancel, done := h.cancel, h.done
	h.cancel = nil
	h.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	_ = h.watcher.Close()
}

func (h *hotReloader) watch(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != h.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				select {
				case <-time.After(reloadDelay):
				case <-ctx.Done():
					return
				}
				h.reload()
			}

		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			h.onError(fmt.Errorf("file watcher error: %w", err))

		case <-ctx.Done():
			return
		}
	}
}
