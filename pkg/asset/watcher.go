package asset

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bascanada/seclog/pkg/log"
)

// Watcher reloads the cache when its file changes.
type Watcher struct {
	watcher      *fsnotify.Watcher
	cache        *Cache
	path         string
	reloadMutex  sync.Mutex
	lastReload   time.Time
	debounceTime time.Duration

	// OnReload is called after every reload attempt, err being nil on
	// success. It runs on the watcher goroutine.
	OnReload func(set Set, err error)
}

// NewWatcher creates a watcher of path feeding cache.
func NewWatcher(cache *Cache, path string) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		watcher:      watcher,
		cache:        cache,
		path:         path,
		debounceTime: 200 * time.Millisecond,
	}, nil
}

// Start begins watching the asset file until ctx is done.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(w.path); err != nil {
		return fmt.Errorf("failed to watch asset file: %w", err)
	}

	log.Info("watching asset file %s", w.path)

	go w.watch(ctx)

	return nil
}

func (w *Watcher) watch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			log.Debug("asset watcher stopped")
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				log.Debug("asset file changed op=%s path=%s", event.Op.String(), event.Name)
				w.reload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Error("asset watcher error: %v", err)
		}
	}
}

func (w *Watcher) reload() {
	w.reloadMutex.Lock()
	defer w.reloadMutex.Unlock()

	if time.Since(w.lastReload) < w.debounceTime {
		log.Debug("asset change ignored (debounced)")
		return
	}
	w.lastReload = time.Now()

	set, err := Load(w.path)
	if err != nil {
		log.Error("failed to reload assets: %v", err)
	} else {
		w.cache.Replace(set)
		log.Info("assets reloaded, %d values", set.Count())
	}

	if w.OnReload != nil {
		w.OnReload(set, err)
	}
}

// Stop stops watching the asset file.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}
