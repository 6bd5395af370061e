package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

const reloadDebounce = 100 * time.Millisecond

// Watcher reloads the config file when it changes on disk. The parent
// directory is watched so editors that save by rename are picked up.
type Watcher struct {
	path    string
	dataDir string
	watcher *fsnotify.Watcher
	onLoad  func(*Config, error)

	mu    sync.Mutex
	timer *time.Timer
	done  chan struct{}
}

// NewWatcher starts watching configPath. onLoad receives every reload result,
// including parse and validation errors; it runs on the watcher goroutine.
func NewWatcher(configPath, dataDir string, onLoad func(*Config, error)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := fw.Add(filepath.Dir(configPath)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(configPath), err)
	}

	return &Watcher{
		path:    filepath.Clean(configPath),
		dataDir: dataDir,
		watcher: fw,
		onLoad:  onLoad,
		done:    make(chan struct{}),
	}, nil
}

// Run processes filesystem events until ctx is cancelled, then closes the
// underlying watcher.
func (w *Watcher) Run(ctx context.Context) {
	defer close(w.done)
	defer func() {
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		_ = w.watcher.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Str("path", w.path).Msg("config watcher error")
		}
	}
}

// Wait blocks until Run has returned.
func (w *Watcher) Wait() { <-w.done }

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(reloadDebounce, w.reload)
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path, w.dataDir)
	if err != nil {
		log.Warn().Err(err).Str("path", w.path).Msg("config reload failed")
	} else {
		log.Info().Str("path", w.path).Msg("config reloaded")
	}
	w.onLoad(cfg, err)
}
