package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceInterval = 500 * time.Millisecond

// Watcher reloads the configuration file when it changes on disk. Editors
// tend to fire several filesystem events per save, so reloads are debounced
// and only a config that actually differs reaches the callback.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	last     Config
	onChange func(Config)
	stop     chan struct{}
}

// Watch starts watching path. The callback runs on the watcher goroutine
// with each changed, valid configuration.
func Watch(path string, current Config, onChange func(Config)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: watcher: %w", err)
	}
	// Watch the directory: the file itself may be replaced by rename,
	// which drops a watch registered on the old inode.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("config: watch %s: %w", path, err)
	}

	w := &Watcher{
		watcher:  fsw,
		path:     filepath.Clean(path),
		last:     current,
		onChange: onChange,
		stop:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Stop ends the watch. Safe to call once.
func (w *Watcher) Stop() {
	close(w.stop)
	w.watcher.Close()
}

func (w *Watcher) run() {
	timer := time.NewTimer(debounceInterval)
	timer.Stop()
	pending := false

	for {
		select {
		case <-w.stop:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if !pending {
				pending = true
				timer.Reset(debounceInterval)
			}

		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			w.reload()

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		return
	}
	if cfg == w.last {
		return
	}
	w.last = cfg
	w.onChange(cfg)
}
