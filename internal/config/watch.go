package config

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the config file when it changes on disk.
type Watcher struct {
	watcher       *fsnotify.Watcher
	path          string
	onChange      func(*Config)
	debounceTimer *time.Timer
	stopChan      chan struct{}
}

// Watch starts watching the config file and calls onChange with the
// freshly loaded config after each external edit. Returns nil without
// error when no config path can be resolved.
func Watch(onChange func(*Config)) (*Watcher, error) {
	path := configPath()
	if path == "" {
		return nil, nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory to catch editors that replace the file.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}

	w := &Watcher{
		watcher:  watcher,
		path:     path,
		onChange: onChange,
		stopChan: make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.stopChan)
	return w.watcher.Close()
}

func (w *Watcher) loop() {
	const debounceInterval = 100 * time.Millisecond

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if w.debounceTimer != nil {
					w.debounceTimer.Stop()
				}
				w.debounceTimer = time.AfterFunc(debounceInterval, w.reload)
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}

		case <-w.stopChan:
			return
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load()
	if err != nil {
		return
	}
	w.onChange(cfg)
}
