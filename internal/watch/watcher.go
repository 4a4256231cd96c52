// Package watch reloads the keypad config file when it changes on disk.
package watch

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pengelbrecht/keypad/internal/config"
)

// EventType represents the type of config file event.
type EventType int

const (
	// Reloaded indicates the file was written and parsed successfully.
	Reloaded EventType = iota
	// Removed indicates the file was deleted or renamed away.
	Removed
	// Invalid indicates the file changed but could not be loaded.
	Invalid
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case Reloaded:
		return "reloaded"
	case Removed:
		return "removed"
	case Invalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Event represents a change to the watched config file.
type Event struct {
	Type   EventType
	Config config.Config // defaults for Removed, zero for Invalid
	Err    error         // set for Invalid
}

// ConfigWatcher monitors one config file. It watches the parent directory so
// editors that replace the file by rename are still seen.
type ConfigWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	events  chan Event

	// Debouncing
	debounceDelay time.Duration
	timer         *time.Timer
	timerMu       sync.Mutex

	// Lifecycle
	stopCh    chan struct{}
	stoppedCh chan struct{}
	running   bool
	runningMu sync.Mutex
}

// NewConfigWatcher creates a watcher for the config file at path.
func NewConfigWatcher(path string) *ConfigWatcher {
	return &ConfigWatcher{
		path:          filepath.Clean(path),
		events:        make(chan Event, 16),
		debounceDelay: 100 * time.Millisecond,
		stopCh:        make(chan struct{}),
		stoppedCh:     make(chan struct{}),
	}
}

// Start begins watching. The parent directory is created if missing.
func (w *ConfigWatcher) Start() error {
	w.runningMu.Lock()
	defer w.runningMu.Unlock()

	if w.running {
		return nil
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return err
	}
	w.watcher = watcher

	w.running = true
	go w.watchLoop()

	return nil
}

// Stop terminates the watcher and closes the events channel.
func (w *ConfigWatcher) Stop() {
	w.runningMu.Lock()
	if !w.running {
		w.runningMu.Unlock()
		return
	}
	w.running = false
	w.runningMu.Unlock()

	close(w.stopCh)
	<-w.stoppedCh

	w.watcher.Close()

	w.timerMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.timerMu.Unlock()

	close(w.events)
}

// Events returns the channel for receiving config events.
func (w *ConfigWatcher) Events() <-chan Event {
	return w.events
}

func (w *ConfigWatcher) watchLoop() {
	defer close(w.stoppedCh)

	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.debounce()
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// debounce collapses bursts of writes into one reload.
func (w *ConfigWatcher) debounce() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounceDelay, w.reload)
}

func (w *ConfigWatcher) reload() {
	var ev Event
	if _, err := os.Stat(w.path); os.IsNotExist(err) {
		ev = Event{Type: Removed, Config: config.Default()}
	} else if cfg, err := config.Load(w.path); err != nil {
		ev = Event{Type: Invalid, Err: err}
	} else {
		ev = Event{Type: Reloaded, Config: cfg}
	}

	w.runningMu.Lock()
	defer w.runningMu.Unlock()
	if !w.running {
		return
	}

	select {
	case w.events <- ev:
	default:
		// Channel full, drop event
	}
}
