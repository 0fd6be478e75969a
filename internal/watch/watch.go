// Package watch notifies callers when a catalog database changes on disk.
// SQLite in WAL mode writes to a "-wal" side file and only periodically
// checkpoints into the main file, so the database file and its side files
// are watched together through their directory.
package watch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when none is configured.
const DefaultDebounce = 100 * time.Millisecond

// ChangeKind describes the type of file change detected.
type ChangeKind int

const (
	ChangeModified ChangeKind = iota // database or side file written
	ChangeRemoved                    // database or side file deleted
)

// Change reports that the catalog was modified. Bursts of writes within the
// debounce window are coalesced into one Change per file.
type Change struct {
	Kind ChangeKind
	File string
}

// Watcher monitors one database file and its SQLite side files.
type Watcher struct {
	Path    string
	Changes <-chan Change

	changes  chan Change
	done     chan struct{}
	debounce time.Duration
	names    map[string]bool
	watcher  *fsnotify.Watcher
	started  bool
	stopOnce sync.Once
}

// New creates a watcher for the database at path. A non-positive debounce
// selects DefaultDebounce.
func New(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve %s: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}

	ch := make(chan Change, 16)
	return &Watcher{
		Path:     abs,
		Changes:  ch,
		changes:  ch,
		done:     make(chan struct{}),
		debounce: debounce,
		names: map[string]bool{
			abs:              true,
			abs + "-wal":     true,
			abs + "-journal": true,
		},
		watcher: fw,
	}, nil
}

// Start begins watching the database directory. On failure the watcher is
// released; Stop remains safe to call.
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.Path)
	if err := w.watcher.Add(dir); err != nil {
		w.Stop()
		return fmt.Errorf("watch: add %s: %w", dir, err)
	}
	w.started = true
	go w.loop()
	return nil
}

// Stop closes the watcher and the Changes channel. It may be called before
// Start and more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		w.watcher.Close()
		if w.started {
			<-w.done
		}
		close(w.changes)
	})
}

func (w *Watcher) loop() {
	defer close(w.done)

	type pendingChange struct {
		kind ChangeKind
		at   time.Time
	}
	pending := make(map[string]pendingChange)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				for file, p := range pending {
					w.emit(Change{Kind: p.kind, File: file})
				}
				return
			}
			if !w.names[event.Name] {
				continue
			}
			switch {
			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				pending[event.Name] = pendingChange{kind: ChangeRemoved, at: time.Now()}
			case event.Has(fsnotify.Write) || event.Has(fsnotify.Create):
				pending[event.Name] = pendingChange{kind: ChangeModified, at: time.Now()}
			}

		case <-ticker.C:
			now := time.Now()
			for file, p := range pending {
				if now.Sub(p.at) >= w.debounce {
					w.emit(Change{Kind: p.kind, File: file})
					delete(pending, file)
				}
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal.
		}
	}
}

// emit never blocks. When the buffer is full a refresh is already queued.
func (w *Watcher) emit(c Change) {
	select {
	case w.changes <- c:
	default:
	}
}
