// Package watch reports changes made to the project state file by other
// processes.
package watch

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeKind describes the type of file change detected.
type ChangeKind int

const (
	ChangeModified ChangeKind = iota // State file written or replaced
	ChangeRemoved                    // State file deleted
)

// String names the kind for telemetry.
func (k ChangeKind) String() string {
	if k == ChangeRemoved {
		return "removed"
	}
	return "modified"
}

// Change is one debounced change of the watched file.
type Change struct {
	Kind ChangeKind
	File string
	At   time.Time
}

// DefaultDebounce is how long a file must stay quiet before a change is
// reported.
const DefaultDebounce = 100 * time.Millisecond

// Watcher monitors a single state file using fsnotify. It watches the parent
// directory because atomic saves replace the file rather than writing to it.
type Watcher struct {
	File    string
	Changes <-chan Change // Read-only external channel

	debounce time.Duration
	names    map[string]bool
	changes  chan Change // Internal write channel
	done     chan struct{}
	watcher  *fsnotify.Watcher

	mu      sync.Mutex
	ownTill time.Time
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// NewWatcher creates a watcher for the state file at path. A SQLite state
// file is watched together with its write-ahead log.
func NewWatcher(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ch := make(chan Change, 16)
	base := filepath.Base(abs)
	w := &Watcher{
		File:     abs,
		Changes:  ch,
		debounce: DefaultDebounce,
		names:    map[string]bool{base: true, base + "-wal": true},
		changes:  ch,
		done:     make(chan struct{}),
		watcher:  fw,
	}
	for _, o := range opts {
		o(w)
	}
	return w, nil
}

// Start begins watching. The parent directory is created if needed.
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.File)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := w.watcher.Add(dir); err != nil {
		return err
	}

	go w.loop()
	return nil
}

// Stop closes the watcher and channels.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done // Wait for loop to exit
	close(w.changes)
}

// Expect suppresses change reports for events seen within d from now. The
// caller uses it around its own saves.
func (w *Watcher) Expect(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t := time.Now().Add(d); t.After(w.ownTill) {
		w.ownTill = t
	}
}

func (w *Watcher) own(t time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !t.After(w.ownTill)
}

func (w *Watcher) loop() {
	defer close(w.done)

	// Debounce: track the last event time and whether any was our own.
	var (
		pending  bool
		last     time.Time
		external bool
	)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				if pending && external {
					w.emitChange(last)
				}
				return
			}
			if !w.names[filepath.Base(event.Name)] {
				continue
			}
			if !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)) {
				continue
			}
			now := time.Now()
			if !pending {
				external = false
			}
			pending, last = true, now
			if !w.own(now) {
				external = true
			}

		case _, ok := <-ticker.C:
			if !ok {
				return
			}
			if pending && time.Since(last) >= w.debounce {
				if external {
					w.emitChange(last)
				}
				pending = false
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Ignore watch errors; they're non-fatal.
		}
	}
}

func (w *Watcher) emitChange(at time.Time) {
	kind := ChangeModified
	if _, err := os.Stat(w.File); os.IsNotExist(err) {
		kind = ChangeRemoved
	}
	select {
	case w.changes <- Change{Kind: kind, File: w.File, At: at}:
	default:
		// A change is already queued; the reader reloads once either way.
	}
}
