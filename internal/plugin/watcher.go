package plugin

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Op is the kind of change seen in the plugin directory.
type Op int

const (
	// OpCreate - a plugin source appeared.
	OpCreate Op = iota

	// OpWrite - a plugin source was modified.
	OpWrite

	// OpRemove - a plugin source was deleted or renamed away.
	OpRemove
)

// String returns the operation name.
func (op Op) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpWrite:
		return "write"
	case OpRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Event is one observed change to a plugin source file.
type Event struct {
	// Source is the filename within the plugin directory.
	Source string

	// Op is the change kind.
	Op Op
}

// Watcher reports changes to the plugin directory so the host can tell
// the user the installed plugin set no longer matches what was loaded
// at startup. Loaded states are never hot-reloaded; a restart applies
// the change.
type Watcher struct {
	fsw    *fsnotify.Watcher
	events chan Event
	wg     sync.WaitGroup
}

// WatchDir starts watching the plugin directory. Only events for files
// that would be discovery candidates are reported.
func WatchDir(dir string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		fsw:    fsw,
		events: make(chan Event, 16),
	}

	w.wg.Add(1)
	go w.loop()

	return w, nil
}

// Events returns the change stream. The channel is closed by Close.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Close stops the watcher and closes the event stream.
func (w *Watcher) Close() error {
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

// loop translates fsnotify events into plugin events. It exits when
// the underlying watcher closes its channels.
func (w *Watcher) loop() {
	defer w.wg.Done()
	defer close(w.events)

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.forward(ev)
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal; the startup snapshot stays
			// authoritative.
		}
	}
}

// forward emits an event for candidate files, dropping events when the
// consumer is slow rather than blocking the loop.
func (w *Watcher) forward(ev fsnotify.Event) {
	name := filepath.Base(ev.Name)
	if !isCandidate(name) {
		return
	}

	var op Op
	switch {
	case ev.Has(fsnotify.Create):
		op = OpCreate
	case ev.Has(fsnotify.Write):
		op = OpWrite
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		op = OpRemove
	default:
		return
	}

	select {
	case w.events <- Event{Source: name, Op: op}:
	default:
	}
}
