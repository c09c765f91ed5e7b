package plugin

import (
	"log/slog"
	"path/filepath"

	plua "github.com/hypril/hypril/internal/plugin/lua"
)

// Manager drives startup loading and owns the live Lua states of
// successfully loaded plugins for the rest of the session. Action
// callbacks registered by a plugin re-enter its retained state, so
// states stay open until Close.
//
// Loading is strictly sequential: the next candidate is not touched
// until the current one's register call has returned or failed. That
// keeps load order deterministic and diagnostics attributable.
type Manager struct {
	loader *Loader
	logger *slog.Logger

	states  map[string]*plua.State
	records []Record
	closed  bool
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the diagnostics logger.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a manager around a loader.
func NewManager(loader *Loader, opts ...ManagerOption) *Manager {
	m := &Manager{
		loader: loader,
		logger: slog.Default(),
		states: make(map[string]*plua.State),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// DiscoverAndLoad scans dir and loads every candidate in lexicographic
// order. It returns one record per candidate and never fails as a
// whole: a missing directory yields an empty slice, and per-plugin
// failures are contained in their records.
func (m *Manager) DiscoverAndLoad(dir string) []Record {
	if m.closed {
		m.logger.Warn("plugin scan skipped", "dir", dir, "error", ErrManagerClosed)
		return nil
	}

	for _, name := range m.loader.Discover(dir) {
		rec, state := m.loader.Load(filepath.Join(dir, name))
		if state != nil {
			m.states[rec.Source] = state
		}

		if rec.Failed() {
			m.logger.Warn("plugin load failed",
				"source", rec.Source,
				"status", rec.Status.String(),
				"error", rec.Err)
		} else {
			m.logger.Info("plugin loaded", "source", rec.Source)
		}

		m.records = append(m.records, rec)
	}

	return m.Records()
}

// Records returns a copy of all records accumulated so far, in load
// order.
func (m *Manager) Records() []Record {
	out := make([]Record, len(m.records))
	copy(out, m.records)
	return out
}

// Loaded returns the number of plugins whose states are live.
func (m *Manager) Loaded() int {
	return len(m.states)
}

// Failed returns the records of plugins that did not load.
func (m *Manager) Failed() []Record {
	var failed []Record
	for _, rec := range m.records {
		if rec.Failed() {
			failed = append(failed, rec)
		}
	}
	return failed
}

// Close releases every retained Lua state. Action callbacks must not
// be invoked after Close.
func (m *Manager) Close() {
	if m.closed {
		return
	}
	for _, state := range m.states {
		state.Close()
	}
	m.states = nil
	m.closed = true
}
