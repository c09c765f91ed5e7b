package plugin

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hypril/hypril/internal/action"
	"github.com/hypril/hypril/internal/host"
	"github.com/hypril/hypril/internal/layer"
	"github.com/hypril/hypril/internal/plugin/api"
	plua "github.com/hypril/hypril/internal/plugin/lua"
	"github.com/hypril/hypril/internal/ui"
)

// Reserved filenames that are never loaded even when present in the
// plugin directory.
const (
	// reservedAPIHelper is kept free for a helper module shipped
	// alongside plugins; it is not itself a plugin.
	reservedAPIHelper = "plugin_api.lua"

	// reservedTemplate is the starter file authors copy and rename.
	reservedTemplate = "plugin_template.lua"
)

// pluginExt is the extension a plugin source must carry.
const pluginExt = ".lua"

// Loader finds plugin sources and loads one candidate at a time.
// Every loaded plugin gets a fresh facade over the same shared layer
// store, action registry, and bridge.
type Loader struct {
	layers   *layer.Store
	actions  *action.Registry
	bridge   ui.Bridge
	disabled map[string]bool
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithDisabled marks plugin names (filename without extension) that
// discovery skips entirely.
func WithDisabled(names []string) LoaderOption {
	return func(l *Loader) {
		for _, name := range names {
			l.disabled[name] = true
		}
	}
}

// NewLoader creates a loader bound to the shared registries and bridge.
func NewLoader(layers *layer.Store, actions *action.Registry, bridge ui.Bridge, opts ...LoaderOption) *Loader {
	l := &Loader{
		layers:   layers,
		actions:  actions,
		bridge:   bridge,
		disabled: make(map[string]bool),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Discover returns the candidate filenames directly under dir in
// lexicographic order, so load order and menu order are reproducible
// across runs. A missing directory is a valid "no plugins" state, not
// an error; nothing here ever fails discovery as a whole.
func (l *Loader) Discover(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		// A missing or unreadable directory means no plugins; the
		// caller has nothing to act on either way.
		return nil
	}

	var candidates []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !isCandidate(name) {
			continue
		}
		if l.disabled[strings.TrimSuffix(name, pluginExt)] {
			continue
		}
		candidates = append(candidates, name)
	}

	sort.Strings(candidates)
	return candidates
}

// isCandidate applies the naming exclusions: only .lua files count,
// reserved names are skipped, and an underscore prefix marks a
// disabled/scratch file.
func isCandidate(name string) bool {
	if !strings.HasSuffix(name, pluginExt) {
		return false
	}
	if name == reservedAPIHelper || name == reservedTemplate {
		return false
	}
	if strings.HasPrefix(name, "_") {
		return false
	}
	return true
}

// Load runs one candidate through the three isolated stages: run the
// script, probe the register entrypoint, call register(window). The
// returned state is non-nil only for StatusLoaded; failed states are
// closed before returning.
func (l *Loader) Load(path string) (Record, *plua.State) {
	rec := Record{
		Source: filepath.Base(path),
		Name:   strings.TrimSuffix(filepath.Base(path), pluginExt),
	}

	state := plua.NewState()

	if err := state.DoFile(path); err != nil {
		state.Close()
		rec.Status = StatusFailedToImport
		rec.Err = fmt.Errorf("import: %w", err)
		return rec, nil
	}

	if !state.HasFunction(entrypoint) {
		state.Close()
		rec.Status = StatusMissingEntrypoint
		rec.Err = fmt.Errorf("%w: no %s function", ErrMissingEntrypoint, entrypoint)
		return rec, nil
	}

	facade := host.NewFacade(l.layers, l.actions, l.bridge)
	window := api.NewWindow(state, facade)

	if err := state.CallGlobal(entrypoint, window.Build()); err != nil {
		// Prefer the facade error behind the Lua error so callers can
		// reach the underlying validation failure with errors.Is. The
		// message check keeps a facade error the plugin recovered with
		// pcall from being blamed for a later, unrelated failure.
		if under := window.LastError(); under != nil && strings.Contains(err.Error(), under.Error()) {
			err = fmt.Errorf("%s: %w", entrypoint, under)
		} else {
			err = fmt.Errorf("%s: %w", entrypoint, err)
		}
		state.Close()
		rec.Status = StatusFailedToRegister
		rec.Err = err
		return rec, nil
	}

	rec.Status = StatusLoaded
	return rec, state
}

// entrypoint is the function every plugin must expose.
const entrypoint = "register"
