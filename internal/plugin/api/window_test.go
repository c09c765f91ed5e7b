package api

import (
	"errors"
	"strings"
	"testing"

	"github.com/hypril/hypril/internal/action"
	"github.com/hypril/hypril/internal/host"
	"github.com/hypril/hypril/internal/layer"
	plua "github.com/hypril/hypril/internal/plugin/lua"
	"github.com/hypril/hypril/internal/ui"
)

type fixture struct {
	state   *plua.State
	window  *Window
	layers  *layer.Store
	actions *action.Registry
	bridge  *ui.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	state := plua.NewState()
	t.Cleanup(state.Close)

	layers := layer.NewStore()
	actions := action.NewRegistry()
	bridge := ui.NewRecorder()
	facade := host.NewFacade(layers, actions, bridge)

	window := NewWindow(state, facade)
	state.SetGlobal("window", window.Build())

	return &fixture{
		state:   state,
		window:  window,
		layers:  layers,
		actions: actions,
		bridge:  bridge,
	}
}

func (f *fixture) run(t *testing.T, code string) {
	t.Helper()
	if err := f.state.DoString(code); err != nil {
		t.Fatalf("lua error: %v", err)
	}
}

func TestWindowAddLayer(t *testing.T) {
	f := newFixture(t)
	f.run(t, `
window.add_layer({{{1, 2}, {3, 4}}, {{5, 6}, {7, 8}}}, "cube",
	{"red", "nir"}, {source = "test"})
`)

	v, ok := f.layers.Find("cube")
	if !ok {
		t.Fatal("layer not in store after add_layer")
	}
	if v.Bands != 2 || v.Height != 2 || v.Width != 2 {
		t.Errorf("shape = %dx%dx%d, want 2x2x2", v.Bands, v.Height, v.Width)
	}
	if len(v.BandNames) != 2 || v.BandNames[1] != "nir" {
		t.Errorf("BandNames = %v, want [red nir]", v.BandNames)
	}
	if v.Metadata["source"] != "test" {
		t.Errorf(`Metadata["source"] = %v, want "test"`, v.Metadata["source"])
	}
}

func TestWindowAddLayerTwoDimensionalPromotion(t *testing.T) {
	f := newFixture(t)
	f.run(t, `window.add_layer({{1, 2, 3}, {4, 5, 6}}, "flat")`)

	v, ok := f.layers.Find("flat")
	if !ok {
		t.Fatal("layer not in store")
	}
	if v.Bands != 1 || v.Height != 2 || v.Width != 3 {
		t.Errorf("shape = %dx%dx%d, want 1x2x3", v.Bands, v.Height, v.Width)
	}
}

func TestWindowAddLayerValidationRaises(t *testing.T) {
	f := newFixture(t)

	err := f.state.DoString(`window.add_layer({{{1}}}, "")`)
	if err == nil {
		t.Fatal("add_layer with an empty name did not raise")
	}
	if !errors.Is(f.window.LastError(), host.ErrValidation) {
		t.Errorf("LastError() = %v, want wrapped host.ErrValidation", f.window.LastError())
	}
	if f.layers.Len() != 0 {
		t.Errorf("store has %d layers, want 0", f.layers.Len())
	}
}

func TestWindowAddLayerRecoverableWithPcall(t *testing.T) {
	f := newFixture(t)
	f.run(t, `
ok, msg = pcall(function()
	window.add_layer({{{1}}}, "dup")
	window.add_layer({{{2}}}, "dup")
end)
`)

	if f.state.Global("ok").String() != "false" {
		t.Error("second add_layer for a duplicate name did not raise inside pcall")
	}
	if msg := f.state.Global("msg").String(); !strings.Contains(msg, "dup") {
		t.Errorf("pcall message = %q, want it to name the duplicate", msg)
	}
	if f.layers.Len() != 1 {
		t.Errorf("store has %d layers, want 1", f.layers.Len())
	}
}

func TestWindowListLayersSnapshot(t *testing.T) {
	f := newFixture(t)
	f.run(t, `
window.add_layer({{{1}}}, "alpha")
window.add_layer({{{2}}}, "beta")
views = window.list_layers()
count = #views
first = views[1].name
-- Mutating the returned table must not touch the store.
views[1].name = "mangled"
`)

	if got := f.state.Global("count").String(); got != "2" {
		t.Errorf("#views = %s, want 2", got)
	}
	if got := f.state.Global("first").String(); got != "alpha" {
		t.Errorf("views[1].name = %q, want alpha", got)
	}
	if _, ok := f.layers.Find("alpha"); !ok {
		t.Error("store layer renamed through a view table")
	}
}

func TestWindowFindLayerByName(t *testing.T) {
	f := newFixture(t)
	f.run(t, `
window.add_layer({{{1, 2}}}, "target", {"b1"})
hit = window.find_layer_by_name("target")
miss = window.find_layer_by_name("absent")
hit_width = hit.width
`)

	if f.state.Global("miss").String() != "nil" {
		t.Errorf("find of absent layer = %v, want nil", f.state.Global("miss"))
	}
	if got := f.state.Global("hit_width").String(); got != "2" {
		t.Errorf("hit.width = %s, want 2", got)
	}
}

func TestWindowShowMessage(t *testing.T) {
	f := newFixture(t)
	f.run(t, `
window.show_message("hello")
window.show_message("titled", "Custom")
`)

	if len(f.bridge.Messages) != 2 {
		t.Fatalf("bridge has %d messages, want 2", len(f.bridge.Messages))
	}
	if f.bridge.Messages[0].Title != host.DefaultMessageTitle {
		t.Errorf("default title = %q, want %q", f.bridge.Messages[0].Title, host.DefaultMessageTitle)
	}
	if f.bridge.Messages[1].Title != "Custom" {
		t.Errorf("title = %q, want Custom", f.bridge.Messages[1].Title)
	}
}

func TestWindowRefreshUI(t *testing.T) {
	f := newFixture(t)
	f.run(t, `window.refresh_ui()`)

	if f.bridge.Refreshes != 1 {
		t.Errorf("Refreshes = %d, want 1", f.bridge.Refreshes)
	}
}

func TestWindowAddActionEmptyText(t *testing.T) {
	f := newFixture(t)

	if err := f.state.DoString(`window.add_action("", function() end)`); err == nil {
		t.Fatal("add_action with empty text did not raise")
	}
	if !errors.Is(f.window.LastError(), action.ErrEmptyText) {
		t.Errorf("LastError() = %v, want action.ErrEmptyText", f.window.LastError())
	}
	if len(f.bridge.MenuItems) != 0 {
		t.Errorf("bridge has %d menu items for a rejected action, want 0", len(f.bridge.MenuItems))
	}
}

func TestWindowAddActionCallbackError(t *testing.T) {
	f := newFixture(t)
	f.run(t, `window.add_action("Fails", function() error("callback broke") end)`)

	acts := f.actions.Actions(action.DefaultMenu)
	if len(acts) != 1 {
		t.Fatalf("registry has %d actions, want 1", len(acts))
	}

	err := acts[0].Invoke()
	if err == nil || !strings.Contains(err.Error(), "callback broke") {
		t.Errorf("Invoke() error = %v, want the callback's message", err)
	}
}

func TestWindowAddActionCustomMenu(t *testing.T) {
	f := newFixture(t)
	f.run(t, `window.add_action("Export", function() end, "writes a file", "Tools")`)

	acts := f.actions.Actions("Tools")
	if len(acts) != 1 {
		t.Fatalf("Tools menu has %d actions, want 1", len(acts))
	}
	if acts[0].Tooltip != "writes a file" {
		t.Errorf("Tooltip = %q", acts[0].Tooltip)
	}
	if len(f.bridge.MenuItems) != 1 || f.bridge.MenuItems[0].MenuTitle != "Tools" {
		t.Errorf("bridge menu items = %v, want one under Tools", f.bridge.MenuItems)
	}
}
