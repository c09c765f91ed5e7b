// Package api binds the host facade into a plugin's Lua state.
//
// The binding is the `window` table passed to each plugin's
// register(window) function. It carries exactly the narrow surface the
// facade exposes; there is no way to reach the rest of the application
// through it.
package api

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/hypril/hypril/internal/host"
	"github.com/hypril/hypril/internal/layer"
	plua "github.com/hypril/hypril/internal/plugin/lua"
)

// Window is the per-plugin handle. It pairs the plugin's Lua state with
// a facade over the shared registries and remembers the last facade
// error so the loader can attribute registration failures to their
// underlying cause.
type Window struct {
	state   *plua.State
	facade  *host.Facade
	lastErr error
}

// NewWindow creates a handle for one plugin.
func NewWindow(state *plua.State, facade *host.Facade) *Window {
	return &Window{state: state, facade: facade}
}

// LastError returns the facade error behind the most recent binding
// failure, or nil.
func (w *Window) LastError() error {
	return w.lastErr
}

// Build constructs the Lua table handed to register(window).
func (w *Window) Build() *lua.LTable {
	L := w.state.LuaState()

	t := L.NewTable()
	L.SetField(t, "list_layers", L.NewFunction(w.listLayers))
	L.SetField(t, "find_layer_by_name", L.NewFunction(w.findLayerByName))
	L.SetField(t, "add_layer", L.NewFunction(w.addLayer))
	L.SetField(t, "add_action", L.NewFunction(w.addAction))
	L.SetField(t, "show_message", L.NewFunction(w.showMessage))
	L.SetField(t, "refresh_ui", L.NewFunction(w.refreshUI))
	return t
}

// fail records the facade error and raises it as a Lua error, aborting
// the caller unless the plugin wrapped the call in pcall.
func (w *Window) fail(L *lua.LState, err error) int {
	w.lastErr = err
	L.RaiseError("%s", err.Error())
	return 0
}

func (w *Window) listLayers(L *lua.LState) int {
	w.lastErr = nil

	views := w.facade.ListLayers()
	t := L.NewTable()
	for _, v := range views {
		t.Append(viewToLua(L, v))
	}
	L.Push(t)
	return 1
}

func (w *Window) findLayerByName(L *lua.LState) int {
	w.lastErr = nil
	name := L.CheckString(1)

	v, ok := w.facade.FindLayerByName(name)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(viewToLua(L, v))
	return 1
}

func (w *Window) addLayer(L *lua.LState) int {
	w.lastErr = nil
	data := L.CheckTable(1)
	name := L.CheckString(2)

	cube, err := plua.DecodeCube(data)
	if err != nil {
		return w.fail(L, err)
	}
	bandNames, err := plua.DecodeStrings(L.Get(3))
	if err != nil {
		return w.fail(L, err)
	}
	metadata, err := plua.DecodeMetadata(L.Get(4))
	if err != nil {
		return w.fail(L, err)
	}

	if err := w.facade.AddLayer(cube, name, bandNames, metadata); err != nil {
		return w.fail(L, err)
	}
	return 0
}

func (w *Window) addAction(L *lua.LState) int {
	w.lastErr = nil
	text := L.CheckString(1)
	callback := L.CheckFunction(2)
	tooltip := L.OptString(3, "")
	menuTitle := L.OptString(4, "")

	invoke := func() error {
		return w.state.CallValue(callback)
	}
	if err := w.facade.AddAction(text, invoke, tooltip, menuTitle); err != nil {
		return w.fail(L, err)
	}
	return 0
}

func (w *Window) showMessage(L *lua.LState) int {
	w.lastErr = nil
	text := L.CheckString(1)
	title := L.OptString(2, "")

	w.facade.ShowMessage(text, title)
	return 0
}

func (w *Window) refreshUI(L *lua.LState) int {
	w.lastErr = nil
	w.facade.RefreshUI()
	return 0
}

// viewToLua renders a layer view as a plain Lua table. The table is a
// fresh copy every call; plugins mutating it change nothing.
func viewToLua(L *lua.LState, v layer.View) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "name", lua.LString(v.Name))
	L.SetField(t, "band_names", plua.ToLua(L, v.BandNames))
	if v.Metadata == nil {
		L.SetField(t, "metadata", L.NewTable())
	} else {
		L.SetField(t, "metadata", plua.ToLua(L, v.Metadata))
	}
	L.SetField(t, "bands", lua.LNumber(v.Bands))
	L.SetField(t, "height", lua.LNumber(v.Height))
	L.SetField(t, "width", lua.LNumber(v.Width))
	return t
}
