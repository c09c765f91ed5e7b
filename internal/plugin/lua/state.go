// Package lua wraps gopher-lua for running viewer plugins.
//
// Each plugin script runs in its own State with a reduced standard
// library: io, os, debug, and package are never opened, so a plugin
// cannot reach the filesystem or spawn processes through Lua stdlib.
// This reduces surface area only; plugins still run in-process and
// must be trusted.
package lua

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// State is a sandboxed Lua interpreter for one plugin.
//
// gopher-lua's LState is not goroutine-safe. The host runs all plugin
// code on the UI goroutine (script execution, register calls, and later
// action callbacks), so State performs no locking of its own.
type State struct {
	L      *lua.LState
	closed bool
}

// NewState creates a Lua state with only the safe libraries opened.
func NewState() *State {
	L := lua.NewState(lua.Options{
		SkipOpenLibs: true,
	})

	// Base gives print, type, pairs, pcall. Table, string, and math
	// cover what layer-manipulating plugins need. io, os, debug, and
	// package stay closed.
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	return &State{L: L}
}

// DoFile runs a Lua script. Execution is synchronous and panics inside
// the interpreter are converted to errors.
func (s *State) DoFile(path string) error {
	if s.closed {
		return ErrStateClosed
	}
	return s.recovering(func() error {
		return s.L.DoFile(path)
	})
}

// DoString runs Lua source. Used by tests and the template validator.
func (s *State) DoString(code string) error {
	if s.closed {
		return ErrStateClosed
	}
	return s.recovering(func() error {
		return s.L.DoString(code)
	})
}

// Global returns the value of a global variable.
func (s *State) Global(name string) lua.LValue {
	if s.closed {
		return lua.LNil
	}
	return s.L.GetGlobal(name)
}

// SetGlobal sets a global variable.
func (s *State) SetGlobal(name string, value lua.LValue) {
	if s.closed {
		return
	}
	s.L.SetGlobal(name, value)
}

// HasFunction reports whether a global with the given name exists and
// is callable.
func (s *State) HasFunction(name string) bool {
	if s.closed {
		return false
	}
	return s.L.GetGlobal(name).Type() == lua.LTFunction
}

// CallGlobal calls a global function by name.
func (s *State) CallGlobal(name string, args ...lua.LValue) error {
	if s.closed {
		return ErrStateClosed
	}

	fn := s.L.GetGlobal(name)
	if fn.Type() != lua.LTFunction {
		return fmt.Errorf("%w: %q", ErrNotAFunction, name)
	}
	return s.CallValue(fn, args...)
}

// CallValue calls a Lua function value. Action callbacks are stored as
// values and re-entered through here long after registration.
func (s *State) CallValue(fn lua.LValue, args ...lua.LValue) error {
	if s.closed {
		return ErrStateClosed
	}
	if fn.Type() != lua.LTFunction {
		return ErrNotAFunction
	}

	return s.recovering(func() error {
		s.L.Push(fn)
		for _, arg := range args {
			s.L.Push(arg)
		}
		return s.L.PCall(len(args), 0, nil)
	})
}

// IsClosed reports whether Close has been called.
func (s *State) IsClosed() bool {
	return s.closed
}

// Close releases the interpreter. Further calls return ErrStateClosed.
func (s *State) Close() {
	if s.closed {
		return
	}
	s.L.Close()
	s.closed = true
}

// LuaState exposes the underlying LState for the api bindings.
func (s *State) LuaState() *lua.LState {
	return s.L
}

// recovering converts interpreter panics into errors so a broken
// plugin cannot take down the host.
func (s *State) recovering(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}
