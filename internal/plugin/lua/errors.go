package lua

import "errors"

// Lua runtime errors.
var (
	// ErrStateClosed is returned when using a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrNotAFunction is returned when calling a value that is not a
	// Lua function.
	ErrNotAFunction = errors.New("not a lua function")

	// ErrBadCube is returned when a Lua table cannot be decoded into a
	// rectangular numeric data cube.
	ErrBadCube = errors.New("data is not a numeric grid or cube")
)
