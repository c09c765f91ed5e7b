package plugin

import "errors"

// Plugin system errors.
var (
	// ErrMissingEntrypoint is recorded when a script defines no
	// register function.
	ErrMissingEntrypoint = errors.New("plugin has no entrypoint")

	// ErrManagerClosed is returned when loading through a closed manager.
	ErrManagerClosed = errors.New("plugin manager is closed")
)
