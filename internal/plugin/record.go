// Package plugin discovers viewer extensions in a directory, runs each
// in its own sandboxed Lua state, and calls its register entrypoint
// with a narrow window handle. One plugin's failure never aborts the
// rest; every candidate leaves a diagnostic record.
package plugin

// Status is the load outcome for one discovered plugin source.
type Status int

const (
	// StatusLoaded - the script ran and register returned cleanly.
	StatusLoaded Status = iota

	// StatusFailedToImport - the script could not be run (syntax or
	// top-level runtime error).
	StatusFailedToImport

	// StatusMissingEntrypoint - the script defines no register function.
	StatusMissingEntrypoint

	// StatusFailedToRegister - register (or a facade call inside it)
	// raised an error.
	StatusFailedToRegister
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusLoaded:
		return "loaded"
	case StatusFailedToImport:
		return "failed to import"
	case StatusMissingEntrypoint:
		return "missing entrypoint"
	case StatusFailedToRegister:
		return "failed to register"
	default:
		return "unknown"
	}
}

// Record is the diagnostic outcome for one candidate, created once at
// load time and never mutated. Err is nil exactly when Status is
// StatusLoaded.
type Record struct {
	// Source is the candidate's filename within the plugin directory.
	Source string

	// Name is the plugin name: the filename without its extension.
	Name string

	// Status is the load outcome.
	Status Status

	// Err carries the failure detail for a non-Loaded status.
	Err error
}

// Failed reports whether the plugin did not finish registration.
func (r Record) Failed() bool {
	return r.Status != StatusLoaded
}
