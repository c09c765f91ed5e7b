package host

import "errors"

// ErrValidation is returned when a facade input violates a layer or
// action invariant. The underlying cause (duplicate name, band-count
// mismatch, empty label) is wrapped and reachable with errors.Is.
var ErrValidation = errors.New("validation failed")
