package layer

import "errors"

// Layer store errors.
var (
	// ErrEmptyName is returned when a layer has no name.
	ErrEmptyName = errors.New("layer name is empty")

	// ErrDuplicateName is returned when a layer name is already taken.
	// Existing layers are never overwritten.
	ErrDuplicateName = errors.New("layer name already exists")

	// ErrEmptyData is returned when a layer has no bands.
	ErrEmptyData = errors.New("layer has no data")

	// ErrBandNameCount is returned when the band-name count does not
	// match the number of bands in the data.
	ErrBandNameCount = errors.New("band name count does not match band count")

	// ErrRaggedData is returned when bands or rows have inconsistent sizes.
	ErrRaggedData = errors.New("layer data is not rectangular")
)
