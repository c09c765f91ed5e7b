// Package layer owns the in-memory layer records displayed by the viewer.
//
// Layers are small host-resident data cubes. The store is not
// goroutine-safe by contract: all mutation happens on the UI goroutine,
// the same one that runs plugin registration and action callbacks.
package layer

// Layer is a named multi-band data array with open-schema metadata.
// Data is band-major: Data[band][row][col].
type Layer struct {
	Name      string
	Data      [][][]float64
	BandNames []string
	Metadata  map[string]any
}

// Bands returns the number of bands in the layer.
func (l *Layer) Bands() int {
	return len(l.Data)
}

// Height returns the number of rows in the layer.
func (l *Layer) Height() int {
	if len(l.Data) == 0 {
		return 0
	}
	return len(l.Data[0])
}

// Width returns the number of columns in the layer.
func (l *Layer) Width() int {
	if len(l.Data) == 0 || len(l.Data[0]) == 0 {
		return 0
	}
	return len(l.Data[0][0])
}

// View is a read-only snapshot of a layer's descriptive fields.
// Views are copies; mutating one never affects the store.
type View struct {
	Name      string
	BandNames []string
	Metadata  map[string]any
	Bands     int
	Height    int
	Width     int
}

// view builds a snapshot of the layer.
func (l *Layer) view() View {
	names := make([]string, len(l.BandNames))
	copy(names, l.BandNames)

	return View{
		Name:      l.Name,
		BandNames: names,
		Metadata:  cloneMetadata(l.Metadata),
		Bands:     l.Bands(),
		Height:    l.Height(),
		Width:     l.Width(),
	}
}

// cloneMetadata creates a deep copy of a metadata map.
func cloneMetadata(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}

	dst := make(map[string]any, len(src))
	for key, val := range src {
		switch v := val.(type) {
		case map[string]any:
			dst[key] = cloneMetadata(v)
		case []any:
			dst[key] = cloneMetadataSlice(v)
		default:
			dst[key] = val
		}
	}
	return dst
}

func cloneMetadataSlice(src []any) []any {
	if src == nil {
		return nil
	}

	dst := make([]any, len(src))
	for i, val := range src {
		switch v := val.(type) {
		case map[string]any:
			dst[i] = cloneMetadata(v)
		case []any:
			dst[i] = cloneMetadataSlice(v)
		default:
			dst[i] = val
		}
	}
	return dst
}
