package layer

import "fmt"

// Store holds layers keyed by unique name, in insertion order.
type Store struct {
	byName map[string]*Layer
	order  []string
}

// NewStore creates an empty layer store.
func NewStore() *Store {
	return &Store{
		byName: make(map[string]*Layer),
	}
}

// Add validates and inserts a layer. On any validation failure the
// store is left unchanged. The store takes ownership of the layer;
// callers must not mutate it afterwards.
func (s *Store) Add(l Layer) error {
	if err := validate(&l); err != nil {
		return err
	}

	if _, exists := s.byName[l.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateName, l.Name)
	}

	s.byName[l.Name] = &l
	s.order = append(s.order, l.Name)
	return nil
}

// Find returns a view of the layer with the given name.
// The match is exact and case-sensitive.
func (s *Store) Find(name string) (View, bool) {
	l, ok := s.byName[name]
	if !ok {
		return View{}, false
	}
	return l.view(), true
}

// List returns views of all layers in insertion order.
func (s *Store) List() []View {
	views := make([]View, 0, len(s.order))
	for _, name := range s.order {
		views = append(views, s.byName[name].view())
	}
	return views
}

// Data returns the raw data cube for a layer. The host uses this when
// rendering; plugins only ever see views.
func (s *Store) Data(name string) ([][][]float64, bool) {
	l, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	return l.Data, true
}

// Len returns the number of layers.
func (s *Store) Len() int {
	return len(s.order)
}

// Clear removes all layers.
func (s *Store) Clear() {
	s.byName = make(map[string]*Layer)
	s.order = nil
}

// validate checks the layer invariants: non-empty name, at least one
// band, a rectangular cube, and a band name per band.
func validate(l *Layer) error {
	if l.Name == "" {
		return ErrEmptyName
	}

	if len(l.Data) == 0 {
		return ErrEmptyData
	}

	height := len(l.Data[0])
	width := 0
	if height > 0 {
		width = len(l.Data[0][0])
	}

	for b, band := range l.Data {
		if len(band) != height {
			return fmt.Errorf("%w: band %d has %d rows, want %d", ErrRaggedData, b, len(band), height)
		}
		for r, row := range band {
			if len(row) != width {
				return fmt.Errorf("%w: band %d row %d has %d columns, want %d", ErrRaggedData, b, r, len(row), width)
			}
		}
	}

	if len(l.BandNames) != len(l.Data) {
		return fmt.Errorf("%w: %d names for %d bands", ErrBandNameCount, len(l.BandNames), len(l.Data))
	}

	return nil
}
