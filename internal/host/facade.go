// Package host provides the narrow capability facade handed to
// plugin code. It is the only surface plugins use to reach
// application state.
package host

import (
	"fmt"

	"github.com/hypril/hypril/internal/action"
	"github.com/hypril/hypril/internal/layer"
	"github.com/hypril/hypril/internal/ui"
)

// DefaultMessageTitle is the title used when a plugin shows a message
// without naming one.
const DefaultMessageTitle = "HYPRIL"

// Facade narrows the application surface to the operations plugins may
// perform. One facade is built per plugin; all facades share the same
// live layer store, action registry, and bridge. A facade owns no data.
type Facade struct {
	layers  *layer.Store
	actions *action.Registry
	bridge  ui.Bridge
}

// NewFacade creates a facade bound to the shared registries and bridge.
func NewFacade(layers *layer.Store, actions *action.Registry, bridge ui.Bridge) *Facade {
	return &Facade{
		layers:  layers,
		actions: actions,
		bridge:  bridge,
	}
}

// ListLayers returns read-only snapshots of the current layers in
// insertion order. Mutating a returned view does not affect the store.
func (f *Facade) ListLayers() []layer.View {
	return f.layers.List()
}

// FindLayerByName returns a snapshot of the named layer. The match is
// exact and case-sensitive; a missing layer is not an error.
func (f *Facade) FindLayerByName(name string) (layer.View, bool) {
	return f.layers.Find(name)
}

// AddLayer validates and inserts a small in-memory layer. Band names
// may be nil, in which case "Band 1".."Band N" are generated. A name
// collision is rejected rather than overwritten. Data is band-major.
//
// This path is for small host-resident arrays only; it is not designed
// for large or streamed data. That guidance is a usage contract, not an
// enforced limit.
func (f *Facade) AddLayer(data [][][]float64, name string, bandNames []string, metadata map[string]any) error {
	if bandNames == nil {
		bandNames = make([]string, len(data))
		for i := range bandNames {
			bandNames[i] = fmt.Sprintf("Band %d", i+1)
		}
	}

	err := f.layers.Add(layer.Layer{
		Name:      name,
		Data:      data,
		BandNames: bandNames,
		Metadata:  metadata,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nil
}

// AddAction appends a menu action and delegates the menu insertion to
// the bridge. An empty menu title means the default "Plugins" menu.
// No deduplication: registering the same label twice yields two
// distinct entries, in call order.
func (f *Facade) AddAction(text string, invoke func() error, tooltip, menuTitle string) error {
	a, err := f.actions.Append(action.Action{
		Text:      text,
		Tooltip:   tooltip,
		MenuTitle: menuTitle,
		Invoke:    invoke,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	f.bridge.AddMenuAction(a.MenuTitle, a.Text, a.Tooltip, a.Invoke)
	return nil
}

// ShowMessage displays an informational message via the bridge.
// Fire-and-forget; an empty title means DefaultMessageTitle.
func (f *Facade) ShowMessage(text, title string) {
	if title == "" {
		title = DefaultMessageTitle
	}
	f.bridge.ShowMessage(text, title)
}

// RefreshUI asks the bridge to re-read the layer store and action
// registry. The facade never calls it implicitly: a plugin batching
// several mutations decides when the one refresh happens.
func (f *Facade) RefreshUI() {
	f.bridge.RequestRefresh()
}
