package host

import (
	"errors"
	"testing"

	"github.com/hypril/hypril/internal/action"
	"github.com/hypril/hypril/internal/layer"
	"github.com/hypril/hypril/internal/ui"
)

func newFacade() (*Facade, *layer.Store, *action.Registry, *ui.Recorder) {
	layers := layer.NewStore()
	actions := action.NewRegistry()
	rec := ui.NewRecorder()
	return NewFacade(layers, actions, rec), layers, actions, rec
}

func grid(bands, h, w int) [][][]float64 {
	data := make([][][]float64, bands)
	for b := range data {
		data[b] = make([][]float64, h)
		for r := range data[b] {
			data[b][r] = make([]float64, w)
		}
	}
	return data
}

func TestFacadeAddLayer(t *testing.T) {
	f, layers, _, _ := newFacade()

	err := f.AddLayer(grid(3, 2, 2), "sample", []string{"R", "G", "B"}, map[string]any{"origin": "test"})
	if err != nil {
		t.Fatalf("AddLayer() error = %v", err)
	}

	if layers.Len() != 1 {
		t.Errorf("store has %d layers, want 1", layers.Len())
	}
}

func TestFacadeAddLayerGeneratedBandNames(t *testing.T) {
	f, _, _, _ := newFacade()

	if err := f.AddLayer(grid(2, 1, 1), "auto", nil, nil); err != nil {
		t.Fatalf("AddLayer() error = %v", err)
	}

	v, ok := f.FindLayerByName("auto")
	if !ok {
		t.Fatal("FindLayerByName() missed inserted layer")
	}
	if v.BandNames[0] != "Band 1" || v.BandNames[1] != "Band 2" {
		t.Errorf("BandNames = %v, want generated Band 1, Band 2", v.BandNames)
	}
}

func TestFacadeAddLayerBandMismatch(t *testing.T) {
	f, layers, _, _ := newFacade()

	err := f.AddLayer(grid(3, 2, 2), "bad", []string{"only", "two"}, nil)
	if !errors.Is(err, ErrValidation) {
		t.Errorf("AddLayer() error = %v, want ErrValidation", err)
	}
	if !errors.Is(err, layer.ErrBandNameCount) {
		t.Errorf("AddLayer() error = %v, want wrapped ErrBandNameCount", err)
	}
	if layers.Len() != 0 {
		t.Errorf("store has %d layers after failed AddLayer, want 0", layers.Len())
	}
}

func TestFacadeAddLayerDuplicate(t *testing.T) {
	f, _, _, _ := newFacade()

	if err := f.AddLayer(grid(1, 1, 1), "dup", nil, nil); err != nil {
		t.Fatalf("AddLayer() error = %v", err)
	}

	err := f.AddLayer(grid(1, 1, 1), "dup", nil, nil)
	if !errors.Is(err, ErrValidation) || !errors.Is(err, layer.ErrDuplicateName) {
		t.Errorf("AddLayer() error = %v, want ErrValidation wrapping ErrDuplicateName", err)
	}
}

func TestFacadeListLayersSnapshot(t *testing.T) {
	f, _, _, _ := newFacade()

	if err := f.AddLayer(grid(1, 1, 1), "snap", []string{"b"}, nil); err != nil {
		t.Fatalf("AddLayer() error = %v", err)
	}

	views := f.ListLayers()
	views[0].BandNames[0] = "mutated"

	if f.ListLayers()[0].BandNames[0] != "b" {
		t.Error("ListLayers() aliased store internals")
	}
}

func TestFacadeAddAction(t *testing.T) {
	f, _, actions, rec := newFacade()

	cb := func() error { return nil }
	if err := f.AddAction("X", cb, "", ""); err != nil {
		t.Fatalf("AddAction() error = %v", err)
	}
	if err := f.AddAction("X", cb, "", ""); err != nil {
		t.Fatalf("AddAction() error = %v", err)
	}

	got := actions.Actions(action.DefaultMenu)
	if len(got) != 2 {
		t.Fatalf("registry has %d actions under %q, want 2", len(got), action.DefaultMenu)
	}
	if got[0].ID == got[1].ID {
		t.Error("duplicate labels produced one record, want two distinct records")
	}

	if len(rec.MenuItems) != 2 {
		t.Errorf("bridge saw %d menu insertions, want 2", len(rec.MenuItems))
	}
	if rec.MenuItems[0].MenuTitle != action.DefaultMenu {
		t.Errorf("bridge menu = %q, want %q", rec.MenuItems[0].MenuTitle, action.DefaultMenu)
	}
}

func TestFacadeAddActionEmptyText(t *testing.T) {
	f, _, actions, rec := newFacade()

	err := f.AddAction("", func() error { return nil }, "", "")
	if !errors.Is(err, ErrValidation) {
		t.Errorf("AddAction() error = %v, want ErrValidation", err)
	}
	if actions.Len() != 0 {
		t.Errorf("registry has %d actions after failed AddAction, want 0", actions.Len())
	}
	if len(rec.MenuItems) != 0 {
		t.Error("bridge saw a menu insertion for a rejected action")
	}
}

func TestFacadeShowMessageDefaultTitle(t *testing.T) {
	f, _, _, rec := newFacade()

	f.ShowMessage("hello", "")
	f.ShowMessage("custom", "Harness")

	if len(rec.Messages) != 2 {
		t.Fatalf("bridge saw %d messages, want 2", len(rec.Messages))
	}
	if rec.Messages[0].Title != DefaultMessageTitle {
		t.Errorf("default title = %q, want %q", rec.Messages[0].Title, DefaultMessageTitle)
	}
	if rec.Messages[1].Title != "Harness" {
		t.Errorf("title = %q, want %q", rec.Messages[1].Title, "Harness")
	}
}

func TestFacadeRefreshExplicitOnly(t *testing.T) {
	f, _, _, rec := newFacade()

	if err := f.AddLayer(grid(1, 1, 1), "x", nil, nil); err != nil {
		t.Fatalf("AddLayer() error = %v", err)
	}
	if err := f.AddAction("a", func() error { return nil }, "", ""); err != nil {
		t.Fatalf("AddAction() error = %v", err)
	}
	if rec.Refreshes != 0 {
		t.Errorf("bridge saw %d refreshes without RefreshUI, want 0", rec.Refreshes)
	}

	f.RefreshUI()
	if rec.Refreshes != 1 {
		t.Errorf("bridge saw %d refreshes, want 1", rec.Refreshes)
	}
}
