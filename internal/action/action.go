// Package action owns the menu action records contributed by plugins.
package action

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// DefaultMenu is the menu title used when a plugin does not name one.
const DefaultMenu = "Plugins"

// ErrEmptyText is returned when an action has no display label.
var ErrEmptyText = errors.New("action text is empty")

// Action is a labeled callback surfaced in a named menu. Records are
// immutable after registration. The callback is opaque to the host: it
// wraps whatever the registering plugin supplied.
type Action struct {
	ID        string
	Text      string
	Tooltip   string
	MenuTitle string
	Invoke    func() error
}

// Registry groups actions by menu title, preserving registration order
// within each menu and across menu titles. Like the layer store it is
// single-goroutine by contract.
type Registry struct {
	byMenu    map[string][]Action
	menuOrder []string
}

// NewRegistry creates an empty action registry.
func NewRegistry() *Registry {
	return &Registry{
		byMenu: make(map[string][]Action),
	}
}

// Append registers an action under its menu title and returns the
// stored record with its generated ID. Duplicate labels are allowed;
// every call appends a distinct record.
func (r *Registry) Append(a Action) (Action, error) {
	if a.Text == "" {
		return Action{}, ErrEmptyText
	}
	if a.MenuTitle == "" {
		a.MenuTitle = DefaultMenu
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}

	if _, exists := r.byMenu[a.MenuTitle]; !exists {
		r.menuOrder = append(r.menuOrder, a.MenuTitle)
	}
	r.byMenu[a.MenuTitle] = append(r.byMenu[a.MenuTitle], a)
	return a, nil
}

// Actions returns the actions registered under a menu title, in
// registration order. The returned slice is a copy.
func (r *Registry) Actions(menuTitle string) []Action {
	src := r.byMenu[menuTitle]
	out := make([]Action, len(src))
	copy(out, src)
	return out
}

// MenuTitles returns the menu titles in first-registration order.
func (r *Registry) MenuTitles() []string {
	out := make([]string, len(r.menuOrder))
	copy(out, r.menuOrder)
	return out
}

// Find returns the action with the given ID.
func (r *Registry) Find(id string) (Action, bool) {
	for _, menu := range r.byMenu {
		for _, a := range menu {
			if a.ID == id {
				return a, true
			}
		}
	}
	return Action{}, false
}

// Len returns the total number of registered actions.
func (r *Registry) Len() int {
	n := 0
	for _, menu := range r.byMenu {
		n += len(menu)
	}
	return n
}

// Reset removes all actions. Used when the host rebuilds its menus
// from scratch.
func (r *Registry) Reset() {
	r.byMenu = make(map[string][]Action)
	r.menuOrder = nil
}

// String implements fmt.Stringer for diagnostics.
func (a Action) String() string {
	return fmt.Sprintf("%s (%s)", a.Text, a.MenuTitle)
}
