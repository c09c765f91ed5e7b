// Package term renders the viewer shell in a terminal with tcell.
//
// It implements ui.Bridge for the plugin system: contributed menu
// actions appear in the menu bar, show_message becomes a modal
// overlay, and refresh requests schedule a redraw on the UI loop.
package term

import (
	"log/slog"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/hypril/hypril/internal/action"
	"github.com/hypril/hypril/internal/layer"
)

// refreshEvent wakes the event loop for a redraw.
type refreshEvent struct {
	tcell.EventTime
}

// messageEvent carries a message posted from another goroutine onto
// the event loop, which owns the overlay state.
type messageEvent struct {
	tcell.EventTime
	text  string
	title string
}

// UI is the terminal shell. Before Run starts, all methods must be
// called from the UI goroutine; the plugin system shares that
// goroutine by contract. While Run is active, ShowMessage,
// RequestRefresh, and Stop are safe from other goroutines: they post
// events instead of touching loop state.
type UI struct {
	screen  tcell.Screen
	layers  *layer.Store
	actions *action.Registry
	logger  *slog.Logger

	// message is the active modal overlay, nil when dismissed.
	message *overlayMessage

	// menuIdx/itemIdx track the menu bar selection.
	menuOpen bool
	menuIdx  int
	itemIdx  int

	running atomic.Bool
}

type overlayMessage struct {
	text  string
	title string
}

// Option configures the UI.
type Option func(*UI)

// WithLogger sets the diagnostics logger.
func WithLogger(logger *slog.Logger) Option {
	return func(u *UI) {
		if logger != nil {
			u.logger = logger
		}
	}
}

// New creates a terminal UI over an initialized tcell screen. Tests
// pass a simulation screen; cmd/hypril passes the real terminal.
func New(screen tcell.Screen, layers *layer.Store, actions *action.Registry, opts ...Option) *UI {
	u := &UI{
		screen:  screen,
		layers:  layers,
		actions: actions,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// ShowMessage displays a modal overlay until the user dismisses it.
// A running loop receives the message as an event so the overlay state
// stays owned by the loop goroutine.
func (u *UI) ShowMessage(text, title string) {
	if u.running.Load() {
		_ = u.screen.PostEvent(&messageEvent{text: text, title: title})
		return
	}
	u.message = &overlayMessage{text: text, title: title}
	u.draw()
}

// AddMenuAction is called by the plugin facade when an action is
// registered. The registry already holds the record; the bar just
// needs a redraw to pick it up.
func (u *UI) AddMenuAction(menuTitle, text, tooltip string, invoke func() error) {
	u.draw()
}

// RequestRefresh schedules a redraw. Safe to call before Run; the
// first draw happens when the loop starts.
func (u *UI) RequestRefresh() {
	if u.running.Load() {
		_ = u.screen.PostEvent(&refreshEvent{})
		return
	}
	u.draw()
}

// Run drives the event loop until the user quits. The screen must
// already be initialized.
func (u *UI) Run() {
	u.running.Store(true)
	defer u.running.Store(false)

	u.draw()
	for {
		ev := u.screen.PollEvent()
		if ev == nil {
			return
		}

		switch ev := ev.(type) {
		case *tcell.EventInterrupt:
			return
		case *tcell.EventResize:
			u.screen.Sync()
			u.draw()
		case *refreshEvent:
			u.draw()
		case *messageEvent:
			u.message = &overlayMessage{text: ev.text, title: ev.title}
			u.draw()
		case *tcell.EventKey:
			if !u.handleKey(ev) {
				return
			}
		}
	}
}

// Stop asks a running loop to return. Safe from other goroutines.
func (u *UI) Stop() {
	_ = u.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// handleKey returns false when the user quits.
func (u *UI) handleKey(ev *tcell.EventKey) bool {
	// A visible message swallows all input until dismissed.
	if u.message != nil {
		u.message = nil
		u.draw()
		return true
	}

	switch {
	case ev.Key() == tcell.KeyCtrlC, ev.Rune() == 'q':
		return false
	case ev.Key() == tcell.KeyEscape:
		if u.menuOpen {
			u.menuOpen = false
			u.draw()
			return true
		}
		return false
	case ev.Rune() == 'm', ev.Key() == tcell.KeyF10:
		u.menuOpen = !u.menuOpen
		u.itemIdx = 0
	case !u.menuOpen:
		return true
	case ev.Key() == tcell.KeyLeft:
		u.moveMenu(-1)
	case ev.Key() == tcell.KeyRight:
		u.moveMenu(1)
	case ev.Key() == tcell.KeyUp:
		u.moveItem(-1)
	case ev.Key() == tcell.KeyDown:
		u.moveItem(1)
	case ev.Key() == tcell.KeyEnter:
		u.invokeSelected()
	}

	u.draw()
	return true
}

func (u *UI) moveMenu(delta int) {
	titles := u.actions.MenuTitles()
	if len(titles) == 0 {
		return
	}
	u.menuIdx = (u.menuIdx + delta + len(titles)) % len(titles)
	u.itemIdx = 0
}

func (u *UI) moveItem(delta int) {
	items := u.selectedMenu()
	if len(items) == 0 {
		return
	}
	u.itemIdx = (u.itemIdx + delta + len(items)) % len(items)
}

// selectedMenu returns the actions of the highlighted menu.
func (u *UI) selectedMenu() []action.Action {
	titles := u.actions.MenuTitles()
	if len(titles) == 0 {
		return nil
	}
	if u.menuIdx >= len(titles) {
		u.menuIdx = 0
	}
	return u.actions.Actions(titles[u.menuIdx])
}

// invokeSelected runs the highlighted action's callback. Callback
// errors surface as a message overlay, matching how registration
// failures never crash the viewer.
func (u *UI) invokeSelected() {
	items := u.selectedMenu()
	if u.itemIdx >= len(items) {
		return
	}
	a := items[u.itemIdx]
	u.menuOpen = false

	if err := a.Invoke(); err != nil {
		u.logger.Warn("action failed", "action", a.Text, "error", err)
		u.message = &overlayMessage{text: err.Error(), title: "Plugin Error"}
	}
}
