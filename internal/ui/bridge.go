// Package ui defines the bridge between the plugin host and the
// window that actually renders menus, messages, and layers.
package ui

import "log/slog"

// Bridge is the adapter the host application implements to mutate its
// window. The facade delegates to it; plugins never hold one directly.
// All calls are made from the UI goroutine and must take effect or
// queue without the caller knowing rendering details.
type Bridge interface {
	// ShowMessage displays an informational message to the user.
	ShowMessage(text, title string)

	// AddMenuAction inserts an invocable entry into the named menu,
	// creating the menu if needed.
	AddMenuAction(menuTitle, text, tooltip string, invoke func() error)

	// RequestRefresh signals that the layer store or action registry
	// changed and visible state should be re-read.
	RequestRefresh()
}

// LogBridge is a headless Bridge that records UI calls to a logger.
// Used in headless mode and as a fallback when no terminal is attached.
type LogBridge struct {
	logger *slog.Logger
}

// NewLogBridge creates a bridge that logs to the given logger, or the
// default logger if nil.
func NewLogBridge(logger *slog.Logger) *LogBridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogBridge{logger: logger}
}

func (b *LogBridge) ShowMessage(text, title string) {
	b.logger.Info("message", "title", title, "text", text)
}

func (b *LogBridge) AddMenuAction(menuTitle, text, tooltip string, invoke func() error) {
	b.logger.Info("menu action added", "menu", menuTitle, "text", text, "tooltip", tooltip)
}

func (b *LogBridge) RequestRefresh() {
	b.logger.Debug("refresh requested")
}
