package ui

// Recorder is a Bridge that records every call. Tests across the host
// and plugin packages use it to assert on bridge side effects.
type Recorder struct {
	Messages  []RecordedMessage
	MenuItems []RecordedMenuItem
	Refreshes int
}

// RecordedMessage is one ShowMessage call.
type RecordedMessage struct {
	Text  string
	Title string
}

// RecordedMenuItem is one AddMenuAction call.
type RecordedMenuItem struct {
	MenuTitle string
	Text      string
	Tooltip   string
	Invoke    func() error
}

// NewRecorder creates an empty recording bridge.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) ShowMessage(text, title string) {
	r.Messages = append(r.Messages, RecordedMessage{Text: text, Title: title})
}

func (r *Recorder) AddMenuAction(menuTitle, text, tooltip string, invoke func() error) {
	r.MenuItems = append(r.MenuItems, RecordedMenuItem{
		MenuTitle: menuTitle,
		Text:      text,
		Tooltip:   tooltip,
		Invoke:    invoke,
	})
}

func (r *Recorder) RequestRefresh() {
	r.Refreshes++
}
