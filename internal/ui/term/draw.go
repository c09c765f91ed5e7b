package term

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

var (
	styleDefault  = tcell.StyleDefault
	styleBar      = tcell.StyleDefault.Reverse(true)
	styleSelected = tcell.StyleDefault.Bold(true).Reverse(true)
	styleOverlay  = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
)

// draw repaints the whole screen: menu bar, layer panel, status line,
// and the message overlay when one is active.
func (u *UI) draw() {
	u.screen.Clear()
	width, height := u.screen.Size()

	u.drawMenuBar(width)
	u.drawLayerPanel(width, height)
	u.drawStatusLine(width, height)
	if u.menuOpen {
		u.drawOpenMenu()
	}
	if u.message != nil {
		u.drawOverlay(width, height)
	}

	u.screen.Show()
}

func (u *UI) drawMenuBar(width int) {
	fill(u.screen, 0, 0, width, styleBar)

	x := 1
	for i, title := range u.actions.MenuTitles() {
		style := styleBar
		if u.menuOpen && i == u.menuIdx {
			style = styleSelected
		}
		x = puts(u.screen, x, 0, " "+title+" ", style)
	}
}

// drawOpenMenu renders the dropdown of the selected menu under the bar.
func (u *UI) drawOpenMenu() {
	items := u.selectedMenu()

	// Column where the selected title starts.
	x := 1
	for i, title := range u.actions.MenuTitles() {
		if i == u.menuIdx {
			break
		}
		x += len(title) + 2
	}

	widest := 0
	for _, a := range items {
		if len(a.Text) > widest {
			widest = len(a.Text)
		}
	}

	for i, a := range items {
		style := styleBar
		if i == u.itemIdx {
			style = styleSelected
		}
		puts(u.screen, x, 1+i, pad(" "+a.Text+" ", widest+2), style)
	}
}

func (u *UI) drawLayerPanel(width, height int) {
	views := u.layers.List()

	puts(u.screen, 1, 2, "Layers", styleDefault.Bold(true))
	if len(views) == 0 {
		puts(u.screen, 3, 3, "(none)", styleDefault)
		return
	}

	row := 3
	for _, v := range views {
		if row >= height-1 {
			break
		}
		line := fmt.Sprintf("%s  %d band(s)  %dx%d", v.Name, v.Bands, v.Width, v.Height)
		if cube, ok := u.layers.Data(v.Name); ok {
			lo, hi := cubeRange(cube)
			line += fmt.Sprintf("  [%.3g..%.3g]", lo, hi)
		}
		puts(u.screen, 3, row, line, styleDefault)
		row++
	}
}

// cubeRange returns the minimum and maximum sample in a cube. The
// store guarantees at least one band; an empty band yields zeros.
func cubeRange(cube [][][]float64) (lo, hi float64) {
	first := true
	for _, band := range cube {
		for _, row := range band {
			for _, v := range row {
				if first || v < lo {
					lo = v
				}
				if first || v > hi {
					hi = v
				}
				first = false
			}
		}
	}
	return lo, hi
}

func (u *UI) drawStatusLine(width, height int) {
	if height < 2 {
		return
	}
	fill(u.screen, 0, height-1, width, styleBar)
	status := fmt.Sprintf(" %d layer(s)  m: menu  q: quit", u.layers.Len())
	puts(u.screen, 0, height-1, status, styleBar)
}

// drawOverlay centers the active message in a bordered box.
func (u *UI) drawOverlay(width, height int) {
	text, title := u.message.text, u.message.title

	boxW := len(text) + 4
	if t := len(title) + 4; t > boxW {
		boxW = t
	}
	if boxW > width {
		boxW = width
	}
	boxH := 5

	left := (width - boxW) / 2
	top := (height - boxH) / 2
	if left < 0 {
		left = 0
	}
	if top < 0 {
		top = 0
	}

	for y := top; y < top+boxH && y < height; y++ {
		for x := left; x < left+boxW && x < width; x++ {
			u.screen.SetContent(x, y, ' ', nil, styleOverlay)
		}
	}

	puts(u.screen, left+2, top, title, styleOverlay.Bold(true))
	puts(u.screen, left+2, top+2, clip(text, boxW-4), styleOverlay)
	puts(u.screen, left+2, top+4, "press any key", styleOverlay.Dim(true))
}

// puts writes a string and returns the x position after it.
func puts(s tcell.Screen, x, y int, text string, style tcell.Style) int {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}

// fill paints one row with spaces.
func fill(s tcell.Screen, x, y, width int, style tcell.Style) {
	for ; x < width; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
}

func pad(text string, width int) string {
	for len(text) < width {
		text += " "
	}
	return text
}

func clip(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if len(text) <= width {
		return text
	}
	if width <= 3 {
		return text[:width]
	}
	return text[:width-3] + "..."
}
