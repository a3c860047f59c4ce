package main

import (
	"image/color"
	"math"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/ha1tch/pie-toolkit/pkg/pie"
	"github.com/ha1tch/pie-toolkit/pkg/scene"
)

// Styles
var (
	styleDefault  = tcell.StyleDefault
	styleStatus   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgInfo  = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgError = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleHelp     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleLabel    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
)

// Each cell holds two pixels stacked vertically, drawn with half blocks.
const (
	upperHalf = '▀'
	lowerHalf = '▄'
)

func (v *Viewer) draw() {
	v.screen.Clear()
	w, h := v.screen.Size()

	if v.player != nil {
		v.drawChart(v.player.Frame(), w, h-2)
	}
	v.drawStatusBar(w, h)
}

func (v *Viewer) drawChart(f scene.Frame, w, h int) {
	for cy := 0; cy < h; cy++ {
		for cx := 0; cx < w; cx++ {
			if r, style, ok := cellContent(f, cx, cy); ok {
				v.screen.SetContent(cx, cy, r, nil, style)
			}
		}
	}

	for _, l := range placeLabels(f) {
		if l.y < 0 || l.y >= h {
			continue
		}
		style := styleLabel
		if c, ok := f.ColorAt(l.at); ok {
			style = style.Background(rgb(c))
		}
		v.drawString(l.x, l.y, l.text, style)
	}
}

// cellContent returns the half block and style for cell (cx, cy), with
// ok false when neither of its pixels is covered by an arc.
func cellContent(f scene.Frame, cx, cy int) (r rune, style tcell.Style, ok bool) {
	x := float64(cx) + 0.5
	top, tok := f.ColorAt(pie.Point{X: x, Y: float64(2*cy) + 0.5})
	bottom, bok := f.ColorAt(pie.Point{X: x, Y: float64(2*cy) + 1.5})
	switch {
	case tok && bok:
		return upperHalf, styleDefault.Foreground(rgb(top)).Background(rgb(bottom)), true
	case tok:
		return upperHalf, styleDefault.Foreground(rgb(top)), true
	case bok:
		return lowerHalf, styleDefault.Foreground(rgb(bottom)), true
	}
	return ' ', styleDefault, false
}

type placedLabel struct {
	x, y int
	at   pie.Point
	text string
}

// placeLabels converts visible labels to cell positions, centering each
// text on its anchor by display width.
func placeLabels(f scene.Frame) []placedLabel {
	var out []placedLabel
	for _, l := range f.VisibleLabels() {
		width := runewidth.StringWidth(l.Text)
		out = append(out, placedLabel{
			x:    int(math.Round(l.At.X)) - width/2,
			y:    int(l.At.Y / 2),
			at:   l.At,
			text: l.Text,
		})
	}
	return out
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func (v *Viewer) drawStatusBar(w, h int) {
	y := h - 1

	// Background
	for x := 0; x < w; x++ {
		v.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	// File info
	fileInfo := "[demo]"
	if v.filename != "" {
		fileInfo = filepath.Base(v.filename)
	}
	if v.paused {
		fileInfo += " (paused)"
	}
	v.drawString(1, y, fileInfo, styleStatus)

	// Sequencer state
	if v.player != nil {
		status := v.player.Chart.Status()
		v.drawString(w/2-runewidth.StringWidth(status)/2, y, status, styleStatus)
	}

	// Message
	if v.message != "" {
		style := styleMsgInfo
		if v.messageType == MsgError {
			style = styleMsgError
		}
		v.drawString(w-runewidth.StringWidth(v.message)-2, y, v.message, style)
	}

	// Help bar
	y = h - 2
	for x := 0; x < w; x++ {
		v.screen.SetContent(x, y, ' ', nil, styleDefault)
	}
	v.drawString(1, y, v.helpString(), styleHelp)
}

func (v *Viewer) helpString() string {
	labels := "at end"
	if v.config.LabelReveal == "slice" {
		labels = "per slice"
	}
	return "R/Space:Replay  P:Pause  L:Labels (" + labels + ")  Q/Esc:Quit"
}

func (v *Viewer) drawString(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		v.screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}
