package main

import (
	"context"
	"unicode/utf8"

	"github.com/nsf/termbox-go"

	"gotiles/display"
	"gotiles/mapknow"
	"gotiles/monlist"
)

// termView draws the primary view and the monster panel in a terminal.
// All calls come from the session goroutine.
type termView struct {
	radius int

	cells      map[mapknow.Loc]display.CellView
	center     mapknow.Loc
	haveCenter bool
	rows       []panelRow
}

func newTermView(radius int) *termView {
	return &termView{
		radius: radius,
		cells:  make(map[mapknow.Loc]display.CellView),
	}
}

func termColour(i int) termbox.Attribute {
	if i < 0 {
		i = 0
	}
	a := termbox.Attribute(i%8) + termbox.ColorBlack
	if i%16 >= 8 {
		a |= termbox.AttrBold
	}
	return a
}

var termClassColours = map[string]termbox.Attribute{
	"trivial":        termbox.ColorWhite,
	"easy":           termbox.ColorWhite | termbox.AttrBold,
	"tough":          termbox.ColorYellow | termbox.AttrBold,
	"nasty":          termbox.ColorRed | termbox.AttrBold,
	"friendly":       termbox.ColorGreen,
	"neutral":        termbox.ColorBlue | termbox.AttrBold,
	"good_neutral":   termbox.ColorCyan,
	"strict_neutral": termbox.ColorMagenta,
}

func (v *termView) window() mapknow.Bounds {
	return mapknow.Around(v.center, v.radius)
}

func (v *termView) DrawCell(c display.CellView) {
	v.cells[c.Loc] = c
	if !v.haveCenter {
		v.SetCenter(c.Loc)
		return
	}
	v.put(c)
}

func (v *termView) put(c display.CellView) {
	w := v.window()
	if !w.Contains(c.Loc) {
		return
	}
	ch := ' '
	if c.Glyph != "" {
		ch, _ = utf8.DecodeRuneInString(c.Glyph)
	}
	fg := termColour(c.Colour)
	if !c.Visible && c.Terrain != nil {
		fg = termbox.ColorBlack | termbox.AttrBold
	}
	bg := termbox.ColorDefault
	if len(c.Cursors) > 0 {
		fg |= termbox.AttrReverse
	}
	if len(c.Overlays) > 0 {
		fg |= termbox.AttrUnderline
	}
	if c.Flash != 0 {
		bg = termColour(c.Flash) &^ termbox.AttrBold
	}
	termbox.SetCell(c.Loc.X-w.Left, c.Loc.Y-w.Top, ch, fg, bg)
}

func (v *termView) SetCenter(l mapknow.Loc) {
	v.center, v.haveCenter = l, true
	termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)
	for _, c := range v.cells {
		v.put(c)
	}
	v.drawPanel()
}

func (v *termView) Reset() {
	v.cells = make(map[mapknow.Loc]display.CellView)
	v.haveCenter = false
	v.rows = nil
	termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)
}

func (v *termView) Render(groups []monlist.Group) {
	v.rows = panelRows(groups)
	v.drawPanel()
}

func (v *termView) drawPanel() {
	x0 := 2*v.radius + 3
	w, h := termbox.Size()
	for y := 0; y < h; y++ {
		for x := x0; x < w; x++ {
			termbox.SetCell(x, y, ' ', termbox.ColorDefault, termbox.ColorDefault)
		}
	}
	for i, r := range v.rows {
		if i >= h {
			break
		}
		fg, ok := termClassColours[r.Class]
		if !ok {
			fg = termbox.ColorDefault
		}
		termPrint(x0, i, r.Text, fg)
	}
	for i, n := range getNotices() {
		y := 2*v.radius + 2 + i
		if y >= h {
			break
		}
		termPrint(0, y, n, termbox.ColorDefault)
	}
}

func termPrint(x, y int, s string, fg termbox.Attribute) {
	for _, r := range s {
		termbox.SetCell(x, y, r, fg, termbox.ColorDefault)
		x++
	}
}

// Tick flushes the back buffer once per display pass.
func (v *termView) Tick() {
	if err := termbox.Flush(); err != nil {
		logDebug("termbox flush: %v", err)
	}
}

// openTerm takes over the terminal. The returned func restores it.
func openTerm() (func(), error) {
	if err := termbox.Init(); err != nil {
		return nil, err
	}
	termbox.SetInputMode(termbox.InputEsc)
	return termbox.Close, nil
}

// pollTerm handles terminal input until ctx is done. q, Esc and Ctrl-C
// call cancel. termbox must already be initialised.
func pollTerm(ctx context.Context, cancel context.CancelFunc) {
	go func() {
		<-ctx.Done()
		termbox.Interrupt()
	}()
	for {
		ev := termbox.PollEvent()
		switch ev.Type {
		case termbox.EventInterrupt:
			return
		case termbox.EventError:
			logError("terminal: %v", ev.Err)
			cancel()
			return
		case termbox.EventKey:
			if ev.Key == termbox.KeyEsc || ev.Key == termbox.KeyCtrlC || ev.Ch == 'q' {
				cancel()
			}
		}
	}
}
