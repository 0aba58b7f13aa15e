package main

import (
	"context"
	"image/color"
	"sort"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	text "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"gotiles/display"
	"gotiles/mapknow"
	"gotiles/monlist"
)

const (
	panelWidth   = 260
	minimapScale = 2
	minimapSize  = 160
	lineHeight   = 14
)

var glyphFace = text.NewGoXFace(basicfont.Face7x13)

// basePalette is the 16 colour terminal palette cell colours index into.
var basePalette = [16]color.RGBA{
	{0x00, 0x00, 0x00, 0xff}, {0x00, 0x00, 0xaa, 0xff}, {0x00, 0xaa, 0x00, 0xff}, {0x00, 0xaa, 0xaa, 0xff},
	{0xaa, 0x00, 0x00, 0xff}, {0xaa, 0x00, 0xaa, 0xff}, {0xaa, 0x55, 0x00, 0xff}, {0xaa, 0xaa, 0xaa, 0xff},
	{0x55, 0x55, 0x55, 0xff}, {0x55, 0x55, 0xff, 0xff}, {0x55, 0xff, 0x55, 0xff}, {0x55, 0xff, 0xff, 0xff},
	{0xff, 0x55, 0x55, 0xff}, {0xff, 0x55, 0xff, 0xff}, {0xff, 0xff, 0x55, 0xff}, {0xff, 0xff, 0xff, 0xff},
}

func paletteColour(i int) color.RGBA {
	if i < 0 {
		i = 0
	}
	return basePalette[i%len(basePalette)]
}

// featureColours colour minimap cells by map feature.
var featureColours = map[int]color.RGBA{
	0: {0x20, 0x20, 0x20, 0xff},
	1: {0x60, 0x60, 0x60, 0xff}, // floor
	2: {0xa0, 0x80, 0x60, 0xff}, // wall
	3: {0x40, 0x60, 0xc0, 0xff}, // water
	4: {0xc0, 0x80, 0x20, 0xff}, // door
	5: {0xe0, 0xe0, 0x40, 0xff}, // stairs
	6: {0xe0, 0x40, 0x40, 0xff}, // monster
	7: {0x40, 0xe0, 0x40, 0xff}, // player
}

// ebitenView mirrors the cells handed out by the display pass. The pass
// writes from the session goroutine while ebiten reads from its own, so
// every field is guarded by mu.
type ebitenView struct {
	mu sync.Mutex

	theme  string
	tile   int
	radius int

	cells      map[mapknow.Loc]display.CellView
	bounds     mapknow.Bounds
	haveBounds bool
	center     mapknow.Loc
	haveCenter bool
	minimapOn  bool
	rows       []panelRow
	frame      int
}

func newEbitenView(theme string, tile, radius int) *ebitenView {
	return &ebitenView{
		theme:  theme,
		tile:   tile,
		radius: radius,
		cells:  make(map[mapknow.Loc]display.CellView),
	}
}

func (v *ebitenView) DrawCell(c display.CellView) {
	v.mu.Lock()
	v.cells[c.Loc] = c
	v.mu.Unlock()
}

func (v *ebitenView) Center(b mapknow.Bounds) {
	v.mu.Lock()
	v.bounds, v.haveBounds = b, true
	v.mu.Unlock()
}

func (v *ebitenView) SetVisible(on bool) {
	v.mu.Lock()
	v.minimapOn = on
	v.mu.Unlock()
}

func (v *ebitenView) Tick() {
	v.mu.Lock()
	v.frame++
	v.mu.Unlock()
}

func (v *ebitenView) Render(groups []monlist.Group) {
	rows := panelRows(groups)
	v.mu.Lock()
	v.rows = rows
	v.mu.Unlock()
}

func (v *ebitenView) SetCenter(l mapknow.Loc) {
	v.mu.Lock()
	v.center, v.haveCenter = l, true
	v.mu.Unlock()
}

// Reset drops mirrored cells after a clear.
func (v *ebitenView) Reset() {
	v.mu.Lock()
	v.cells = make(map[mapknow.Loc]display.CellView)
	v.haveBounds = false
	v.haveCenter = false
	v.rows = nil
	v.mu.Unlock()
}

func (v *ebitenView) viewSize() (int, int) {
	side := (2*v.radius + 1) * v.tile
	return side + panelWidth, side
}

// Game adapts an ebitenView to ebiten's game loop.
type Game struct {
	ctx  context.Context
	view *ebitenView
}

func (g *Game) Update() error {
	select {
	case <-g.ctx.Done():
		return ebiten.Termination
	default:
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	v := g.view
	v.mu.Lock()
	defer v.mu.Unlock()

	bg := color.RGBA{0x10, 0x10, 0x14, 0xff}
	if v.theme == "light" {
		bg = color.RGBA{0xf0, 0xf0, 0xe8, 0xff}
	}
	screen.Fill(bg)

	center := v.center
	if !v.haveCenter && v.haveBounds {
		center = mapknow.Loc{X: (v.bounds.Left + v.bounds.Right) / 2, Y: (v.bounds.Top + v.bounds.Bottom) / 2}
	}
	window := mapknow.Around(center, v.radius)
	ts := float32(v.tile)
	window.Each(func(l mapknow.Loc) {
		c, ok := v.cells[l]
		if !ok {
			return
		}
		x := float32(l.X-window.Left) * ts
		y := float32(l.Y-window.Top) * ts
		drawTile(screen, c, x, y, ts, v.frame)
	})

	side := float32(2*v.radius+1) * ts
	if v.minimapOn && v.haveBounds {
		v.drawMinimap(screen, side+8, 8)
	}
	v.drawPanel(screen, int(side)+8, minimapSize+24)

	for i, n := range getNotices() {
		drawText(screen, n, 8, int(side)-lineHeight*(i+1), color.RGBA{0xff, 0xff, 0xff, 0xc0})
	}
}

func drawTile(dst *ebiten.Image, c display.CellView, x, y, ts float32, frame int) {
	if c.Terrain != nil && c.Terrain.Bg != 0 {
		bg := paletteColour(int(c.Terrain.Bg & 0xf))
		if !c.Visible {
			bg.R, bg.G, bg.B = bg.R/3, bg.G/3, bg.B/3
		}
		vector.DrawFilledRect(dst, x, y, ts, ts, bg, false)
	}
	fg := paletteColour(c.Colour)
	if !c.Visible && c.Terrain != nil {
		fg = paletteColour(8)
	}
	if c.Glyph != "" {
		drawText(dst, c.Glyph, int(x)+int(ts)/2-3, int(y)+int(ts)/2-7, fg)
	}
	for range c.Overlays {
		vector.StrokeRect(dst, x+1, y+1, ts-2, ts-2, 1, color.RGBA{0xff, 0xff, 0x00, 0xff}, false)
	}
	if len(c.Cursors) > 0 && frame%2 == 0 {
		vector.StrokeRect(dst, x, y, ts, ts, 2, color.RGBA{0xff, 0xff, 0xff, 0xff}, false)
	}
	if c.Flash != 0 {
		fl := paletteColour(c.Flash)
		fl.A = 0x60
		vector.DrawFilledRect(dst, x, y, ts, ts, fl, false)
	}
}

func (v *ebitenView) drawMinimap(dst *ebiten.Image, ox, oy float32) {
	b := v.bounds
	vector.StrokeRect(dst, ox-1, oy-1, minimapSize+2, minimapSize+2, 1, color.RGBA{0x80, 0x80, 0x80, 0xff}, false)
	// Draw in a stable order so overlapping scaled cells are deterministic.
	locs := make([]mapknow.Loc, 0, len(v.cells))
	for l := range v.cells {
		locs = append(locs, l)
	}
	sort.Slice(locs, func(i, j int) bool {
		if locs[i].Y != locs[j].Y {
			return locs[i].Y < locs[j].Y
		}
		return locs[i].X < locs[j].X
	})
	for _, l := range locs {
		c := v.cells[l]
		x := float32(l.X-b.Left) * minimapScale
		y := float32(l.Y-b.Top) * minimapScale
		if x >= minimapSize || y >= minimapSize {
			continue
		}
		col := featureColours[c.MapFeature]
		if c.Monster != nil {
			col = featureColours[6]
		}
		vector.DrawFilledRect(dst, ox+x, oy+y, minimapScale, minimapScale, col, false)
	}
}

func (v *ebitenView) drawPanel(dst *ebiten.Image, x, y int) {
	for _, r := range v.rows {
		clr := classColour(v.theme, r.Class)
		for _, line := range wrapText(r.Text, glyphFace, panelWidth-16) {
			drawText(dst, line, x, y, clr)
			y += lineHeight
		}
	}
}

func drawText(dst *ebiten.Image, s string, x, y int, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, s, glyphFace, op)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.view.viewSize()
}

// runGame opens the window and blocks until it closes or ctx is done.
func runGame(ctx context.Context, v *ebitenView) error {
	w, h := v.viewSize()
	ebiten.SetWindowTitle("GoTiles")
	ebiten.SetWindowSize(w*gs.Scale, h*gs.Scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	err := ebiten.RunGame(&Game{ctx: ctx, view: v})
	if err == ebiten.Termination {
		return nil
	}
	return err
}
