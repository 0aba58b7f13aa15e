// Package display turns the dirty cells of a mapknow.Store into renderer
// calls once per processed batch or animation tick.
package display

import (
	"gotiles/mapknow"
	"gotiles/monlist"
)

// CellView is a resolved, renderer-owned copy of one cell.
type CellView struct {
	Loc        mapknow.Loc
	Glyph      string
	Colour     int
	MapFeature int
	// Terrain is nil for cells known only by glyph.
	Terrain *mapknow.Terrain
	Visible bool
	Monster *mapknow.Monster
	// Overlays lists overlay tile indices stacked on the cell, oldest first.
	Overlays []int
	// Cursors lists the cursor ids currently on the cell.
	Cursors []int
	// Flash is the screen flash colour, 0 for none.
	Flash int
}

// TileRenderer draws cells of the primary view.
type TileRenderer interface {
	DrawCell(v CellView)
}

// MinimapRenderer draws the overview map.
type MinimapRenderer interface {
	// Center is called whenever the known bounds grow.
	Center(b mapknow.Bounds)
	DrawCell(v CellView)
	SetVisible(visible bool)
}

// Animator advances animated tiles by one frame.
type Animator interface {
	Tick()
}

// PanelRenderer shows the grouped monster list.
type PanelRenderer interface {
	Render(groups []monlist.Group)
}

// CenterSetter is implemented by tile renderers that scroll with the view
// centre.
type CenterSetter interface {
	SetCenter(loc mapknow.Loc)
}

// Resetter is implemented by renderers that keep their own copy of drawn
// cells and must drop it when the map is cleared.
type Resetter interface {
	Reset()
}

type nopRenderer struct{}

func (nopRenderer) DrawCell(CellView) {}
func (nopRenderer) Center(mapknow.Bounds) {}
func (nopRenderer) SetVisible(bool) {}
func (nopRenderer) Tick() {}
func (nopRenderer) Render([]monlist.Group) {}
