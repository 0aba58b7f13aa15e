package display

import (
	"io"
	"sort"

	"github.com/sirupsen/logrus"

	"gotiles/mapknow"
	"gotiles/monlist"
)

// DefaultViewRadius is the half width of the primary view in cells.
const DefaultViewRadius = 8

// Options wires a Pass to its renderers. Nil renderers are ignored.
type Options struct {
	View    TileRenderer
	Minimap MinimapRenderer
	Anim    Animator
	Panel   PanelRenderer

	MaxRows    int
	ViewRadius int
	Logger     logrus.FieldLogger
}

// Pass owns the render-side state of a session: overlays, cursors, the
// screen flash, the view centre and the monster list.
type Pass struct {
	store   *mapknow.Store
	list    *monlist.List
	view    TileRenderer
	minimap MinimapRenderer
	anim    Animator
	panel   PanelRenderer
	radius  int
	log     logrus.FieldLogger

	overlays map[mapknow.Loc][]int
	cursors  map[int]mapknow.Loc

	flash        int
	flashChanged bool

	center        mapknow.Loc
	haveCenter    bool
	centerChanged bool

	playerOnLevel bool
}

// New returns a pass drawing the cells of store.
func New(store *mapknow.Store, opts Options) *Pass {
	p := &Pass{
		store:   store,
		list:    monlist.New(opts.MaxRows),
		view:    opts.View,
		minimap: opts.Minimap,
		anim:    opts.Anim,
		panel:   opts.Panel,
		radius:  opts.ViewRadius,
		log:     opts.Logger,
	}
	if p.view == nil {
		p.view = nopRenderer{}
	}
	if p.minimap == nil {
		p.minimap = nopRenderer{}
	}
	if p.anim == nil {
		p.anim = nopRenderer{}
	}
	if p.panel == nil {
		p.panel = nopRenderer{}
	}
	if p.radius <= 0 {
		p.radius = DefaultViewRadius
	}
	if p.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		p.log = l
	}
	p.reset()
	return p
}

func (p *Pass) reset() {
	p.list.Clear()
	p.overlays = make(map[mapknow.Loc][]int)
	p.cursors = make(map[int]mapknow.Loc)
	p.flash = 0
	p.flashChanged = false
	p.haveCenter = false
	p.centerChanged = false
}

// Clear resets the store and every piece of render state. The player on
// level flag is kept; the next map message sets it again.
func (p *Pass) Clear() {
	p.store.Clear()
	p.reset()
	for _, r := range []any{p.view, p.minimap, p.anim, p.panel} {
		if rs, ok := r.(Resetter); ok {
			rs.Reset()
		}
	}
}

// Store returns the map knowledge the pass draws from.
func (p *Pass) Store() *mapknow.Store { return p.store }

// SetFlash sets the screen flash colour. Changing it redraws every known
// cell on the next run.
func (p *Pass) SetFlash(col int) {
	if col == p.flash {
		return
	}
	p.flash = col
	p.flashChanged = true
}

// SetCursor moves cursor id to loc, or hides it when loc is nil.
func (p *Pass) SetCursor(id int, loc *mapknow.Loc) {
	if old, ok := p.cursors[id]; ok {
		if loc != nil && *loc == old {
			return
		}
		p.store.Touch(old)
		delete(p.cursors, id)
	}
	if loc == nil {
		return
	}
	p.cursors[id] = *loc
	p.store.Touch(*loc)
}

// AddOverlay stacks overlay tile idx on loc.
func (p *Pass) AddOverlay(loc mapknow.Loc, idx int) {
	p.overlays[loc] = append(p.overlays[loc], idx)
	p.store.Touch(loc)
}

// ClearOverlays drops every overlay and redraws the cells they covered.
func (p *Pass) ClearOverlays() {
	for loc := range p.overlays {
		p.store.Touch(loc)
	}
	p.overlays = make(map[mapknow.Loc][]int)
}

// SetViewCenter moves the primary view.
func (p *Pass) SetViewCenter(loc mapknow.Loc) {
	if p.haveCenter && loc == p.center {
		return
	}
	p.center = loc
	p.haveCenter = true
	p.centerChanged = true
	if cs, ok := p.view.(CenterSetter); ok {
		cs.SetCenter(loc)
	}
}

// ViewCenter returns the current view centre.
func (p *Pass) ViewCenter() (mapknow.Loc, bool) { return p.center, p.haveCenter }

// SetPlayerOnLevel shows or hides the minimap.
func (p *Pass) SetPlayerOnLevel(on bool) {
	if on == p.playerOnLevel {
		return
	}
	p.playerOnLevel = on
	p.minimap.SetVisible(on)
}

// Run redraws what changed since the previous run and returns the number of
// cells drawn.
func (p *Pass) Run() int {
	b, ok := p.store.Bounds()
	if !ok {
		return 0
	}
	if p.store.TakeBoundsChanged() {
		p.minimap.Center(b)
	}
	if p.flashChanged {
		p.store.TouchWithin(b)
		p.flashChanged = false
	}
	if p.centerChanged {
		if w, ok := mapknow.Around(p.center, p.radius).Intersect(b); ok {
			w.Each(p.store.Touch)
		}
		p.centerChanged = false
	}

	locs := p.store.TakeDirty()
	for _, loc := range locs {
		c := p.store.Cell(loc)
		c.MarkClean()
		v := p.resolve(c)
		if v.Monster != nil && (v.Terrain == nil || v.Visible) {
			p.list.UpdateLoc(loc, *v.Monster, true)
		} else {
			p.list.UpdateLoc(loc, mapknow.Monster{}, false)
		}
		p.view.DrawCell(v)
		p.minimap.DrawCell(v)
	}

	p.anim.Tick()

	if len(locs) > 0 {
		groups := p.list.Groups()
		p.panel.Render(groups)
		p.log.WithFields(logrus.Fields{"cells": len(locs), "groups": len(groups)}).Debug("display pass")
	}
	return len(locs)
}

// Groups returns the current monster panel rows.
func (p *Pass) Groups() []monlist.Group { return p.list.Groups() }

func (p *Pass) resolve(c *mapknow.Cell) CellView {
	v := CellView{
		Loc:        c.Loc,
		Glyph:      c.Glyph,
		Colour:     c.Colour,
		MapFeature: c.MapFeature,
		Visible:    c.Visible(),
		Flash:      p.flash,
	}
	if c.Terrain != nil {
		t := *c.Terrain
		v.Terrain = &t
	}
	if m, ok := p.store.Monster(c); ok {
		v.Monster = &m
	}
	if ov := p.overlays[c.Loc]; len(ov) > 0 {
		v.Overlays = append([]int(nil), ov...)
	}
	for id, loc := range p.cursors {
		if loc == c.Loc {
			v.Cursors = append(v.Cursors, id)
		}
	}
	sort.Ints(v.Cursors)
	return v
}
