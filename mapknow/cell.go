package mapknow

// FlagUnseen is set in Terrain.Bg for cells the player remembers but cannot
// currently see.
const FlagUnseen uint64 = 1 << 24

// Flavour selects floor and feature tile variants.
type Flavour struct {
	F int `json:"f"`
	S int `json:"s"`
}

// Terrain is the display sub-structure of a cell.
type Terrain struct {
	Fg     uint64
	Bg     uint64
	Cloud  uint64
	Doll   [][2]int // tile, y crop
	MCache [][3]int // tile, x offset, y offset
	Trans  bool
	Flv    Flavour
}

// TerrainDiff is the partial terrain carried by a cell diff. Nil fields are
// left untouched when merged.
type TerrainDiff struct {
	Fg     *uint64  `json:"fg,omitempty"`
	Bg     *uint64  `json:"bg,omitempty"`
	Cloud  *uint64  `json:"cloud,omitempty"`
	Doll   [][2]int `json:"doll,omitempty"`
	MCache [][3]int `json:"mcache,omitempty"`
	Trans  *bool    `json:"trans,omitempty"`
	Flv    *Flavour `json:"flv,omitempty"`
}

// merge shallow-merges d onto t. A new doll or mcache graphic without an
// explicit transparency value resets Trans, since the cached transparency
// belonged to the old graphic.
func (t *Terrain) merge(d *TerrainDiff) {
	if d.Fg != nil {
		t.Fg = *d.Fg
	}
	if d.Bg != nil {
		t.Bg = *d.Bg
	}
	if d.Cloud != nil {
		t.Cloud = *d.Cloud
	}
	if d.Doll != nil {
		t.Doll = append([][2]int(nil), d.Doll...)
	}
	if d.MCache != nil {
		t.MCache = append([][3]int(nil), d.MCache...)
	}
	if d.Flv != nil {
		t.Flv = *d.Flv
	}
	switch {
	case d.Trans != nil:
		t.Trans = *d.Trans
	case d.Doll != nil || d.MCache != nil:
		t.Trans = false
	}
}

// Cell is the client's knowledge of one map coordinate.
type Cell struct {
	Loc        Loc
	Terrain    *Terrain
	Glyph      string
	Colour     int
	MapFeature int

	mon   monsterRef
	dirty bool
}

// Dirty reports whether the cell changed since it was last drawn.
func (c *Cell) Dirty() bool { return c.dirty }

// MarkClean clears the dirty flag once the cell has been redrawn.
func (c *Cell) MarkClean() { c.dirty = false }

// Visible reports whether the cell is in the player's current line of sight.
func (c *Cell) Visible() bool {
	return c.Terrain != nil && c.Terrain.Bg&FlagUnseen == 0
}

// HasMonster reports whether a monster occupies the cell.
func (c *Cell) HasMonster() bool { return !c.mon.empty() }

// CellDiff is one partial cell record of a map batch. X and Y may be omitted
// and are then continued from the previous record: a missing x is the
// previous x plus one, a missing y is the previous y.
type CellDiff struct {
	X          *int          `json:"x,omitempty"`
	Y          *int          `json:"y,omitempty"`
	Terrain    *TerrainDiff  `json:"terrain,omitempty"`
	Monster    MonsterUpdate `json:"monster"`
	Glyph      *string       `json:"g,omitempty"`
	Colour     *int          `json:"col,omitempty"`
	MapFeature *int          `json:"mf,omitempty"`
}

// nextLoc resolves the coordinates of r from the previous record. ok is
// false when a coordinate is missing and there is no previous record.
func nextLoc(prev Loc, havePrev bool, r *CellDiff) (Loc, bool) {
	loc := Loc{X: prev.X + 1, Y: prev.Y}
	if r.X != nil {
		loc.X = *r.X
	} else if !havePrev {
		return Loc{}, false
	}
	if r.Y != nil {
		loc.Y = *r.Y
	} else if !havePrev {
		return Loc{}, false
	}
	return loc, true
}
