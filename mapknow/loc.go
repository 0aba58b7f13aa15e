package mapknow

import "fmt"

// Loc is a map coordinate. It is comparable and used directly as the cell
// map key.
type Loc struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (l Loc) String() string {
	return fmt.Sprintf("(%d,%d)", l.X, l.Y)
}

// Bounds is the rectangle covering every coordinate merged since the last
// clear. All edges are inclusive.
type Bounds struct {
	Left, Top, Right, Bottom int
}

// Contains reports whether l lies inside b.
func (b Bounds) Contains(l Loc) bool {
	return l.X >= b.Left && l.X <= b.Right && l.Y >= b.Top && l.Y <= b.Bottom
}

func (b Bounds) Width() int  { return b.Right - b.Left + 1 }
func (b Bounds) Height() int { return b.Bottom - b.Top + 1 }

// Each calls fn for every coordinate in b, row by row.
func (b Bounds) Each(fn func(Loc)) {
	for y := b.Top; y <= b.Bottom; y++ {
		for x := b.Left; x <= b.Right; x++ {
			fn(Loc{X: x, Y: y})
		}
	}
}

// boundsTracker grows a Bounds rectangle and remembers whether any edge
// moved since the last take.
type boundsTracker struct {
	rect    Bounds
	valid   bool
	changed bool
}

func (t *boundsTracker) extend(l Loc) {
	if !t.valid {
		t.rect = Bounds{Left: l.X, Top: l.Y, Right: l.X, Bottom: l.Y}
		t.valid = true
		t.changed = true
		return
	}
	if l.X < t.rect.Left {
		t.rect.Left = l.X
		t.changed = true
	}
	if l.X > t.rect.Right {
		t.rect.Right = l.X
		t.changed = true
	}
	if l.Y < t.rect.Top {
		t.rect.Top = l.Y
		t.changed = true
	}
	if l.Y > t.rect.Bottom {
		t.rect.Bottom = l.Y
		t.changed = true
	}
}

func (t *boundsTracker) takeChanged() bool {
	c := t.changed
	t.changed = false
	return c
}

// Intersect returns the overlap of b and o. ok is false when they are
// disjoint.
func (b Bounds) Intersect(o Bounds) (r Bounds, ok bool) {
	r = Bounds{
		Left:   max(b.Left, o.Left),
		Top:    max(b.Top, o.Top),
		Right:  min(b.Right, o.Right),
		Bottom: min(b.Bottom, o.Bottom),
	}
	return r, r.Left <= r.Right && r.Top <= r.Bottom
}

// Around returns the square of the given radius centred on l.
func Around(l Loc, radius int) Bounds {
	return Bounds{Left: l.X - radius, Top: l.Y - radius, Right: l.X + radius, Bottom: l.Y + radius}
}
