// Package mapknow keeps the client's mirror of the dungeon map: a sparse
// coordinate-keyed cell store fed by ordered diff batches, the monster
// identity table, and the dirty list and bounds consumed by the display pass.
//
// A Store has a single mutator. Apply, Touch and the Take methods are meant
// to be called from one event loop; there is no internal locking.
package mapknow

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// ErrNoCoordinate is returned in strict mode when a record omits a
// coordinate before any record of the batch supplied one.
var ErrNoCoordinate = errors.New("cell diff has no resolvable coordinate")

// Options configures a Store.
type Options struct {
	// Strict makes Apply fail on malformed records instead of skipping them.
	Strict bool
	// Logger receives protocol warnings. Nil discards them.
	Logger logrus.FieldLogger
}

// Store is the per-session map knowledge.
type Store struct {
	strict bool
	log    logrus.FieldLogger

	cells    map[Loc]*Cell
	monsters *identityTable
	holders  map[int64]map[Loc]struct{}
	bounds   boundsTracker
	dirty    []Loc
}

// NewStore returns an empty store.
func NewStore(opts Options) *Store {
	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	s := &Store{strict: opts.Strict, log: log}
	s.Clear()
	return s
}

// Clear discards every cell, the monster table, the bounds and the dirty
// list. It is the reset primitive for new levels and reconnects.
func (s *Store) Clear() {
	s.cells = make(map[Loc]*Cell)
	s.monsters = newIdentityTable()
	s.holders = make(map[int64]map[Loc]struct{})
	s.bounds = boundsTracker{}
	s.dirty = nil
}

// Cell returns the cell at loc, creating it on first access.
func (s *Store) Cell(loc Loc) *Cell {
	c, ok := s.cells[loc]
	if !ok {
		c = &Cell{Loc: loc}
		s.cells[loc] = c
	}
	return c
}

// Lookup returns the cell at loc without creating it.
func (s *Store) Lookup(loc Loc) (*Cell, bool) {
	c, ok := s.cells[loc]
	return c, ok
}

// Len is the number of materialized cells.
func (s *Store) Len() int { return len(s.cells) }

// Monster returns the monster occupying c.
func (s *Store) Monster(c *Cell) (Monster, bool) {
	return s.monsters.get(c.mon)
}

// TrackedMonster returns the identity table entry for id and the number of
// cells referencing it.
func (s *Store) TrackedMonster(id int64) (Monster, int, bool) {
	e, ok := s.monsters.entries[id]
	if !ok {
		return Monster{}, 0, false
	}
	return e.mon, e.refs, true
}

// TrackedMonsters is the size of the identity table.
func (s *Store) TrackedMonsters() int { return len(s.monsters.entries) }

// Touch marks the cell at loc dirty. Touching a dirty cell does nothing.
func (s *Store) Touch(loc Loc) {
	c := s.Cell(loc)
	if c.dirty {
		return
	}
	c.dirty = true
	s.dirty = append(s.dirty, loc)
}

// TouchWithin marks every known cell inside b dirty. Coordinates in b that
// were never merged are left alone.
func (s *Store) TouchWithin(b Bounds) {
	for loc := range s.cells {
		if b.Contains(loc) {
			s.Touch(loc)
		}
	}
}

// TakeDirty returns the locations touched since the previous call and
// empties the list. The cells keep their dirty flag until MarkClean, so the
// caller is expected to redraw and clean every returned location.
func (s *Store) TakeDirty() []Loc {
	d := s.dirty
	s.dirty = nil
	return d
}

// Bounds returns the rectangle of known coordinates. ok is false until the
// first cell is merged.
func (s *Store) Bounds() (b Bounds, ok bool) {
	return s.bounds.rect, s.bounds.valid
}

// TakeBoundsChanged reports whether the bounds grew since the previous call.
func (s *Store) TakeBoundsChanged() bool {
	return s.bounds.takeChanged()
}

// Apply merges an ordered batch of cell records. Records must be applied in
// the order the server sent them because of coordinate continuation.
//
// Every cell holding a tracked monster touched by the batch is marked dirty,
// not only the cells the batch names, so multi-tile monsters redraw whole.
//
// In lenient mode a record whose coordinates cannot be resolved is logged
// and skipped and Apply returns nil. In strict mode Apply stops at that
// record and returns an error wrapping ErrNoCoordinate; records before it
// stay applied.
func (s *Store) Apply(records []CellDiff) error {
	defer s.commit()

	var (
		prev     Loc
		havePrev bool
	)
	for i := range records {
		r := &records[i]
		loc, ok := nextLoc(prev, havePrev, r)
		if !ok {
			if s.strict {
				return fmt.Errorf("apply record %d: %w", i, ErrNoCoordinate)
			}
			s.log.WithField("record", i).Warn("skipping cell diff without coordinates")
			continue
		}
		prev, havePrev = loc, true

		s.merge(s.Cell(loc), r)
		s.Touch(loc)
		s.bounds.extend(loc)
	}
	return nil
}

func (s *Store) commit() {
	for id := range s.monsters.next {
		for loc := range s.holders[id] {
			s.Touch(loc)
		}
	}
	s.monsters.commit()
}

func (s *Store) merge(c *Cell, r *CellDiff) {
	if r.Monster.Set {
		old := c.mon
		c.mon = s.monsters.resolve(old, r.Monster.Value)
		if old.id != c.mon.id {
			s.unhold(old.id, c.Loc)
			s.hold(c.mon.id, c.Loc)
		}
	}
	if r.Terrain != nil {
		if c.Terrain == nil {
			c.Terrain = &Terrain{}
		}
		c.Terrain.merge(r.Terrain)
	}
	if r.Glyph != nil {
		c.Glyph = *r.Glyph
	}
	if r.Colour != nil {
		c.Colour = *r.Colour
	}
	if r.MapFeature != nil {
		c.MapFeature = *r.MapFeature
	}
}

func (s *Store) hold(id int64, loc Loc) {
	if id == 0 {
		return
	}
	h, ok := s.holders[id]
	if !ok {
		h = make(map[Loc]struct{})
		s.holders[id] = h
	}
	h[loc] = struct{}{}
}

func (s *Store) unhold(id int64, loc Loc) {
	h, ok := s.holders[id]
	if !ok {
		return
	}
	delete(h, loc)
	if len(h) == 0 {
		delete(s.holders, id)
	}
}
