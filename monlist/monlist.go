// Package monlist builds the monster panel from the monsters currently in
// view: it filters, orders and combines them into display groups.
package monlist

import (
	"sort"
	"strconv"
	"strings"

	"gotiles/mapknow"
)

// DefaultMaxRows is the panel height used when a List is built with 0 rows.
const DefaultMaxRows = 8

// toughnessSteps are the average hp thresholds between toughness classes.
var toughnessSteps = []int{10, 20, 40, 80}

// Toughness buckets an average hp into a small class number.
func Toughness(avgHP int) int {
	n := 0
	for _, s := range toughnessSteps {
		if avgHP >= s {
			n++
		}
	}
	return n
}

// Excluded reports whether m is hidden from the panel. Monsters that give no
// experience are hidden, except active ballistomycetes and tentacles.
func Excluded(m mapknow.Monster) bool {
	if !m.TypeData.NoExp {
		return false
	}
	if m.Name == "active ballistomycete" || strings.HasSuffix(m.Name, "tentacle") {
		return false
	}
	return true
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Compare orders monsters for the panel: attitude ascending, then toughness,
// type and name descending. It returns 0 for monsters that belong together.
func Compare(a, b mapknow.Monster) int {
	if c := cmpInt(a.Attitude, b.Attitude); c != 0 {
		return c
	}
	if c := cmpInt(Toughness(b.TypeData.AvgHP), Toughness(a.TypeData.AvgHP)); c != 0 {
		return c
	}
	if c := cmpInt(b.Type, a.Type); c != 0 {
		return c
	}
	return strings.Compare(b.Name, a.Name)
}

// Entry is one visible monster.
type Entry struct {
	Loc     mapknow.Loc
	Monster mapknow.Monster
}

// Group is one panel row.
type Group struct {
	Entries  []Entry
	Label    string
	Class    string
	Overflow bool
}

// Representative is the monster the row is styled after.
func (g Group) Representative() mapknow.Monster {
	return g.Entries[0].Monster
}

// Label names a group of n monsters like m.
func Label(m mapknow.Monster, n int) string {
	if n <= 1 {
		return m.Name
	}
	plural := m.Plural
	if plural == "" {
		plural = m.Name + "s"
	}
	return strconv.Itoa(n) + " " + plural
}

// StyleClass picks the panel style for m.
func StyleClass(m mapknow.Monster) string {
	switch m.Attitude {
	case mapknow.AttFriendly:
		return "friendly"
	case mapknow.AttGoodNeutral:
		return "good_neutral"
	case mapknow.AttStrictNeutral:
		return "strict_neutral"
	case mapknow.AttNeutral:
		return "neutral"
	}
	switch {
	case m.Threat <= 0:
		return "trivial"
	case m.Threat == 1:
		return "easy"
	case m.Threat == 2:
		return "tough"
	}
	return "nasty"
}

// List tracks the visible monsters between display passes.
type List struct {
	MaxRows int

	visible map[mapknow.Loc]mapknow.Monster
}

// New returns an empty list capped at maxRows groups.
func New(maxRows int) *List {
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	return &List{MaxRows: maxRows, visible: make(map[mapknow.Loc]mapknow.Monster)}
}

// UpdateLoc records the monster at loc, or forgets it when ok is false.
func (l *List) UpdateLoc(loc mapknow.Loc, mon mapknow.Monster, ok bool) {
	if !ok {
		delete(l.visible, loc)
		return
	}
	l.visible[loc] = mon
}

// Clear forgets every monster.
func (l *List) Clear() {
	l.visible = make(map[mapknow.Loc]mapknow.Monster)
}

// Len is the number of visible monsters, excluded ones included.
func (l *List) Len() int { return len(l.visible) }

// Groups computes the panel rows.
func (l *List) Groups() []Group {
	entries := make([]Entry, 0, len(l.visible))
	for loc, m := range l.visible {
		if Excluded(m) {
			continue
		}
		entries = append(entries, Entry{Loc: loc, Monster: m})
	}
	// Map iteration is random; fix a reading order so equal monsters keep a
	// stable member order.
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i].Loc, entries[j].Loc
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
	sort.SliceStable(entries, func(i, j int) bool {
		return Compare(entries[i].Monster, entries[j].Monster) < 0
	})
	return combine(entries, l.MaxRows)
}

func combine(entries []Entry, maxRows int) []Group {
	var groups []Group
	for _, e := range entries {
		if n := len(groups); n > 0 && Compare(groups[n-1].Representative(), e.Monster) == 0 {
			groups[n-1].Entries = append(groups[n-1].Entries, e)
			continue
		}
		groups = append(groups, Group{Entries: []Entry{e}})
	}
	overflow := maxRows > 0 && len(groups) > maxRows
	if overflow {
		groups = groups[:maxRows]
	}
	for i := range groups {
		rep := groups[i].Representative()
		groups[i].Label = Label(rep, len(groups[i].Entries))
		groups[i].Class = StyleClass(rep)
	}
	if overflow {
		groups[len(groups)-1].Overflow = true
	}
	return groups
}
