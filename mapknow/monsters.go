package mapknow

// monsterRef is what a cell holds for its monster: either a tracked id that
// resolves through the identity table, or an anonymous snapshot owned by the
// cell itself.
type monsterRef struct {
	id   int64
	anon *Monster
}

func (r monsterRef) empty() bool { return r.id == 0 && r.anon == nil }

type monsterEntry struct {
	mon  Monster
	refs int
}

// identityTable resolves a stable monster identity across cells and batches.
//
// entries owns every tracked monster and its count of referencing cells.
// committed holds the entries touched by the previous batch and next the
// ones touched by the batch being applied; only those two are consulted when
// merging a payload onto an existing identity. At commit next replaces
// committed and entries no cell references any more are reaped.
type identityTable struct {
	entries   map[int64]*monsterEntry
	committed map[int64]*monsterEntry
	next      map[int64]*monsterEntry
}

func newIdentityTable() *identityTable {
	return &identityTable{
		entries:   make(map[int64]*monsterEntry),
		committed: make(map[int64]*monsterEntry),
		next:      make(map[int64]*monsterEntry),
	}
}

func (t *identityTable) lookup(id int64) *monsterEntry {
	if e, ok := t.next[id]; ok {
		return e
	}
	return t.committed[id]
}

// snapshot returns a copy of the monster r refers to, or the zero Monster.
func (t *identityTable) snapshot(r monsterRef) Monster {
	if r.anon != nil {
		return *r.anon
	}
	if e, ok := t.entries[r.id]; ok && r.id != 0 {
		return e.mon
	}
	return Monster{}
}

func (t *identityTable) release(r monsterRef) {
	if r.id == 0 {
		return
	}
	if e, ok := t.entries[r.id]; ok {
		e.refs--
	}
}

// resolve applies payload d to a cell currently holding old and returns the
// cell's new reference. A nil d removes the monster.
func (t *identityTable) resolve(old monsterRef, d *MonsterDiff) monsterRef {
	if d == nil {
		t.release(old)
		return monsterRef{}
	}

	if d.ID == 0 {
		snap := t.snapshot(old)
		snap.merge(d)
		snap.ID = 0
		t.release(old)
		return monsterRef{anon: &snap}
	}

	e := t.lookup(d.ID)
	if e != nil {
		e.mon.merge(d)
	} else if e = t.entries[d.ID]; e != nil {
		// Still held by other cells but untouched last batch: the live
		// entry is the identity, whatever this cell held before.
		e.mon.merge(d)
	} else {
		// The zero Monster already carries AttHostile when the payload
		// leaves the attitude unset.
		seed := t.snapshot(old)
		seed.merge(d)
		e = &monsterEntry{mon: seed}
		t.entries[d.ID] = e
	}
	t.next[d.ID] = e

	if old.id != d.ID {
		t.release(old)
		e.refs++
	}
	return monsterRef{id: d.ID}
}

// commit ends a batch.
func (t *identityTable) commit() {
	for id, e := range t.entries {
		if e.refs <= 0 {
			delete(t.entries, id)
			delete(t.next, id)
		}
	}
	t.committed = t.next
	t.next = make(map[int64]*monsterEntry, len(t.committed))
}

func (t *identityTable) get(r monsterRef) (Monster, bool) {
	if r.anon != nil {
		return *r.anon, true
	}
	if r.id == 0 {
		return Monster{}, false
	}
	e, ok := t.entries[r.id]
	if !ok {
		return Monster{}, false
	}
	return e.mon, true
}
