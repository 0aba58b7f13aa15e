package display

import (
	"testing"

	"gotiles/mapknow"
	"gotiles/monlist"
)

type fakeTiles struct {
	drawn   []CellView
	centers []mapknow.Loc
	resets  int
}

func (f *fakeTiles) DrawCell(v CellView) { f.drawn = append(f.drawn, v) }
func (f *fakeTiles) SetCenter(l mapknow.Loc) { f.centers = append(f.centers, l) }
func (f *fakeTiles) Reset() { f.resets++ }

type fakeMinimap struct {
	centers []mapknow.Bounds
	drawn   int
	visible []bool
}

func (f *fakeMinimap) Center(b mapknow.Bounds) { f.centers = append(f.centers, b) }
func (f *fakeMinimap) DrawCell(CellView) { f.drawn++ }
func (f *fakeMinimap) SetVisible(v bool) { f.visible = append(f.visible, v) }

type fakeAnim struct{ ticks int }

func (f *fakeAnim) Tick() { f.ticks++ }

type fakePanel struct{ renders [][]monlist.Group }

func (f *fakePanel) Render(g []monlist.Group) { f.renders = append(f.renders, g) }

type fixture struct {
	store   *mapknow.Store
	pass    *Pass
	tiles   *fakeTiles
	minimap *fakeMinimap
	anim    *fakeAnim
	panel   *fakePanel
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:   mapknow.NewStore(mapknow.Options{Strict: true}),
		tiles:   &fakeTiles{},
		minimap: &fakeMinimap{},
		anim:    &fakeAnim{},
		panel:   &fakePanel{},
	}
	f.pass = New(f.store, Options{
		View:       f.tiles,
		Minimap:    f.minimap,
		Anim:       f.anim,
		Panel:      f.panel,
		ViewRadius: 1,
	})
	return f
}

func ip(v int) *int { return &v }
func sp(v string) *string { return &v }
func up(v uint64) *uint64 { return &v }

func (f *fixture) apply(t *testing.T, records ...mapknow.CellDiff) {
	t.Helper()
	if err := f.store.Apply(records); err != nil {
		t.Fatalf("Apply: %v", err)
	}
}

func seen(x, y int, g string) mapknow.CellDiff {
	return mapknow.CellDiff{X: ip(x), Y: ip(y), Glyph: sp(g), Terrain: &mapknow.TerrainDiff{Bg: up(1)}}
}

func TestRunBeforeAnyMergeIsNoop(t *testing.T) {
	f := newFixture(t)
	if n := f.pass.Run(); n != 0 {
		t.Fatalf("Run = %d, want 0", n)
	}
	if f.anim.ticks != 0 || len(f.panel.renders) != 0 || len(f.minimap.centers) != 0 {
		t.Fatalf("collaborators called before bounds were known")
	}
}

func TestRunDrawsDirtyCellsOnce(t *testing.T) {
	f := newFixture(t)
	f.apply(t, seen(0, 0, "."), seen(1, 0, "#"))

	if n := f.pass.Run(); n != 2 {
		t.Fatalf("Run = %d, want 2", n)
	}
	if len(f.tiles.drawn) != 2 || f.minimap.drawn != 2 {
		t.Fatalf("drawn view=%d minimap=%d, want 2", len(f.tiles.drawn), f.minimap.drawn)
	}
	if len(f.minimap.centers) != 1 {
		t.Fatalf("centers = %v, want one", f.minimap.centers)
	}
	if f.tiles.drawn[1].Glyph != "#" || !f.tiles.drawn[1].Visible {
		t.Fatalf("second view = %+v", f.tiles.drawn[1])
	}
	if f.store.Cell(mapknow.Loc{}).Dirty() {
		t.Fatalf("cell still dirty after pass")
	}
	if len(f.panel.renders) != 1 {
		t.Fatalf("panel renders = %d, want 1", len(f.panel.renders))
	}

	// Animation tick with nothing changed.
	if n := f.pass.Run(); n != 0 {
		t.Fatalf("second Run = %d, want 0", n)
	}
	if f.anim.ticks != 2 {
		t.Fatalf("ticks = %d, want 2", f.anim.ticks)
	}
	if len(f.panel.renders) != 1 || len(f.minimap.centers) != 1 {
		t.Fatalf("idle pass refreshed panel or minimap")
	}
}

func TestRunFeedsMonsterPanel(t *testing.T) {
	f := newFixture(t)
	a := seen(3, 3, "r")
	a.Monster = mapknow.SetMonster(mapknow.MonsterDiff{ID: 1, Name: sp("rat"), Plural: sp("rats")})
	b := seen(4, 3, "r")
	b.Monster = mapknow.SetMonster(mapknow.MonsterDiff{ID: 2, Name: sp("rat"), Plural: sp("rats")})
	f.apply(t, a, b)
	f.pass.Run()

	groups := f.panel.renders[0]
	if len(groups) != 1 || groups[0].Label != "2 rats" {
		t.Fatalf("groups = %+v", groups)
	}

	// One rat walks into remembered territory.
	gone := mapknow.CellDiff{X: ip(4), Y: ip(3), Terrain: &mapknow.TerrainDiff{Bg: up(1 | mapknow.FlagUnseen)}}
	f.apply(t, gone)
	f.pass.Run()
	groups = f.panel.renders[1]
	if len(groups) != 1 || groups[0].Label != "rat" {
		t.Fatalf("groups after leaving view = %+v", groups)
	}
}

func TestFlashRedrawsKnownCells(t *testing.T) {
	f := newFixture(t)
	f.apply(t, seen(0, 0, "."), seen(1, 0, "."), seen(2, 1, "."))
	f.pass.Run()
	f.tiles.drawn = nil

	f.pass.SetFlash(4)
	if n := f.pass.Run(); n != 3 {
		t.Fatalf("Run after flash = %d, want the 3 known cells", n)
	}
	for _, v := range f.tiles.drawn {
		if v.Flash != 4 {
			t.Fatalf("cell %v drawn without flash", v.Loc)
		}
	}
	f.pass.SetFlash(4)
	if n := f.pass.Run(); n != 0 {
		t.Fatalf("unchanged flash redrew %d cells", n)
	}
}

func TestFlashIgnoresEmptySpanOfBounds(t *testing.T) {
	f := newFixture(t)
	f.apply(t, seen(-1<<30, -1<<30, "."), seen(1<<30, 1<<30, "."))
	f.pass.Run()

	f.pass.SetFlash(2)
	if n := f.pass.Run(); n != 2 {
		t.Fatalf("Run after flash = %d, want 2", n)
	}
	if f.store.Len() != 2 {
		t.Fatalf("flash materialized %d cells", f.store.Len())
	}
}

func TestSharedMonsterUpdateRedrawsEveryCell(t *testing.T) {
	f := newFixture(t)
	head := seen(0, 0, "K")
	head.Monster = mapknow.SetMonster(mapknow.MonsterDiff{ID: 9, Name: sp("kraken")})
	tail := seen(1, 0, "K")
	tail.Monster = mapknow.SetMonster(mapknow.MonsterDiff{ID: 9})
	f.apply(t, head, tail)
	f.pass.Run()
	f.tiles.drawn = nil

	// The update arrives through one cell only.
	upd := mapknow.CellDiff{X: ip(0), Y: ip(0)}
	upd.Monster = mapknow.SetMonster(mapknow.MonsterDiff{ID: 9, Name: sp("angry kraken")})
	f.apply(t, upd)
	if n := f.pass.Run(); n != 2 {
		t.Fatalf("Run = %d, want both kraken cells", n)
	}
	for _, v := range f.tiles.drawn {
		if v.Monster == nil || v.Monster.Name != "angry kraken" {
			t.Fatalf("cell %v shows %+v", v.Loc, v.Monster)
		}
	}
	groups := f.panel.renders[len(f.panel.renders)-1]
	if len(groups) != 1 || groups[0].Label != "2 angry krakens" {
		t.Fatalf("groups = %+v, want one row", groups)
	}
}

func TestViewCenterTouchesWindow(t *testing.T) {
	f := newFixture(t)
	f.apply(t, seen(0, 0, "."), seen(9, 9, "."))
	f.pass.Run()

	f.pass.SetViewCenter(mapknow.Loc{X: 5, Y: 5})
	if n := f.pass.Run(); n != 9 {
		t.Fatalf("Run after recentre = %d, want 9", n)
	}
	// Window clipped by the bounds.
	f.pass.SetViewCenter(mapknow.Loc{X: 0, Y: 0})
	if n := f.pass.Run(); n != 4 {
		t.Fatalf("Run after recentre at corner = %d, want 4", n)
	}
}

func TestCursorsAndOverlays(t *testing.T) {
	f := newFixture(t)
	f.apply(t, seen(0, 0, "."), seen(1, 0, "."))
	f.pass.Run()
	f.tiles.drawn = nil

	l := mapknow.Loc{X: 1, Y: 0}
	f.pass.SetCursor(0, &l)
	f.pass.AddOverlay(mapknow.Loc{}, 17)
	f.pass.Run()
	if len(f.tiles.drawn) != 2 {
		t.Fatalf("drawn = %d, want 2", len(f.tiles.drawn))
	}
	for _, v := range f.tiles.drawn {
		switch v.Loc {
		case l:
			if len(v.Cursors) != 1 || v.Cursors[0] != 0 {
				t.Fatalf("cursor view = %+v", v)
			}
		case mapknow.Loc{}:
			if len(v.Overlays) != 1 || v.Overlays[0] != 17 {
				t.Fatalf("overlay view = %+v", v)
			}
		}
	}

	f.tiles.drawn = nil
	f.pass.SetCursor(0, nil)
	f.pass.ClearOverlays()
	f.pass.Run()
	if len(f.tiles.drawn) != 2 {
		t.Fatalf("drawn after clearing = %d, want 2", len(f.tiles.drawn))
	}
	for _, v := range f.tiles.drawn {
		if len(v.Cursors) != 0 || len(v.Overlays) != 0 {
			t.Fatalf("stale decoration on %v", v.Loc)
		}
	}
}

func TestPlayerOnLevelTogglesMinimap(t *testing.T) {
	f := newFixture(t)
	f.pass.SetPlayerOnLevel(true)
	f.pass.SetPlayerOnLevel(true)
	f.pass.SetPlayerOnLevel(false)
	if len(f.minimap.visible) != 2 || !f.minimap.visible[0] || f.minimap.visible[1] {
		t.Fatalf("visible calls = %v", f.minimap.visible)
	}
}

func TestClearResetsState(t *testing.T) {
	f := newFixture(t)
	f.apply(t, seen(0, 0, "."))
	f.pass.AddOverlay(mapknow.Loc{}, 3)
	f.pass.Run()

	f.pass.Clear()
	if f.store.Len() != 0 {
		t.Fatalf("store not cleared")
	}
	if n := f.pass.Run(); n != 0 {
		t.Fatalf("Run after clear = %d", n)
	}
	f.apply(t, seen(0, 0, "."))
	f.pass.Run()
	if v := f.tiles.drawn[len(f.tiles.drawn)-1]; len(v.Overlays) != 0 {
		t.Fatalf("overlay survived clear: %+v", v)
	}
	if len(f.minimap.centers) != 2 {
		t.Fatalf("centers = %d, want recentre after clear", len(f.minimap.centers))
	}
}

func TestRendererHooks(t *testing.T) {
	f := newFixture(t)
	f.pass.SetViewCenter(mapknow.Loc{X: 2, Y: 3})
	f.pass.SetViewCenter(mapknow.Loc{X: 2, Y: 3})
	if len(f.tiles.centers) != 1 || f.tiles.centers[0] != (mapknow.Loc{X: 2, Y: 3}) {
		t.Fatalf("centers = %v", f.tiles.centers)
	}
	f.pass.Clear()
	if f.tiles.resets != 1 {
		t.Fatalf("resets = %d, want 1", f.tiles.resets)
	}
}
