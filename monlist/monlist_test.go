package monlist

import (
	"testing"

	"gotiles/mapknow"
)

func rat(id int64) mapknow.Monster {
	return mapknow.Monster{
		ID:       id,
		Name:     "rat",
		Plural:   "rats",
		Type:     5,
		TypeData: mapknow.TypeData{AvgHP: 30},
	}
}

func TestToughness(t *testing.T) {
	tests := []struct {
		hp   int
		want int
	}{
		{0, 0}, {9, 0}, {10, 1}, {30, 2}, {40, 3}, {200, 4},
	}
	for _, tt := range tests {
		if got := Toughness(tt.hp); got != tt.want {
			t.Errorf("Toughness(%d) = %d, want %d", tt.hp, got, tt.want)
		}
	}
}

func TestTwoRatsCombine(t *testing.T) {
	l := New(5)
	l.UpdateLoc(mapknow.Loc{X: 1, Y: 1}, rat(1), true)
	l.UpdateLoc(mapknow.Loc{X: 2, Y: 1}, rat(2), true)
	groups := l.Groups()
	if len(groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(groups))
	}
	if groups[0].Label != "2 rats" {
		t.Fatalf("label = %q, want %q", groups[0].Label, "2 rats")
	}
	if len(groups[0].Entries) != 2 || groups[0].Entries[0].Loc != (mapknow.Loc{X: 1, Y: 1}) {
		t.Fatalf("entries = %+v", groups[0].Entries)
	}
}

func TestAttitudeSeparates(t *testing.T) {
	l := New(5)
	neutral := rat(2)
	neutral.Attitude = mapknow.AttNeutral
	l.UpdateLoc(mapknow.Loc{X: 0, Y: 0}, neutral, true)
	l.UpdateLoc(mapknow.Loc{X: 1, Y: 0}, rat(1), true)
	l.UpdateLoc(mapknow.Loc{X: 2, Y: 0}, rat(3), true)
	groups := l.Groups()
	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(groups))
	}
	if groups[0].Label != "2 rats" || groups[0].Class != "trivial" {
		t.Fatalf("first group = %q/%q", groups[0].Label, groups[0].Class)
	}
	if groups[1].Label != "rat" || groups[1].Class != "neutral" {
		t.Fatalf("second group = %q/%q", groups[1].Label, groups[1].Class)
	}
}

func TestOrdering(t *testing.T) {
	l := New(10)
	weak := mapknow.Monster{Name: "bat", Type: 9, TypeData: mapknow.TypeData{AvgHP: 5}}
	strong := mapknow.Monster{Name: "ogre", Type: 1, TypeData: mapknow.TypeData{AvgHP: 60}}
	sameA := mapknow.Monster{Name: "alpha", Type: 3, TypeData: mapknow.TypeData{AvgHP: 15}}
	sameB := mapknow.Monster{Name: "beta", Type: 3, TypeData: mapknow.TypeData{AvgHP: 15}}
	higherType := mapknow.Monster{Name: "aardvark", Type: 4, TypeData: mapknow.TypeData{AvgHP: 15}}
	for i, m := range []mapknow.Monster{weak, sameA, strong, sameB, higherType} {
		l.UpdateLoc(mapknow.Loc{X: i}, m, true)
	}
	var got []string
	for _, g := range l.Groups() {
		got = append(got, g.Label)
	}
	want := []string{"ogre", "aardvark", "beta", "alpha", "bat"}
	if len(got) != len(want) {
		t.Fatalf("labels = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("labels = %v, want %v", got, want)
		}
	}
}

func TestExclusions(t *testing.T) {
	tests := []struct {
		name string
		excl bool
	}{
		{"plant", true},
		{"active ballistomycete", false},
		{"kraken tentacle", false},
		{"tentacle segment", true},
	}
	for _, tt := range tests {
		m := mapknow.Monster{Name: tt.name, TypeData: mapknow.TypeData{NoExp: true}}
		if got := Excluded(m); got != tt.excl {
			t.Errorf("Excluded(%q) = %v, want %v", tt.name, got, tt.excl)
		}
	}
	if Excluded(mapknow.Monster{Name: "plant"}) {
		t.Errorf("monster giving experience was excluded")
	}
}

func TestOverflowMarksLastRow(t *testing.T) {
	l := New(2)
	for i := 0; i < 4; i++ {
		l.UpdateLoc(mapknow.Loc{X: i}, mapknow.Monster{Name: string(rune('a' + i))}, true)
	}
	groups := l.Groups()
	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(groups))
	}
	if groups[0].Overflow || !groups[1].Overflow {
		t.Fatalf("overflow = %v,%v, want false,true", groups[0].Overflow, groups[1].Overflow)
	}
}

func TestUpdateLocForgets(t *testing.T) {
	l := New(0)
	l.UpdateLoc(mapknow.Loc{}, rat(1), true)
	l.UpdateLoc(mapknow.Loc{}, mapknow.Monster{}, false)
	if l.Len() != 0 || len(l.Groups()) != 0 {
		t.Fatalf("monster not forgotten")
	}
	if l.MaxRows != DefaultMaxRows {
		t.Fatalf("MaxRows = %d", l.MaxRows)
	}
}

func TestStyleClass(t *testing.T) {
	tests := []struct {
		m    mapknow.Monster
		want string
	}{
		{mapknow.Monster{Threat: 0}, "trivial"},
		{mapknow.Monster{Threat: 1}, "easy"},
		{mapknow.Monster{Threat: 2}, "tough"},
		{mapknow.Monster{Threat: 3}, "nasty"},
		{mapknow.Monster{Attitude: mapknow.AttFriendly, Threat: 3}, "friendly"},
		{mapknow.Monster{Attitude: mapknow.AttGoodNeutral}, "good_neutral"},
		{mapknow.Monster{Attitude: mapknow.AttStrictNeutral}, "strict_neutral"},
	}
	for _, tt := range tests {
		if got := StyleClass(tt.m); got != tt.want {
			t.Errorf("StyleClass(%+v) = %q, want %q", tt.m, got, tt.want)
		}
	}
}
