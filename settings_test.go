package main

import (
	"os"
	"testing"
)

func withBaseDir(t *testing.T) {
	t.Helper()
	old, oldGS := baseDir, gs
	baseDir = t.TempDir()
	t.Cleanup(func() {
		baseDir, gs = old, oldGS
	})
}

func TestApplyDefaults(t *testing.T) {
	s := Settings{Host: "ws://example:1/ws", ViewRadius: 3, ReplaySpeed: -2}
	s.applyDefaults()
	if s.Host != "ws://example:1/ws" || s.ViewRadius != 3 {
		t.Fatalf("explicit values overwritten: %+v", s)
	}
	if s.TileSize != gsdef.TileSize || s.PanelRows != gsdef.PanelRows || s.TickMillis != gsdef.TickMillis {
		t.Fatalf("zero values not defaulted: %+v", s)
	}
	if s.ReplaySpeed != gsdef.ReplaySpeed {
		t.Fatalf("negative speed kept: %v", s.ReplaySpeed)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	withBaseDir(t)
	if loadSettings() {
		t.Fatal("loaded settings from an empty directory")
	}
	if gs != gsdef {
		t.Fatalf("gs = %+v, want defaults", gs)
	}
	gs.Theme = "light"
	gs.PanelRows = 4
	saveSettings()

	gs = gsdef
	if !loadSettings() {
		t.Fatal("saved settings not loaded")
	}
	if gs.Theme != "light" || gs.PanelRows != 4 {
		t.Fatalf("gs = %+v", gs)
	}
}

func TestLoadSettingsIgnoresGarbage(t *testing.T) {
	withBaseDir(t)
	if err := os.WriteFile(settingsPath(), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if loadSettings() {
		t.Fatal("garbage settings accepted")
	}
	if gs != gsdef {
		t.Fatalf("gs = %+v, want defaults", gs)
	}
}

func TestResolveThemeExplicit(t *testing.T) {
	for _, theme := range []string{"dark", "light"} {
		if got := resolveTheme(theme); got != theme {
			t.Errorf("resolveTheme(%q) = %q", theme, got)
		}
	}
}
