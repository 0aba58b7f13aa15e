package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	dark "github.com/thiagokokada/dark-mode-go"
)

type Settings struct {
	Host          string  `json:"host"`
	Theme         string  `json:"theme"`
	LogLevel      string  `json:"logLevel"`
	LogFormat     string  `json:"logFormat"`
	Scale         int     `json:"scale"`
	TileSize      int     `json:"tileSize"`
	ViewRadius    int     `json:"viewRadius"`
	PanelRows     int     `json:"panelRows"`
	TickMillis    int     `json:"tickMillis"`
	ReplaySpeed   float64 `json:"replaySpeed"`
	Strict        bool    `json:"strict"`
	Discord       bool    `json:"discord"`
	CheckWorkers  int     `json:"checkWorkers"`
	LastRecording string  `json:"lastRecording"`
}

var gsdef = Settings{
	Host:         "ws://localhost:8080/socket",
	Theme:        "auto",
	Scale:        2,
	TileSize:     16,
	ViewRadius:   8,
	PanelRows:    8,
	TickMillis:   100,
	ReplaySpeed:  1,
	CheckWorkers: 4,
}

var gs = gsdef

// applyDefaults fills zero values left by an older or hand edited file.
func (s *Settings) applyDefaults() {
	if s.Host == "" {
		s.Host = gsdef.Host
	}
	if s.Theme == "" {
		s.Theme = gsdef.Theme
	}
	if s.Scale <= 0 {
		s.Scale = gsdef.Scale
	}
	if s.TileSize <= 0 {
		s.TileSize = gsdef.TileSize
	}
	if s.ViewRadius <= 0 {
		s.ViewRadius = gsdef.ViewRadius
	}
	if s.PanelRows <= 0 {
		s.PanelRows = gsdef.PanelRows
	}
	if s.TickMillis <= 0 {
		s.TickMillis = gsdef.TickMillis
	}
	if s.ReplaySpeed < 0 {
		s.ReplaySpeed = gsdef.ReplaySpeed
	}
	if s.CheckWorkers <= 0 {
		s.CheckWorkers = gsdef.CheckWorkers
	}
}

func settingsPath() string {
	return filepath.Join(baseDir, "settings.json")
}

func loadSettings() bool {
	gs = gsdef
	data, err := os.ReadFile(settingsPath())
	if err != nil {
		return false
	}
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		logger.WithError(err).Warn("ignoring unreadable settings file")
		return false
	}
	s.applyDefaults()
	gs = s
	return true
}

func saveSettings() {
	data, err := json.MarshalIndent(gs, "", "  ")
	if err != nil {
		logError("save settings: %v", err)
		return
	}
	if err := os.WriteFile(settingsPath(), data, 0644); err != nil {
		logError("save settings: %v", err)
	}
}

// resolveTheme maps the configured theme to "dark" or "light". "auto"
// follows the desktop preference and falls back to dark.
func resolveTheme(theme string) string {
	switch theme {
	case "dark", "light":
		return theme
	}
	isDark, err := dark.IsDarkMode()
	if err != nil {
		logDebug("dark mode query: %v", err)
		return "dark"
	}
	if isDark {
		return "dark"
	}
	return "light"
}
