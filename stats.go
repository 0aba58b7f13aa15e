package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gotiles/monlist"
)

// monsterStats counts distinct monsters seen per name across sessions.
type monsterStats struct {
	Seen map[string]int `json:"seen"`
}

const statsFile = "stats.json"

type statsRecorder struct {
	mu    sync.Mutex
	path  string
	stats monsterStats
	ids   map[int64]bool
	dirty bool
}

func newStatsRecorder(dir string) *statsRecorder {
	return &statsRecorder{
		path:  filepath.Join(dir, statsFile),
		stats: monsterStats{Seen: make(map[string]int)},
		ids:   make(map[int64]bool),
	}
}

func (r *statsRecorder) load() {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := json.Unmarshal(data, &r.stats); err != nil {
		logger.WithError(err).Warn("load stats")
	}
	if r.stats.Seen == nil {
		r.stats.Seen = make(map[string]int)
	}
}

// Render counts every tracked monster the first time it appears on the
// panel. Anonymous monsters are not counted.
func (r *statsRecorder) Render(groups []monlist.Group) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range groups {
		for _, e := range g.Entries {
			if e.Monster.ID == 0 || r.ids[e.Monster.ID] {
				continue
			}
			r.ids[e.Monster.ID] = true
			r.stats.Seen[e.Monster.Name]++
			r.dirty = true
		}
	}
}

// Reset forgets the ids of the current level; the server may reuse them.
func (r *statsRecorder) Reset() {
	r.mu.Lock()
	r.ids = make(map[int64]bool)
	r.mu.Unlock()
}

func (r *statsRecorder) save() {
	r.mu.Lock()
	if !r.dirty {
		r.mu.Unlock()
		return
	}
	r.dirty = false
	data, err := json.MarshalIndent(r.stats, "", "  ")
	r.mu.Unlock()
	if err != nil {
		logError("save stats: %v", err)
		return
	}
	if err := os.WriteFile(r.path, data, 0644); err != nil {
		logError("save stats: %v", err)
	}
}

// run saves once a minute until ctx is done.
func (r *statsRecorder) run(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.save()
		case <-ctx.Done():
			return
		}
	}
}
