package main

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/remeh/sizedwaitgroup"
	"github.com/sirupsen/logrus"

	"gotiles/display"
	"gotiles/mapknow"
)

// checkResult is the outcome of replaying one recording headlessly.
type checkResult struct {
	Path     string
	Frames   int
	Batches  int
	Cells    int
	Known    int
	Monsters int
	Err      error
}

// checkRecording replays frames into a fresh store without renderers.
func checkRecording(path string, frames []recordedFrame, strict bool) checkResult {
	store := mapknow.NewStore(mapknow.Options{Strict: strict, Logger: logger.WithField("recording", path)})
	s := newSession(display.New(store, display.Options{}), 0, strict)
	res := checkResult{Path: path}
	for _, f := range frames {
		if err := s.handleFrame(f.Data); err != nil {
			res.Err = err
			break
		}
	}
	res.Frames = s.frames
	res.Batches = s.disp.batches
	res.Cells = s.disp.cells
	res.Known = store.Len()
	res.Monsters = store.TrackedMonsters()
	return res
}

// checkRecordings replays every path with at most workers in flight and
// logs one line per recording. It fails if any recording failed.
func checkRecordings(paths []string, workers int, strict bool) error {
	if workers <= 0 {
		workers = 1
	}
	var (
		mu      sync.Mutex
		results = make([]checkResult, len(paths))
	)
	swg := sizedwaitgroup.New(workers)
	for i, path := range paths {
		swg.Add()
		go func(i int, path string) {
			defer swg.Done()
			var res checkResult
			frames, err := loadRecording(path)
			if err != nil {
				res = checkResult{Path: path, Err: err}
			} else {
				res = checkRecording(path, frames, strict)
			}
			mu.Lock()
			results[i] = res
			mu.Unlock()
		}(i, path)
	}
	swg.Wait()

	var errs []error
	for _, r := range results {
		entry := logger.WithFields(logrus.Fields{
			"recording": r.Path,
			"frames":    humanize.Comma(int64(r.Frames)),
			"batches":   humanize.Comma(int64(r.Batches)),
			"records":   humanize.Comma(int64(r.Cells)),
			"cells":     humanize.Comma(int64(r.Known)),
			"monsters":  r.Monsters,
		})
		if r.Err != nil {
			entry.WithError(r.Err).Error("check failed")
			errs = append(errs, fmt.Errorf("%s: %w", r.Path, r.Err))
			continue
		}
		entry.Info("check passed")
	}
	return errors.Join(errs...)
}
