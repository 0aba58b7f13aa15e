package main

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"gotiles/display"
)

// session is the single mutator of the map knowledge: it applies frames and
// runs display passes on one goroutine, so the store needs no locking.
type session struct {
	pass   *display.Pass
	disp   *dispatcher
	tick   time.Duration
	strict bool
	frames int
}

func newSession(pass *display.Pass, tick time.Duration, strict bool) *session {
	return &session{
		pass:   pass,
		disp:   newDispatcher(pass),
		tick:   tick,
		strict: strict,
	}
}

// handleFrame applies one frame to completion and redraws what it changed.
func (s *session) handleFrame(data []byte) error {
	s.frames++
	err := s.disp.dispatchFrame(data)
	s.pass.Run()
	if err != nil && s.strict {
		return fmt.Errorf("frame %d: %w", s.frames, err)
	}
	return nil
}

// run drains frames until the source closes or ctx is done. Between
// frames an animation tick runs a display pass.
func (s *session) run(ctx context.Context, frames <-chan []byte) error {
	var tickC <-chan time.Time
	if s.tick > 0 {
		t := time.NewTicker(s.tick)
		defer t.Stop()
		tickC = t.C
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case data, ok := <-frames:
			if !ok {
				logger.WithFields(logrus.Fields{
					"frames":  s.frames,
					"batches": s.disp.batches,
					"cells":   s.disp.cells,
				}).Info("stream ended")
				return nil
			}
			if err := s.handleFrame(data); err != nil {
				return err
			}
		case <-tickC:
			s.pass.Run()
		}
	}
}
