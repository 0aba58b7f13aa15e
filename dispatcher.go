package main

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"gotiles/display"
	"gotiles/mapknow"
)

// dispatcher routes decoded server messages onto the display pass and its
// store. It runs on the session goroutine only.
type dispatcher struct {
	pass *display.Pass

	batches int
	cells   int
	unknown int
}

func newDispatcher(pass *display.Pass) *dispatcher {
	return &dispatcher{pass: pass}
}

// dispatchFrame processes one raw frame. Messages of an envelope are handled
// in order; a failing message is logged and the rest still run. The first
// error is returned so strict callers can stop.
func (d *dispatcher) dispatchFrame(data []byte) error {
	msgs, err := splitFrame(data)
	var first error
	if err != nil {
		logWarn(logrus.Fields{"len": len(data), "error": err}, "dropping bad frame")
		first = err
	}
	for _, m := range msgs {
		if err := d.dispatchMessage(m); err != nil {
			logWarn(logrus.Fields{"type": m.Type, "error": err}, "message failed")
			if first == nil {
				first = err
			}
		}
	}
	return first
}

func (d *dispatcher) dispatchMessage(m rawMessage) error {
	switch m.Type {
	case msgMap:
		var mm mapMessage
		if err := json.Unmarshal(m.Body, &mm); err != nil {
			return fmt.Errorf("decode map: %w", err)
		}
		return d.handleMap(&mm)
	case msgCursor:
		var cm cursorMessage
		if err := json.Unmarshal(m.Body, &cm); err != nil {
			return fmt.Errorf("decode cursor: %w", err)
		}
		d.pass.SetCursor(cm.ID, cm.Loc)
	case msgFlash:
		var fm flashMessage
		if err := json.Unmarshal(m.Body, &fm); err != nil {
			return fmt.Errorf("decode flash: %w", err)
		}
		d.pass.SetFlash(fm.Colour)
	case msgOverlay:
		var om overlayMessage
		if err := json.Unmarshal(m.Body, &om); err != nil {
			return fmt.Errorf("decode overlay: %w", err)
		}
		d.pass.AddOverlay(mapknow.Loc{X: om.X, Y: om.Y}, om.Idx)
	case msgClearOverlays:
		d.pass.ClearOverlays()
	default:
		d.unknown++
		logWarn(logrus.Fields{"type": m.Type}, "ignoring unknown message type")
	}
	return nil
}

func (d *dispatcher) handleMap(mm *mapMessage) error {
	if mm.Clear {
		logDebug("map clear")
		d.pass.Clear()
	}
	if mm.PlayerOnLevel != nil {
		d.pass.SetPlayerOnLevel(*mm.PlayerOnLevel)
	}
	if mm.VGRDC != nil {
		d.pass.SetViewCenter(*mm.VGRDC)
	}
	if len(mm.Cells) == 0 {
		return nil
	}
	d.batches++
	d.cells += len(mm.Cells)
	if err := d.pass.Store().Apply(mm.Cells); err != nil {
		return fmt.Errorf("map batch %d: %w", d.batches, err)
	}
	return nil
}
