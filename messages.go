package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gotiles/mapknow"
)

// Message types understood by the client.
const (
	msgMap           = "map"
	msgCursor        = "cursor"
	msgFlash         = "flash"
	msgOverlay       = "overlay"
	msgClearOverlays = "clear_overlays"
)

// mapMessage is a map update. Cells are ordered; records may omit
// coordinates and continue from the previous one.
type mapMessage struct {
	Type          string             `json:"type" jsonschema:"enum=map"`
	Clear         bool               `json:"clear,omitempty"`
	PlayerOnLevel *bool              `json:"player_on_level,omitempty"`
	VGRDC         *mapknow.Loc       `json:"vgrdc,omitempty"`
	Cells         []mapknow.CellDiff `json:"cells,omitempty"`
}

type cursorMessage struct {
	Type string       `json:"type" jsonschema:"enum=cursor"`
	ID   int          `json:"id"`
	Loc  *mapknow.Loc `json:"loc"`
}

type flashMessage struct {
	Type   string `json:"type" jsonschema:"enum=flash"`
	Colour int    `json:"col"`
}

type overlayMessage struct {
	Type string `json:"type" jsonschema:"enum=overlay"`
	Idx  int    `json:"idx"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// frame is the raw shape of one inbound frame: either a single message or
// an envelope of several.
type frame struct {
	Type string            `json:"type"`
	Msgs []json.RawMessage `json:"msgs"`
}

// rawMessage is one message with its type peeked and the body kept for a
// second decode into the concrete struct.
type rawMessage struct {
	Type string
	Body json.RawMessage
}

// splitFrame returns the messages carried by one frame in order.
func splitFrame(data []byte) ([]rawMessage, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	if f.Type != "" || f.Msgs == nil {
		return []rawMessage{{Type: f.Type, Body: json.RawMessage(data)}}, nil
	}
	out := make([]rawMessage, 0, len(f.Msgs))
	for i, body := range f.Msgs {
		var peek struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(body, &peek); err != nil {
			return out, fmt.Errorf("decode message %d: %w", i, err)
		}
		out = append(out, rawMessage{Type: peek.Type, Body: body})
	}
	return out, nil
}
