package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/invopop/jsonschema"

	"gotiles/mapknow"
)

// cellDiffDoc mirrors mapknow.CellDiff for schema output. The real type
// decodes monster through a custom unmarshaller, which the reflector cannot
// see into.
type cellDiffDoc struct {
	X          *int                 `json:"x,omitempty" jsonschema:"description=Column. Omitted: previous x plus one"`
	Y          *int                 `json:"y,omitempty" jsonschema:"description=Row. Omitted: previous y"`
	Terrain    *mapknow.TerrainDiff `json:"terrain,omitempty"`
	Monster    *mapknow.MonsterDiff `json:"monster,omitempty" jsonschema:"description=Partial monster merged onto the cell's monster. Null removes it"`
	Glyph      *string              `json:"g,omitempty"`
	Colour     *int                 `json:"col,omitempty"`
	MapFeature *int                 `json:"mf,omitempty"`
}

type mapMessageDoc struct {
	Type          string        `json:"type" jsonschema:"enum=map"`
	Clear         bool          `json:"clear,omitempty"`
	PlayerOnLevel *bool         `json:"player_on_level,omitempty"`
	VGRDC         *mapknow.Loc  `json:"vgrdc,omitempty"`
	Cells         []cellDiffDoc `json:"cells,omitempty"`
}

// buildSchema describes the map message so server authors can validate
// their output.
func buildSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	schema := reflector.Reflect(new(mapMessageDoc))
	schema.Title = "GoTiles map message"
	schema.Description = "Ordered cell diffs applied in send order"
	return schema
}

func writeSchema(w io.Writer) error {
	data, err := json.MarshalIndent(buildSchema(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
