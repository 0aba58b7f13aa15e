package mapknow

import (
	"bytes"
	"encoding/json"
)

// Monster attitudes, ordered as the panel sorts them.
const (
	AttHostile = iota
	AttNeutral
	AttStrictNeutral
	AttGoodNeutral
	AttFriendly
)

// TypeData holds per-species attributes.
type TypeData struct {
	AvgHP int  `json:"avghp"`
	NoExp bool `json:"no_exp"`
}

// Monster is the display and combat summary of a monster. ID 0 marks an
// anonymous monster that is not identity tracked.
type Monster struct {
	ID       int64
	Name     string
	Plural   string
	Attitude int
	Type     int
	Threat   int
	TypeData TypeData
}

// MonsterDiff is a partial monster payload.
type MonsterDiff struct {
	ID       int64     `json:"id,omitempty"`
	Name     *string   `json:"name,omitempty"`
	Plural   *string   `json:"plural,omitempty"`
	Attitude *int      `json:"att,omitempty"`
	Type     *int      `json:"type,omitempty"`
	Threat   *int      `json:"threat,omitempty"`
	TypeData *TypeData `json:"typedata,omitempty"`
}

func (m *Monster) merge(d *MonsterDiff) {
	if d.ID != 0 {
		m.ID = d.ID
	}
	if d.Name != nil {
		m.Name = *d.Name
	}
	if d.Plural != nil {
		m.Plural = *d.Plural
	}
	if d.Attitude != nil {
		m.Attitude = *d.Attitude
	}
	if d.Type != nil {
		m.Type = *d.Type
	}
	if d.Threat != nil {
		m.Threat = *d.Threat
	}
	if d.TypeData != nil {
		m.TypeData = *d.TypeData
	}
}

// MonsterUpdate distinguishes an absent monster property (Set false, the
// cell's monster is kept) from an explicit null (Set true, Value nil, the
// monster left the cell).
type MonsterUpdate struct {
	Set   bool         `json:"-"`
	Value *MonsterDiff `json:"-"`
}

// SetMonster returns an update placing d on the cell.
func SetMonster(d MonsterDiff) MonsterUpdate {
	return MonsterUpdate{Set: true, Value: &d}
}

// RemoveMonster returns an update clearing the cell's monster.
func RemoveMonster() MonsterUpdate {
	return MonsterUpdate{Set: true}
}

func (u *MonsterUpdate) UnmarshalJSON(data []byte) error {
	u.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		u.Value = nil
		return nil
	}
	var d MonsterDiff
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	u.Value = &d
	return nil
}
