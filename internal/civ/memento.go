package civ

import "civtracker/internal/codec"

type Memento struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	IconURL           string   `json:"iconUrl"`
	UnlockDescription string   `json:"unlockDescription"`
	Effects           []string `json:"effects"`
}

func (m Memento) RecordID() string { return m.ID }

var Mementos = codec.MustNew[Memento](codec.Table{
	Name:    "mementos",
	OrderBy: "name",
	Fields: []codec.Field{
		id(),
		text("name", "name"),
		text("iconUrl", "icon_url"),
		text("unlockDescription", "unlock_description"),
		list("effects", "effects", nil),
	},
})
