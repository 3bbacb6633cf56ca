package civ

import "civtracker/internal/codec"

type LevelUnlock struct {
	Level       int    `json:"level"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

type Leader struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	IconURL      string        `json:"iconUrl"`
	TinyLevel    int           `json:"tinyLevel"`
	SteveLevel   int           `json:"steveLevel"`
	Effects      []string      `json:"effects"`
	LevelUnlocks []LevelUnlock `json:"levelUnlocks"`
}

func (l Leader) RecordID() string { return l.ID }

var Leaders = codec.MustNew[Leader](codec.Table{
	Name:    "leaders",
	OrderBy: "name",
	Fields: []codec.Field{
		id(),
		text("name", "name"),
		text("iconUrl", "icon_url"),
		number("tinyLevel", "tiny_level", 1),
		number("steveLevel", "steve_level", 1),
		list("effects", "effects", nil),
		list("levelUnlocks", "level_unlocks", nil),
	},
})
