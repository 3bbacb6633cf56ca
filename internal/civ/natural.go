package civ

import "civtracker/internal/codec"

type NaturalWonder struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IconURL string `json:"iconUrl"`
	// SummaryBonus is kept for old rows; effects replaced it.
	SummaryBonus     string         `json:"summaryBonus"`
	TileCount        int            `json:"tileCount"`
	TerrainType      string         `json:"terrainType"`
	Continent        string         `json:"continent"`
	DiscoveredAge    string         `json:"discoveredAge"`
	Effects          []string       `json:"effects"`
	ControllerRole   string         `json:"controllerRole"`
	ControllerLeader string         `json:"controllerLeader"`
	ControllerCiv    string         `json:"controllerCiv"`
	TilesOwnedBy     map[string]int `json:"tilesOwnedBy"`
}

func (n NaturalWonder) RecordID() string { return n.ID }

var NaturalWonders = codec.MustNew[NaturalWonder](codec.Table{
	Name:    "natural_wonders",
	OrderBy: "name",
	Fields: []codec.Field{
		id(),
		text("name", "name"),
		text("iconUrl", "icon_url"),
		text("summaryBonus", "summary_bonus"),
		number("tileCount", "tile_count", 1),
		text("terrainType", "terrain_type"),
		text("continent", "continent"),
		text("discoveredAge", "discovered_age"),
		list("effects", "effects", nil),
		text("controllerRole", "controller_role"),
		text("controllerLeader", "controller_leader_id"),
		text("controllerCiv", "controller_civ_id"),
		object("tilesOwnedBy", "tiles_owned_by"),
	},
})
