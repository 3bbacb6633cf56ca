package civ

import "civtracker/internal/codec"

// BuildingsOrQuarter is either a single unique building or a quarter made of
// two buildings.
type BuildingsOrQuarter struct {
	IsQuarter   bool   `json:"isQuarter"`
	QuarterName string `json:"quarterName,omitempty"`
	Building1   string `json:"building1,omitempty"`
	Building2   string `json:"building2,omitempty"`
	Building    string `json:"building,omitempty"`
}

type Civilization struct {
	ID                        string              `json:"id"`
	Name                      string              `json:"name"`
	Age                       string              `json:"age"`
	IconURL                   string              `json:"iconUrl"`
	UniqueUnits               []string            `json:"uniqueUnits"`
	UniqueBuildingsOrQuarters *BuildingsOrQuarter `json:"uniqueBuildingsOrQuarters"`
	PassiveBonuses            []string            `json:"passiveBonuses"`
	UniqueCivics              []string            `json:"uniqueCivics"`
	ProductionBonusForWonder  string              `json:"productionBonusForWonder"`
}

func (c Civilization) RecordID() string { return c.ID }

var Civilizations = codec.MustNew[Civilization](codec.Table{
	Name:    "civilizations",
	OrderBy: "name",
	Fields: []codec.Field{
		id(),
		text("name", "name"),
		text("age", "age"),
		text("iconUrl", "icon_url"),
		list("uniqueUnits", "unique_units", nil),
		object("uniqueBuildingsOrQuarters", "unique_buildings_or_quarters"),
		list("passiveBonuses", "passive_bonuses", nil),
		list("uniqueCivics", "unique_civics", nil),
		ref("productionBonusForWonder", "production_bonus_for_wonder"),
	},
})
