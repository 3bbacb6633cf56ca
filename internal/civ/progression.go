package civ

import "civtracker/internal/codec"

const (
	TypeTechnology = "technology"
	TypeCivic      = "civic"
)

// Progression is a node of the technology or civic tree. Both trees share
// the same shape and live in separate tables.
type Progression struct {
	ID                string             `json:"id"`
	Name              string             `json:"name"`
	Age               string             `json:"age"`
	Type              string             `json:"type"`
	IconURL           string             `json:"iconUrl"`
	ProductionCost    *int               `json:"productionCost"`
	Effects           []string           `json:"effects"`
	WonderUnlock      string             `json:"wonderUnlock"`
	SocialPolicies    []string           `json:"socialPolicies"`
	UnitUnlocks       []string           `json:"unitUnlocks"`
	BuildingUnlocks   []string           `json:"buildingUnlocks"`
	CivSpecificUnlock *CivSpecificUnlock `json:"civSpecificUnlock"`
}

type Technology struct{ Progression }

type Civic struct{ Progression }

func (t Technology) RecordID() string { return t.ID }

func (c Civic) RecordID() string { return c.ID }

func progressionTable(name, kind string) codec.Table {
	return codec.Table{
		Name:    name,
		OrderBy: "name",
		Fields: []codec.Field{
			id(),
			text("name", "name"),
			text("age", "age"),
			{Key: "type", Read: kind},
			text("iconUrl", "icon_url"),
			number("productionCost", "production_cost", nil),
			list("effects", "effects", nil),
			ref("wonderUnlock", "wonder_unlock"),
			list("socialPolicies", "social_policies", nil),
			list("unitUnlocks", "unit_unlocks", nil),
			list("buildingUnlocks", "building_unlocks", nil),
			object("civSpecificUnlock", "civ_specific_unlock"),
		},
	}
}

var (
	Technologies = codec.MustNew[Technology](progressionTable("technologies", TypeTechnology))
	Civics       = codec.MustNew[Civic](progressionTable("civics", TypeCivic))
)
