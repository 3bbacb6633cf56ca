package civ

import "civtracker/internal/codec"

type Building struct {
	ID                    string   `json:"id"`
	Name                  string   `json:"name"`
	Age                   string   `json:"age"`
	LocationType          string   `json:"locationType"`
	ProductionCost        *int     `json:"productionCost"`
	IconURL               string   `json:"iconUrl"`
	PlacementRequirements string   `json:"placementRequirements"`
	IsWarehouse           bool     `json:"isWarehouse"`
	UnlockMethod          string   `json:"unlockMethod"`
	AssociatedCivID       string   `json:"associatedCivId"`
	Effects               []string `json:"effects"`
}

func (b Building) RecordID() string { return b.ID }

var Buildings = codec.MustNew[Building](codec.Table{
	Name:    "buildings",
	OrderBy: "name",
	Fields: []codec.Field{
		id(),
		text("name", "name"),
		text("age", "age"),
		text("locationType", "location_type"),
		number("productionCost", "production_cost", nil),
		text("iconUrl", "icon_url"),
		text("placementRequirements", "placement_requirements"),
		flag("isWarehouse", "is_warehouse"),
		{Key: "unlockMethod", Column: "unlock_method", Write: DefaultUnlockMethod, Read: DefaultUnlockMethod},
		ref("associatedCivId", "associated_civ_id"),
		list("effects", "effects", codec.EmptyList),
	},
})
