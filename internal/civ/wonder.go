package civ

import "civtracker/internal/codec"

type WorldWonder struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	Age                string             `json:"age"`
	IconURL            string             `json:"iconUrl"`
	Bonus              string             `json:"bonus"`
	ProductionCost     int                `json:"productionCost"`
	AssociatedCiv      string             `json:"associatedCiv"`
	OwnerType          string             `json:"ownerType"`
	OwnerLeader        string             `json:"ownerLeader"`
	OwnerCiv           string             `json:"ownerCiv"`
	BigTicket          bool               `json:"bigTicket"`
	UnlockCivic        string             `json:"unlockCivic"`
	CivSpecificUnlock  *CivSpecificUnlock `json:"civSpecificUnlock"`
	Placement          string             `json:"placement"`
	Effects            []string           `json:"effects"`
	CivProductionBonus string             `json:"civProductionBonus"`
	// OwnershipHistory lives outside the wonders table and is always empty
	// when loaded.
	OwnershipHistory []OwnershipEntry `json:"ownershipHistory"`
}

func (w WorldWonder) RecordID() string { return w.ID }

var WorldWonders = codec.MustNew[WorldWonder](codec.Table{
	Name:    "world_wonders",
	OrderBy: "name",
	Fields: []codec.Field{
		id(),
		text("name", "name"),
		text("age", "last_owner_age"),
		text("iconUrl", "icon_url"),
		text("bonus", "summary_bonus"),
		number("productionCost", "production_cost", 0),
		ref("associatedCiv", "associated_civ_id"),
		text("ownerType", "last_owner_role"),
		text("ownerLeader", "last_owner_leader_id"),
		text("ownerCiv", "last_owner_civ_id"),
		flag("bigTicket", "big_ticket"),
		ref("unlockCivic", "unlock_civic"),
		object("civSpecificUnlock", "civ_specific_unlock"),
		{Key: "placement", Column: "requirements", Nest: "placement", Read: ""},
		list("effects", "effects", nil),
		ref("civProductionBonus", "civ_production_bonus"),
		{Key: "ownershipHistory", Read: codec.EmptyList},
	},
})
