package civ

import "civtracker/internal/codec"

// DefaultUnlockMethod marks units and buildings available from the start of
// their age.
const DefaultUnlockMethod = "age_start"

type Unit struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Age             string   `json:"age"`
	UnitType        string   `json:"unitType"`
	IconURL         string   `json:"iconUrl"`
	Description     string   `json:"description"`
	CombatStrength  *int     `json:"combatStrength"`
	RangedStrength  *int     `json:"rangedStrength"`
	BombardStrength *int     `json:"bombardStrength"`
	Movement        *int     `json:"movement"`
	UnlockMethod    string   `json:"unlockMethod"`
	AssociatedCivID string   `json:"associatedCivId"`
	Effects         []string `json:"effects"`
}

func (u Unit) RecordID() string { return u.ID }

var Units = codec.MustNew[Unit](codec.Table{
	Name:    "units",
	OrderBy: "name",
	Fields: []codec.Field{
		id(),
		text("name", "name"),
		text("age", "age"),
		text("unitType", "unit_type"),
		text("iconUrl", "icon_url"),
		text("description", "description"),
		number("combatStrength", "combat_strength", nil),
		number("rangedStrength", "ranged_strength", nil),
		number("bombardStrength", "bombard_strength", nil),
		number("movement", "movement", nil),
		{Key: "unlockMethod", Column: "unlock_method", Write: DefaultUnlockMethod, Read: DefaultUnlockMethod},
		ref("associatedCivId", "associated_civ_id"),
		list("effects", "effects", codec.EmptyList),
	},
})
