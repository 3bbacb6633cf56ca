package civ

import "civtracker/internal/codec"

type SocialPolicy struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	IconURL            string   `json:"iconUrl"`
	Age                string   `json:"age"`
	Effects            []string `json:"effects"`
	AssociatedCivID    string   `json:"associatedCivId"`
	AssociatedLeaderID string   `json:"associatedLeaderId"`
}

func (p SocialPolicy) RecordID() string { return p.ID }

var SocialPolicies = codec.MustNew[SocialPolicy](codec.Table{
	Name:    "social_policies",
	OrderBy: "name",
	Fields: []codec.Field{
		id(),
		text("name", "name"),
		text("iconUrl", "icon_url"),
		text("age", "age"),
		list("effects", "effects", codec.EmptyList),
		ref("associatedCivId", "associated_civ_id"),
		ref("associatedLeaderId", "associated_leader_id"),
	},
})
