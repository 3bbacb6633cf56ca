// Package civ defines the reference records tracked for a hotseat session
// and the field tables that map each of them onto its backend table.
//
// Cross references between records are plain ids and are never checked.
package civ

import (
	"civtracker/internal/codec"
	"civtracker/internal/store"
)

type OwnershipEntry struct {
	OwnerType   string `json:"ownerType"`
	OwnerLeader string `json:"ownerLeader,omitempty"`
	OwnerCiv    string `json:"ownerCiv,omitempty"`
	Timestamp   string `json:"timestamp"`
}

type CivSpecificUnlock struct {
	CivID   string `json:"civId"`
	CivicID string `json:"civicId,omitempty"`
}

func id() codec.Field {
	return codec.Field{Key: "id", Column: store.IDColumn, Read: ""}
}

func text(key, column string) codec.Field {
	return codec.Field{Key: key, Column: column, Kind: store.Text, Write: "", Read: ""}
}

// ref is an optional text column that is stored as null when empty.
func ref(key, column string) codec.Field {
	return codec.Field{Key: key, Column: column, Kind: store.Text, Read: ""}
}

func number(key, column string, read any) codec.Field {
	return codec.Field{Key: key, Column: column, Kind: store.Integer, Read: read}
}

func flag(key, column string) codec.Field {
	return codec.Field{Key: key, Column: column, Kind: store.Boolean, Write: false, Read: false}
}

func object(key, column string) codec.Field {
	return codec.Field{Key: key, Column: column, Kind: store.JSON}
}

func list(key, column string, read any) codec.Field {
	return codec.Field{Key: key, Column: column, Kind: store.JSON, Read: read}
}
