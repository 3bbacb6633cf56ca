package graph

import (
	"reflect"
	"testing"

	"civtracker/internal/store"
)

func testTable() store.Table {
	return store.Table{
		Name:    "units",
		OrderBy: "name",
		Columns: []store.Column{
			{Name: "id", Kind: store.Text},
			{Name: "name", Kind: store.Text},
			{Name: "movement", Kind: store.Integer},
			{Name: "is_unique", Kind: store.Boolean},
			{Name: "effects", Kind: store.JSON},
		},
	}
}

func TestToProps(t *testing.T) {
	row := store.Row{
		"id":        "legion",
		"name":      "Legion",
		"movement":  int64(2),
		"is_unique": true,
		"effects":   []any{"+1 combat"},
		"ignored":   "not a column",
	}
	props, err := toProps(testTable(), row)
	if err != nil {
		t.Fatalf("to props: %v", err)
	}
	want := map[string]any{
		"_table":    "units",
		"id":        "legion",
		"name":      "Legion",
		"movement":  int64(2),
		"is_unique": true,
		"effects":   `["+1 combat"]`,
	}
	if !reflect.DeepEqual(props, want) {
		t.Fatalf("props = %#v, want %#v", props, want)
	}
}

func TestToPropsSkipsNulls(t *testing.T) {
	props, err := toProps(testTable(), store.Row{"id": "legion", "effects": nil})
	if err != nil {
		t.Fatalf("to props: %v", err)
	}
	if _, ok := props["effects"]; ok {
		t.Fatalf("null column should be omitted: %#v", props)
	}
	if len(props) != 2 {
		t.Fatalf("expected table and id only, got %#v", props)
	}
}

func TestFromProps(t *testing.T) {
	props := map[string]any{
		"_table":    "units",
		"id":        "legion",
		"name":      "Legion",
		"is_unique": false,
		"effects":   `["+1 combat"]`,
	}
	row := fromProps(testTable(), props)
	want := store.Row{
		"id":        "legion",
		"name":      "Legion",
		"movement":  nil,
		"is_unique": false,
		"effects":   []any{"+1 combat"},
	}
	if !reflect.DeepEqual(row, want) {
		t.Fatalf("row = %#v, want %#v", row, want)
	}
}

func TestFromPropsKeepsPlainText(t *testing.T) {
	row := fromProps(testTable(), map[string]any{"id": "legion", "effects": "+1 combat"})
	if row["effects"] != "+1 combat" {
		t.Fatalf("plain text should survive, got %#v", row["effects"])
	}
}
