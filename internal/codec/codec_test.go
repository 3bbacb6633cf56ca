package codec

import (
	"reflect"
	"testing"

	"civtracker/internal/store"
)

type sample struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Cost      int      `json:"cost"`
	Strength  *int     `json:"strength"`
	Flag      bool     `json:"flag"`
	Unlock    string   `json:"unlock"`
	Placement string   `json:"placement"`
	Effects   []string `json:"effects"`
	History   []string `json:"history"`
	Kind      string   `json:"kind"`
}

func sampleTable() Table {
	return Table{
		Name:    "samples",
		OrderBy: "name",
		Fields: []Field{
			{Key: "id", Column: "id", Read: ""},
			{Key: "name", Column: "name", Write: "", Read: ""},
			{Key: "cost", Column: "cost_value", Kind: store.Integer, Read: 0},
			{Key: "strength", Column: "strength", Kind: store.Integer},
			{Key: "flag", Column: "is_flag", Kind: store.Boolean, Write: false, Read: false},
			{Key: "unlock", Column: "unlock_method", Write: "age_start", Read: "age_start"},
			{Key: "placement", Column: "requirements", Kind: store.JSON, Nest: "placement", Read: ""},
			{Key: "effects", Column: "effects", Kind: store.JSON, Read: EmptyList},
			{Key: "history", Read: EmptyList},
			{Key: "kind", Read: "sample"},
		},
	}
}

func TestToRowDefaults(t *testing.T) {
	c := MustNew[sample](sampleTable())

	row, err := c.ToRow(sample{ID: "a"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := store.Row{
		"id":            "a",
		"name":          "",
		"cost_value":    nil,
		"strength":      nil,
		"is_flag":       false,
		"unlock_method": "age_start",
		"requirements":  nil,
		"effects":       nil,
	}
	if !reflect.DeepEqual(row, expected) {
		t.Fatalf("unexpected row:\n got  %#v\n want %#v", row, expected)
	}
}

func TestToRowPopulated(t *testing.T) {
	c := MustNew[sample](sampleTable())
	strength := 25

	row, err := c.ToRow(sample{
		ID:        "a",
		Name:      "Alpha",
		Cost:      120,
		Strength:  &strength,
		Flag:      true,
		Unlock:    "bronze_working",
		Placement: "Adjacent to river",
		Effects:   []string{"+2 culture"},
		History:   []string{"dropped"},
		Kind:      "ignored",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if row["cost_value"] != int64(120) {
		t.Fatalf("expected integer cost, got %#v", row["cost_value"])
	}
	if row["strength"] != int64(25) {
		t.Fatalf("expected integer strength, got %#v", row["strength"])
	}
	if row["is_flag"] != true {
		t.Fatalf("expected flag true, got %#v", row["is_flag"])
	}
	if !reflect.DeepEqual(row["requirements"], map[string]any{"placement": "Adjacent to river"}) {
		t.Fatalf("expected nested placement, got %#v", row["requirements"])
	}
	if !reflect.DeepEqual(row["effects"], []any{"+2 culture"}) {
		t.Fatalf("unexpected effects: %#v", row["effects"])
	}
	if _, ok := row["history"]; ok {
		t.Fatalf("record-only field leaked into row")
	}
	if _, ok := row["kind"]; ok {
		t.Fatalf("record-only field leaked into row")
	}
}

func TestToRowKeepsEmptyArray(t *testing.T) {
	c := MustNew[sample](sampleTable())

	row, err := c.ToRow(sample{ID: "a", Effects: []string{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(row["effects"], []any{}) {
		t.Fatalf("expected empty array to survive, got %#v", row["effects"])
	}
}

func TestFromRowDefaults(t *testing.T) {
	c := MustNew[sample](sampleTable())

	record, err := c.FromRow(store.Row{"id": "a", "name": nil, "unknown_column": "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if record.ID != "a" || record.Name != "" || record.Cost != 0 || record.Strength != nil {
		t.Fatalf("unexpected scalars: %+v", record)
	}
	if record.Unlock != "age_start" {
		t.Fatalf("expected age_start default, got %q", record.Unlock)
	}
	if record.Effects == nil || len(record.Effects) != 0 {
		t.Fatalf("expected empty non-nil effects, got %#v", record.Effects)
	}
	if record.History == nil || len(record.History) != 0 {
		t.Fatalf("expected empty non-nil history, got %#v", record.History)
	}
	if record.Kind != "sample" {
		t.Fatalf("expected constant kind, got %q", record.Kind)
	}
}

func TestFromRowValues(t *testing.T) {
	c := MustNew[sample](sampleTable())

	record, err := c.FromRow(store.Row{
		"id":            "a",
		"name":          "Alpha",
		"cost_value":    int64(120),
		"strength":      int32(30),
		"is_flag":       int64(1),
		"unlock_method": "writing",
		"requirements":  map[string]any{"placement": "Coast"},
		"effects":       []any{"x", "y"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if record.Cost != 120 || record.Strength == nil || *record.Strength != 30 {
		t.Fatalf("unexpected numbers: %+v", record)
	}
	if !record.Flag {
		t.Fatalf("expected flag from integer 1")
	}
	if record.Placement != "Coast" {
		t.Fatalf("expected nested placement, got %q", record.Placement)
	}
	if !reflect.DeepEqual(record.Effects, []string{"x", "y"}) {
		t.Fatalf("unexpected effects: %#v", record.Effects)
	}
}

func TestFromRowLegacyStringNest(t *testing.T) {
	c := MustNew[sample](sampleTable())

	record, err := c.FromRow(store.Row{"id": "a", "requirements": "Next to mountain"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Placement != "Next to mountain" {
		t.Fatalf("expected raw string requirement, got %q", record.Placement)
	}
}

func TestFromRowMalformed(t *testing.T) {
	c := MustNew[sample](sampleTable())

	if _, err := c.FromRow(store.Row{"id": "a", "cost_value": "lots"}); err == nil {
		t.Fatalf("expected error for malformed column")
	}
}

func TestEmptyListDefaultsAreNotShared(t *testing.T) {
	c := MustNew[sample](sampleTable())

	first, err := c.FromRow(store.Row{"id": "a"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first.Effects = append(first.Effects, "mutated")

	second, err := c.FromRow(store.Row{"id": "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(second.Effects) != 0 {
		t.Fatalf("default list leaked mutation: %#v", second.Effects)
	}
}

func TestRoundTrip(t *testing.T) {
	c := MustNew[sample](sampleTable())
	strength := 4

	in := sample{ID: "a", Name: "Alpha", Cost: 10, Strength: &strength, Flag: true, Unlock: "x", Placement: "p", Effects: []string{"e"}}
	row, err := c.ToRow(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err := c.FromRow(row)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	in.History = []string{}
	in.Kind = "sample"
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch:\n got  %+v\n want %+v", out, in)
	}
}

func TestNewValidation(t *testing.T) {
	t.Run("missing id field", func(t *testing.T) {
		_, err := New[sample](Table{Name: "samples", Fields: []Field{{Key: "name", Column: "name"}}})
		if err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("id mapped elsewhere", func(t *testing.T) {
		_, err := New[sample](Table{Name: "samples", Fields: []Field{{Key: "id", Column: "sample_id"}}})
		if err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("duplicate key", func(t *testing.T) {
		_, err := New[sample](Table{Name: "samples", Fields: []Field{{Key: "id", Column: "id"}, {Key: "id", Column: "other"}}})
		if err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("nest without column", func(t *testing.T) {
		_, err := New[sample](Table{Name: "samples", Fields: []Field{{Key: "id", Column: "id"}, {Key: "placement", Nest: "placement"}}})
		if err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("bad table name", func(t *testing.T) {
		_, err := New[sample](Table{Name: "Samples!", Fields: []Field{{Key: "id", Column: "id"}}})
		if err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestSchema(t *testing.T) {
	schema := MustNew[sample](sampleTable()).Table()

	if schema.Name != "samples" || schema.OrderBy != "name" {
		t.Fatalf("unexpected schema header: %+v", schema)
	}
	col, ok := schema.Column("requirements")
	if !ok || col.Kind != store.JSON {
		t.Fatalf("expected nested column to be json, got %+v", col)
	}
	if _, ok := schema.Column("history"); ok {
		t.Fatalf("record-only field should not have a column")
	}
	if len(schema.Columns) != 8 {
		t.Fatalf("expected 8 columns, got %d", len(schema.Columns))
	}
}
