package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"civtracker/internal/civ"
)

func newCatalog(t *testing.T) (*Catalog, *fakeBackend) {
	t.Helper()
	backend := newFakeBackend()
	clock := newFakeClock()
	return New(backend, Options{Now: clock.Now}), backend
}

func TestKind(t *testing.T) {
	c, _ := newCatalog(t)

	for _, name := range []string{"world_wonders", "worldWonders"} {
		k, err := c.Kind(name)
		if err != nil {
			t.Fatalf("resolving %s: %v", name, err)
		}
		if k.Name() != "world_wonders" || k.Key() != "worldWonders" {
			t.Fatalf("unexpected kind for %s: %s/%s", name, k.Name(), k.Key())
		}
	}

	if _, err := c.Kind("dragons"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if got := len(c.Tables()); got != 10 {
		t.Fatalf("expected 10 tables, got %d", got)
	}
	if got := len(c.KindNames()); got != 10 {
		t.Fatalf("expected 10 kind names, got %d", got)
	}
}

func TestEntitiesSaveAndList(t *testing.T) {
	ctx := context.Background()
	c, _ := newCatalog(t)
	k, err := c.Kind("units")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	saved, warnings, err := k.Save(ctx, json.RawMessage(`{"id":"legion","name":"Legion","combatStrength":30,"unknown":true}`), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	unit, ok := saved.(civ.Unit)
	if !ok {
		t.Fatalf("expected civ.Unit, got %T", saved)
	}
	if unit.UnlockMethod != civ.DefaultUnlockMethod || unit.CombatStrength == nil || *unit.CombatStrength != 30 {
		t.Fatalf("unexpected unit: %+v", unit)
	}

	_, n, err := k.List(ctx)
	if err != nil || n != 1 {
		t.Fatalf("expected one unit, got %d, %v", n, err)
	}

	got, err := k.Get(ctx, "missing")
	if err != nil || got != nil {
		t.Fatalf("expected nil for a missing unit, got %v, %v", got, err)
	}

	if _, _, err := k.Save(ctx, json.RawMessage(`[1,2]`), ""); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for a non-object, got %v", err)
	}
}

func TestEntitiesReplaceRejectsNonArray(t *testing.T) {
	ctx := context.Background()
	c, backend := newCatalog(t)
	k, err := c.Kind("leaders")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, raw := range []string{`{"id":"x"}`, `null`, `"leaders"`} {
		if _, err := k.Replace(ctx, json.RawMessage(raw)); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument for %s, got %v", raw, err)
		}
	}
	if n := backend.total(); n != 0 {
		t.Fatalf("expected no backend calls, got %d", n)
	}

	n, err := k.Replace(ctx, json.RawMessage(`[{"id":"augustus","name":"Augustus"}]`))
	if err != nil || n != 1 {
		t.Fatalf("expected one leader, got %d, %v", n, err)
	}
}

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	source, _ := newCatalog(t)
	if _, err := source.WorldWonders.Save(ctx, civ.WorldWonder{ID: "pyramids", Name: "Pyramids", OwnerType: "Tiny"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := source.Leaders.Save(ctx, civ.Leader{ID: "augustus", Name: "Augustus"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc, err := source.Export(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.WorldWonders) != 1 || len(doc.Leaders) != 1 || doc.Units == nil {
		t.Fatalf("unexpected export: %+v", doc.Counts())
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decoded, err := DecodeDocument(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	target, backend := newCatalog(t)
	if _, err := target.Mementos.Save(ctx, civ.Memento{ID: "stale", Name: "Stale"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	counts, err := target.Import(ctx, decoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if counts["worldWonders"] != 1 || counts["leaders"] != 1 || counts["mementos"] != 0 {
		t.Fatalf("unexpected import counts: %v", counts)
	}
	if backend.count("DeleteAll") != 10 {
		t.Fatalf("expected every section to be replaced, got %d", backend.count("DeleteAll"))
	}

	mementos, err := target.Mementos.List(ctx)
	if err != nil || len(mementos) != 0 {
		t.Fatalf("expected mementos to be cleared, got %+v, %v", mementos, err)
	}
	leader, err := target.Leaders.GetByID(ctx, "augustus")
	if err != nil || leader == nil || leader.Name != "Augustus" {
		t.Fatalf("expected imported leader, got %+v, %v", leader, err)
	}
}

func TestImportSkipsAbsentSections(t *testing.T) {
	ctx := context.Background()
	c, backend := newCatalog(t)
	if _, err := c.Units.Save(ctx, civ.Unit{ID: "scout", Name: "Scout"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc, err := DecodeDocument([]byte(`{"leaders":[{"id":"augustus","name":"Augustus"}],"units":null}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	counts, err := c.Import(ctx, doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(counts) != 1 || counts["leaders"] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
	if backend.count("DeleteAll") != 1 {
		t.Fatalf("expected only leaders to be replaced, got %d", backend.count("DeleteAll"))
	}
	units, err := c.Units.List(ctx)
	if err != nil || len(units) != 1 {
		t.Fatalf("expected units to be untouched, got %+v, %v", units, err)
	}
}

func TestImportStopsOnInvalidSection(t *testing.T) {
	ctx := context.Background()
	c, backend := newCatalog(t)
	doc := Document{
		WorldWonders: []civ.WorldWonder{{ID: "a", Name: "A"}},
		Leaders:      []civ.Leader{{Name: "no id"}},
	}

	counts, err := c.Import(ctx, doc)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if counts["worldWonders"] != 1 {
		t.Fatalf("expected world wonders to be imported before the failure, got %v", counts)
	}
	if backend.count("DeleteAll") != 1 {
		t.Fatalf("expected the invalid section to skip mutation, got %d deletes", backend.count("DeleteAll"))
	}
}

func TestDecodeDocumentUpgradesLegacyWonders(t *testing.T) {
	legacy := `{
		"worldWonders": [{
			"id": "pyramids",
			"name": "Pyramids",
			"era": "Antiquity",
			"icon": "pyramids.png",
			"owner": "Steve",
			"bigTicket": true,
			"ownershipHistory": [{"owner": "Tiny", "timestamp": "2024-01-01T00:00:00Z"}]
		}, {
			"id": "petra",
			"name": "Petra",
			"era": "ignored",
			"age": "Exploration"
		}]
	}`

	doc, err := DecodeDocument([]byte(legacy))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.WorldWonders) != 2 {
		t.Fatalf("expected two wonders, got %d", len(doc.WorldWonders))
	}
	w := doc.WorldWonders[0]
	if w.Age != "Antiquity" || w.IconURL != "pyramids.png" || w.OwnerType != "Steve" || !w.BigTicket {
		t.Fatalf("legacy keys were not upgraded: %+v", w)
	}
	if len(w.OwnershipHistory) != 1 || w.OwnershipHistory[0].OwnerType != "Tiny" {
		t.Fatalf("legacy history was not upgraded: %+v", w.OwnershipHistory)
	}
	if doc.WorldWonders[1].Age != "Exploration" {
		t.Fatalf("current keys must win over legacy ones, got %q", doc.WorldWonders[1].Age)
	}
	if doc.Leaders != nil {
		t.Fatalf("absent sections must stay nil")
	}

	if _, err := DecodeDocument([]byte(`{"worldWonders": {"id": "x"}}`)); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for a non-array section, got %v", err)
	}
	if _, err := DecodeDocument([]byte(`not json`)); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for malformed input, got %v", err)
	}
}

func TestClaims(t *testing.T) {
	ctx := context.Background()
	c, _ := newCatalog(t)
	if _, err := c.WorldWonders.ReplaceAll(ctx, []civ.WorldWonder{
		{ID: "pyramids", Name: "Pyramids", OwnerType: "Tiny"},
		{ID: "petra", Name: "Petra"},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.NaturalWonders.Save(ctx, civ.NaturalWonder{ID: "everest", Name: "Everest", ControllerRole: "Steve"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := c.Claims(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(claims) != 2 {
		t.Fatalf("expected two claims, got %+v", claims)
	}
	if claims[0].Category != "worldWonders" || claims[0].ItemID != "pyramids" || claims[0].Owner != "Tiny" {
		t.Fatalf("unexpected wonder claim: %+v", claims[0])
	}
	if claims[1].Category != "naturalWonders" || claims[1].Owner != "Steve" {
		t.Fatalf("unexpected natural wonder claim: %+v", claims[1])
	}
}
