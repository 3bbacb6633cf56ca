package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"civtracker/internal/civ"
)

// Document is the import and export file. A nil section is absent and is
// left alone on import; an empty one clears its collection.
type Document struct {
	WorldWonders   []civ.WorldWonder   `json:"worldWonders"`
	Leaders        []civ.Leader        `json:"leaders"`
	Civilizations  []civ.Civilization  `json:"civilizations"`
	Units          []civ.Unit          `json:"units"`
	Buildings      []civ.Building      `json:"buildings"`
	Technologies   []civ.Technology    `json:"technologies"`
	Civics         []civ.Civic         `json:"civics"`
	SocialPolicies []civ.SocialPolicy  `json:"socialPolicies"`
	Mementos       []civ.Memento       `json:"mementos"`
	NaturalWonders []civ.NaturalWonder `json:"naturalWonders"`
}

// Counts returns the number of records per present section.
func (d Document) Counts() map[string]int {
	counts := map[string]int{}
	add := func(key string, present bool, n int) {
		if present {
			counts[key] = n
		}
	}
	add("worldWonders", d.WorldWonders != nil, len(d.WorldWonders))
	add("leaders", d.Leaders != nil, len(d.Leaders))
	add("civilizations", d.Civilizations != nil, len(d.Civilizations))
	add("units", d.Units != nil, len(d.Units))
	add("buildings", d.Buildings != nil, len(d.Buildings))
	add("technologies", d.Technologies != nil, len(d.Technologies))
	add("civics", d.Civics != nil, len(d.Civics))
	add("socialPolicies", d.SocialPolicies != nil, len(d.SocialPolicies))
	add("mementos", d.Mementos != nil, len(d.Mementos))
	add("naturalWonders", d.NaturalWonders != nil, len(d.NaturalWonders))
	return counts
}

// Export lists every collection into a document.
func (c *Catalog) Export(ctx context.Context) (Document, error) {
	var doc Document
	var err error
	if doc.WorldWonders, err = c.WorldWonders.List(ctx); err != nil {
		return Document{}, fmt.Errorf("exporting world wonders: %w", err)
	}
	if doc.Leaders, err = c.Leaders.List(ctx); err != nil {
		return Document{}, fmt.Errorf("exporting leaders: %w", err)
	}
	if doc.Civilizations, err = c.Civilizations.List(ctx); err != nil {
		return Document{}, fmt.Errorf("exporting civilizations: %w", err)
	}
	if doc.Units, err = c.Units.List(ctx); err != nil {
		return Document{}, fmt.Errorf("exporting units: %w", err)
	}
	if doc.Buildings, err = c.Buildings.List(ctx); err != nil {
		return Document{}, fmt.Errorf("exporting buildings: %w", err)
	}
	if doc.Technologies, err = c.Technologies.List(ctx); err != nil {
		return Document{}, fmt.Errorf("exporting technologies: %w", err)
	}
	if doc.Civics, err = c.Civics.List(ctx); err != nil {
		return Document{}, fmt.Errorf("exporting civics: %w", err)
	}
	if doc.SocialPolicies, err = c.SocialPolicies.List(ctx); err != nil {
		return Document{}, fmt.Errorf("exporting social policies: %w", err)
	}
	if doc.Mementos, err = c.Mementos.List(ctx); err != nil {
		return Document{}, fmt.Errorf("exporting mementos: %w", err)
	}
	if doc.NaturalWonders, err = c.NaturalWonders.List(ctx); err != nil {
		return Document{}, fmt.Errorf("exporting natural wonders: %w", err)
	}
	return doc, nil
}

// Import replaces every collection that has a section in doc. Sections are
// applied in order and a failure stops the import; earlier sections stay
// replaced.
func (c *Catalog) Import(ctx context.Context, doc Document) (map[string]int, error) {
	counts := map[string]int{}
	steps := []struct {
		key   string
		apply func() (int, error)
	}{
		{"worldWonders", func() (int, error) { return replaceSection(ctx, c.WorldWonders, doc.WorldWonders) }},
		{"leaders", func() (int, error) { return replaceSection(ctx, c.Leaders, doc.Leaders) }},
		{"civilizations", func() (int, error) { return replaceSection(ctx, c.Civilizations, doc.Civilizations) }},
		{"units", func() (int, error) { return replaceSection(ctx, c.Units, doc.Units) }},
		{"buildings", func() (int, error) { return replaceSection(ctx, c.Buildings, doc.Buildings) }},
		{"technologies", func() (int, error) { return replaceSection(ctx, c.Technologies, doc.Technologies) }},
		{"civics", func() (int, error) { return replaceSection(ctx, c.Civics, doc.Civics) }},
		{"socialPolicies", func() (int, error) { return replaceSection(ctx, c.SocialPolicies, doc.SocialPolicies) }},
		{"mementos", func() (int, error) { return replaceSection(ctx, c.Mementos, doc.Mementos) }},
		{"naturalWonders", func() (int, error) { return replaceSection(ctx, c.NaturalWonders, doc.NaturalWonders) }},
	}
	for _, step := range steps {
		n, err := step.apply()
		if err != nil {
			return counts, fmt.Errorf("importing %s: %w", step.key, err)
		}
		if n >= 0 {
			counts[step.key] = n
		}
	}
	return counts, nil
}

// replaceSection returns -1 when the section is absent.
func replaceSection[T Record](ctx context.Context, c *Collection[T], records []T) (int, error) {
	if records == nil {
		return -1, nil
	}
	replaced, err := c.ReplaceAll(ctx, records)
	if err != nil {
		return 0, err
	}
	return len(replaced), nil
}

// legacyWonderKeys maps world wonder keys written by the old local editor to
// their current names.
var legacyWonderKeys = map[string]string{
	"era":   "age",
	"icon":  "iconUrl",
	"owner": "ownerType",
}

// DecodeDocument parses an exported document. World wonders in the old
// editor layout are upgraded on the way in.
func DecodeDocument(data []byte) (Document, error) {
	var sections map[string]json.RawMessage
	if err := json.Unmarshal(data, &sections); err != nil {
		return Document{}, fmt.Errorf("%w: decoding document: %v", ErrInvalidArgument, err)
	}

	if raw, ok := sections["worldWonders"]; ok && string(raw) != "null" {
		upgraded, err := upgradeWonders(raw)
		if err != nil {
			return Document{}, err
		}
		sections["worldWonders"] = upgraded
	}

	normalized, err := json.Marshal(sections)
	if err != nil {
		return Document{}, fmt.Errorf("decoding document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(normalized, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: decoding document: %v", ErrInvalidArgument, err)
	}
	return doc, nil
}

func upgradeWonders(raw json.RawMessage) (json.RawMessage, error) {
	var items []map[string]any
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: worldWonders must be an array of objects: %v", ErrInvalidArgument, err)
	}
	for _, item := range items {
		renameKeys(item, legacyWonderKeys)
		history, ok := item["ownershipHistory"].([]any)
		if !ok {
			continue
		}
		for _, entry := range history {
			if m, ok := entry.(map[string]any); ok {
				renameKeys(m, map[string]string{"owner": "ownerType"})
			}
		}
	}
	out, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("upgrading world wonders: %w", err)
	}
	return out, nil
}

// renameKeys moves old keys to new ones unless the new key is already set.
func renameKeys(item map[string]any, keys map[string]string) {
	for old, current := range keys {
		value, ok := item[old]
		if !ok {
			continue
		}
		delete(item, old)
		if _, exists := item[current]; !exists {
			item[current] = value
		}
	}
}
