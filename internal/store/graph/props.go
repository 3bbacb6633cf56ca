package graph

import (
	"encoding/json"
	"fmt"

	"civtracker/internal/store"
)

// toProps converts a row into node properties. Null columns are left out
// and JSON columns are stored as their encoded text.
func toProps(table store.Table, row store.Row) (map[string]any, error) {
	props := map[string]any{tableProperty: table.Name}
	for _, col := range table.Columns {
		value, ok := row[col.Name]
		if !ok || value == nil {
			continue
		}
		if col.Kind == store.JSON {
			payload, err := json.Marshal(value)
			if err != nil {
				return nil, fmt.Errorf("marshaling column %s: %w", col.Name, err)
			}
			value = string(payload)
		}
		props[col.Name] = value
	}
	return props, nil
}

// fromProps rebuilds a row from node properties. Every table column is
// present in the result, missing ones as nil.
func fromProps(table store.Table, props map[string]any) store.Row {
	row := make(store.Row, len(table.Columns))
	for _, col := range table.Columns {
		value := props[col.Name]
		if text, ok := value.(string); ok && col.Kind == store.JSON {
			var decoded any
			if err := json.Unmarshal([]byte(text), &decoded); err == nil {
				value = decoded
			}
		}
		row[col.Name] = value
	}
	return row
}
