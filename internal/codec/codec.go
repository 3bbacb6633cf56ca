// Package codec translates application records to backend rows and back
// using a declarative field table per record type.
package codec

import (
	"encoding/json"
	"fmt"
	"strings"

	"civtracker/internal/store"
)

type emptyList struct{}

// EmptyList stands for a fresh empty array when used as a Write or Read
// default.
var EmptyList any = emptyList{}

// Field maps one record field to one row column.
//
// Write is stored when the record value is falsy and Read is decoded when the
// column is falsy. A nil default means null. Falsy is null, "", 0 and false;
// empty arrays and objects are not falsy.
type Field struct {
	Key    string
	Column string
	Kind   store.Kind
	Write  any
	Read   any
	// Nest stores the value inside a JSON object column under this key.
	Nest string
}

// Persisted reports whether the field has a backing column.
func (f Field) Persisted() bool {
	return f.Column != ""
}

type Table struct {
	Name    string
	OrderBy string
	Fields  []Field
}

// Schema returns the backend table described by the persisted fields.
func (t Table) Schema() store.Table {
	columns := make([]store.Column, 0, len(t.Fields))
	for _, f := range t.Fields {
		if !f.Persisted() {
			continue
		}
		kind := f.Kind
		if f.Nest != "" {
			kind = store.JSON
		}
		columns = append(columns, store.Column{Name: f.Column, Kind: kind})
	}
	return store.Table{Name: t.Name, OrderBy: t.OrderBy, Columns: columns}
}

type Codec[T any] struct {
	table  Table
	schema store.Table
}

func New[T any](table Table) (*Codec[T], error) {
	if err := validateTable(table); err != nil {
		return nil, fmt.Errorf("building codec for %s: %w", table.Name, err)
	}
	schema := table.Schema()
	if err := schema.Validate(); err != nil {
		return nil, fmt.Errorf("building codec for %s: %w", table.Name, err)
	}
	return &Codec[T]{table: table, schema: schema}, nil
}

// MustNew is New for package level tables that are known to be valid.
func MustNew[T any](table Table) *Codec[T] {
	c, err := New[T](table)
	if err != nil {
		panic(err)
	}
	return c
}

func validateTable(t Table) error {
	keys := make(map[string]struct{}, len(t.Fields))
	hasID := false
	for i, f := range t.Fields {
		if strings.TrimSpace(f.Key) == "" {
			return fmt.Errorf("field %d key is required", i)
		}
		if _, exists := keys[f.Key]; exists {
			return fmt.Errorf("duplicate field key: %s", f.Key)
		}
		keys[f.Key] = struct{}{}
		if f.Nest != "" && !f.Persisted() {
			return fmt.Errorf("field %s nests into a missing column", f.Key)
		}
		if f.Key == "id" {
			if f.Column != store.IDColumn {
				return fmt.Errorf("field id must map to column %s", store.IDColumn)
			}
			hasID = true
		}
	}
	if !hasID {
		return fmt.Errorf("field id is required")
	}
	return nil
}

func (c *Codec[T]) Table() store.Table {
	return c.schema
}

func (c *Codec[T]) Name() string {
	return c.table.Name
}

func (c *Codec[T]) ToRow(record T) (store.Row, error) {
	fields, err := toFields(record)
	if err != nil {
		return nil, fmt.Errorf("encoding %s record: %w", c.table.Name, err)
	}

	row := make(store.Row, len(c.schema.Columns))
	for _, f := range c.table.Fields {
		if !f.Persisted() {
			continue
		}
		value := fields[f.Key]
		if f.Nest != "" && truthy(value) {
			value = map[string]any{f.Nest: value}
		}
		if !truthy(value) {
			value = resolve(f.Write)
		}
		row[f.Column] = normalize(f.Kind, value)
	}
	return row, nil
}

func (c *Codec[T]) FromRow(row store.Row) (T, error) {
	fields := make(map[string]any, len(c.table.Fields))
	for _, f := range c.table.Fields {
		var value any
		if f.Persisted() {
			value = row[f.Column]
			if f.Nest != "" {
				value = unnest(value, f.Nest)
			}
		}
		if !truthy(value) {
			value = resolve(f.Read)
		} else if f.Kind == store.Boolean {
			value = true
		}
		fields[f.Key] = value
	}

	var record T
	payload, err := json.Marshal(fields)
	if err != nil {
		return record, fmt.Errorf("decoding %s row %q: %w", c.table.Name, row.ID(), err)
	}
	if err := json.Unmarshal(payload, &record); err != nil {
		return record, fmt.Errorf("decoding %s row %q: %w", c.table.Name, row.ID(), err)
	}
	return record, nil
}

func toFields(record any) (map[string]any, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func unnest(value any, key string) any {
	switch v := value.(type) {
	case map[string]any:
		return v[key]
	case string:
		return v
	default:
		return nil
	}
}

func resolve(value any) any {
	if _, ok := value.(emptyList); ok {
		return []any{}
	}
	return value
}

func normalize(kind store.Kind, value any) any {
	switch kind {
	case store.Integer:
		if f, ok := value.(float64); ok && f == float64(int64(f)) {
			return int64(f)
		}
	case store.Boolean:
		if value != nil {
			return truthy(value)
		}
	}
	return value
}
