package store

import (
	"fmt"
	"regexp"
)

// IDColumn is the primary key column shared by every table.
const IDColumn = "id"

// Row is one backend row keyed by column name. Values are JSON-shaped:
// nil, string, bool, numbers, []any and map[string]any.
type Row map[string]any

// ID returns the row's id column as a string, or "" when absent.
func (r Row) ID() string {
	id, _ := r[IDColumn].(string)
	return id
}

type Kind int

const (
	Text Kind = iota
	Integer
	Boolean
	JSON
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Integer:
		return "integer"
	case Boolean:
		return "boolean"
	case JSON:
		return "json"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

type Column struct {
	Name string
	Kind Kind
}

type Table struct {
	Name    string
	OrderBy string
	Columns []Column
}

// Column returns the named column definition.
func (t Table) Column(name string) (Column, bool) {
	for _, col := range t.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return Column{}, false
}

// ColumnNames returns column names in declaration order.
func (t Table) ColumnNames() []string {
	names := make([]string, 0, len(t.Columns))
	for _, col := range t.Columns {
		names = append(names, col.Name)
	}
	return names
}

var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Validate checks that the table and column names are safe to splice into
// SQL and URLs and that the id column is present.
func (t Table) Validate() error {
	if !identPattern.MatchString(t.Name) {
		return fmt.Errorf("invalid table name: %q", t.Name)
	}
	if t.OrderBy != "" {
		if _, ok := t.Column(t.OrderBy); !ok {
			return fmt.Errorf("table %s orders by unknown column %q", t.Name, t.OrderBy)
		}
	}
	seen := make(map[string]struct{}, len(t.Columns))
	hasID := false
	for _, col := range t.Columns {
		if !identPattern.MatchString(col.Name) {
			return fmt.Errorf("table %s has invalid column name: %q", t.Name, col.Name)
		}
		if _, exists := seen[col.Name]; exists {
			return fmt.Errorf("table %s has duplicate column: %s", t.Name, col.Name)
		}
		seen[col.Name] = struct{}{}
		if col.Name == IDColumn {
			if col.Kind != Text {
				return fmt.Errorf("table %s id column must be text", t.Name)
			}
			hasID = true
		}
	}
	if !hasID {
		return fmt.Errorf("table %s has no id column", t.Name)
	}
	return nil
}
