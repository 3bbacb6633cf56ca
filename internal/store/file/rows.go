package file

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"civtracker/internal/store"
)

// copyRow returns a JSON-shaped copy so callers never share nested values
// with the stored row.
func copyRow(row store.Row) (store.Row, error) {
	payload, err := json.Marshal(row)
	if err != nil {
		return nil, err
	}
	out := store.Row{}
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) table(name string) map[string]store.Row {
	rows, ok := c.tables[name]
	if !ok {
		rows = map[string]store.Row{}
		c.tables[name] = rows
	}
	return rows
}

func orderKey(row store.Row, column string) string {
	switch v := row[column].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func (c *Client) SelectAll(ctx context.Context, table store.Table) ([]store.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]store.Row, 0, len(c.tables[table.Name]))
	for _, row := range c.tables[table.Name] {
		cp, err := copyRow(row)
		if err != nil {
			return nil, fmt.Errorf("copying %s row: %w", table.Name, err)
		}
		out = append(out, cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := orderKey(out[i], table.OrderBy), orderKey(out[j], table.OrderBy)
		if a != b {
			return strings.Compare(a, b) < 0
		}
		return out[i].ID() < out[j].ID()
	})
	return out, nil
}

func (c *Client) SelectByID(ctx context.Context, table store.Table, id string) (store.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	row, ok := c.tables[table.Name][id]
	if !ok {
		return nil, nil
	}
	cp, err := copyRow(row)
	if err != nil {
		return nil, fmt.Errorf("copying %s row: %w", table.Name, err)
	}
	return cp, nil
}

// project keeps only the table's columns.
func project(table store.Table, row store.Row) (store.Row, error) {
	out := make(store.Row, len(table.Columns))
	for _, col := range table.Columns {
		out[col.Name] = row[col.Name]
	}
	return copyRow(out)
}

func (c *Client) Upsert(ctx context.Context, table store.Table, row store.Row) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	stored, err := project(table, row)
	if err != nil {
		return fmt.Errorf("encoding %s row: %w", table.Name, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.table(table.Name)[row.ID()] = stored
	c.persistLocked()
	return nil
}

func (c *Client) Delete(ctx context.Context, table store.Table, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	rows := c.table(table.Name)
	if _, ok := rows[id]; !ok {
		return false, nil
	}
	delete(rows, id)
	c.persistLocked()
	return true, nil
}

func (c *Client) DeleteAll(ctx context.Context, table store.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables[table.Name] = map[string]store.Row{}
	c.persistLocked()
	return nil
}

// Insert adds every row or none. A duplicate id fails the whole batch.
func (c *Client) Insert(ctx context.Context, table store.Table, rows []store.Row) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	encoded := make([]store.Row, 0, len(rows))
	for _, row := range rows {
		stored, err := project(table, row)
		if err != nil {
			return fmt.Errorf("encoding %s row: %w", table.Name, err)
		}
		encoded = append(encoded, stored)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	existing := c.table(table.Name)
	seen := make(map[string]struct{}, len(encoded))
	for _, row := range encoded {
		id := row.ID()
		if _, dup := existing[id]; dup {
			return fmt.Errorf("inserting %s: duplicate id %q", table.Name, id)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("inserting %s: duplicate id %q", table.Name, id)
		}
		seen[id] = struct{}{}
	}
	for _, row := range encoded {
		existing[row.ID()] = row
	}
	c.persistLocked()
	return nil
}
