package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"civtracker/internal/store"
)

func columnList(table store.Table) string {
	names := make([]string, 0, len(table.Columns))
	for _, col := range table.Columns {
		names = append(names, ident(col.Name))
	}
	return strings.Join(names, ", ")
}

func insertSQL(table store.Table) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(table.Columns)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", ident(table.Name), columnList(table), placeholders)
}

func upsertSQL(table store.Table) string {
	updates := make([]string, 0, len(table.Columns))
	for _, col := range table.Columns {
		if col.Name == store.IDColumn {
			continue
		}
		updates = append(updates, fmt.Sprintf("%s = excluded.%s", ident(col.Name), ident(col.Name)))
	}
	if len(updates) == 0 {
		return insertSQL(table) + fmt.Sprintf(" ON CONFLICT(%s) DO NOTHING", ident(store.IDColumn))
	}
	return insertSQL(table) + fmt.Sprintf(" ON CONFLICT(%s) DO UPDATE SET %s", ident(store.IDColumn), strings.Join(updates, ", "))
}

// encode converts row values to what SQLite stores: JSON as text and
// booleans as 0 or 1.
func encode(table store.Table, row store.Row) ([]any, error) {
	out := make([]any, 0, len(table.Columns))
	for _, col := range table.Columns {
		value := row[col.Name]
		switch {
		case value == nil:
		case col.Kind == store.JSON:
			payload, err := json.Marshal(value)
			if err != nil {
				return nil, fmt.Errorf("marshaling column %s: %w", col.Name, err)
			}
			value = string(payload)
		case col.Kind == store.Boolean:
			if b, ok := value.(bool); ok {
				if b {
					value = int64(1)
				} else {
					value = int64(0)
				}
			}
		}
		out = append(out, value)
	}
	return out, nil
}

func decode(col store.Column, value any) any {
	if b, ok := value.([]byte); ok {
		value = string(b)
	}
	if value == nil {
		return nil
	}
	switch col.Kind {
	case store.JSON:
		text, ok := value.(string)
		if !ok || text == "" {
			return value
		}
		var decoded any
		if err := json.Unmarshal([]byte(text), &decoded); err != nil {
			// Plain text left in a JSON column by older rows.
			return text
		}
		return decoded
	case store.Boolean:
		if n, ok := value.(int64); ok {
			return n != 0
		}
	}
	return value
}

func (c *Client) query(ctx context.Context, table store.Table, query string, args ...any) ([]store.Row, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("selecting %s: %w", table.Name, err)
	}
	defer rows.Close()

	results := make([]store.Row, 0)
	for rows.Next() {
		values := make([]any, len(table.Columns))
		valuePtrs := make([]any, len(table.Columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		row := make(store.Row, len(table.Columns))
		for i, col := range table.Columns {
			row[col.Name] = decode(col, values[i])
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s rows: %w", table.Name, err)
	}
	return results, nil
}

func (c *Client) SelectAll(ctx context.Context, table store.Table) ([]store.Row, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s ASC", columnList(table), ident(table.Name), ident(table.OrderBy))
	return c.query(ctx, table, query)
}

func (c *Client) SelectByID(ctx context.Context, table store.Table, id string) (store.Row, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?", columnList(table), ident(table.Name), ident(store.IDColumn))
	rows, err := c.query(ctx, table, query, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (c *Client) Upsert(ctx context.Context, table store.Table, row store.Row) error {
	args, err := encode(table, row)
	if err != nil {
		return err
	}
	if _, err := c.db.ExecContext(ctx, upsertSQL(table), args...); err != nil {
		return fmt.Errorf("upserting %s %q: %w", table.Name, row.ID(), err)
	}
	return nil
}

func (c *Client) Delete(ctx context.Context, table store.Table, id string) (bool, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", ident(table.Name), ident(store.IDColumn))
	result, err := c.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("deleting %s %q: %w", table.Name, id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("counting deleted %s: %w", table.Name, err)
	}
	return n > 0, nil
}

func (c *Client) DeleteAll(ctx context.Context, table store.Table) error {
	if _, err := c.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", ident(table.Name))); err != nil {
		return fmt.Errorf("clearing %s: %w", table.Name, err)
	}
	return nil
}

func (c *Client) Insert(ctx context.Context, table store.Table, rows []store.Row) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertRows(ctx, tx, table, rows); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing %s insert: %w", table.Name, err)
	}
	return nil
}

func insertRows(ctx context.Context, tx *sql.Tx, table store.Table, rows []store.Row) error {
	stmt, err := tx.PrepareContext(ctx, insertSQL(table))
	if err != nil {
		return fmt.Errorf("preparing %s insert: %w", table.Name, err)
	}
	defer stmt.Close()

	for _, row := range rows {
		args, err := encode(table, row)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("inserting %s %q: %w", table.Name, row.ID(), err)
		}
	}
	return nil
}
