package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"civtracker/internal/store"
)

func columnType(kind store.Kind) string {
	switch kind {
	case store.Integer, store.Boolean:
		return "INTEGER"
	default:
		// JSON columns hold their encoded text.
		return "TEXT"
	}
}

func createTableSQL(table store.Table) string {
	defs := make([]string, 0, len(table.Columns))
	for _, col := range table.Columns {
		def := ident(col.Name) + " " + columnType(col.Kind)
		if col.Name == store.IDColumn {
			def += " PRIMARY KEY"
		}
		defs = append(defs, def)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", ident(table.Name), strings.Join(defs, ",\n\t"))
}

// EnsureSchema creates missing tables and adds columns missing from older
// ones. SQLite has no ADD COLUMN IF NOT EXISTS, so existing columns are read
// from table_info first.
func (c *Client) EnsureSchema(ctx context.Context, tables []store.Table) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range tables {
		if err := table.Validate(); err != nil {
			return fmt.Errorf("ensuring schema: %w", err)
		}
		if _, err := tx.ExecContext(ctx, createTableSQL(table)); err != nil {
			return fmt.Errorf("creating table %s: %w", table.Name, err)
		}

		existing, err := tableColumns(ctx, tx, table.Name)
		if err != nil {
			return err
		}
		for _, col := range table.Columns {
			if _, ok := existing[col.Name]; ok {
				continue
			}
			stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", ident(table.Name), ident(col.Name), columnType(col.Kind))
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("adding column %s.%s: %w", table.Name, col.Name, err)
			}
		}

		if table.OrderBy != store.IDColumn {
			stmt := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)",
				ident("idx_"+table.Name+"_"+table.OrderBy), ident(table.Name), ident(table.OrderBy))
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("indexing %s: %w", table.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema transaction: %w", err)
	}
	return nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func tableColumns(ctx context.Context, q querier, table string) (map[string]struct{}, error) {
	rows, err := q.QueryContext(ctx, fmt.Sprintf("SELECT name FROM pragma_table_info(%s)", quote(table)))
	if err != nil {
		return nil, fmt.Errorf("reading columns of %s: %w", table, err)
	}
	defer rows.Close()

	columns := map[string]struct{}{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning column of %s: %w", table, err)
		}
		columns[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating columns of %s: %w", table, err)
	}
	return columns, nil
}

func ident(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func quote(value string) string {
	return `'` + strings.ReplaceAll(value, `'`, `''`) + `'`
}
