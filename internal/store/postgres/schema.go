package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"civtracker/internal/store"
)

func columnType(kind store.Kind) string {
	switch kind {
	case store.Integer:
		return "BIGINT"
	case store.Boolean:
		return "BOOLEAN"
	case store.JSON:
		return "JSONB"
	default:
		return "TEXT"
	}
}

// schemaDDL creates the table and adds any column an older table lacks.
func schemaDDL(table store.Table) string {
	name := ident(table.Name)
	var b strings.Builder

	defs := make([]string, 0, len(table.Columns))
	for _, col := range table.Columns {
		def := ident(col.Name) + " " + columnType(col.Kind)
		if col.Name == store.IDColumn {
			def += " PRIMARY KEY"
		}
		defs = append(defs, def)
	}
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n    %s\n);\n", name, strings.Join(defs, ",\n    "))

	for _, col := range table.Columns {
		if col.Name == store.IDColumn {
			continue
		}
		fmt.Fprintf(&b, "ALTER TABLE %s ADD COLUMN IF NOT EXISTS %s %s;\n", name, ident(col.Name), columnType(col.Kind))
	}
	if table.OrderBy != store.IDColumn {
		fmt.Fprintf(&b, "CREATE INDEX IF NOT EXISTS %s ON %s (%s);\n",
			ident("idx_"+table.Name+"_"+table.OrderBy), name, ident(table.OrderBy))
	}
	return b.String()
}

func (c *Client) EnsureSchema(ctx context.Context, tables []store.Table) error {
	var ddl strings.Builder
	for _, table := range tables {
		if err := table.Validate(); err != nil {
			return fmt.Errorf("ensuring schema: %w", err)
		}
		ddl.WriteString(schemaDDL(table))
	}
	// A multi statement Exec runs in one implicit transaction.
	if _, err := c.pool.Exec(ctx, ddl.String()); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}
