package postgres

import (
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

func selectAllSQL(table store.Table) string {
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY %s ASC", columnList(table), ident(table.Name), ident(table.OrderBy))
}

func selectByIDSQL(table store.Table) string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", columnList(table), ident(table.Name), ident(store.IDColumn))
}

func insertSQL(table store.Table) string {
	placeholders := make([]string, 0, len(table.Columns))
	for i := range table.Columns {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", ident(table.Name), columnList(table), strings.Join(placeholders, ", "))
}

func upsertSQL(table store.Table) string {
	updates := make([]string, 0, len(table.Columns))
	for _, col := range table.Columns {
		if col.Name == store.IDColumn {
			continue
		}
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", ident(col.Name), ident(col.Name)))
	}
	if len(updates) == 0 {
		return insertSQL(table) + fmt.Sprintf(" ON CONFLICT (%s) DO NOTHING", ident(store.IDColumn))
	}
	return insertSQL(table) + fmt.Sprintf(" ON CONFLICT (%s) DO UPDATE SET %s", ident(store.IDColumn), strings.Join(updates, ", "))
}

func deleteSQL(table store.Table) string {
	return fmt.Sprintf("DELETE FROM %s WHERE %s = $1", ident(table.Name), ident(store.IDColumn))
}

func deleteAllSQL(table store.Table) string {
	return fmt.Sprintf("DELETE FROM %s", ident(table.Name))
}
