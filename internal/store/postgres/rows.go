package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"civtracker/internal/store"
)

// args orders row values by table column. JSON columns are sent as raw
// bytes so pgx passes them through to JSONB unchanged.
func args(table store.Table, row store.Row) ([]any, error) {
	out := make([]any, 0, len(table.Columns))
	for _, col := range table.Columns {
		value := row[col.Name]
		if col.Kind == store.JSON && value != nil {
			payload, err := json.Marshal(value)
			if err != nil {
				return nil, fmt.Errorf("marshaling column %s: %w", col.Name, err)
			}
			value = payload
		}
		out = append(out, value)
	}
	return out, nil
}

func collect(table store.Table, rows pgx.Rows) ([]store.Row, error) {
	defer rows.Close()

	fieldDescriptions := rows.FieldDescriptions()
	results := make([]store.Row, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("getting row values: %w", err)
		}
		row := make(store.Row, len(fieldDescriptions))
		for i, fd := range fieldDescriptions {
			row[fd.Name] = values[i]
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s rows: %w", table.Name, err)
	}
	return results, nil
}

func (c *Client) SelectAll(ctx context.Context, table store.Table) ([]store.Row, error) {
	rows, err := c.pool.Query(ctx, selectAllSQL(table))
	if err != nil {
		return nil, fmt.Errorf("selecting %s: %w", table.Name, err)
	}
	return collect(table, rows)
}

func (c *Client) SelectByID(ctx context.Context, table store.Table, id string) (store.Row, error) {
	rows, err := c.pool.Query(ctx, selectByIDSQL(table), id)
	if err != nil {
		return nil, fmt.Errorf("selecting %s %q: %w", table.Name, id, err)
	}
	results, err := collect(table, rows)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (c *Client) Upsert(ctx context.Context, table store.Table, row store.Row) error {
	values, err := args(table, row)
	if err != nil {
		return err
	}
	if _, err := c.pool.Exec(ctx, upsertSQL(table), values...); err != nil {
		return fmt.Errorf("upserting %s %q: %w", table.Name, row.ID(), err)
	}
	return nil
}

func (c *Client) Delete(ctx context.Context, table store.Table, id string) (bool, error) {
	tag, err := c.pool.Exec(ctx, deleteSQL(table), id)
	if err != nil {
		return false, fmt.Errorf("deleting %s %q: %w", table.Name, id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (c *Client) DeleteAll(ctx context.Context, table store.Table) error {
	if _, err := c.pool.Exec(ctx, deleteAllSQL(table)); err != nil {
		return fmt.Errorf("clearing %s: %w", table.Name, err)
	}
	return nil
}

func (c *Client) Insert(ctx context.Context, table store.Table, rows []store.Row) error {
	if len(rows) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := insertSQL(table)
	for _, row := range rows {
		values, err := args(table, row)
		if err != nil {
			return err
		}
		batch.Queue(query, values...)
	}

	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	results := tx.SendBatch(ctx, batch)
	for range rows {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("inserting %s: %w", table.Name, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("inserting %s: %w", table.Name, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing %s insert: %w", table.Name, err)
	}
	return nil
}
