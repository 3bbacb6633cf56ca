package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"civtracker/internal/store"
)

var (
	selectAllCypher = fmt.Sprintf(`MATCH (r:%s {%s: $table})
RETURN r
ORDER BY r[$order], r.id`, Label, tableProperty)
	selectByIDCypher = fmt.Sprintf(`MATCH (r:%s {%s: $table, id: $id})
RETURN r
LIMIT 1`, Label, tableProperty)
	upsertCypher = fmt.Sprintf(`MERGE (r:%s {%s: $table, id: $id})
SET r = $props`, Label, tableProperty)
	deleteCypher = fmt.Sprintf(`MATCH (r:%s {%s: $table, id: $id})
DELETE r
RETURN count(r) AS removed`, Label, tableProperty)
	deleteAllCypher = fmt.Sprintf(`MATCH (r:%s {%s: $table})
DELETE r`, Label, tableProperty)
	insertCypher = fmt.Sprintf(`UNWIND $rows AS props
CREATE (r:%s)
SET r = props`, Label)
)

func (c *Client) SelectAll(ctx context.Context, table store.Table) ([]store.Row, error) {
	order := table.OrderBy
	if order == "" {
		order = store.IDColumn
	}
	rows, err := c.read(ctx, table, selectAllCypher, map[string]any{"table": table.Name, "order": order})
	if err != nil {
		return nil, fmt.Errorf("selecting %s: %w", table.Name, err)
	}
	return rows, nil
}

func (c *Client) SelectByID(ctx context.Context, table store.Table, id string) (store.Row, error) {
	rows, err := c.read(ctx, table, selectByIDCypher, map[string]any{"table": table.Name, "id": id})
	if err != nil {
		return nil, fmt.Errorf("selecting %s %s: %w", table.Name, id, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (c *Client) Upsert(ctx context.Context, table store.Table, row store.Row) error {
	props, err := toProps(table, row)
	if err != nil {
		return fmt.Errorf("encoding %s row: %w", table.Name, err)
	}
	params := map[string]any{"table": table.Name, "id": row.ID(), "props": props}
	if err := c.write(ctx, upsertCypher, params); err != nil {
		return fmt.Errorf("upserting %s %s: %w", table.Name, row.ID(), err)
	}
	return nil
}

func (c *Client) Delete(ctx context.Context, table store.Table, id string) (bool, error) {
	session := c.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, deleteCypher, map[string]any{"table": table.Name, "id": id})
		if err != nil {
			return nil, err
		}
		record, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		removed, _ := record.Get("removed")
		n, _ := removed.(int64)
		return n > 0, nil
	})
	if err != nil {
		return false, fmt.Errorf("deleting %s %s: %w", table.Name, id, err)
	}
	return result.(bool), nil
}

func (c *Client) DeleteAll(ctx context.Context, table store.Table) error {
	if err := c.write(ctx, deleteAllCypher, map[string]any{"table": table.Name}); err != nil {
		return fmt.Errorf("clearing %s: %w", table.Name, err)
	}
	return nil
}

// Insert creates every row in one transaction. A duplicate id violates the
// (table, id) constraint and nothing is written.
func (c *Client) Insert(ctx context.Context, table store.Table, rows []store.Row) error {
	if len(rows) == 0 {
		return nil
	}
	batch := make([]any, 0, len(rows))
	for _, row := range rows {
		props, err := toProps(table, row)
		if err != nil {
			return fmt.Errorf("encoding %s row: %w", table.Name, err)
		}
		batch = append(batch, props)
	}
	if err := c.write(ctx, insertCypher, map[string]any{"rows": batch}); err != nil {
		return fmt.Errorf("inserting %s: %w", table.Name, err)
	}
	return nil
}

func (c *Client) read(ctx context.Context, table store.Table, cypher string, params map[string]any) ([]store.Row, error) {
	session := c.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		rows := make([]store.Row, 0)
		for res.Next(ctx) {
			value, _ := res.Record().Get("r")
			node, ok := value.(neo4j.Node)
			if !ok {
				return nil, fmt.Errorf("unexpected record value %T", value)
			}
			rows = append(rows, fromProps(table, node.Props))
		}
		if err := res.Err(); err != nil {
			return nil, err
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]store.Row), nil
}

func (c *Client) write(ctx context.Context, cypher string, params map[string]any) error {
	session := c.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, cypher, params)
		return nil, err
	})
	return err
}
