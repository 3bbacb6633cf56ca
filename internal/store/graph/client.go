// Package graph stores rows as Neo4j nodes. Every row is one :Record node
// carrying its table name; JSON columns are kept as encoded strings.
package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"civtracker/internal/store"
)

// Label is the node label shared by every stored row.
const Label = "Record"

// tableProperty names the node property holding the row's table.
const tableProperty = "_table"

type Client struct {
	driver   neo4j.DriverWithContext
	database string
}

var _ store.Backend = (*Client)(nil)

func New(ctx context.Context, uri, username, password, database string) (*Client, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("creating neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verifying neo4j connectivity: %w", err)
	}

	return &Client{driver: driver, database: database}, nil
}

func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.driver == nil {
		return nil
	}
	return c.driver.Close(ctx)
}

// EnsureSchema creates the uniqueness constraint on (table, id). Nodes are
// schemaless so columns need no migration.
func (c *Client) EnsureSchema(ctx context.Context, tables []store.Table) error {
	for _, table := range tables {
		if err := table.Validate(); err != nil {
			return err
		}
	}

	session := c.session(ctx)
	defer session.Close(ctx)

	statements := []string{
		fmt.Sprintf(`CREATE CONSTRAINT record_table_id IF NOT EXISTS
FOR (r:%s) REQUIRE (r.%s, r.id) IS UNIQUE`, Label, tableProperty),
		fmt.Sprintf(`CREATE INDEX record_table IF NOT EXISTS FOR (r:%s) ON (r.%s)`, Label, tableProperty),
	}

	for _, stmt := range statements {
		if _, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
			_, err := tx.Run(ctx, stmt, nil)
			return nil, err
		}); err != nil {
			return fmt.Errorf("ensuring constraints: %w", err)
		}
	}

	return nil
}

func (c *Client) session(ctx context.Context) neo4j.SessionWithContext {
	return c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.database})
}
