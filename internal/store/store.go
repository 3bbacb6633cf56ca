package store

import (
	"context"
)

// Backend is a row-oriented table store. Every table has a text primary key
// column named "id".
type Backend interface {
	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context, tables []Table) error

	SelectAll(ctx context.Context, table Table) ([]Row, error)
	SelectByID(ctx context.Context, table Table, id string) (Row, error)
	Upsert(ctx context.Context, table Table, row Row) error
	Delete(ctx context.Context, table Table, id string) (bool, error)
	DeleteAll(ctx context.Context, table Table) error
	Insert(ctx context.Context, table Table, rows []Row) error
}
