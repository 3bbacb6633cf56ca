package catalog

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"civtracker/internal/store"
)

const (
	DefaultTTL     = 5 * time.Second
	DefaultTimeout = 10 * time.Second
)

// Record is anything stored under a string id.
type Record interface {
	RecordID() string
}

// Codec converts records of one type to backend rows and back.
type Codec[T any] interface {
	Table() store.Table
	ToRow(T) (store.Row, error)
	FromRow(store.Row) (T, error)
}

type Options struct {
	Logger *zap.Logger
	// Now is the clock used for cache freshness.
	Now func() time.Time
	// TTL is how long a listing stays fresh.
	TTL time.Duration
	// Timeout bounds every backend round trip. Zero means DefaultTimeout.
	Timeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.TTL <= 0 {
		o.TTL = DefaultTTL
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// Saved is the outcome of a rename. Warnings lists cleanup steps that failed
// after the record itself was written.
type Saved[T any] struct {
	Record   T        `json:"record"`
	Warnings []string `json:"warnings"`
}

// Collection is the cached CRUD surface of one record type.
type Collection[T Record] struct {
	backend store.Backend
	codec   Codec[T]
	table   store.Table
	cache   *snapshot[T]
	log     *zap.Logger
	timeout time.Duration
}

func NewCollection[T Record](backend store.Backend, codec Codec[T], opts Options) *Collection[T] {
	opts = opts.withDefaults()
	table := codec.Table()
	return &Collection[T]{
		backend: backend,
		codec:   codec,
		table:   table,
		cache:   newSnapshot[T](opts.TTL, opts.Now),
		log:     opts.Logger.With(zap.String("table", table.Name)),
		timeout: opts.Timeout,
	}
}

func (c *Collection[T]) Table() store.Table {
	return c.table
}

// State reports the freshness of the cached listing.
func (c *Collection[T]) State() State {
	return c.cache.state()
}

func (c *Collection[T]) op(name string) string {
	return name + " " + c.table.Name
}

func (c *Collection[T]) fail(op string, err error) error {
	c.log.Error("backend call failed", zap.String("op", op), zap.Error(err))
	return opError(op, err)
}

// List returns every record ordered by name. A fresh cached listing is
// served without a backend call.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	op := c.op("list")
	records, ok, err := c.cache.get()
	if err != nil {
		return nil, fmt.Errorf("copying cached %s: %w", c.table.Name, err)
	}
	if ok {
		c.log.Debug("cache hit", zap.Int("count", len(records)))
		return records, nil
	}

	epoch := c.cache.begin()
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	rows, err := c.backend.SelectAll(ctx, c.table)
	if err != nil {
		return nil, c.fail(op, err)
	}

	records = make([]T, 0, len(rows))
	for _, row := range rows {
		record, err := c.codec.FromRow(row)
		if err != nil {
			return nil, c.fail(op, err)
		}
		records = append(records, record)
	}

	kept, err := c.cache.fill(epoch, records)
	if err != nil {
		return nil, fmt.Errorf("caching %s: %w", c.table.Name, err)
	}
	c.log.Info("loaded records", zap.Int("count", len(records)), zap.Bool("cached", kept))
	return records, nil
}

// GetByID fetches one record straight from the backend. It returns nil, nil
// when no record has the id.
func (c *Collection[T]) GetByID(ctx context.Context, id string) (*T, error) {
	if id == "" {
		return nil, nil
	}
	op := c.op("get")
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	row, err := c.backend.SelectByID(ctx, c.table, id)
	if err != nil {
		return nil, c.fail(op, err)
	}
	if row == nil {
		return nil, nil
	}
	record, err := c.codec.FromRow(row)
	if err != nil {
		return nil, c.fail(op, err)
	}
	return &record, nil
}

// Save upserts the record on its id and returns what the backend now holds.
func (c *Collection[T]) Save(ctx context.Context, record T) (T, error) {
	var zero T
	id := record.RecordID()
	if id == "" {
		return zero, invalid("%s record id is required", c.table.Name)
	}
	row, err := c.codec.ToRow(record)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	op := c.op("save")
	c.cache.invalidate()
	defer c.cache.invalidate()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := c.backend.Upsert(ctx, c.table, row); err != nil {
		return zero, c.fail(op, err)
	}
	c.cache.invalidate()

	stored, err := c.backend.SelectByID(ctx, c.table, id)
	if err != nil {
		return zero, c.fail(op, err)
	}
	if stored == nil {
		return zero, c.fail(op, fmt.Errorf("record %q missing after upsert", id))
	}
	saved, err := c.codec.FromRow(stored)
	if err != nil {
		return zero, c.fail(op, err)
	}
	c.log.Debug("saved record", zap.String("id", id))
	return saved, nil
}

// Rename saves the record and then removes previousID when the id changed.
// A failed removal is reported in Saved.Warnings and is not an error.
func (c *Collection[T]) Rename(ctx context.Context, previousID string, record T) (Saved[T], error) {
	saved, err := c.Save(ctx, record)
	if err != nil {
		return Saved[T]{}, err
	}
	result := Saved[T]{Record: saved, Warnings: []string{}}
	if previousID == "" || previousID == saved.RecordID() {
		return result, nil
	}
	if _, err := c.Delete(ctx, previousID); err != nil {
		c.log.Warn("removing previous record failed",
			zap.String("previous_id", previousID),
			zap.String("id", saved.RecordID()),
			zap.Error(err))
		result.Warnings = append(result.Warnings, fmt.Sprintf("removing previous id %q: %v", previousID, err))
	}
	return result, nil
}

// Delete removes the record with id and reports whether a row went away.
func (c *Collection[T]) Delete(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	op := c.op("delete")
	c.cache.invalidate()
	defer c.cache.invalidate()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	removed, err := c.backend.Delete(ctx, c.table, id)
	if err != nil {
		return false, c.fail(op, err)
	}
	c.log.Debug("deleted record", zap.String("id", id), zap.Bool("removed", removed))
	return removed, nil
}

// ReplaceAll makes records the whole collection. Every id is checked before
// anything is written. The delete and insert are not atomic.
func (c *Collection[T]) ReplaceAll(ctx context.Context, records []T) ([]T, error) {
	rows := make([]store.Row, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for i, record := range records {
		id := record.RecordID()
		if id == "" {
			return nil, invalid("%s record %d has no id", c.table.Name, i)
		}
		if _, dup := seen[id]; dup {
			return nil, invalid("%s record id %q appears more than once", c.table.Name, id)
		}
		seen[id] = struct{}{}
		row, err := c.codec.ToRow(record)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		rows = append(rows, row)
	}

	c.cache.invalidate()
	err := c.replace(ctx, rows)
	c.cache.invalidate()
	if err != nil {
		return nil, err
	}
	c.log.Info("replaced collection", zap.Int("count", len(rows)))
	if len(rows) == 0 {
		return []T{}, nil
	}
	return c.List(ctx)
}

func (c *Collection[T]) replace(ctx context.Context, rows []store.Row) error {
	op := c.op("replace")
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := c.backend.DeleteAll(ctx, c.table); err != nil {
		return c.fail(op, err)
	}
	if len(rows) == 0 {
		return nil
	}
	if err := c.backend.Insert(ctx, c.table, rows); err != nil {
		return c.fail(op, err)
	}
	return nil
}
