package catalog

import (
	"context"
	"sort"
	"sync"
	"time"

	"civtracker/internal/store"
)

// fakeBackend keeps rows in memory and records every call.
type fakeBackend struct {
	mu     sync.Mutex
	tables map[string]map[string]store.Row
	calls  map[string]int
	errs   map[string]error
	// onSelectAll runs while a listing is in flight.
	onSelectAll func()
}

var _ store.Backend = (*fakeBackend)(nil)

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		tables: map[string]map[string]store.Row{},
		calls:  map[string]int{},
		errs:   map[string]error{},
	}
}

func (f *fakeBackend) record(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[method]++
	return f.errs[method]
}

func (f *fakeBackend) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeBackend) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeBackend) fail(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.errs, method)
		return
	}
	f.errs[method] = err
}

func (f *fakeBackend) rows(table string) map[string]store.Row {
	rows, ok := f.tables[table]
	if !ok {
		rows = map[string]store.Row{}
		f.tables[table] = rows
	}
	return rows
}

func (f *fakeBackend) Close(ctx context.Context) error { return nil }

func (f *fakeBackend) EnsureSchema(ctx context.Context, tables []store.Table) error {
	return f.record("EnsureSchema")
}

func (f *fakeBackend) SelectAll(ctx context.Context, table store.Table) ([]store.Row, error) {
	if err := f.record("SelectAll"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	out := make([]store.Row, 0, len(f.rows(table.Name)))
	for _, row := range f.rows(table.Name) {
		out = append(out, copyRow(row))
	}
	hook := f.onSelectAll
	f.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		a, _ := out[i][table.OrderBy].(string)
		b, _ := out[j][table.OrderBy].(string)
		return a < b
	})
	if hook != nil {
		hook()
	}
	return out, nil
}

func (f *fakeBackend) SelectByID(ctx context.Context, table store.Table, id string) (store.Row, error) {
	if err := f.record("SelectByID"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows(table.Name)[id]
	if !ok {
		return nil, nil
	}
	return copyRow(row), nil
}

func (f *fakeBackend) Upsert(ctx context.Context, table store.Table, row store.Row) error {
	if err := f.record("Upsert"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows(table.Name)[row.ID()] = copyRow(row)
	return nil
}

func (f *fakeBackend) Delete(ctx context.Context, table store.Table, id string) (bool, error) {
	if err := f.record("Delete"); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := f.rows(table.Name)
	if _, ok := rows[id]; !ok {
		return false, nil
	}
	delete(rows, id)
	return true, nil
}

func (f *fakeBackend) DeleteAll(ctx context.Context, table store.Table) error {
	if err := f.record("DeleteAll"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tables[table.Name] = map[string]store.Row{}
	return nil
}

func (f *fakeBackend) Insert(ctx context.Context, table store.Table, rows []store.Row) error {
	if err := f.record("Insert"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := f.rows(table.Name)
	for _, row := range rows {
		stored[row.ID()] = copyRow(row)
	}
	return nil
}

func copyRow(row store.Row) store.Row {
	out := make(store.Row, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
