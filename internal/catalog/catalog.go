// Package catalog is the cached record store a hotseat session reads and
// writes. It owns one Collection per record type over a shared backend.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"civtracker/internal/civ"
	"civtracker/internal/karma"
	"civtracker/internal/store"
)

type Catalog struct {
	WorldWonders   *Collection[civ.WorldWonder]
	Leaders        *Collection[civ.Leader]
	Civilizations  *Collection[civ.Civilization]
	Units          *Collection[civ.Unit]
	Buildings      *Collection[civ.Building]
	Technologies   *Collection[civ.Technology]
	Civics         *Collection[civ.Civic]
	SocialPolicies *Collection[civ.SocialPolicy]
	Mementos       *Collection[civ.Memento]
	NaturalWonders *Collection[civ.NaturalWonder]

	backend store.Backend
	kinds   []Entities
	byName  map[string]Entities
}

func New(backend store.Backend, opts Options) *Catalog {
	c := &Catalog{
		WorldWonders:   NewCollection[civ.WorldWonder](backend, civ.WorldWonders, opts),
		Leaders:        NewCollection[civ.Leader](backend, civ.Leaders, opts),
		Civilizations:  NewCollection[civ.Civilization](backend, civ.Civilizations, opts),
		Units:          NewCollection[civ.Unit](backend, civ.Units, opts),
		Buildings:      NewCollection[civ.Building](backend, civ.Buildings, opts),
		Technologies:   NewCollection[civ.Technology](backend, civ.Technologies, opts),
		Civics:         NewCollection[civ.Civic](backend, civ.Civics, opts),
		SocialPolicies: NewCollection[civ.SocialPolicy](backend, civ.SocialPolicies, opts),
		Mementos:       NewCollection[civ.Memento](backend, civ.Mementos, opts),
		NaturalWonders: NewCollection[civ.NaturalWonder](backend, civ.NaturalWonders, opts),
		backend:        backend,
	}

	c.kinds = []Entities{
		entities[civ.WorldWonder]{key: "worldWonders", c: c.WorldWonders},
		entities[civ.Leader]{key: "leaders", c: c.Leaders},
		entities[civ.Civilization]{key: "civilizations", c: c.Civilizations},
		entities[civ.Unit]{key: "units", c: c.Units},
		entities[civ.Building]{key: "buildings", c: c.Buildings},
		entities[civ.Technology]{key: "technologies", c: c.Technologies},
		entities[civ.Civic]{key: "civics", c: c.Civics},
		entities[civ.SocialPolicy]{key: "socialPolicies", c: c.SocialPolicies},
		entities[civ.Memento]{key: "mementos", c: c.Mementos},
		entities[civ.NaturalWonder]{key: "naturalWonders", c: c.NaturalWonders},
	}
	c.byName = make(map[string]Entities, 2*len(c.kinds))
	for _, k := range c.kinds {
		c.byName[k.Key()] = k
		c.byName[k.Name()] = k
	}
	return c
}

// Tables returns the backend tables of every collection.
func (c *Catalog) Tables() []store.Table {
	tables := make([]store.Table, 0, len(c.kinds))
	for _, k := range c.kinds {
		tables = append(tables, k.Table())
	}
	return tables
}

// EnsureSchema creates any missing backend tables.
func (c *Catalog) EnsureSchema(ctx context.Context) error {
	if err := c.backend.EnsureSchema(ctx, c.Tables()); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}

// Kinds returns every collection in document order.
func (c *Catalog) Kinds() []Entities {
	out := make([]Entities, len(c.kinds))
	copy(out, c.kinds)
	return out
}

// Kind resolves a collection by table name ("world_wonders") or document key
// ("worldWonders").
func (c *Catalog) Kind(name string) (Entities, error) {
	k, ok := c.byName[name]
	if !ok {
		return nil, invalid("unknown kind %q (known: %v)", name, c.KindNames())
	}
	return k, nil
}

func (c *Catalog) KindNames() []string {
	names := make([]string, 0, len(c.kinds))
	for _, k := range c.kinds {
		names = append(names, k.Name())
	}
	sort.Strings(names)
	return names
}

// Claims derives ownership claims from world wonders and natural wonders.
func (c *Catalog) Claims(ctx context.Context) ([]karma.Claim, error) {
	wonders, err := c.WorldWonders.List(ctx)
	if err != nil {
		return nil, err
	}
	natural, err := c.NaturalWonders.List(ctx)
	if err != nil {
		return nil, err
	}

	claims := make([]karma.Claim, 0, len(wonders)+len(natural))
	for _, w := range wonders {
		if w.OwnerType == "" {
			continue
		}
		claims = append(claims, karma.Claim{Category: "worldWonders", ItemID: w.ID, Owner: w.OwnerType})
	}
	for _, n := range natural {
		if n.ControllerRole == "" {
			continue
		}
		claims = append(claims, karma.Claim{Category: "naturalWonders", ItemID: n.ID, Owner: n.ControllerRole})
	}
	return claims, nil
}

// Entities is the untyped view of a Collection used by the command line and
// MCP surfaces. Records go in as JSON and come out as their typed values.
type Entities interface {
	Name() string
	Key() string
	Table() store.Table
	State() State
	List(ctx context.Context) (any, int, error)
	Get(ctx context.Context, id string) (any, error)
	Save(ctx context.Context, raw json.RawMessage, previousID string) (any, []string, error)
	Delete(ctx context.Context, id string) (bool, error)
	Replace(ctx context.Context, raw json.RawMessage) (int, error)
}

type entities[T Record] struct {
	key string
	c   *Collection[T]
}

func (e entities[T]) Name() string { return e.c.table.Name }
func (e entities[T]) Key() string { return e.key }
func (e entities[T]) Table() store.Table { return e.c.table }
func (e entities[T]) State() State { return e.c.State() }

func (e entities[T]) List(ctx context.Context) (any, int, error) {
	records, err := e.c.List(ctx)
	if err != nil {
		return nil, 0, err
	}
	return records, len(records), nil
}

func (e entities[T]) Get(ctx context.Context, id string) (any, error) {
	record, err := e.c.GetByID(ctx, id)
	if err != nil || record == nil {
		return nil, err
	}
	return *record, nil
}

func (e entities[T]) Save(ctx context.Context, raw json.RawMessage, previousID string) (any, []string, error) {
	var record T
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, nil, fmt.Errorf("%w: decoding %s record: %v", ErrInvalidArgument, e.c.table.Name, err)
	}
	saved, err := e.c.Rename(ctx, previousID, record)
	if err != nil {
		return nil, nil, err
	}
	return saved.Record, saved.Warnings, nil
}

func (e entities[T]) Delete(ctx context.Context, id string) (bool, error) {
	return e.c.Delete(ctx, id)
}

func (e entities[T]) Replace(ctx context.Context, raw json.RawMessage) (int, error) {
	var records []T
	if err := json.Unmarshal(raw, &records); err != nil {
		return 0, fmt.Errorf("%w: %s expects an array of records: %v", ErrInvalidArgument, e.c.table.Name, err)
	}
	if records == nil {
		return 0, invalid("%s expects an array of records", e.c.table.Name)
	}
	replaced, err := e.c.ReplaceAll(ctx, records)
	if err != nil {
		return 0, err
	}
	return len(replaced), nil
}
