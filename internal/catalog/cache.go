package catalog

import (
	"sync"
	"time"

	"github.com/tiendc/go-deepcopy"
)

// State is the freshness of a collection cache.
type State int

const (
	Empty State = iota
	Fresh
	Stale
)

func (s State) String() string {
	switch s {
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	default:
		return "empty"
	}
}

// snapshot holds the last full listing of one collection.
//
// Every invalidation bumps epoch. A listing started under an older epoch is
// discarded by fill so it cannot resurrect data a write has replaced.
type snapshot[T any] struct {
	mu       sync.Mutex
	now      func() time.Time
	ttl      time.Duration
	epoch    uint64
	records  []T
	loadedAt time.Time
	loaded   bool
}

func newSnapshot[T any](ttl time.Duration, now func() time.Time) *snapshot[T] {
	return &snapshot[T]{ttl: ttl, now: now}
}

func (s *snapshot[T]) stateLocked() State {
	if !s.loaded {
		return Empty
	}
	if s.now().Sub(s.loadedAt) < s.ttl {
		return Fresh
	}
	return Stale
}

func (s *snapshot[T]) state() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// get returns a copy of the cached records when they are fresh.
func (s *snapshot[T]) get() ([]T, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stateLocked() != Fresh {
		return nil, false, nil
	}
	out, err := clone(s.records)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

// begin marks the start of a backend listing.
func (s *snapshot[T]) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// fill stores records loaded under epoch and reports whether they were kept.
func (s *snapshot[T]) fill(epoch uint64, records []T) (bool, error) {
	stored, err := clone(records)
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		return false, nil
	}
	s.records = stored
	s.loadedAt = s.now()
	s.loaded = true
	return true, nil
}

func (s *snapshot[T]) invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.records = nil
	s.loaded = false
}

func clone[T any](records []T) ([]T, error) {
	out := make([]T, 0, len(records))
	if len(records) == 0 {
		return out, nil
	}
	if err := deepcopy.Copy(&out, records); err != nil {
		return nil, err
	}
	return out, nil
}
