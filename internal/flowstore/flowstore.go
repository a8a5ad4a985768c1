// Package flowstore implements the bounded, deduplicated, time-sorted
// rolling collections behind the prints, sweeps and blocks views.
//
// Merging is copy-on-write: every merge produces a new slice, so a reader
// holding a previous snapshot never observes a half-merged state. The
// capacity bound sheds load by dropping the oldest and least-notable
// entries first.
package flowstore

import (
	"sort"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/tradeflash/flowd/internal/model"
)

// Default capacities per flow kind.
const (
	DefaultCap       = 1200 // sweeps, blocks
	DefaultPrintsCap = 1000
)

// identityKey is the exact-duplicate key for a flow event. Two records with
// the same key are the same trade print delivered more than once; price is
// rounded to 4 decimal places so float jitter does not defeat the dedup.
func identityKey(e model.FlowEvent) string {
	return e.Underlying + "|" +
		string(e.Right) + "|" +
		strconv.FormatFloat(e.Strike, 'f', -1, 64) + "|" +
		e.Expiry + "|" +
		string(e.Side) + "|" +
		strconv.FormatInt(e.TS, 10) + "|" +
		strconv.FormatInt(e.Qty, 10) + "|" +
		decimal.NewFromFloat(e.Price).StringFixed(4)
}

// Merge folds an incoming batch into an existing collection and returns a
// new slice. Incoming records with the same identity key replace existing
// ones (last write wins). The result is ordered by timestamp descending,
// ties broken by notional descending, and truncated to capacity.
func Merge(existing, incoming []model.FlowEvent, capacity int) []model.FlowEvent {
	if capacity <= 0 {
		capacity = DefaultCap
	}

	merged := make(map[string]model.FlowEvent, len(existing)+len(incoming))
	order := make([]string, 0, len(existing)+len(incoming))

	for _, e := range existing {
		k := identityKey(e)
		if _, seen := merged[k]; !seen {
			order = append(order, k)
		}
		merged[k] = e
	}
	for _, e := range incoming {
		k := identityKey(e)
		if _, seen := merged[k]; !seen {
			order = append(order, k)
		}
		merged[k] = e
	}

	rows := make([]model.FlowEvent, 0, len(order))
	for _, k := range order {
		rows = append(rows, merged[k])
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TS != rows[j].TS {
			return rows[i].TS > rows[j].TS
		}
		return rows[i].NotionalValue() > rows[j].NotionalValue()
	})

	if len(rows) > capacity {
		rows = rows[:capacity]
	}
	return rows
}

// Store is one rolling collection with a fixed capacity. Apply is expected
// to run on the engine's single dispatch goroutine; Events may be called
// concurrently from readers.
type Store struct {
	kind     model.FlowKind
	capacity int

	mu   sync.RWMutex
	rows []model.FlowEvent
}

// New creates a store for the given flow kind with its default capacity.
func New(kind model.FlowKind) *Store {
	capacity := DefaultCap
	if kind == model.KindPrints {
		capacity = DefaultPrintsCap
	}
	return NewWithCapacity(kind, capacity)
}

// NewWithCapacity creates a store with an explicit capacity bound.
func NewWithCapacity(kind model.FlowKind, capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCap
	}
	return &Store{kind: kind, capacity: capacity}
}

// Kind returns the flow kind this store holds.
func (s *Store) Kind() model.FlowKind { return s.kind }

// Apply merges a normalized batch into the store.
func (s *Store) Apply(batch []model.FlowEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = Merge(s.rows, batch, s.capacity)
}

// Events returns the current snapshot. The returned slice is the store's
// own copy-on-write backing array; callers must treat it as read-only.
func (s *Store) Events() []model.FlowEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rows
}

// Len reports the current number of rows.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}
