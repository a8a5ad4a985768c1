// Package headlines maintains the rolling "top flow right now" view: a
// 60-second sliding window of headline rollups, deduplicated by composite
// key and capped to a small top-N by notional.
package headlines

import (
	"sort"
	"sync"
	"time"

	"github.com/tradeflash/flowd/internal/model"
)

// Defaults matching the feed's presentation contract.
const (
	DefaultWindow = 60 * time.Second
	DefaultCap    = 12
)

// Aggregator holds the current headline set. Apply runs on the engine's
// dispatch goroutine; Top may be called concurrently.
type Aggregator struct {
	window time.Duration
	cap    int

	mu   sync.RWMutex
	rows []model.Headline
}

// New returns an aggregator with the given window and cap; zero values fall
// back to the defaults.
func New(window time.Duration, topN int) *Aggregator {
	if window <= 0 {
		window = DefaultWindow
	}
	if topN <= 0 {
		topN = DefaultCap
	}
	return &Aggregator{window: window, cap: topN}
}

// Apply folds an incoming batch into the set. Previously held headlines
// older than the window relative to now are discarded first; the window
// slides on every batch rather than tumbling. For colliding composite keys
// the larger notional wins; a notional tie keeps the newer timestamp.
func (a *Aggregator) Apply(now time.Time, batch []model.Headline) {
	a.mu.Lock()
	defer a.mu.Unlock()

	cutoff := now.UnixMilli() - a.window.Milliseconds()

	byKey := make(map[string]model.Headline, len(a.rows)+len(batch))
	consider := func(h model.Headline) {
		k := h.Key()
		cur, ok := byKey[k]
		if !ok || h.Notional > cur.Notional || (h.Notional == cur.Notional && h.TS > cur.TS) {
			byKey[k] = h
		}
	}

	for _, h := range a.rows {
		if h.TS >= cutoff {
			consider(h)
		}
	}
	for _, h := range batch {
		consider(h)
	}

	rows := make([]model.Headline, 0, len(byKey))
	for _, h := range byKey {
		rows = append(rows, h)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Notional != rows[j].Notional {
			return rows[i].Notional > rows[j].Notional
		}
		return rows[i].TS > rows[j].TS
	})
	if len(rows) > a.cap {
		rows = rows[:a.cap]
	}
	a.rows = rows
}

// Top returns the current headline set, notional descending.
func (a *Aggregator) Top() []model.Headline {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.rows
}
