// Package pricebook holds the process-wide last-write-wins price overlay:
// underlying symbol to spot price and OCC contract code to mid price.
//
// One Book instance lives for the whole process and is injected into every
// component that needs it. Entries are created on first observation and
// overwritten on every newer one; nothing is ever deleted, so the maps are
// bounded by the set of symbols seen in-session.
package pricebook

import (
	"math"
	"strings"
	"sync"
)

// Book is the spot + mark cache. Safe for concurrent use.
type Book struct {
	mu    sync.RWMutex
	spots map[string]float64 // underlying symbol → last spot price
	marks map[string]float64 // OCC contract code → last mid price
}

// New returns an empty Book.
func New() *Book {
	return &Book{
		spots: make(map[string]float64),
		marks: make(map[string]float64),
	}
}

// SetSpot records the spot price for an underlying. The write is suppressed
// when the symbol is empty, the value is not finite, or it equals the stored
// value. Reports whether a write happened.
func (b *Book) SetSpot(symbol string, px float64) bool {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	if sym == "" || !finite(px) {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if cur, ok := b.spots[sym]; ok && cur == px {
		return false
	}
	b.spots[sym] = px
	return true
}

// SetMark records the mid price for a contract code, with the same
// no-op-write suppression as SetSpot.
func (b *Book) SetMark(occ string, px float64) bool {
	code := strings.TrimSpace(occ)
	if code == "" || !finite(px) {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if cur, ok := b.marks[code]; ok && cur == px {
		return false
	}
	b.marks[code] = px
	return true
}

// Spot returns the last spot price for an underlying.
func (b *Book) Spot(symbol string) (float64, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	px, ok := b.spots[strings.ToUpper(strings.TrimSpace(symbol))]
	return px, ok
}

// Mark returns the last mid price for a contract code.
func (b *Book) Mark(occ string) (float64, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	px, ok := b.marks[strings.TrimSpace(occ)]
	return px, ok
}

// Spots returns a copy of the spot map for render-time reads.
func (b *Book) Spots() map[string]float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]float64, len(b.spots))
	for k, v := range b.spots {
		out[k] = v
	}
	return out
}

// Len reports the number of spot and mark entries.
func (b *Book) Len() (spots, marks int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.spots), len(b.marks)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
