// Package notables holds the current scored-signal set and the windowed
// join that attaches concrete contract legs to a signal.
package notables

import (
	"sync"

	"github.com/tradeflash/flowd/internal/model"
)

// Set holds the latest notable list. The feed replaces the whole set on
// every notables frame; there is no merging across frames.
type Set struct {
	mu   sync.RWMutex
	rows []model.Notable
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{}
}

// Replace swaps in a new notable list wholesale.
func (s *Set) Replace(rows []model.Notable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = rows
}

// All returns the current notable list.
func (s *Set) All() []model.Notable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rows
}
