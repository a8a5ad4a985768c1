// Package view computes derived metrics over flow events and produces the
// threshold-filtered, sorted snapshots the presentation layer renders.
package view

import (
	"math"
	"sort"

	"github.com/tradeflash/flowd/internal/model"
)

// MarkSource resolves the live mid price for a contract code. Satisfied by
// *pricebook.Book.
type MarkSource interface {
	Mark(occ string) (float64, bool)
}

// Notional returns the event's dollar size (explicit notional when nonzero,
// else qty × price × 100).
func Notional(ev model.FlowEvent) float64 {
	return ev.NotionalValue()
}

// VolOIRatio relates current-day volume to prior open interest. Volume with
// zero open interest reads as +Inf, an unbounded signal rather than an
// error. No volume at all reads as 0.
func VolOIRatio(ev model.FlowEvent) float64 {
	var v, o float64
	if ev.Volume != nil {
		v = *ev.Volume
	}
	if ev.OI != nil {
		o = *ev.OI
	}
	switch {
	case o > 0:
		return v / o
	case v > 0:
		return math.Inf(1)
	default:
		return 0
	}
}

// ResolveMark finds the best available mark for an event: the live mark by
// contract code, else the event-embedded mid, else the bid/ask midpoint.
func ResolveMark(ev model.FlowEvent, marks MarkSource) (float64, bool) {
	if ev.OCC != "" && marks != nil {
		if px, ok := marks.Mark(ev.OCC); ok {
			return px, true
		}
	}
	if ev.Mid != nil {
		return *ev.Mid, true
	}
	if ev.Bid != nil && ev.Ask != nil {
		return (*ev.Bid + *ev.Ask) / 2, true
	}
	return 0, false
}

// MarkDelta is the resolved mark minus the trade price. The second return
// is false when no mark is resolvable.
func MarkDelta(ev model.FlowEvent, marks MarkSource) (float64, bool) {
	mark, ok := ResolveMark(ev, marks)
	if !ok {
		return 0, false
	}
	return mark - ev.Price, true
}

// SortKey selects the sort metric for a flow view.
type SortKey string

const (
	SortTS       SortKey = "ts"
	SortNotional SortKey = "notional"
	SortQty      SortKey = "qty"
	SortPrice    SortKey = "price"
	SortVol      SortKey = "vol"
	SortOI       SortKey = "oi"
	SortVolOI    SortKey = "voloi"
)

// Options configures a filtered/sorted view.
type Options struct {
	MinNotional float64 // Events below this notional are dropped
	MinQty      int64   // Events below this quantity are dropped
	Key         SortKey // Sort metric; defaults to SortTS
	Desc        bool    // Sort direction
	Limit       int     // Row cap after sorting; 0 = unlimited
}

// metric maps an event onto the chosen sort axis. Absent volume and open
// interest read as -1 so unreported values sort below any real observation.
func metric(ev model.FlowEvent, key SortKey) float64 {
	switch key {
	case SortNotional:
		return Notional(ev)
	case SortQty:
		return float64(ev.Qty)
	case SortPrice:
		return ev.Price
	case SortVol:
		if ev.Volume == nil {
			return -1
		}
		return *ev.Volume
	case SortOI:
		if ev.OI == nil {
			return -1
		}
		return *ev.OI
	case SortVolOI:
		var v, o float64
		if ev.Volume != nil {
			v = *ev.Volume
		}
		if ev.OI != nil {
			o = *ev.OI
		}
		switch {
		case o > 0:
			return v / o
		case v > 0:
			return math.Inf(1)
		default:
			return -1
		}
	default:
		return float64(ev.TS)
	}
}

// Apply filters events against the thresholds, sorts by the chosen key and
// direction, and truncates to the limit. The input slice is not modified.
func Apply(events []model.FlowEvent, opts Options) []model.FlowEvent {
	rows := make([]model.FlowEvent, 0, len(events))
	for _, ev := range events {
		if Notional(ev) >= opts.MinNotional && ev.Qty >= opts.MinQty {
			rows = append(rows, ev)
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := metric(rows[i], opts.Key), metric(rows[j], opts.Key)
		if opts.Desc {
			return a > b
		}
		return a < b
	})

	if opts.Limit > 0 && len(rows) > opts.Limit {
		rows = rows[:opts.Limit]
	}
	return rows
}
