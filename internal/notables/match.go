package notables

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tradeflash/flowd/internal/model"
)

// MatchWindow is the half-width of the join window around a notable's
// timestamp.
const MatchWindow = 60 * time.Second

// MaxLegs is the number of representative legs returned per notable.
const MaxLegs = 3

// Pools carries the three flow snapshots a match draws candidates from.
type Pools struct {
	Prints []model.FlowEvent
	Sweeps []model.FlowEvent
	Blocks []model.FlowEvent
}

type bucket struct {
	sample   model.FlowEvent
	qty      int64
	notional float64
}

// MatchLegs finds the flow events that plausibly produced a notable signal.
//
// The notable carries no reference to its originating events, so identity is
// reconstructed by underlying symbol plus time proximity: candidates within
// ±60s of the notable's timestamp (or now when absent), drawn from the store
// matching the notable's kind or from all three when unspecified. Candidates
// aggregate by (right, strike, expiry, execution locus); the top three
// buckets by total notional (ties broken by total quantity) are returned,
// each represented by its first-seen sample event. This is a best-effort
// heuristic: unrelated same-symbol trades inside the window can be
// mis-attributed.
func MatchLegs(n model.Notable, pools Pools, now time.Time) []model.FlowEvent {
	ul := strings.ToUpper(strings.TrimSpace(n.UL))
	if ul == "" || ul == model.UnknownSymbol {
		return nil
	}

	center := n.TS
	if center == 0 {
		center = now.UnixMilli()
	}
	since := center - MatchWindow.Milliseconds()
	until := center + MatchWindow.Milliseconds()

	var candidates []model.FlowEvent
	switch n.Kind {
	case model.KindBlocks:
		candidates = pools.Blocks
	case model.KindSweeps:
		candidates = pools.Sweeps
	case model.KindPrints:
		candidates = pools.Prints
	default:
		candidates = make([]model.FlowEvent, 0, len(pools.Blocks)+len(pools.Sweeps)+len(pools.Prints))
		candidates = append(candidates, pools.Blocks...)
		candidates = append(candidates, pools.Sweeps...)
		candidates = append(candidates, pools.Prints...)
	}

	buckets := make(map[string]*bucket)
	order := make([]string, 0, 8)

	for _, ev := range candidates {
		if ev.TS < since || ev.TS > until {
			continue
		}
		if strings.ToUpper(strings.TrimSpace(ev.Underlying)) != ul {
			continue
		}

		k := legKey(ev)
		b, ok := buckets[k]
		if !ok {
			buckets[k] = &bucket{sample: ev, qty: ev.Qty, notional: ev.NotionalValue()}
			order = append(order, k)
			continue
		}
		b.qty += ev.Qty
		b.notional += ev.NotionalValue()
	}

	sort.SliceStable(order, func(i, j int) bool {
		a, b := buckets[order[i]], buckets[order[j]]
		if a.notional != b.notional {
			return a.notional > b.notional
		}
		return a.qty > b.qty
	})

	legs := make([]model.FlowEvent, 0, MaxLegs)
	for _, k := range order {
		legs = append(legs, buckets[k].sample)
		if len(legs) == MaxLegs {
			break
		}
	}
	return legs
}

func legKey(ev model.FlowEvent) string {
	return string(ev.Right) + "|" +
		strconv.FormatFloat(ev.Strike, 'f', -1, 64) + "|" +
		ev.Expiry + "|" +
		ev.At
}
