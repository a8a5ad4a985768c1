package view

import (
	"math"
	"testing"

	"github.com/tradeflash/flowd/internal/model"
)

func fptr(v float64) *float64 { return &v }

func TestNotional(t *testing.T) {
	// Explicit nonzero notional wins.
	ev := model.FlowEvent{Qty: 100, Price: 12.5, Notional: 99_999}
	if got := Notional(ev); got != 99_999 {
		t.Errorf("Notional = %v, want explicit 99999", got)
	}

	// Zero notional falls back to qty*price*100.
	ev.Notional = 0
	if got := Notional(ev); got != 125_000 {
		t.Errorf("Notional = %v, want derived 125000", got)
	}
}

func TestVolOIRatio(t *testing.T) {
	tests := []struct {
		name string
		vol  *float64
		oi   *float64
		want float64
	}{
		{"fresh activity", fptr(500), fptr(0), math.Inf(1)},
		{"no activity", fptr(0), fptr(0), 0},
		{"normal", fptr(300), fptr(600), 0.5},
		{"absent both", nil, nil, 0},
		{"volume only", fptr(10), nil, math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := model.FlowEvent{Volume: tt.vol, OI: tt.oi}
			if got := VolOIRatio(ev); got != tt.want {
				t.Errorf("VolOIRatio = %v, want %v", got, tt.want)
			}
		})
	}
}

type fakeMarks map[string]float64

func (f fakeMarks) Mark(occ string) (float64, bool) {
	px, ok := f[occ]
	return px, ok
}

func TestMarkDelta(t *testing.T) {
	occ := "NVDA  240719C00900000"
	marks := fakeMarks{occ: 13.0}

	// Cache lookup first.
	ev := model.FlowEvent{OCC: occ, Price: 12.5, Mid: fptr(99)}
	if d, ok := MarkDelta(ev, marks); !ok || d != 0.5 {
		t.Errorf("MarkDelta = (%v, %v), want (0.5, true) from cache", d, ok)
	}

	// Event mid when the cache misses.
	ev = model.FlowEvent{OCC: "OTHER", Price: 10, Mid: fptr(11)}
	if d, ok := MarkDelta(ev, marks); !ok || d != 1 {
		t.Errorf("MarkDelta = (%v, %v), want (1, true) from event mid", d, ok)
	}

	// Bid/ask midpoint as last resort.
	ev = model.FlowEvent{Price: 10, Bid: fptr(10), Ask: fptr(12)}
	if d, ok := MarkDelta(ev, marks); !ok || d != 1 {
		t.Errorf("MarkDelta = (%v, %v), want (1, true) from bid/ask", d, ok)
	}

	// Nothing resolvable.
	ev = model.FlowEvent{Price: 10}
	if _, ok := MarkDelta(ev, marks); ok {
		t.Error("MarkDelta resolved a mark from nothing")
	}
}

func TestApplyFilter(t *testing.T) {
	events := []model.FlowEvent{
		{Underlying: "A", Qty: 100, Price: 10, TS: 1}, // $100k
		{Underlying: "B", Qty: 10, Price: 10, TS: 2},  // $10k, below notional floor
		{Underlying: "C", Qty: 30, Price: 100, TS: 3}, // $300k but below qty floor
	}

	got := Apply(events, Options{MinNotional: 20_000, MinQty: 50})
	if len(got) != 1 || got[0].Underlying != "A" {
		t.Errorf("got %+v, want only A", got)
	}
}

func TestApplySortDirections(t *testing.T) {
	events := []model.FlowEvent{
		{Underlying: "A", TS: 2},
		{Underlying: "B", TS: 3},
		{Underlying: "C", TS: 1},
	}

	asc := Apply(events, Options{Key: SortTS})
	if asc[0].TS != 1 || asc[2].TS != 3 {
		t.Errorf("ascending order wrong: %+v", asc)
	}

	desc := Apply(events, Options{Key: SortTS, Desc: true})
	if desc[0].TS != 3 || desc[2].TS != 1 {
		t.Errorf("descending order wrong: %+v", desc)
	}
}

func TestApplySortAbsentVolSortsBelowReal(t *testing.T) {
	events := []model.FlowEvent{
		{Underlying: "HAS", Volume: fptr(0)},
		{Underlying: "NONE"},
	}

	got := Apply(events, Options{Key: SortVol, Desc: true})
	if got[0].Underlying != "HAS" {
		t.Errorf("absent volume should sort below a real 0: %+v", got)
	}
}

func TestApplyVolOISort(t *testing.T) {
	events := []model.FlowEvent{
		{Underlying: "RATIO", Volume: fptr(300), OI: fptr(600)}, // 0.5
		{Underlying: "FRESH", Volume: fptr(10), OI: fptr(0)},    // +Inf
		{Underlying: "DEAD"},                                    // -1
	}

	got := Apply(events, Options{Key: SortVolOI, Desc: true})
	want := []string{"FRESH", "RATIO", "DEAD"}
	for i, ul := range want {
		if got[i].Underlying != ul {
			t.Errorf("got[%d] = %s, want %s", i, got[i].Underlying, ul)
		}
	}
}

func TestApplyLimit(t *testing.T) {
	var events []model.FlowEvent
	for i := 0; i < 10; i++ {
		events = append(events, model.FlowEvent{TS: int64(i)})
	}

	got := Apply(events, Options{Key: SortTS, Desc: true, Limit: 3})
	if len(got) != 3 || got[0].TS != 9 {
		t.Errorf("got %+v, want newest 3", got)
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	events := []model.FlowEvent{{TS: 2}, {TS: 1}}
	Apply(events, Options{Key: SortTS})
	if events[0].TS != 2 {
		t.Error("Apply reordered the caller's slice")
	}
}
