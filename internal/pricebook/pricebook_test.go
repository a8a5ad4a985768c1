package pricebook

import (
	"math"
	"testing"
)

func TestSetSpot(t *testing.T) {
	b := New()

	if !b.SetSpot("nvda", 900.5) {
		t.Fatal("first write should report true")
	}
	if px, ok := b.Spot("NVDA"); !ok || px != 900.5 {
		t.Errorf("Spot(NVDA) = (%v, %v), want (900.5, true)", px, ok)
	}

	// Same value: suppressed.
	if b.SetSpot("NVDA", 900.5) {
		t.Error("duplicate write should report false")
	}

	// Newer value overwrites.
	if !b.SetSpot("NVDA", 901.0) {
		t.Error("changed value should report true")
	}
	if px, _ := b.Spot("nvda "); px != 901.0 {
		t.Errorf("Spot = %v, want 901", px)
	}
}

func TestSetSpotRejectsUnusable(t *testing.T) {
	b := New()

	if b.SetSpot("", 10) {
		t.Error("empty symbol accepted")
	}
	if b.SetSpot("NVDA", math.NaN()) {
		t.Error("NaN accepted")
	}
	if b.SetSpot("NVDA", math.Inf(1)) {
		t.Error("Inf accepted")
	}
	if _, ok := b.Spot("NVDA"); ok {
		t.Error("rejected writes should leave no entry")
	}
}

func TestSetMark(t *testing.T) {
	b := New()
	occ := "NVDA  240719C00900000"

	if !b.SetMark(occ, 12.55) {
		t.Fatal("first mark write should report true")
	}
	if b.SetMark(occ, 12.55) {
		t.Error("duplicate mark write should report false")
	}
	if px, ok := b.Mark(occ); !ok || px != 12.55 {
		t.Errorf("Mark = (%v, %v), want (12.55, true)", px, ok)
	}
	if b.SetMark("", 1) {
		t.Error("empty code accepted")
	}
}

func TestSpotsSnapshotIsCopy(t *testing.T) {
	b := New()
	b.SetSpot("SPY", 540)

	snap := b.Spots()
	snap["SPY"] = 0

	if px, _ := b.Spot("SPY"); px != 540 {
		t.Errorf("mutating the snapshot changed the book: %v", px)
	}
}
