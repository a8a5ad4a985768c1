package normalize

import (
	"reflect"
	"testing"
)

func TestWatchlist(t *testing.T) {
	wl := Watchlist(Raw{
		"equities": []any{" nvda ", "/ES", "NVDA", "", "aapl"},
		"options": []any{
			map[string]any{"underlying": "spy", "expiration": "2024-06-21", "strike": 540.0, "right": "C"},
		},
	})

	wantEq := []string{"NVDA", "ES", "AAPL"}
	if !reflect.DeepEqual(wl.Equities, wantEq) {
		t.Errorf("Equities = %v, want %v", wl.Equities, wantEq)
	}

	if len(wl.Options) != 1 {
		t.Fatalf("len(Options) = %d, want 1", len(wl.Options))
	}
	leg := wl.Options[0]
	if leg.Underlying != "SPY" || leg.Expiration != "2024-06-21" || leg.Strike != 540 || leg.Right != "C" {
		t.Errorf("leg = %+v", leg)
	}
}

func TestWatchlistEmpty(t *testing.T) {
	wl := Watchlist(Raw{})
	if wl.Equities == nil || wl.Options == nil {
		t.Error("Watchlist should return empty, non-nil slices")
	}
	if len(wl.Equities) != 0 || len(wl.Options) != 0 {
		t.Errorf("got %v / %v, want empty", wl.Equities, wl.Options)
	}
}

func TestCleanEquity(t *testing.T) {
	tests := []struct{ in, want string }{
		{" nvda ", "NVDA"},
		{"/es", "ES"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CleanEquity(tt.in); got != tt.want {
			t.Errorf("CleanEquity(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
