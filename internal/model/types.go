package model

import "math"

// UnknownSymbol is the sentinel returned when no underlying symbol can be
// resolved from a raw record.
const UnknownSymbol = "—"

// Right is the option right.
type Right string

const (
	RightCall Right = "CALL"
	RightPut  Right = "PUT"
)

// Letter returns the single-character OCC form ("C" or "P").
func (r Right) Letter() string {
	if r == RightCall {
		return "C"
	}
	return "P"
}

// Side is the inferred trade side.
type Side string

const (
	SideBuy     Side = "BUY"
	SideSell    Side = "SELL"
	SideUnknown Side = "UNKNOWN"
)

// ActionLabel is the inferred opening/closing action for a trade.
type ActionLabel string

const (
	ActionBTO        ActionLabel = "BTO"
	ActionBTOMaybe   ActionLabel = "BTO?"
	ActionBTC        ActionLabel = "BTC"
	ActionSTO        ActionLabel = "STO"
	ActionSTOMaybe   ActionLabel = "STO?"
	ActionSTC        ActionLabel = "STC"
	ActionCloseMaybe ActionLabel = "CLOSE?"
	ActionNone       ActionLabel = "—"
)

// ActionConf is the confidence attached to an inferred action.
type ActionConf string

const (
	ConfHigh   ActionConf = "high"
	ConfMedium ActionConf = "medium"
	ConfLow    ActionConf = "low"
)

// FlowKind identifies one of the three rolling flow collections.
type FlowKind string

const (
	KindPrints FlowKind = "prints"
	KindSweeps FlowKind = "sweeps"
	KindBlocks FlowKind = "blocks"
)

// FlowEvent is one normalized print/sweep/block record.
type FlowEvent struct {
	Underlying string  // Uppercased underlying symbol (UnknownSymbol if unresolved)
	Right      Right   // CALL or PUT, always resolved
	Strike     float64 // Strike price in dollars
	Expiry     string  // ISO calendar date (YYYY-MM-DD), may be empty
	Side       Side    // BUY, SELL or UNKNOWN
	Qty        int64   // Contract quantity
	Price      float64 // Trade price per contract
	Notional   float64 // Dollar size; derived qty*price*100 when producer omits it
	Prints     int     // Number of prints rolled into this record
	TS         int64   // Event time (ms since epoch); ingestion time if omitted

	Aggressor  string      // Raw aggressor tag (AT_ASK, AT_BID, NEAR_MID, ...)
	Action     ActionLabel // Inferred action, empty if none
	ActionConf ActionConf  // Confidence for Action
	At         string      // Lowercased execution locus: bid, ask, mid, between

	OI       *float64 // Prior open interest
	PriorVol *float64 // Prior-day option volume
	Volume   *float64 // Current-day option volume
	Reason   string   // Free-text reason from the producer
	ULPx     *float64 // Underlying price at trade time

	OCC string   // OCC contract code; synthesized when not supplied
	Bid *float64 // Quote snapshot, optional
	Ask *float64
	Mid *float64
}

// NotionalValue returns the event's dollar size rounded to whole dollars:
// the explicit notional when nonzero, else qty × price × the standard
// 100-share contract multiplier.
func (e FlowEvent) NotionalValue() float64 {
	if e.Notional != 0 {
		return math.Round(e.Notional)
	}
	return math.Round(float64(e.Qty) * e.Price * 100)
}

// Headline is a rollup view of a single flow event.
type Headline struct {
	Type     string   // SWEEP, BLOCK or PRINT
	UL       string   // Underlying symbol
	Right    string   // "C", "P" or empty
	Strike   *float64 // Optional strike
	Expiry   string   // Optional ISO date
	Side     string   // Uppercased raw side, UNKNOWN if absent
	Notional float64  // Dollar size
	TS       int64    // Event time (ms since epoch)

	Action     ActionLabel
	ActionConf ActionConf
	At         string
	ULPx       *float64
}

// Key returns the composite dedup key used by the headline aggregator.
func (h Headline) Key() string {
	right := h.Right
	if len(right) > 1 {
		right = right[:1]
	}
	strike := ""
	if h.Strike != nil {
		strike = trimFloat(*h.Strike)
	}
	return h.Type + "|" + h.UL + "|" + right + "|" + strike + "|" + h.Expiry + "|" + h.Side
}

// Notable is a scored/aggregated flow signal.
type Notable struct {
	Tag  string   // Display tag, uppercased (e.g. "BLOCKS")
	Kind FlowKind // blocks, sweeps or prints; empty when unspecified
	Text string   // Generated description when Headline is absent

	UL   string
	ULPx *float64

	Score    *float64 // Signal score/weight
	DTEAvg   *float64 // Average days-to-expiry of contributing legs
	Qty      *float64 // Aggregate contract quantity
	Notional *float64 // Aggregate dollar size
	Burst    *float64 // Burst count

	TS int64 // Signal time (ms since epoch); ingestion time if omitted

	Action     ActionLabel
	ActionConf ActionConf
	At         string

	Headline string // Producer-supplied description, preferred over Text
}

// OptionLeg is one tracked option contract on the watchlist.
type OptionLeg struct {
	Underlying string
	Expiration string
	Strike     float64
	Right      string // "C" or "P"
}

// Watchlist is the set of tracked symbols and contracts.
type Watchlist struct {
	Equities []string
	Options  []OptionLeg
}
