package normalize

import (
	"math"
	"strings"
	"time"

	"github.com/tradeflash/flowd/internal/model"
)

// Event converts one raw print/sweep/block record into a FlowEvent. now
// supplies the ingestion timestamp used when the producer omits one.
func Event(r Raw, now time.Time) model.FlowEvent {
	rightRaw := strings.ToUpper(r.str("right", "r"))
	sideRaw := strings.ToUpper(r.str("side", "action"))

	price, _ := r.num("price", "px", "last", "bid", "ask")
	qtyF, _ := r.num("qty", "size", "quantity")
	qty := int64(math.Round(qtyF))

	ul := Underlying(r)
	right := resolveRight(rightRaw)
	strike, _ := r.num("strike", "k")
	expiry := r.str("expiry", "expiration", "exp")

	notional, hasNotional := r.num("notional")
	if !hasNotional && qty != 0 && price != 0 {
		notional = float64(qty) * price * 100
	}
	if notional < 0 {
		notional = 0
	}

	prints, ok := r.num("prints", "parts")
	if !ok || prints < 1 {
		prints = 1
	}

	ts, ok := r.num("ts", "time")
	if !ok || ts <= 0 {
		ts = float64(now.UnixMilli())
	}

	occ := r.str("occ")
	if occ == "" && ul != model.UnknownSymbol {
		occ = model.ContractCode(ul, expiry, right, strike)
	}

	bid := r.numPtr("bid")
	ask := r.numPtr("ask")
	mid := r.numPtr("mid")
	if mid == nil && bid != nil && ask != nil {
		m := (*bid + *ask) / 2
		mid = &m
	}

	return model.FlowEvent{
		Underlying: ul,
		Right:      right,
		Strike:     strike,
		Expiry:     expiry,
		Side:       resolveSide(sideRaw),
		Qty:        qty,
		Price:      price,
		Notional:   notional,
		Prints:     int(prints),
		TS:         int64(ts),
		Aggressor:  r.str("aggressor", "liq", "liq_ind", "at"),
		Action:     model.ActionLabel(r.str("action")),
		ActionConf: model.ActionConf(r.str("action_conf")),
		At:         strings.ToLower(r.str("at", "aggressor")),
		OI:         r.numPtr("oi"),
		PriorVol:   r.numPtr("priorVol"),
		Volume:     r.numPtr("volume", "vol", "day_volume"),
		Reason:     r.str("reason"),
		ULPx:       r.numPtr("ul_px"),
		OCC:        occ,
		Bid:        bid,
		Ask:        ask,
		Mid:        mid,
	}
}

// resolveRight maps a raw right onto CALL or PUT. Anything unrecognized
// resolves to PUT; see the normalizer notes in DESIGN.md.
func resolveRight(raw string) model.Right {
	if raw == "C" || raw == "CALL" {
		return model.RightCall
	}
	return model.RightPut
}

func resolveSide(raw string) model.Side {
	switch raw {
	case "BUY", "B":
		return model.SideBuy
	case "SELL", "S":
		return model.SideSell
	default:
		return model.SideUnknown
	}
}

// EventMid returns the usable mark embedded in an event: the explicit mid,
// else the bid/ask midpoint.
func EventMid(ev model.FlowEvent) (float64, bool) {
	if ev.Mid != nil {
		return *ev.Mid, true
	}
	if ev.Bid != nil && ev.Ask != nil {
		return (*ev.Bid + *ev.Ask) / 2, true
	}
	return 0, false
}
