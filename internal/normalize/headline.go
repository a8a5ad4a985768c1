package normalize

import (
	"strings"
	"time"

	"github.com/tradeflash/flowd/internal/model"
)

// Headline converts one raw headline record.
func Headline(r Raw, now time.Time) model.Headline {
	typ := strings.ToUpper(r.str("type"))
	switch typ {
	case "SWEEP", "BLOCK", "PRINT":
	default:
		typ = "PRINT"
	}

	side := strings.ToUpper(r.str("side", "action"))
	if side == "" {
		side = string(model.SideUnknown)
	}

	notional, _ := r.num("notional", "notl")

	ts, ok := r.num("ts", "time")
	if !ok || ts <= 0 {
		ts = float64(now.UnixMilli())
	}

	return model.Headline{
		Type:       typ,
		UL:         Underlying(r),
		Right:      headlineRight(strings.ToUpper(r.str("right", "r"))),
		Strike:     r.numPtr("strike", "k"),
		Expiry:     r.str("expiry", "expiration", "exp"),
		Side:       side,
		Notional:   notional,
		TS:         int64(ts),
		Action:     model.ActionLabel(r.str("action")),
		ActionConf: model.ActionConf(r.str("action_conf")),
		At:         strings.ToLower(r.str("at", "aggressor")),
		ULPx:       r.numPtr("ul_px"),
	}
}

// headlineRight reduces a raw right to "C"/"P", or "" when unrecognized.
// Unlike flow events, headlines keep right optional.
func headlineRight(raw string) string {
	switch raw {
	case "C", "CALL":
		return "C"
	case "P", "PUT":
		return "P"
	default:
		return ""
	}
}
