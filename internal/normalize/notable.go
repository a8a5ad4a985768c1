package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tradeflash/flowd/internal/model"
)

// Notable converts one raw scored-signal record.
func Notable(r Raw, now time.Time) model.Notable {
	ul := Underlying(r)

	score := r.numPtr("score")
	if score == nil {
		score = r.numPtr("weight")
	}
	notional := r.numPtr("notional", "notional$", "notional_usd")
	qty := r.numPtr("qty", "qty$", "count", "size")
	burst := r.numPtr("burst")
	dte := r.numPtr("dteAvg", "dte")

	tag := strings.ToUpper(r.str("kind", "tag"))
	if tag == "" {
		tag = "NOTABLE"
	}

	var kind model.FlowKind
	switch model.FlowKind(r.str("kind")) {
	case model.KindBlocks:
		kind = model.KindBlocks
	case model.KindSweeps:
		kind = model.KindSweeps
	case model.KindPrints:
		kind = model.KindPrints
	}

	headline := r.str("headline")
	text := headline
	if text == "" {
		text = describeNotable(ul, strings.ToUpper(r.str("side")), notional, qty, burst, dte)
	}

	ts, ok := r.num("ts", "time")
	if !ok || ts <= 0 {
		ts = float64(now.UnixMilli())
	}

	return model.Notable{
		Tag:        tag,
		Kind:       kind,
		Text:       text,
		UL:         ul,
		ULPx:       r.numPtr("ul_px"),
		Score:      score,
		DTEAvg:     dte,
		Qty:        qty,
		Notional:   notional,
		Burst:      burst,
		TS:         int64(ts),
		Action:     model.ActionLabel(r.str("action")),
		ActionConf: model.ActionConf(r.str("action_conf")),
		At:         strings.ToLower(r.str("at", "aggressor")),
		Headline:   headline,
	}
}

// describeNotable builds a display line for signals whose producer supplied
// no headline text, e.g. "NVDA BUY $2.4M • 1,250x • burst 4 • dte 7.5".
func describeNotable(ul, side string, notional, qty, burst, dte *float64) string {
	parts := make([]string, 0, 6)
	if ul != "" {
		parts = append(parts, ul)
	}
	if side != "" {
		parts = append(parts, side)
	}
	if notional != nil {
		parts = append(parts, MoneyCompact(*notional))
	}
	if qty != nil {
		parts = append(parts, "• "+groupInt(*qty)+"x")
	}
	if burst != nil {
		parts = append(parts, "• burst "+groupInt(*burst))
	}
	if dte != nil {
		parts = append(parts, "• dte "+maxOneDecimal(*dte))
	}
	return strings.Join(parts, " ")
}

// MoneyCompact renders a dollar amount in compact notation with at most one
// fraction digit ($999, $45.5K, $2.4M). Negative inputs clamp to $0.
func MoneyCompact(n float64) string {
	v := math.Round(n)
	if v < 0 {
		v = 0
	}
	switch {
	case v >= 1e12:
		return "$" + maxOneDecimal(v/1e12) + "T"
	case v >= 1e9:
		return "$" + maxOneDecimal(v/1e9) + "B"
	case v >= 1e6:
		return "$" + maxOneDecimal(v/1e6) + "M"
	case v >= 1e3:
		return "$" + maxOneDecimal(v/1e3) + "K"
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}

// maxOneDecimal formats with one fraction digit, dropping a trailing ".0".
func maxOneDecimal(v float64) string {
	s := strconv.FormatFloat(v, 'f', 1, 64)
	return strings.TrimSuffix(s, ".0")
}

// groupInt renders a rounded count with thousands separators.
func groupInt(v float64) string {
	n := int64(math.Round(v))
	neg := n < 0
	if neg {
		n = -n
	}
	s := strconv.FormatInt(n, 10)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		s = "-" + s
	}
	return s
}
