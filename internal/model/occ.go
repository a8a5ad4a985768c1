package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ContractCode synthesizes the 21-character OCC option symbol for the given
// contract: 6-character space-padded root, YYMMDD expiry, C/P, and the strike
// scaled by 1000 zero-padded to 8 digits. It is the join key between flow
// events and the mark cache, so the encoding must match externally supplied
// codes exactly. Returns "" when any part is missing or unusable.
func ContractCode(ul, expiry string, right Right, strike float64) string {
	if ul == "" || expiry == "" || (right != RightCall && right != RightPut) {
		return ""
	}
	if math.IsNaN(strike) || math.IsInf(strike, 0) {
		return ""
	}

	digits := strings.ReplaceAll(expiry, "-", "")
	if len(digits) < 8 {
		return ""
	}
	yymmdd := digits[2:8]

	root := ul
	if len(root) > 6 {
		root = root[:6]
	}
	root += strings.Repeat(" ", 6-len(root))

	// Strike dollars to thousandths, rounded half-up so e.g. 150.0005
	// encodes deterministically.
	k := decimal.NewFromFloat(strike).Mul(decimal.NewFromInt(1000)).Round(0).IntPart()
	if k < 0 {
		return ""
	}

	return fmt.Sprintf("%s%s%s%08d", root, yymmdd, right.Letter(), k)
}

// DaysToExpiry returns the whole days between now and the expiry date,
// clamped at zero. A bare YYYY-MM-DD date is pinned to 20:00 UTC, roughly
// the US options settlement cutoff. Returns false when the date is unparseable.
func DaysToExpiry(expiry string, now time.Time) (int, bool) {
	if expiry == "" {
		return 0, false
	}
	layout := time.RFC3339
	value := expiry
	if len(expiry) == 10 {
		value = expiry + "T20:00:00Z"
	}
	t, err := time.Parse(layout, value)
	if err != nil {
		return 0, false
	}
	days := int(math.Round(float64(t.Sub(now)) / float64(24*time.Hour)))
	if days < 0 {
		days = 0
	}
	return days, true
}

// trimFloat formats a float with no trailing zeros, matching the string
// form used inside composite keys.
func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
