package normalize

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/tradeflash/flowd/internal/model"
)

// Raw is one undecoded feed record. Values are whatever encoding/json
// produced: float64, string, bool, nil, nested maps.
type Raw map[string]any

// coerce attempts to read v as a finite float64.
func coerce(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case float32:
		return coerce(float64(n))
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// num returns the first candidate field that coerces to a finite number.
// A field that is present but unparseable does not fall through to later
// candidates; it resolves to the zero default.
func (r Raw) num(keys ...string) (float64, bool) {
	for _, k := range keys {
		v, ok := r[k]
		if !ok || v == nil {
			continue
		}
		if f, ok := coerce(v); ok {
			return f, true
		}
		return 0, false
	}
	return 0, false
}

// numPtr is num for optional fields: nil when absent or unparseable.
func (r Raw) numPtr(keys ...string) *float64 {
	for _, k := range keys {
		v, ok := r[k]
		if !ok || v == nil {
			continue
		}
		if f, ok := coerce(v); ok {
			return &f
		}
		return nil
	}
	return nil
}

// str returns the first candidate field rendered as a trimmed string.
func (r Raw) str(keys ...string) string {
	for _, k := range keys {
		v, ok := r[k]
		if !ok || v == nil {
			continue
		}
		switch s := v.(type) {
		case string:
			return strings.TrimSpace(s)
		case float64:
			return strconv.FormatFloat(s, 'f', -1, 64)
		case bool:
			return strconv.FormatBool(s)
		default:
			return strings.TrimSpace(fmt.Sprintf("%v", s))
		}
	}
	return ""
}

// Num coerces one loosely-typed value to a finite float64.
func Num(v any) (float64, bool) {
	return coerce(v)
}

// Num returns the first candidate field that coerces to a finite number.
func (r Raw) Num(keys ...string) (float64, bool) {
	return r.num(keys...)
}

// Str returns the first candidate field rendered as a trimmed string.
func (r Raw) Str(keys ...string) string {
	return r.str(keys...)
}

var occRoot = regexp.MustCompile(`^([A-Z]{1,6})\s`)

// Underlying resolves the underlying symbol for a raw record. Candidates in
// order: explicit underlying fields, the root of an OCC code, the leading
// token of a free-text ticker. Falls back to model.UnknownSymbol.
func Underlying(r Raw) string {
	ul := r.str("ul", "underlying", "ul_symbol", "symbol", "root", "underlyingSymbol")

	if ul == "" {
		if occ := r.str("occ"); occ != "" {
			if m := occRoot.FindStringSubmatch(occ); m != nil {
				ul = m[1]
			}
		}
	}
	if ul == "" {
		if tk := r.str("ticker"); tk != "" {
			if fields := strings.Fields(tk); len(fields) > 0 {
				ul = fields[0]
			}
		}
	}
	if ul == "" {
		return model.UnknownSymbol
	}
	return strings.ToUpper(ul)
}

// Symbol canonicalizes a bare symbol string: trimmed and uppercased.
func Symbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
