package normalize

import (
	"strings"

	"github.com/tradeflash/flowd/internal/model"
)

// Watchlist converts a raw watchlist snapshot. Equity symbols are trimmed,
// uppercased, stripped of a leading futures-style slash and de-duplicated
// preserving first-seen order. Option legs pass through.
func Watchlist(r Raw) model.Watchlist {
	wl := model.Watchlist{Equities: []string{}, Options: []model.OptionLeg{}}

	if eqs, ok := r["equities"].([]any); ok {
		seen := make(map[string]struct{}, len(eqs))
		for _, e := range eqs {
			sym := CleanEquity(toString(e))
			if sym == "" {
				continue
			}
			if _, dup := seen[sym]; dup {
				continue
			}
			seen[sym] = struct{}{}
			wl.Equities = append(wl.Equities, sym)
		}
	}

	if opts, ok := r["options"].([]any); ok {
		for _, o := range opts {
			m, ok := o.(map[string]any)
			if !ok {
				continue
			}
			leg := Raw(m)
			strike, _ := leg.num("strike")
			wl.Options = append(wl.Options, model.OptionLeg{
				Underlying: Symbol(leg.str("underlying")),
				Expiration: leg.str("expiration"),
				Strike:     strike,
				Right:      headlineRight(strings.ToUpper(leg.str("right"))),
			})
		}
	}

	return wl
}

// CleanEquity canonicalizes a user- or producer-supplied equity symbol:
// trimmed, uppercased, leading "/" removed.
func CleanEquity(sym string) string {
	return strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(sym)), "/")
}

func toString(v any) string {
	s, _ := v.(string)
	return s
}
