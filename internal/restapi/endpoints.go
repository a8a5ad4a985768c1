package restapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tradeflash/flowd/internal/model"
	"github.com/tradeflash/flowd/internal/normalize"
)

// Notables fetches the current notable set, used to seed the engine
// before the first notables frame arrives.
func (c *Client) Notables(ctx context.Context) ([]model.Notable, error) {
	var rows []normalize.Raw
	if err := c.get(ctx, "/api/insights/notables", nil, &rows); err != nil {
		return nil, err
	}

	now := time.Now()
	list := make([]model.Notable, 0, len(rows))
	for _, r := range rows {
		list = append(list, normalize.Notable(r, now))
	}
	return list, nil
}

// Prices looks up last prices for the given symbols. The endpoint is
// loose about its response shape; three forms are tolerated:
//
//	{"rows":[{"symbol":"AAPL","last":231.5}, ...]}
//	[{"symbol":"AAPL","price":231.5}, ...]
//	{"AAPL":231.5, ...}
func (c *Client) Prices(ctx context.Context, symbols []string) (map[string]float64, error) {
	if len(symbols) == 0 {
		return map[string]float64{}, nil
	}

	query := url.Values{}
	query.Set("symbols", strings.Join(symbols, ","))

	var raw json.RawMessage
	if err := c.get(ctx, "/prices", query, &raw); err != nil {
		return nil, err
	}

	return decodePrices(raw)
}

func decodePrices(raw json.RawMessage) (map[string]float64, error) {
	out := map[string]float64{}

	var wrapped struct {
		Rows []normalize.Raw `json:"rows"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Rows != nil {
		collectRows(out, wrapped.Rows)
		return out, nil
	}

	var rows []normalize.Raw
	if err := json.Unmarshal(raw, &rows); err == nil {
		collectRows(out, rows)
		return out, nil
	}

	var bare map[string]any
	if err := json.Unmarshal(raw, &bare); err == nil {
		for sym, v := range bare {
			if px, ok := normalize.Num(v); ok {
				out[normalize.Symbol(sym)] = px
			}
		}
		return out, nil
	}

	return nil, fmt.Errorf("unrecognized prices response shape")
}

func collectRows(out map[string]float64, rows []normalize.Raw) {
	for _, r := range rows {
		sym := normalize.Underlying(r)
		if sym == model.UnknownSymbol {
			continue
		}
		if px, ok := r.Num("last", "price"); ok {
			out[sym] = px
		}
	}
}

// AddEquity adds a tracked equity symbol. The symbol is cleaned the
// same way the watchlist normalizer cleans inbound ones.
func (c *Client) AddEquity(ctx context.Context, symbol string) error {
	clean := normalize.CleanEquity(symbol)
	if clean == "" {
		return fmt.Errorf("empty symbol")
	}

	body, err := json.Marshal(map[string]string{"symbol": clean})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	_, err = c.doWithRetry(ctx, http.MethodPost, "/watchlist/equities", nil, body)
	return err
}

// RemoveEquity removes a tracked equity symbol.
func (c *Client) RemoveEquity(ctx context.Context, symbol string) error {
	clean := normalize.CleanEquity(symbol)
	if clean == "" {
		return fmt.Errorf("empty symbol")
	}

	_, err := c.doWithRetry(ctx, http.MethodDelete, "/watchlist/equities/"+url.PathEscape(clean), nil, nil)
	return err
}
