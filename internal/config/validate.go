package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if !strings.HasPrefix(c.Feed.WSURL, "ws://") && !strings.HasPrefix(c.Feed.WSURL, "wss://") {
		return fmt.Errorf("feed.ws_url must be a ws:// or wss:// URL, got %q", c.Feed.WSURL)
	}
	if c.Feed.ReconnectBaseWait > c.Feed.ReconnectMaxWait {
		return fmt.Errorf("feed.reconnect_base_wait (%v) cannot exceed reconnect_max_wait (%v)",
			c.Feed.ReconnectBaseWait, c.Feed.ReconnectMaxWait)
	}
	if c.Feed.BufferSize < 1 {
		return errors.New("feed.buffer_size must be >= 1")
	}

	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("api.base_url must be an http:// or https:// URL, got %q", c.API.BaseURL)
	}
	if c.API.MaxRetries < 0 {
		return errors.New("api.max_retries must be >= 0")
	}

	if c.Stores.PrintsCapacity < 1 {
		return errors.New("stores.prints_capacity must be >= 1")
	}
	if c.Stores.SweepsCapacity < 1 {
		return errors.New("stores.sweeps_capacity must be >= 1")
	}
	if c.Stores.BlocksCapacity < 1 {
		return errors.New("stores.blocks_capacity must be >= 1")
	}

	if c.Headlines.TopN < 1 {
		return errors.New("headlines.top_n must be >= 1")
	}

	if c.View.MinNotional < 0 {
		return errors.New("view.min_notional must be >= 0")
	}
	if c.View.MinQty < 0 {
		return errors.New("view.min_qty must be >= 0")
	}

	if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 1 and 65535, got %d", c.Metrics.Port)
	}

	return nil
}
