package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultWSURL             = "wss://feed.tradeflash.io/stream"
	DefaultBaseURL           = "https://api.tradeflash.io"
	DefaultReconnectBaseWait = 1 * time.Second
	DefaultReconnectMaxWait  = 10 * time.Second
	DefaultFeedBufferSize    = 256
	DefaultAPITimeout        = 30 * time.Second
	DefaultMaxRetries        = 3
	DefaultRetryBackoff      = 1 * time.Second
	DefaultPrintsCapacity    = 1000
	DefaultSweepsCapacity    = 1200
	DefaultBlocksCapacity    = 1200
	DefaultHeadlineWindow    = 60 * time.Second
	DefaultHeadlineTopN      = 12
	DefaultViewLimit         = 300
	DefaultPollInterval      = 8 * time.Second
	DefaultPollTimeout       = 10 * time.Second
	DefaultMetricsPort       = 9090
	DefaultMetricsPath       = "/metrics"
)

func (c *Config) applyDefaults() {
	// Feed defaults
	if c.Feed.WSURL == "" {
		c.Feed.WSURL = DefaultWSURL
	}
	if c.Feed.ReconnectBaseWait == 0 {
		c.Feed.ReconnectBaseWait = DefaultReconnectBaseWait
	}
	if c.Feed.ReconnectMaxWait == 0 {
		c.Feed.ReconnectMaxWait = DefaultReconnectMaxWait
	}
	if c.Feed.BufferSize == 0 {
		c.Feed.BufferSize = DefaultFeedBufferSize
	}

	// API defaults
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultMaxRetries
	}
	if c.API.RetryBackoff == 0 {
		c.API.RetryBackoff = DefaultRetryBackoff
	}

	// Store defaults
	if c.Stores.PrintsCapacity == 0 {
		c.Stores.PrintsCapacity = DefaultPrintsCapacity
	}
	if c.Stores.SweepsCapacity == 0 {
		c.Stores.SweepsCapacity = DefaultSweepsCapacity
	}
	if c.Stores.BlocksCapacity == 0 {
		c.Stores.BlocksCapacity = DefaultBlocksCapacity
	}

	// Headline defaults
	if c.Headlines.Window == 0 {
		c.Headlines.Window = DefaultHeadlineWindow
	}
	if c.Headlines.TopN == 0 {
		c.Headlines.TopN = DefaultHeadlineTopN
	}

	// View defaults
	if c.View.Limit == 0 {
		c.View.Limit = DefaultViewLimit
	}

	// Poller defaults
	if c.Poller.Interval == 0 {
		c.Poller.Interval = DefaultPollInterval
	}
	if c.Poller.Timeout == 0 {
		c.Poller.Timeout = DefaultPollTimeout
	}

	// Metrics defaults
	if c.Metrics.Port == 0 {
		c.Metrics.Port = DefaultMetricsPort
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}
