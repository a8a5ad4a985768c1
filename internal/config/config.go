package config

import "time"

// Config is the root configuration for a flowd instance.
type Config struct {
	Instance  InstanceConfig  `yaml:"instance"`
	Feed      FeedConfig      `yaml:"feed"`
	API       APIConfig       `yaml:"api"`
	Stores    StoresConfig    `yaml:"stores"`
	Headlines HeadlinesConfig `yaml:"headlines"`
	View      ViewConfig      `yaml:"view"`
	Poller    PollerConfig    `yaml:"poller"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// InstanceConfig identifies this flowd process.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// FeedConfig holds stream connection settings.
type FeedConfig struct {
	WSURL             string        `yaml:"ws_url"`
	AuthToken         string        `yaml:"auth_token"`
	ReconnectBaseWait time.Duration `yaml:"reconnect_base_wait"`
	ReconnectMaxWait  time.Duration `yaml:"reconnect_max_wait"`
	BufferSize        int           `yaml:"buffer_size"`
}

// APIConfig holds REST backfill and watchlist mutation settings.
type APIConfig struct {
	BaseURL      string        `yaml:"base_url"`
	AuthToken    string        `yaml:"auth_token"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxRetries   int           `yaml:"max_retries"`
	RetryBackoff time.Duration `yaml:"retry_backoff"`
}

// StoresConfig holds the rolling flow store capacities.
type StoresConfig struct {
	PrintsCapacity int `yaml:"prints_capacity"`
	SweepsCapacity int `yaml:"sweeps_capacity"`
	BlocksCapacity int `yaml:"blocks_capacity"`
}

// HeadlinesConfig holds headline aggregation settings.
type HeadlinesConfig struct {
	Window time.Duration `yaml:"window"`
	TopN   int           `yaml:"top_n"`
}

// ViewConfig holds default filter thresholds for flow views.
type ViewConfig struct {
	MinNotional float64 `yaml:"min_notional"`
	MinQty      int64   `yaml:"min_qty"`
	Limit       int     `yaml:"limit"`
}

// PollerConfig holds price backfill settings.
type PollerConfig struct {
	Interval time.Duration `yaml:"interval"`
	Timeout  time.Duration `yaml:"timeout"`
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}
