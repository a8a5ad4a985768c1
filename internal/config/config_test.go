package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	yaml := `
instance:
  id: flowd-test
feed:
  ws_url: wss://feed.example.com/stream
  reconnect_base_wait: 1s
  reconnect_max_wait: 10s
api:
  base_url: https://api.example.com
stores:
  prints_capacity: 500
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Instance.ID != "flowd-test" {
		t.Errorf("Instance.ID = %q, want %q", cfg.Instance.ID, "flowd-test")
	}
	if cfg.Feed.WSURL != "wss://feed.example.com/stream" {
		t.Errorf("Feed.WSURL = %q, want %q", cfg.Feed.WSURL, "wss://feed.example.com/stream")
	}
	if cfg.Feed.ReconnectMaxWait != 10*time.Second {
		t.Errorf("Feed.ReconnectMaxWait = %v, want 10s", cfg.Feed.ReconnectMaxWait)
	}
	if cfg.Stores.PrintsCapacity != 500 {
		t.Errorf("Stores.PrintsCapacity = %d, want 500", cfg.Stores.PrintsCapacity)
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_FEED_TOKEN", "secret123")

	yaml := `
instance:
  id: flowd-test
feed:
  auth_token: ${TEST_FEED_TOKEN}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Feed.AuthToken != "secret123" {
		t.Errorf("Feed.AuthToken = %q, want %q", cfg.Feed.AuthToken, "secret123")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	yaml := `
instance:
  id: flowd-test
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	if cfg.Feed.WSURL != DefaultWSURL {
		t.Errorf("Feed.WSURL = %q, want default %q", cfg.Feed.WSURL, DefaultWSURL)
	}
	if cfg.Feed.ReconnectBaseWait != DefaultReconnectBaseWait {
		t.Errorf("Feed.ReconnectBaseWait = %v, want default %v", cfg.Feed.ReconnectBaseWait, DefaultReconnectBaseWait)
	}
	if cfg.Stores.PrintsCapacity != DefaultPrintsCapacity {
		t.Errorf("Stores.PrintsCapacity = %d, want default %d", cfg.Stores.PrintsCapacity, DefaultPrintsCapacity)
	}
	if cfg.Stores.SweepsCapacity != DefaultSweepsCapacity {
		t.Errorf("Stores.SweepsCapacity = %d, want default %d", cfg.Stores.SweepsCapacity, DefaultSweepsCapacity)
	}
	if cfg.Headlines.Window != DefaultHeadlineWindow {
		t.Errorf("Headlines.Window = %v, want default %v", cfg.Headlines.Window, DefaultHeadlineWindow)
	}
	if cfg.Headlines.TopN != DefaultHeadlineTopN {
		t.Errorf("Headlines.TopN = %d, want default %d", cfg.Headlines.TopN, DefaultHeadlineTopN)
	}
	if cfg.Poller.Interval != DefaultPollInterval {
		t.Errorf("Poller.Interval = %v, want default %v", cfg.Poller.Interval, DefaultPollInterval)
	}
	if cfg.Metrics.Port != DefaultMetricsPort {
		t.Errorf("Metrics.Port = %d, want default %d", cfg.Metrics.Port, DefaultMetricsPort)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		c := Config{Instance: InstanceConfig{ID: "test"}}
		c.applyDefaults()
		return c
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
		{
			name:    "missing instance id",
			mutate:  func(c *Config) { c.Instance.ID = "" },
			wantErr: "instance.id is required",
		},
		{
			name:    "bad ws url",
			mutate:  func(c *Config) { c.Feed.WSURL = "https://feed.example.com" },
			wantErr: `feed.ws_url must be a ws:// or wss:// URL, got "https://feed.example.com"`,
		},
		{
			name: "base wait exceeds max wait",
			mutate: func(c *Config) {
				c.Feed.ReconnectBaseWait = 30 * time.Second
			},
			wantErr: "feed.reconnect_base_wait (30s) cannot exceed reconnect_max_wait (10s)",
		},
		{
			name:    "bad api url",
			mutate:  func(c *Config) { c.API.BaseURL = "ftp://api.example.com" },
			wantErr: `api.base_url must be an http:// or https:// URL, got "ftp://api.example.com"`,
		},
		{
			name:    "zero store capacity",
			mutate:  func(c *Config) { c.Stores.SweepsCapacity = -1 },
			wantErr: "stores.sweeps_capacity must be >= 1",
		},
		{
			name:    "bad metrics port",
			mutate:  func(c *Config) { c.Metrics.Port = 70000 },
			wantErr: "metrics.port must be between 1 and 65535, got 70000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("Validate() expected error %q, got nil", tt.wantErr)
				} else if err.Error() != tt.wantErr {
					t.Errorf("Validate() error = %q, want %q", err.Error(), tt.wantErr)
				}
			}
		})
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}
