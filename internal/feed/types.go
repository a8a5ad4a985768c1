package feed

import (
	"encoding/json"
	"errors"
	"time"
)

var (
	// ErrNotConnected indicates an operation requires an active connection.
	ErrNotConnected = errors.New("websocket not connected")

	// ErrAlreadyClosed indicates the client was already shut down.
	ErrAlreadyClosed = errors.New("websocket already closed")

	// ErrStaleConnection indicates the server stopped answering pings.
	ErrStaleConnection = errors.New("websocket connection stale")
)

// Frame is one decoded message from the feed. Data carries the
// topic-specific payload undecoded; the engine interprets it per topic.
// ULPrices is an optional spot map piggybacked on flow batches.
type Frame struct {
	Topic    string          `json:"topic"`
	Data     json.RawMessage `json:"data"`
	ULPrices map[string]any  `json:"ul_prices"`

	ReceivedAt time.Time `json:"-"`
}

// TimestampedMessage is a raw frame paired with its arrival time.
type TimestampedMessage struct {
	Data       []byte
	ReceivedAt time.Time
}

// State describes the manager's connection lifecycle.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// ClientConfig holds settings for a single connection attempt.
type ClientConfig struct {
	URL          string
	AuthToken    string
	PingInterval time.Duration
	PongTimeout  time.Duration
	WriteTimeout time.Duration
	BufferSize   int
}

// DefaultClientConfig returns a ClientConfig with sensible defaults
// for the given URL.
func DefaultClientConfig(url string) ClientConfig {
	return ClientConfig{
		URL:          url,
		PingInterval: 10 * time.Second,
		PongTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Second,
		BufferSize:   256,
	}
}

// ManagerConfig holds settings for the reconnecting manager.
type ManagerConfig struct {
	URL       string
	AuthToken string

	// ReconnectBaseWait is the first retry delay; each subsequent
	// attempt doubles it up to ReconnectMaxWait. Retries never stop.
	ReconnectBaseWait time.Duration
	ReconnectMaxWait  time.Duration

	FrameBufferSize int
}

// DefaultManagerConfig returns a ManagerConfig with the standard
// backoff schedule for the given URL.
func DefaultManagerConfig(url string) ManagerConfig {
	return ManagerConfig{
		URL:               url,
		ReconnectBaseWait: 1 * time.Second,
		ReconnectMaxWait:  10 * time.Second,
		FrameBufferSize:   256,
	}
}

// nextBackoff doubles the current wait, clamped to max.
func nextBackoff(cur, max time.Duration) time.Duration {
	next := cur * 2
	if next > max {
		return max
	}
	return next
}
