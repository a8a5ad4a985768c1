package feed

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"
)

func TestNextBackoff(t *testing.T) {
	base := 1 * time.Second
	max := 10 * time.Second

	// 1s, 2s, 4s, 8s, then pinned at the cap.
	want := []time.Duration{
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		10 * time.Second,
		10 * time.Second,
	}

	cur := base
	for i, w := range want {
		cur = nextBackoff(cur, max)
		if cur != w {
			t.Errorf("step %d: nextBackoff = %v, want %v", i, cur, w)
		}
	}
}

func TestManager_Dispatch(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		queued bool
		topic  string
	}{
		{
			name:   "flow batch",
			raw:    `{"topic":"sweeps","data":[{"ul":"NVDA"}]}`,
			queued: true,
			topic:  "sweeps",
		},
		{
			name:   "frame with ul_prices",
			raw:    `{"topic":"prints","data":[],"ul_prices":{"AAPL":231.5}}`,
			queued: true,
			topic:  "prints",
		},
		{
			name:   "malformed json dropped",
			raw:    `{"topic":"prints",`,
			queued: false,
		},
		{
			name:   "missing topic dropped",
			raw:    `{"data":[{"ul":"TSLA"}]}`,
			queued: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(DefaultManagerConfig("ws://unused"), slog.Default())

			now := time.Now()
			m.dispatch(TimestampedMessage{Data: []byte(tt.raw), ReceivedAt: now})

			frame, ok := m.frames.TryPop()
			if ok != tt.queued {
				t.Fatalf("frame queued = %v, want %v", ok, tt.queued)
			}
			if !ok {
				return
			}
			if frame.Topic != tt.topic {
				t.Errorf("Topic = %q, want %q", frame.Topic, tt.topic)
			}
			if !frame.ReceivedAt.Equal(now) {
				t.Errorf("ReceivedAt = %v, want %v", frame.ReceivedAt, now)
			}
		})
	}
}

func TestManager_DispatchULPrices(t *testing.T) {
	m := NewManager(DefaultManagerConfig("ws://unused"), slog.Default())

	raw := `{"topic":"sweeps","data":[{"ul":"NVDA"}],"ul_prices":{"NVDA":131.25,"AAPL":"231.5"}}`
	m.dispatch(TimestampedMessage{Data: []byte(raw), ReceivedAt: time.Now()})

	frame, ok := m.frames.TryPop()
	if !ok {
		t.Fatal("expected frame to be queued")
	}
	if len(frame.ULPrices) != 2 {
		t.Fatalf("len(ULPrices) = %d, want 2", len(frame.ULPrices))
	}
	if got := frame.ULPrices["NVDA"]; got != 131.25 {
		t.Errorf("ULPrices[NVDA] = %v, want 131.25", got)
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(frame.Data, &rows); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("len(rows) = %d, want 1", len(rows))
	}
}

func TestManager_ReconnectAndDeliver(t *testing.T) {
	// First dial fails, second succeeds and yields one frame.
	attempts := 0
	m := NewManager(ManagerConfig{
		URL:               "ws://unused",
		ReconnectBaseWait: 5 * time.Millisecond,
		ReconnectMaxWait:  20 * time.Millisecond,
		FrameBufferSize:   16,
	}, slog.Default())
	m.dial = func(cfg ClientConfig, logger *slog.Logger) Client {
		attempts++
		if attempts == 1 {
			return &fakeClient{connectErr: errConnRefused}
		}
		c := newFakeClient()
		go func() {
			c.messages <- TimestampedMessage{
				Data:       []byte(`{"topic":"blocks","data":[]}`),
				ReceivedAt: time.Now(),
			}
		}()
		return c
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.Start(ctx)
	defer func() {
		cancel()
		m.Stop()
	}()

	deadline := time.After(2 * time.Second)
	for {
		if frame, ok := m.frames.TryPop(); ok {
			if frame.Topic != "blocks" {
				t.Errorf("Topic = %q, want blocks", frame.Topic)
			}
			break
		}
		select {
		case <-deadline:
			t.Fatalf("no frame delivered after reconnect, attempts = %d", attempts)
		case <-time.After(5 * time.Millisecond):
		}
	}

	if attempts < 2 {
		t.Errorf("attempts = %d, want >= 2", attempts)
	}
	if m.State() != StateConnected {
		t.Errorf("State = %v, want connected", m.State())
	}
	if m.Session() == "" {
		t.Error("expected a session id while connected")
	}
}

func TestManager_StopClosesQueue(t *testing.T) {
	m := NewManager(ManagerConfig{
		URL:               "ws://unused",
		ReconnectBaseWait: 5 * time.Millisecond,
		ReconnectMaxWait:  20 * time.Millisecond,
	}, slog.Default())
	m.dial = func(cfg ClientConfig, logger *slog.Logger) Client {
		return &fakeClient{connectErr: errConnRefused}
	}

	m.Start(context.Background())
	m.Stop()

	if _, ok := m.frames.Pop(); ok {
		t.Error("expected frame queue to be closed after Stop")
	}
	if m.State() != StateDisconnected {
		t.Errorf("State = %v, want disconnected", m.State())
	}
}

var errConnRefused = &connError{"connection refused"}

type connError struct{ s string }

func (e *connError) Error() string { return e.s }

// fakeClient satisfies Client without a network.
type fakeClient struct {
	connectErr error
	messages   chan TimestampedMessage
	errors     chan error
	connected  bool
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		messages: make(chan TimestampedMessage, 16),
		errors:   make(chan error, 1),
	}
}

func (f *fakeClient) Connect(ctx context.Context) error {
	if f.connectErr != nil {
		return f.connectErr
	}
	f.connected = true
	return nil
}

func (f *fakeClient) Close() error {
	f.connected = false
	return nil
}

func (f *fakeClient) Send(data []byte) error { return nil }

func (f *fakeClient) Messages() <-chan TimestampedMessage { return f.messages }

func (f *fakeClient) Errors() <-chan error { return f.errors }

func (f *fakeClient) IsConnected() bool { return f.connected }
