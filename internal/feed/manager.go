package feed

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tradeflash/flowd/internal/metrics"
)

// dialFunc builds the client for one connection attempt. Overridable in
// tests.
type dialFunc func(cfg ClientConfig, logger *slog.Logger) Client

// Manager owns the single logical feed connection. It decodes frames,
// queues them for the engine, and reconnects forever with exponential
// backoff when the connection drops.
type Manager struct {
	cfg    ManagerConfig
	logger *slog.Logger
	dial   dialFunc

	frames *Queue[Frame]

	mu      sync.RWMutex
	state   State
	session string

	cancel context.CancelFunc
	done   chan struct{}
}

// NewManager creates a feed manager. Zero backoff settings fall back to
// the defaults (1s base, 10s cap).
func NewManager(cfg ManagerConfig, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ReconnectBaseWait <= 0 {
		cfg.ReconnectBaseWait = 1 * time.Second
	}
	if cfg.ReconnectMaxWait <= 0 {
		cfg.ReconnectMaxWait = 10 * time.Second
	}
	if cfg.FrameBufferSize <= 0 {
		cfg.FrameBufferSize = 256
	}

	return &Manager{
		cfg:    cfg,
		logger: logger,
		dial:   NewClient,
		frames: NewQueue[Frame](cfg.FrameBufferSize),
		done:   make(chan struct{}),
	}
}

// Start launches the connection loop. It returns immediately; the
// manager keeps reconnecting until ctx is cancelled or Stop is called.
func (m *Manager) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	m.mu.Lock()
	m.cancel = cancel
	m.mu.Unlock()

	go m.run(ctx)
}

// Stop tears down the connection loop and closes the frame queue.
func (m *Manager) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	<-m.done
}

// Frames returns the queue of decoded frames for the engine.
func (m *Manager) Frames() *Queue[Frame] {
	return m.frames
}

// State returns the current connection state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Session returns the id of the current connection attempt.
func (m *Manager) Session() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session
}

func (m *Manager) setState(s State, session string) {
	m.mu.Lock()
	m.state = s
	m.session = session
	m.mu.Unlock()
}

// run is the connection loop: connect, consume until failure, back off,
// repeat. The backoff doubles per failed cycle and resets after a
// successful connect.
func (m *Manager) run(ctx context.Context) {
	defer close(m.done)
	defer m.frames.Close()
	defer m.setState(StateDisconnected, "")
	defer metrics.Connected.Set(0)

	wait := m.cfg.ReconnectBaseWait

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		session := uuid.NewString()[:8]
		m.setState(StateConnecting, session)

		cli := m.dial(DefaultClientConfig(m.cfg.URL).withAuth(m.cfg.AuthToken), m.logger)
		if err := cli.Connect(ctx); err != nil {
			m.logger.Warn("feed connect failed",
				"session", session,
				"error", err,
				"retry_in", wait,
			)
			metrics.Reconnects.Inc()
			if !sleepCtx(ctx, wait) {
				return
			}
			wait = nextBackoff(wait, m.cfg.ReconnectMaxWait)
			continue
		}

		m.setState(StateConnected, session)
		metrics.Connected.Set(1)
		m.logger.Info("feed connected", "session", session, "url", m.cfg.URL)
		wait = m.cfg.ReconnectBaseWait

		m.consume(ctx, cli)

		cli.Close()
		metrics.Connected.Set(0)
		m.setState(StateDisconnected, "")

		select {
		case <-ctx.Done():
			return
		default:
		}

		m.logger.Warn("feed disconnected", "session", session, "retry_in", wait)
		metrics.Reconnects.Inc()
		if !sleepCtx(ctx, wait) {
			return
		}
		wait = nextBackoff(wait, m.cfg.ReconnectMaxWait)
	}
}

// consume forwards decoded frames until the connection errors out or
// ctx is cancelled.
func (m *Manager) consume(ctx context.Context, cli Client) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-cli.Errors():
			m.logger.Warn("feed connection error", "error", err)
			return
		case msg, ok := <-cli.Messages():
			if !ok {
				return
			}
			m.dispatch(msg)
		}
	}
}

// dispatch decodes one raw frame and queues it. A frame that fails to
// decode, or carries no topic, is dropped without touching the
// connection.
func (m *Manager) dispatch(msg TimestampedMessage) {
	var frame Frame
	if err := json.Unmarshal(msg.Data, &frame); err != nil {
		metrics.FramesDropped.Inc()
		m.logger.Debug("dropping malformed frame", "error", err)
		return
	}
	if frame.Topic == "" {
		metrics.FramesDropped.Inc()
		m.logger.Debug("dropping frame without topic")
		return
	}

	frame.ReceivedAt = msg.ReceivedAt
	metrics.FramesTotal.WithLabelValues(frame.Topic).Inc()
	m.frames.Push(frame)
}

func (c ClientConfig) withAuth(token string) ClientConfig {
	c.AuthToken = token
	return c
}

// sleepCtx waits d, returning false if ctx was cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
