package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tradeflash/flowd/internal/metrics"
	"github.com/tradeflash/flowd/internal/model"
)

// SymbolSource provides the underlyings currently worth backfilling.
type SymbolSource interface {
	Symbols() []string
}

// PriceSink receives backfilled spot prices.
type PriceSink interface {
	SetSpot(symbol string, px float64) bool
}

// NotableSink receives the startup notable seed.
type NotableSink interface {
	SeedNotables(list []model.Notable)
}

// APIClient is the REST surface the poller depends on.
type APIClient interface {
	Prices(ctx context.Context, symbols []string) (map[string]float64, error)
	Notables(ctx context.Context) ([]model.Notable, error)
}

// Config holds poller configuration.
type Config struct {
	Interval time.Duration // Poll interval (default: 8s)
	Timeout  time.Duration // Per-request timeout (default: 10s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval: 8 * time.Second,
		Timeout:  10 * time.Second,
	}
}

// Poller periodically backfills spot prices via the REST API.
type Poller struct {
	cfg     Config
	client  APIClient
	symbols SymbolSource
	prices  PriceSink
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a price poller.
func New(cfg Config, client APIClient, symbols SymbolSource, prices PriceSink, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig().Interval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &Poller{
		cfg:     cfg,
		client:  client,
		symbols: symbols,
		prices:  prices,
		logger:  logger,
	}
}

// SeedNotables fetches the current notable set once and hands it to the
// sink. A failure is logged and swallowed; the stream will deliver a
// fresh set eventually anyway.
func (p *Poller) SeedNotables(ctx context.Context, sink NotableSink) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	list, err := p.client.Notables(ctx)
	if err != nil {
		p.logger.Warn("notable seed fetch failed", "error", err)
		return
	}

	sink.SeedNotables(list)
	p.logger.Info("seeded notables", "count", len(list))
}

// Start begins the polling loop.
func (p *Poller) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()

	p.logger.Info("price poller started", "interval", p.cfg.Interval)

	return nil
}

// Stop gracefully shuts down the poller.
func (p *Poller) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("price poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the main polling loop.
func (p *Poller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	// Poll immediately on start.
	p.poll()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.poll()
		}
	}
}

// poll fetches last prices for every tracked underlying and merges them
// into the price book.
func (p *Poller) poll() {
	symbols := p.symbols.Symbols()
	if len(symbols) == 0 {
		p.logger.Debug("no symbols to backfill")
		return
	}

	ctx, cancel := context.WithTimeout(p.ctx, p.cfg.Timeout)
	defer cancel()

	got, err := p.client.Prices(ctx, symbols)
	if err != nil {
		metrics.BackfillFetches.WithLabelValues("error").Inc()
		p.logger.Warn("price backfill failed",
			"symbols", len(symbols),
			"error", err,
		)
		return
	}

	updated := 0
	for sym, px := range got {
		if p.prices.SetSpot(sym, px) {
			updated++
		}
	}

	metrics.BackfillFetches.WithLabelValues("ok").Inc()
	p.logger.Debug("price backfill complete",
		"symbols", len(symbols),
		"returned", len(got),
		"updated", updated,
	)
}
