package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/tradeflash/flowd/internal/config"
	"github.com/tradeflash/flowd/internal/engine"
	"github.com/tradeflash/flowd/internal/feed"
	"github.com/tradeflash/flowd/internal/flowstore"
	"github.com/tradeflash/flowd/internal/headlines"
	"github.com/tradeflash/flowd/internal/metrics"
	"github.com/tradeflash/flowd/internal/model"
	"github.com/tradeflash/flowd/internal/notables"
	"github.com/tradeflash/flowd/internal/poller"
	"github.com/tradeflash/flowd/internal/pricebook"
	"github.com/tradeflash/flowd/internal/restapi"
	"github.com/tradeflash/flowd/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/flowd.local.yaml", "path to config file")
	flag.Parse()

	// .env is optional; config env expansion picks up whatever it sets.
	godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting flowd",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"feed_url", cfg.Feed.WSURL,
		"api_url", cfg.API.BaseURL,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// State owned by the engine.
	book := pricebook.New()
	eng := engine.New(engine.Config{
		Book:      book,
		Prints:    flowstore.NewWithCapacity(model.KindPrints, cfg.Stores.PrintsCapacity),
		Sweeps:    flowstore.NewWithCapacity(model.KindSweeps, cfg.Stores.SweepsCapacity),
		Blocks:    flowstore.NewWithCapacity(model.KindBlocks, cfg.Stores.BlocksCapacity),
		Headlines: headlines.New(cfg.Headlines.Window, cfg.Headlines.TopN),
		Notables:  notables.NewSet(),
		Logger:    logger,
	})

	apiClient := restapi.NewClient(
		cfg.API.BaseURL,
		cfg.API.AuthToken,
		restapi.WithLogger(logger),
		restapi.WithTimeout(cfg.API.Timeout),
		restapi.WithRetries(cfg.API.MaxRetries, cfg.API.RetryBackoff),
	)

	backfill := poller.New(poller.Config{
		Interval: cfg.Poller.Interval,
		Timeout:  cfg.Poller.Timeout,
	}, apiClient, eng, book, logger)

	mgr := feed.NewManager(feed.ManagerConfig{
		URL:               cfg.Feed.WSURL,
		AuthToken:         cfg.Feed.AuthToken,
		ReconnectBaseWait: cfg.Feed.ReconnectBaseWait,
		ReconnectMaxWait:  cfg.Feed.ReconnectMaxWait,
		FrameBufferSize:   cfg.Feed.BufferSize,
	}, logger)

	// Metrics and health endpoints share one server.
	httpAddr := fmt.Sprintf(":%d", cfg.Metrics.Port)
	httpServer := &http.Server{
		Addr:    httpAddr,
		Handler: newHTTPHandler(cfg.Metrics.Path, mgr, eng, book),
	}
	go func() {
		logger.Info("starting metrics server", "addr", httpAddr, "path", cfg.Metrics.Path)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Seed notables before frames start replacing them.
	go backfill.SeedNotables(ctx, eng)

	mgr.Start(ctx)

	if err := backfill.Start(ctx); err != nil {
		logger.Error("failed to start poller", "error", err)
		os.Exit(1)
	}

	var g errgroup.Group
	g.Go(func() error {
		eng.Run(mgr.Frames())
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		mgr.Stop() // closes the frame queue, letting the engine drain and exit
		return nil
	})

	logger.Info("flowd running", "instance_id", cfg.Instance.ID)

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	backfill.Stop(shutdownCtx)
	httpServer.Shutdown(shutdownCtx)
	g.Wait()

	logger.Info("flowd stopped")
}

// newHTTPHandler serves the Prometheus scrape path plus a health view of
// the feed and the reconciled state.
func newHTTPHandler(metricsPath string, mgr *feed.Manager, eng *engine.Engine, book *pricebook.Book) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(metricsPath, metrics.Handler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		spots, marks := book.Len()

		health := struct {
			Status string         `json:"status"`
			Feed   map[string]any `json:"feed"`
			Stores map[string]int `json:"stores"`
			Prices map[string]int `json:"prices"`
		}{
			Status: "healthy",
			Feed: map[string]any{
				"state":   mgr.State().String(),
				"session": mgr.Session(),
			},
			Stores: map[string]int{
				"prints":    len(eng.Prints()),
				"sweeps":    len(eng.Sweeps()),
				"blocks":    len(eng.Blocks()),
				"headlines": len(eng.Headlines()),
				"notables":  len(eng.Notables()),
			},
			Prices: map[string]int{
				"spots": spots,
				"marks": marks,
			},
		}

		if mgr.State() != feed.StateConnected {
			health.Status = "degraded"
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(health)
	})

	return mux
}
