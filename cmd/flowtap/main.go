// flowtap connects to the flow feed and streams decoded frames to the
// console. Useful for eyeballing what a producer is actually sending.
//
// Usage: go run ./cmd/flowtap --config configs/flowd.local.yaml --verbose
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tradeflash/flowd/internal/config"
	"github.com/tradeflash/flowd/internal/feed"
)

func main() {
	configPath := flag.String("config", "configs/flowd.local.yaml", "path to config file")
	wsURL := flag.String("url", "", "feed URL (overrides config)")
	verbose := flag.Bool("verbose", false, "print full frame JSON")
	flag.Parse()

	godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	url := *wsURL
	token := ""
	if url == "" {
		cfg, err := config.LoadWithDefaults(*configPath)
		if err != nil {
			logger.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		url = cfg.Feed.WSURL
		token = cfg.Feed.AuthToken
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mgrCfg := feed.DefaultManagerConfig(url)
	mgrCfg.AuthToken = token
	mgr := feed.NewManager(mgrCfg, logger)
	mgr.Start(ctx)

	go func() {
		<-ctx.Done()
		mgr.Stop()
	}()

	fmt.Printf("tapping %s\n", url)

	counts := map[string]int{}
	start := time.Now()

	for {
		frame, ok := mgr.Frames().Pop()
		if !ok {
			break
		}
		counts[frame.Topic]++

		if *verbose {
			out, _ := json.Marshal(frame)
			fmt.Println(string(out))
			continue
		}

		fmt.Printf("%s  topic=%-14s bytes=%-6d total=%d\n",
			frame.ReceivedAt.Format("15:04:05.000"),
			frame.Topic,
			len(frame.Data),
			counts[frame.Topic],
		)
	}

	fmt.Printf("\n%.1fs elapsed, frames by topic:\n", time.Since(start).Seconds())
	for topic, n := range counts {
		fmt.Printf("  %-14s %d\n", topic, n)
	}
}
