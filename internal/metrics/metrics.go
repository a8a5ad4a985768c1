package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FramesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "flowd_frames_total", Help: "Feed frames received, by topic"},
		[]string{"topic"},
	)
	FramesDropped = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "flowd_frames_dropped_total", Help: "Frames dropped (malformed JSON or unknown topic)"},
	)
	EventsMerged = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "flowd_events_merged_total", Help: "Flow events merged into rolling stores, by kind"},
		[]string{"kind"},
	)
	StoreSize = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "flowd_store_size", Help: "Current rolling-store sizes, by kind"},
		[]string{"kind"},
	)
	Reconnects = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "flowd_feed_reconnects_total", Help: "Feed reconnect attempts"},
	)
	Connected = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "flowd_feed_connected", Help: "1 while the feed connection is up"},
	)
	BackfillFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "flowd_backfill_fetches_total", Help: "Price backfill fetches, by outcome"},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		FramesTotal,
		FramesDropped,
		EventsMerged,
		StoreSize,
		Reconnects,
		Connected,
		BackfillFetches,
	)
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
