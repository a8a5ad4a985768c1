package engine

import (
	"encoding/json"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tradeflash/flowd/internal/feed"
	"github.com/tradeflash/flowd/internal/flowstore"
	"github.com/tradeflash/flowd/internal/headlines"
	"github.com/tradeflash/flowd/internal/metrics"
	"github.com/tradeflash/flowd/internal/model"
	"github.com/tradeflash/flowd/internal/normalize"
	"github.com/tradeflash/flowd/internal/notables"
	"github.com/tradeflash/flowd/internal/pricebook"
	"github.com/tradeflash/flowd/internal/view"
)

// Config wires the engine's collaborators. Nil fields get fresh
// defaults, so tests can construct an engine from a zero Config.
type Config struct {
	Book      *pricebook.Book
	Prints    *flowstore.Store
	Sweeps    *flowstore.Store
	Blocks    *flowstore.Store
	Headlines *headlines.Aggregator
	Notables  *notables.Set
	Logger    *slog.Logger
}

// Engine owns the reconciled state and the topic dispatch table.
type Engine struct {
	logger *slog.Logger

	book      *pricebook.Book
	prints    *flowstore.Store
	sweeps    *flowstore.Store
	blocks    *flowstore.Store
	headlines *headlines.Aggregator
	notables  *notables.Set

	mu        sync.RWMutex
	watchlist model.Watchlist

	now func() time.Time
}

// New creates an engine around the given collaborators.
func New(cfg Config) *Engine {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Book == nil {
		cfg.Book = pricebook.New()
	}
	if cfg.Prints == nil {
		cfg.Prints = flowstore.New(model.KindPrints)
	}
	if cfg.Sweeps == nil {
		cfg.Sweeps = flowstore.New(model.KindSweeps)
	}
	if cfg.Blocks == nil {
		cfg.Blocks = flowstore.New(model.KindBlocks)
	}
	if cfg.Headlines == nil {
		cfg.Headlines = headlines.New(0, 0)
	}
	if cfg.Notables == nil {
		cfg.Notables = notables.NewSet()
	}

	return &Engine{
		logger:    cfg.Logger,
		book:      cfg.Book,
		prints:    cfg.Prints,
		sweeps:    cfg.Sweeps,
		blocks:    cfg.Blocks,
		headlines: cfg.Headlines,
		notables:  cfg.Notables,
		now:       time.Now,
	}
}

// Run consumes frames until the queue is closed. All state mutation
// happens here, one frame at a time.
func (e *Engine) Run(frames *feed.Queue[feed.Frame]) {
	for {
		frame, ok := frames.Pop()
		if !ok {
			return
		}
		e.Handle(frame)
	}
}

// Handle dispatches one decoded frame by topic. Unrecognized topics are
// logged and ignored.
func (e *Engine) Handle(frame feed.Frame) {
	switch frame.Topic {
	case "equity_ts", "quotes", "ticks":
		e.handleSpots(frame)
	case "option_quotes":
		e.handleOptionQuotes(frame)
	case "prints":
		e.handleFlow(e.prints, frame)
	case "sweeps":
		e.handleFlow(e.sweeps, frame)
	case "blocks":
		e.handleFlow(e.blocks, frame)
	case "headlines":
		e.handleHeadlines(frame)
	case "notables":
		e.handleNotables(frame)
	case "watchlist":
		e.handleWatchlist(frame)
	default:
		e.logger.Debug("ignoring unknown topic", "topic", frame.Topic)
	}
}

// decodeRows accepts both an array payload and a single bare object.
func decodeRows(data json.RawMessage) []normalize.Raw {
	if len(data) == 0 {
		return nil
	}
	var rows []normalize.Raw
	if err := json.Unmarshal(data, &rows); err == nil {
		return rows
	}
	var one normalize.Raw
	if err := json.Unmarshal(data, &one); err == nil && one != nil {
		return []normalize.Raw{one}
	}
	return nil
}

// setSpot guards the price book against the unresolved-symbol sentinel.
func (e *Engine) setSpot(sym string, px float64) {
	if sym == "" || sym == model.UnknownSymbol {
		return
	}
	e.book.SetSpot(sym, px)
}

// seedSpots folds a piggybacked symbol→price map into the price book.
func (e *Engine) seedSpots(prices map[string]any) {
	for sym, v := range prices {
		if px, ok := normalize.Num(v); ok {
			e.setSpot(normalize.Symbol(sym), px)
		}
	}
}

func (e *Engine) handleSpots(frame feed.Frame) {
	for _, r := range decodeRows(frame.Data) {
		sym := normalize.Underlying(r)
		if last, ok := r.Num("last", "price", "close", "bid", "ask"); ok {
			e.setSpot(sym, last)
		}
	}
}

func (e *Engine) handleOptionQuotes(frame feed.Frame) {
	for _, r := range decodeRows(frame.Data) {
		occ := r.Str("occ")
		if occ == "" {
			continue
		}
		mid, ok := r.Num("mid")
		if !ok {
			bid, bok := r.Num("bid")
			ask, aok := r.Num("ask")
			if !bok || !aok {
				continue
			}
			mid = (bid + ask) / 2
		}
		e.book.SetMark(occ, mid)
	}
}

// handleFlow normalizes a batch, opportunistically seeds marks and spots
// from whatever the events carry, then merges into the store.
func (e *Engine) handleFlow(store *flowstore.Store, frame feed.Frame) {
	rows := decodeRows(frame.Data)
	if len(rows) == 0 && len(frame.ULPrices) == 0 {
		return
	}

	now := e.now()
	events := make([]model.FlowEvent, 0, len(rows))
	for _, r := range rows {
		ev := normalize.Event(r, now)
		events = append(events, ev)

		// Embedded quotes seed the mark cache.
		if ev.OCC != "" {
			if mid, ok := normalize.EventMid(ev); ok {
				e.book.SetMark(ev.OCC, mid)
			}
		}

		// Underlying price rides along on some producers. Print
		// producers also smuggle it in last/underlyingPrice.
		keys := []string{"ul_px"}
		if store.Kind() == model.KindPrints {
			keys = []string{"ul_px", "last", "underlyingPrice"}
		}
		if px, ok := r.Num(keys...); ok {
			e.setSpot(ev.Underlying, px)
		}
	}
	e.seedSpots(frame.ULPrices)

	store.Apply(events)

	kind := string(store.Kind())
	metrics.EventsMerged.WithLabelValues(kind).Add(float64(len(events)))
	metrics.StoreSize.WithLabelValues(kind).Set(float64(store.Len()))
}

func (e *Engine) handleHeadlines(frame feed.Frame) {
	rows := decodeRows(frame.Data)
	now := e.now()

	batch := make([]model.Headline, 0, len(rows))
	for _, r := range rows {
		h := normalize.Headline(r, now)
		batch = append(batch, h)
		if h.ULPx != nil {
			e.setSpot(h.UL, *h.ULPx)
		}
	}
	e.headlines.Apply(now, batch)
}

func (e *Engine) handleNotables(frame feed.Frame) {
	rows := decodeRows(frame.Data)
	now := e.now()

	list := make([]model.Notable, 0, len(rows))
	for _, r := range rows {
		n := normalize.Notable(r, now)
		list = append(list, n)
		if n.ULPx != nil {
			e.setSpot(n.UL, *n.ULPx)
		}
	}
	e.seedSpots(frame.ULPrices)

	e.notables.Replace(list)
}

func (e *Engine) handleWatchlist(frame feed.Frame) {
	var r normalize.Raw
	if err := json.Unmarshal(frame.Data, &r); err != nil {
		e.logger.Debug("dropping malformed watchlist payload", "error", err)
		return
	}
	wl := normalize.Watchlist(r)

	e.mu.Lock()
	e.watchlist = wl
	e.mu.Unlock()
}

// SeedNotables installs an externally fetched notable set, used by the
// startup backfill. Frames received afterwards replace it wholesale.
func (e *Engine) SeedNotables(list []model.Notable) {
	e.notables.Replace(list)
}

// Prints returns a snapshot of the prints store.
func (e *Engine) Prints() []model.FlowEvent { return e.prints.Events() }

// Sweeps returns a snapshot of the sweeps store.
func (e *Engine) Sweeps() []model.FlowEvent { return e.sweeps.Events() }

// Blocks returns a snapshot of the blocks store.
func (e *Engine) Blocks() []model.FlowEvent { return e.blocks.Events() }

// Headlines returns the current top headline set.
func (e *Engine) Headlines() []model.Headline { return e.headlines.Top() }

// Notables returns the current notable set.
func (e *Engine) Notables() []model.Notable { return e.notables.All() }

// Watchlist returns the last received watchlist snapshot.
func (e *Engine) Watchlist() model.Watchlist {
	e.mu.RLock()
	defer e.mu.RUnlock()

	wl := model.Watchlist{
		Equities: make([]string, len(e.watchlist.Equities)),
		Options:  make([]model.OptionLeg, len(e.watchlist.Options)),
	}
	copy(wl.Equities, e.watchlist.Equities)
	copy(wl.Options, e.watchlist.Options)
	return wl
}

// LegsFor finds the flow events that plausibly produced a notable.
func (e *Engine) LegsFor(n model.Notable) []model.FlowEvent {
	pools := notables.Pools{
		Prints: e.prints.Events(),
		Sweeps: e.sweeps.Events(),
		Blocks: e.blocks.Events(),
	}
	return notables.MatchLegs(n, pools, e.now())
}

// FilteredView returns a threshold-filtered, sorted view over one of
// the flow stores.
func (e *Engine) FilteredView(kind model.FlowKind, opts view.Options) []model.FlowEvent {
	var events []model.FlowEvent
	switch kind {
	case model.KindPrints:
		events = e.prints.Events()
	case model.KindSweeps:
		events = e.sweeps.Events()
	case model.KindBlocks:
		events = e.blocks.Events()
	default:
		return nil
	}
	return view.Apply(events, opts)
}

// Symbols returns the sorted union of underlying symbols currently held
// across the stores, headlines and notables. The price backfill polls
// against this set.
func (e *Engine) Symbols() []string {
	seen := map[string]struct{}{}
	add := func(sym string) {
		sym = strings.ToUpper(strings.TrimSpace(sym))
		if sym == "" || sym == model.UnknownSymbol {
			return
		}
		seen[sym] = struct{}{}
	}

	for _, ev := range e.prints.Events() {
		add(ev.Underlying)
	}
	for _, ev := range e.sweeps.Events() {
		add(ev.Underlying)
	}
	for _, ev := range e.blocks.Events() {
		add(ev.Underlying)
	}
	for _, h := range e.headlines.Top() {
		add(h.UL)
	}
	for _, n := range e.notables.All() {
		add(n.UL)
	}

	syms := make([]string, 0, len(seen))
	for sym := range seen {
		syms = append(syms, sym)
	}
	sort.Strings(syms)
	return syms
}

// Book exposes the price book for the formatting layer and the poller.
func (e *Engine) Book() *pricebook.Book { return e.book }
