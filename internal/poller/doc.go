// Package poller backfills spot prices over REST.
//
// The price poller:
//   - Polls the price endpoint every 8 seconds for every underlying
//     currently held by the engine
//   - Merges results into the price book the same way streamed prices are
//   - Seeds the notable set once at startup before the first frame lands
//
// Every fetch failure is logged and swallowed; the stream never waits on
// a backfill.
package poller
