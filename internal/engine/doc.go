// Package engine is the reconciliation core. It owns all in-session
// state (the three rolling flow stores, the headline set, the notable
// set, the price book and the watchlist) and mutates it from a single
// dispatch goroutine, so every merge runs to completion before the next
// frame is handled. Readers get copy-on-write snapshots and never see a
// partial merge.
package engine
