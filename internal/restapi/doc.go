// Package restapi is the client for the flow platform's REST surface:
// the notable backfill, the price lookup used by the spot poller, and
// the watchlist mutation endpoints.
package restapi
