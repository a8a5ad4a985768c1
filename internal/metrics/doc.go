// Package metrics provides Prometheus metrics for monitoring.
//
// Key metrics:
//   - Feed connection state, reconnects and frame rates per topic
//   - Dropped/malformed frame counts
//   - Merge throughput and rolling-store sizes
//   - Price/mark cache sizes and backfill fetch outcomes
package metrics
