// Package metrics provides Prometheus metrics for monitoring.
//
// Key metrics:
//   - Upstream API requests, retries and latency per endpoint
//   - Aggregation stage durations and item counts
//   - Rows inserted and ignored per table
//   - Scheduled run outcomes
//
// A nil *Metrics is valid and records nothing, so components can be built without it in tests.
package metrics
