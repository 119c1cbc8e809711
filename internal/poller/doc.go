// Package poller runs scheduled jobs for daemon mode.
//
// The Poller:
//   - Runs every registered job immediately on start, then once per interval
//   - Runs jobs sequentially in registration order (a base sync before an aggregation)
//   - Bounds each job by a per-run timeout
//   - Logs and counts failures without stopping the schedule
package poller
