// Package writer implements chunked batch writers for the relational store.
//
// Writers:
//   - Trade volume writer (items_trade_volumes)
//   - Item writer (items, including pruning of stale ids)
//   - Topology writer (data_centers, worlds)
//
// Rows are split into chunks so that rows × columns stays within the dialect's
// bound-parameter limit, and each chunk is written with one multi-row statement.
// The default conflict mode is insert-ignore: existing rows are never
// overwritten, so rerunning a write is a no-op for keys already present.
// Chunks are not wrapped in a shared transaction; a failure part way leaves
// earlier chunks committed.
package writer
