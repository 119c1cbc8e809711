// Package tradevolume implements the market trade-volume aggregation engine.
//
// A run is scoped to one data center and one home world:
//
//  1. Fetch: sale history for every (world, item chunk) pair, fanned out
//     with a bounded errgroup. Results land in pre-sized slots.
//  2. Reduce: a single goroutine folds the slots, home world first and the
//     remaining worlds by ascending id, into one LowestPriceRecord per item.
//     First-seen lowest average wins ties.
//  3. Score: sale velocity on the home world is fetched per reduced item and
//     combined with the record into a TradeVolume row.
//  4. Persist: rows are handed to the sink in item id order.
//
// Any failure aborts the run; there is no partial-success mode.
package tradevolume
