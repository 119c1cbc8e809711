// Package catalog imports reference data the aggregation engine reads:
// the marketable item catalog and the data center / world topology.
//
// Imports are insert-ignore; items that are no longer marketable are pruned.
package catalog
