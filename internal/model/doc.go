// Package model defines shared data types used across the marketboard aggregator.
//
// Types mirror the tables created by internal/database:
//   - items, data_centers, worlds (reference data, synced from the catalog and market APIs)
//   - items_trade_volumes (one row per item and home world, produced by internal/tradevolume)
//
// Conventions:
//   - IDs: int64 (game item ids, world ids, database-assigned data center ids)
//   - Prices: gil per unit; averages are float64
//   - Velocities: sales per day as reported by the market API
package model
