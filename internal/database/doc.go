// Package database provides connection management and schema creation for the
// aggregator's relational store.
//
// Three backends are supported behind the DB interface:
//   - PostgreSQL via pgxpool (default)
//   - MySQL via database/sql and go-sql-driver
//   - SQLite via database/sql and modernc.org/sqlite (single file or :memory:)
//
// Queries are written with ? placeholders; the PostgreSQL adapter rebinds them
// to $n before execution. Dialect generates the insert-ignore and upsert
// statements used by the batch writers.
package database
