package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/rickgao/xiv-marketboard/internal/config"
)

// ErrNoRows is returned by Row.Scan when the query matched nothing.
var ErrNoRows = errors.New("no rows in result set")

// DB is the subset of a connection pool the aggregator needs.
// Queries use ? placeholders regardless of dialect.
type DB interface {
	Dialect() Dialect

	// Exec runs a statement and returns the number of affected rows.
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) Row

	Ping(ctx context.Context) error
	Close()
}

// Rows iterates a query result. Close must be called.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// Row is a single-row query result.
type Row interface {
	Scan(dest ...any) error
}

// Open connects to the database selected by cfg.Driver and verifies the connection.
func Open(ctx context.Context, cfg config.DBConfig) (DB, error) {
	dialect, err := ParseDialect(cfg.Driver)
	if err != nil {
		return nil, err
	}

	switch dialect {
	case Postgres:
		pool, err := Connect(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return NewPostgres(pool), nil
	case MySQL:
		db, err := OpenMySQL(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("connect mysql: %w", err)
		}
		return db, nil
	default:
		db, err := OpenSQLite(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return db, nil
	}
}
