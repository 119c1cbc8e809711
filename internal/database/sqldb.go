package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"github.com/rickgao/xiv-marketboard/internal/config"
)

// SQLDB adapts database/sql to DB for MySQL and SQLite.
type SQLDB struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLDB wraps an open *sql.DB.
func NewSQLDB(db *sql.DB, dialect Dialect) *SQLDB {
	return &SQLDB{db: db, dialect: dialect}
}

// OpenMySQL opens a MySQL pool.
func OpenMySQL(ctx context.Context, cfg config.DBConfig) (*SQLDB, error) {
	db, err := sql.Open("mysql", BuildMySQLDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MinConns)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return NewSQLDB(db, MySQL), nil
}

// OpenSQLite opens a SQLite database file, or a private in-memory database for ":memory:".
func OpenSQLite(ctx context.Context, cfg config.DBConfig) (*SQLDB, error) {
	db, err := sql.Open("sqlite", BuildSQLiteDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	// One writer; also keeps a :memory: database on a single connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return NewSQLDB(db, SQLite), nil
}

func (s *SQLDB) Dialect() Dialect { return s.dialect }

func (s *SQLDB) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLDB) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return sqlRows{rows}, nil
}

func (s *SQLDB) QueryRow(ctx context.Context, query string, args ...any) Row {
	return sqlRow{s.db.QueryRowContext(ctx, query, args...)}
}

func (s *SQLDB) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLDB) Close() {
	s.db.Close()
}

type sqlRows struct {
	*sql.Rows
}

func (r sqlRows) Close() {
	r.Rows.Close()
}

type sqlRow struct {
	row *sql.Row
}

func (r sqlRow) Scan(dest ...any) error {
	err := r.row.Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNoRows
	}
	return err
}
