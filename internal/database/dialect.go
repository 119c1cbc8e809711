package database

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect identifies a SQL backend.
type Dialect string

const (
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
	SQLite   Dialect = "sqlite"
)

// Maximum bound parameters per statement.
const (
	PostgresBindLimit = 65535
	MySQLBindLimit    = 65535
	SQLiteBindLimit   = 32766
)

// ParseDialect maps a config driver name to a Dialect.
func ParseDialect(driver string) (Dialect, error) {
	switch d := Dialect(driver); d {
	case Postgres, MySQL, SQLite:
		return d, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// BindLimit returns the maximum number of bound parameters in one statement.
func (d Dialect) BindLimit() int {
	switch d {
	case SQLite:
		return SQLiteBindLimit
	case MySQL:
		return MySQLBindLimit
	default:
		return PostgresBindLimit
	}
}

// Rebind rewrites ? placeholders into the dialect's native form.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 16)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// InsertIgnore builds a multi-row insert that skips rows conflicting on a unique key.
func (d Dialect) InsertIgnore(table string, columns []string, rows int) string {
	values := valuesClause(len(columns), rows)
	cols := strings.Join(columns, ", ")

	switch d {
	case MySQL:
		return fmt.Sprintf("INSERT IGNORE INTO %s (%s) VALUES %s", table, cols, values)
	case SQLite:
		return fmt.Sprintf("INSERT OR IGNORE INTO %s (%s) VALUES %s", table, cols, values)
	default:
		return fmt.Sprintf("INSERT INTO %s (%s) VALUES %s ON CONFLICT DO NOTHING", table, cols, values)
	}
}

// Upsert builds a multi-row insert that overwrites non-key columns on conflict.
func (d Dialect) Upsert(table string, columns, keys []string, rows int) string {
	values := valuesClause(len(columns), rows)
	cols := strings.Join(columns, ", ")

	isKey := make(map[string]bool, len(keys))
	for _, k := range keys {
		isKey[k] = true
	}

	var sets []string
	for _, c := range columns {
		if isKey[c] {
			continue
		}
		if d == MySQL {
			sets = append(sets, fmt.Sprintf("%s = VALUES(%s)", c, c))
		} else {
			sets = append(sets, fmt.Sprintf("%s = excluded.%s", c, c))
		}
	}

	if d == MySQL {
		return fmt.Sprintf("INSERT INTO %s (%s) VALUES %s ON DUPLICATE KEY UPDATE %s",
			table, cols, values, strings.Join(sets, ", "))
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES %s ON CONFLICT (%s) DO UPDATE SET %s",
		table, cols, values, strings.Join(keys, ", "), strings.Join(sets, ", "))
}

// InClause returns "(?, ?, ...)" with n placeholders.
func InClause(n int) string {
	return "(" + strings.TrimSuffix(strings.Repeat("?, ", n), ", ") + ")"
}

func valuesClause(columns, rows int) string {
	row := InClause(columns)

	var b strings.Builder
	b.Grow(rows * (len(row) + 2))
	for i := 0; i < rows; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(row)
	}
	return b.String()
}
