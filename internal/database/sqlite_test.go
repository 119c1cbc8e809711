package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickgao/xiv-marketboard/internal/config"
)

func openMemory(t *testing.T) DB {
	t.Helper()
	db, err := Open(context.Background(), config.DBConfig{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return db
}

func TestOpenSQLiteMigrate(t *testing.T) {
	ctx := context.Background()
	db := openMemory(t)

	assert.Equal(t, SQLite, db.Dialect())
	require.NoError(t, Migrate(ctx, db))
	// Idempotent
	require.NoError(t, Migrate(ctx, db))

	for _, table := range []string{TableItems, TableDataCenters, TableWorlds, TableTradeVolumes} {
		var name string
		err := db.QueryRow(ctx, "SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}
}

func TestSQLiteExecQuery(t *testing.T) {
	ctx := context.Background()
	db := openMemory(t)
	require.NoError(t, Migrate(ctx, db))

	n, err := db.Exec(ctx, SQLite.InsertIgnore(TableItems, []string{"item_id", "name"}, 2), 1, "Potion", 2, "Ether")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// Conflicting row is ignored
	n, err = db.Exec(ctx, SQLite.InsertIgnore(TableItems, []string{"item_id", "name"}, 1), 1, "Renamed")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	rows, err := db.Query(ctx, "SELECT item_id, name FROM items ORDER BY item_id")
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var id int64
		var name string
		require.NoError(t, rows.Scan(&id, &name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"Potion", "Ether"}, names)
}

func TestSQLiteNoRows(t *testing.T) {
	ctx := context.Background()
	db := openMemory(t)
	require.NoError(t, Migrate(ctx, db))

	var name string
	err := db.QueryRow(ctx, "SELECT name FROM items WHERE item_id = ?", 42).Scan(&name)
	assert.True(t, errors.Is(err, ErrNoRows), "err = %v", err)
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), config.DBConfig{Driver: "oracle"})
	assert.Error(t, err)
}
