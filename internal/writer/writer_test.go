package writer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickgao/xiv-marketboard/internal/config"
	"github.com/rickgao/xiv-marketboard/internal/database"
	"github.com/rickgao/xiv-marketboard/internal/model"
)

func openTestDB(t *testing.T) database.DB {
	t.Helper()
	ctx := context.Background()
	db, err := database.Open(ctx, config.DBConfig{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, database.Migrate(ctx, db))
	return db
}

// recordingDB fails Exec on call failAt (1-based) and records bound-arg counts.
type recordingDB struct {
	database.DB
	dialect database.Dialect
	failAt  int
	calls   int
	args    []int
}

func (r *recordingDB) Dialect() database.Dialect { return r.dialect }

func (r *recordingDB) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	r.calls++
	r.args = append(r.args, len(args))
	if r.calls == r.failAt {
		return 0, errors.New("disk full")
	}
	if strings.Count(query, "?") != len(args) {
		return 0, errors.New("placeholder mismatch")
	}
	return int64(len(args) / TradeVolumeFields), nil
}

func tradeVolumes(n int, worldID int64) []model.TradeVolume {
	rows := make([]model.TradeVolume, n)
	for i := range rows {
		rows[i] = model.TradeVolume{
			ItemID:            int64(i + 1),
			WorldID:           worldID,
			CheapestWorldID:   worldID,
			SaleScore:         1.5,
			PriceDiffScore:    1.0,
			HomeWorldAvgPrice: 100,
		}
	}
	return rows
}

func TestChunkSize(t *testing.T) {
	tests := []struct {
		bindLimit int
		fields    int
		want      int
	}{
		{65535, 6, 10922},
		{32766, 6, 5461},
		{65535, 2, 32767},
		{12, 6, 2},
		{5, 6, 1},
		{10, 0, 1},
	}

	for _, tt := range tests {
		got := ChunkSize(tt.bindLimit, tt.fields)
		assert.Equal(t, tt.want, got, "ChunkSize(%d, %d)", tt.bindLimit, tt.fields)
		if tt.fields > 0 && tt.bindLimit >= tt.fields {
			assert.LessOrEqual(t, got*tt.fields, tt.bindLimit)
		}
	}
}

func TestEffectiveBindLimit(t *testing.T) {
	assert.Equal(t, 65535, effectiveBindLimit(database.Postgres, 0))
	assert.Equal(t, 32766, effectiveBindLimit(database.SQLite, 0))
	assert.Equal(t, 600, effectiveBindLimit(database.MySQL, 600))
	assert.Equal(t, 32766, effectiveBindLimit(database.SQLite, 100000))
}

func TestTradeVolumeWriter_ChunksRespectBindLimit(t *testing.T) {
	db := &recordingDB{dialect: database.Postgres}
	w := NewTradeVolumeWriter(WriterConfig{BindLimit: 60, OnConflict: Ignore}, db, nil, nil)

	assert.Equal(t, 10, w.ChunkSize())

	res, err := w.Upsert(context.Background(), tradeVolumes(25, 73))
	require.NoError(t, err)

	assert.Equal(t, []int{60, 60, 30}, db.args)
	assert.Equal(t, int64(25), res.Inserted)
	assert.Equal(t, int64(0), res.Ignored)

	stats := w.Stats()
	assert.Equal(t, int64(3), stats.Flushes)
	assert.Equal(t, int64(25), stats.Inserts)
}

func TestTradeVolumeWriter_FailedChunkAborts(t *testing.T) {
	db := &recordingDB{dialect: database.MySQL, failAt: 2}
	w := NewTradeVolumeWriter(WriterConfig{BindLimit: 60, OnConflict: Ignore}, db, nil, nil)

	res, err := w.Upsert(context.Background(), tradeVolumes(35, 73))
	require.Error(t, err)

	var perr *PersistenceError
	require.True(t, errors.As(err, &perr), "err = %v", err)
	assert.Equal(t, database.TableTradeVolumes, perr.Table)
	assert.Equal(t, 1, perr.Chunk)
	assert.Equal(t, 10, perr.Offset)
	assert.Equal(t, 10, perr.Rows)
	assert.Contains(t, perr.Error(), "disk full")

	// Chunks 3 and 4 are never attempted
	assert.Equal(t, 2, db.calls)
	assert.Equal(t, int64(10), res.Inserted)
	assert.Equal(t, int64(1), w.Stats().Errors)
}

func TestTradeVolumeWriter_EmptyInput(t *testing.T) {
	db := &recordingDB{dialect: database.SQLite}
	w := NewTradeVolumeWriter(DefaultWriterConfig(), db, nil, nil)

	res, err := w.Upsert(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)
	assert.Equal(t, 0, db.calls)
}

func TestTradeVolumeWriter_InsertIgnoreRerun(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	w := NewTradeVolumeWriter(WriterConfig{BindLimit: 12, OnConflict: Ignore}, db, nil, nil)

	first := tradeVolumes(5, 73)
	res, err := w.Upsert(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, Result{Inserted: 5}, res)

	// Same keys, fresh values
	second := tradeVolumes(5, 73)
	for i := range second {
		second[i].SaleScore = 99
		second[i].PriceDiffScore = 3
	}
	res, err = w.Upsert(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, Result{Ignored: 5}, res)

	var count int
	require.NoError(t, db.QueryRow(ctx, "SELECT COUNT(*) FROM items_trade_volumes").Scan(&count))
	assert.Equal(t, 5, count)

	var score, diff float64
	require.NoError(t, db.QueryRow(ctx,
		"SELECT sale_score, price_diff_score FROM items_trade_volumes WHERE item_id = ? AND world_id = ?", 3, 73,
	).Scan(&score, &diff))
	assert.Equal(t, 1.5, score)
	assert.Equal(t, 1.0, diff)
}

func TestTradeVolumeWriter_UpdateMode(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	w := NewTradeVolumeWriter(WriterConfig{OnConflict: Update}, db, nil, nil)

	_, err := w.Upsert(ctx, tradeVolumes(2, 73))
	require.NoError(t, err)

	fresh := tradeVolumes(2, 73)
	fresh[0].SaleScore = 7
	res, err := w.Upsert(ctx, fresh)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Inserted)

	var score float64
	require.NoError(t, db.QueryRow(ctx,
		"SELECT sale_score FROM items_trade_volumes WHERE item_id = ? AND world_id = ?", 1, 73,
	).Scan(&score))
	assert.Equal(t, 7.0, score)
}

func TestItemWriter_SaveAndDelete(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	w := NewItemWriter(WriterConfig{BindLimit: 4, OnConflict: Ignore}, db, nil, nil)

	items := []model.Item{{ID: 1, Name: "Potion"}, {ID: 2, Name: "Ether"}, {ID: 3, Name: "Elixir"}}
	res, err := w.Save(ctx, items)
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Inserted)
	assert.Equal(t, int64(2), w.Stats().Flushes)

	deleted, err := w.Delete(ctx, []int64{1, 3, 99})
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	var name string
	require.NoError(t, db.QueryRow(ctx, "SELECT name FROM items").Scan(&name))
	assert.Equal(t, "Ether", name)
}

func TestItemWriter_DeleteRemovesTradeVolumes(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	items := NewItemWriter(WriterConfig{OnConflict: Ignore}, db, nil, nil)
	volumes := NewTradeVolumeWriter(WriterConfig{OnConflict: Ignore}, db, nil, nil)

	_, err := items.Save(ctx, []model.Item{{ID: 1, Name: "Potion"}, {ID: 2, Name: "Ether"}})
	require.NoError(t, err)
	_, err = volumes.Upsert(ctx, tradeVolumes(2, 73))
	require.NoError(t, err)

	deleted, err := items.Delete(ctx, []int64{1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var remaining int64
	require.NoError(t, db.QueryRow(ctx, "SELECT COUNT(*) FROM items_trade_volumes WHERE item_id = ?", 1).Scan(&remaining))
	assert.Equal(t, int64(0), remaining)

	require.NoError(t, db.QueryRow(ctx, "SELECT COUNT(*) FROM items_trade_volumes WHERE item_id = ?", 2).Scan(&remaining))
	assert.Equal(t, int64(1), remaining)
}

func TestItemWriter_DeleteFailureReportsTable(t *testing.T) {
	db := &recordingDB{dialect: database.SQLite, failAt: 1}
	w := NewItemWriter(WriterConfig{OnConflict: Ignore}, db, nil, nil)

	_, err := w.Delete(context.Background(), []int64{1, 2})
	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, database.TableTradeVolumes, perr.Table)
	assert.Equal(t, 1, db.calls)
}

func TestTopologyWriter_SaveServers(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	w := NewTopologyWriter(DefaultWriterConfig(), db, nil, nil)

	servers := []model.Server{
		{
			DataCenter: model.DataCenter{Name: "Aether", Region: "North-America"},
			Worlds:     []model.World{{ID: 73, Name: "Adamantoise"}, {ID: 79, Name: "Cactuar"}},
		},
		{
			DataCenter: model.DataCenter{Name: "Chaos", Region: "Europe"},
			Worlds:     []model.World{{ID: 39, Name: "Omega"}},
		},
	}

	res, err := w.SaveServers(ctx, servers)
	require.NoError(t, err)
	assert.Equal(t, int64(5), res.Inserted)

	// Rerun is a no-op
	res, err = w.SaveServers(ctx, servers)
	require.NoError(t, err)
	assert.Equal(t, Result{Ignored: 5}, res)

	var dcName string
	require.NoError(t, db.QueryRow(ctx, `
		SELECT d.name FROM worlds w JOIN data_centers d ON d.id = w.data_center_id
		WHERE w.world_id = ?`, 39).Scan(&dcName))
	assert.Equal(t, "Chaos", dcName)
}

func TestFromConfig(t *testing.T) {
	assert.Equal(t, WriterConfig{OnConflict: Ignore}, FromConfig(config.WriterConfig{}))
	assert.Equal(t, WriterConfig{BindLimit: 100, OnConflict: Update},
		FromConfig(config.WriterConfig{BindLimit: 100, OnConflict: "update"}))
}
