package writer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rickgao/xiv-marketboard/internal/database"
	"github.com/rickgao/xiv-marketboard/internal/metrics"
	"github.com/rickgao/xiv-marketboard/internal/model"
)

// TradeVolumeFields is the number of bound parameters per trade volume row.
const TradeVolumeFields = 6

var tradeVolumeTable = table{
	name: database.TableTradeVolumes,
	columns: []string{
		"item_id",
		"world_id",
		"cheapest_world_id",
		"sale_score",
		"price_diff_score",
		"home_world_avg_price",
	},
	keys: []string{"item_id", "world_id"},
}

// TradeVolumeWriter persists trade volume rows keyed by (item_id, world_id).
type TradeVolumeWriter struct {
	cfg     WriterConfig
	db      database.DB
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu    sync.Mutex
	stats WriterMetrics
}

// NewTradeVolumeWriter creates a new TradeVolumeWriter.
func NewTradeVolumeWriter(cfg WriterConfig, db database.DB, logger *slog.Logger, m *metrics.Metrics) *TradeVolumeWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &TradeVolumeWriter{
		cfg:     cfg,
		db:      db,
		logger:  logger,
		metrics: m,
	}
}

// ChunkSize returns the number of rows written per statement.
func (w *TradeVolumeWriter) ChunkSize() int {
	return ChunkSize(effectiveBindLimit(w.db.Dialect(), w.cfg.BindLimit), TradeVolumeFields)
}

// Upsert writes rows in chunks. A failed chunk returns *PersistenceError and
// aborts the remaining chunks; chunks already written stay committed.
func (w *TradeVolumeWriter) Upsert(ctx context.Context, rows []model.TradeVolume) (Result, error) {
	if len(rows) == 0 {
		return Result{}, nil
	}

	start := time.Now()
	bindLimit := effectiveBindLimit(w.db.Dialect(), w.cfg.BindLimit)

	res, err := insertChunked(ctx, w.db, tradeVolumeTable, w.cfg.OnConflict, bindLimit, rows,
		func(tv model.TradeVolume) []any {
			return []any{
				tv.ItemID,
				tv.WorldID,
				tv.CheapestWorldID,
				tv.SaleScore,
				tv.PriceDiffScore,
				tv.HomeWorldAvgPrice,
			}
		},
		w.record,
	)
	if err != nil {
		w.mu.Lock()
		w.stats.Errors++
		w.mu.Unlock()
		w.logger.Error("trade volume write failed",
			"error", err,
			"rows", len(rows),
			"written", res.Inserted+res.Ignored,
		)
		return res, err
	}

	w.logger.Debug("wrote trade volumes",
		"count", len(rows),
		"inserted", res.Inserted,
		"ignored", res.Ignored,
		"chunk_size", ChunkSize(bindLimit, TradeVolumeFields),
		"duration", time.Since(start),
	)
	return res, nil
}

// Stats returns cumulative metrics.
func (w *TradeVolumeWriter) Stats() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *TradeVolumeWriter) record(res Result) {
	w.mu.Lock()
	w.stats.Inserts += res.Inserted
	w.stats.Conflicts += res.Ignored
	w.stats.Flushes++
	w.mu.Unlock()

	w.metrics.AddRows(tradeVolumeTable.name, res.Inserted, res.Ignored)
}
