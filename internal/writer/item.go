package writer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rickgao/xiv-marketboard/internal/database"
	"github.com/rickgao/xiv-marketboard/internal/metrics"
	"github.com/rickgao/xiv-marketboard/internal/model"
)

var itemTable = table{
	name:    database.TableItems,
	columns: []string{"item_id", "name"},
	keys:    []string{"item_id"},
}

// ItemWriter persists catalog items.
type ItemWriter struct {
	cfg     WriterConfig
	db      database.DB
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu    sync.Mutex
	stats WriterMetrics
}

// NewItemWriter creates a new ItemWriter.
func NewItemWriter(cfg WriterConfig, db database.DB, logger *slog.Logger, m *metrics.Metrics) *ItemWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ItemWriter{cfg: cfg, db: db, logger: logger, metrics: m}
}

// Save inserts items, chunked to the bind limit.
func (w *ItemWriter) Save(ctx context.Context, items []model.Item) (Result, error) {
	if len(items) == 0 {
		return Result{}, nil
	}

	bindLimit := effectiveBindLimit(w.db.Dialect(), w.cfg.BindLimit)
	res, err := insertChunked(ctx, w.db, itemTable, w.cfg.OnConflict, bindLimit, items,
		func(it model.Item) []any { return []any{it.ID, it.Name} },
		func(r Result) {
			w.mu.Lock()
			w.stats.Inserts += r.Inserted
			w.stats.Conflicts += r.Ignored
			w.stats.Flushes++
			w.mu.Unlock()
			w.metrics.AddRows(itemTable.name, r.Inserted, r.Ignored)
		},
	)
	if err != nil {
		w.mu.Lock()
		w.stats.Errors++
		w.mu.Unlock()
		return res, err
	}

	w.logger.Debug("saved items", "count", len(items), "inserted", res.Inserted, "ignored", res.Ignored)
	return res, nil
}

// Delete removes items and their trade volume rows by id, chunked to the
// bind limit. The returned count is of removed items.
func (w *ItemWriter) Delete(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	size := ChunkSize(effectiveBindLimit(w.db.Dialect(), w.cfg.BindLimit), 1)
	var deleted int64

	for chunk, offset := 0, 0; offset < len(ids); chunk, offset = chunk+1, offset+size {
		end := min(offset+size, len(ids))
		part := ids[offset:end]

		args := make([]any, len(part))
		for i, id := range part {
			args[i] = id
		}

		// Trade volume rows first so a failure never leaves them without an item.
		for _, name := range []string{tradeVolumeTable.name, itemTable.name} {
			query := fmt.Sprintf("DELETE FROM %s WHERE item_id IN %s", name, database.InClause(len(part)))
			n, err := w.db.Exec(ctx, query, args...)
			if err != nil {
				w.mu.Lock()
				w.stats.Errors++
				w.mu.Unlock()
				return deleted, &PersistenceError{Table: name, Chunk: chunk, Offset: offset, Rows: len(part), Err: err}
			}
			if name == itemTable.name {
				deleted += n
			}
		}
	}

	w.logger.Debug("deleted items", "requested", len(ids), "deleted", deleted)
	return deleted, nil
}

// Stats returns cumulative metrics.
func (w *ItemWriter) Stats() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}
