package writer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rickgao/xiv-marketboard/internal/database"
	"github.com/rickgao/xiv-marketboard/internal/metrics"
	"github.com/rickgao/xiv-marketboard/internal/model"
)

var (
	dataCenterTable = table{
		name:    database.TableDataCenters,
		columns: []string{"name", "region"},
		keys:    []string{"name"},
	}
	worldTable = table{
		name:    database.TableWorlds,
		columns: []string{"world_id", "name", "data_center_id"},
		keys:    []string{"world_id"},
	}
)

// TopologyWriter persists data centers and their worlds.
type TopologyWriter struct {
	cfg     WriterConfig
	db      database.DB
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewTopologyWriter creates a new TopologyWriter.
func NewTopologyWriter(cfg WriterConfig, db database.DB, logger *slog.Logger, m *metrics.Metrics) *TopologyWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &TopologyWriter{cfg: cfg, db: db, logger: logger, metrics: m}
}

// SaveServers inserts each data center, resolves its database id by name,
// then inserts its member worlds under that id.
func (w *TopologyWriter) SaveServers(ctx context.Context, servers []model.Server) (Result, error) {
	var total Result
	bindLimit := effectiveBindLimit(w.db.Dialect(), w.cfg.BindLimit)

	for _, s := range servers {
		dc := s.DataCenter
		res, err := insertChunked(ctx, w.db, dataCenterTable, w.cfg.OnConflict, bindLimit,
			[]model.DataCenter{dc},
			func(d model.DataCenter) []any { return []any{d.Name, d.Region} },
			nil,
		)
		if err != nil {
			return total, err
		}
		total.Add(res)
		w.metrics.AddRows(dataCenterTable.name, res.Inserted, res.Ignored)

		var dcID int64
		query := fmt.Sprintf("SELECT id FROM %s WHERE name = ?", dataCenterTable.name)
		if err := w.db.QueryRow(ctx, query, dc.Name).Scan(&dcID); err != nil {
			return total, fmt.Errorf("resolve data center %s: %w", dc.Name, err)
		}

		worlds := make([]model.World, len(s.Worlds))
		for i, wd := range s.Worlds {
			wd.DataCenterID = dcID
			worlds[i] = wd
		}

		res, err = insertChunked(ctx, w.db, worldTable, w.cfg.OnConflict, bindLimit, worlds,
			func(wd model.World) []any { return []any{wd.ID, wd.Name, wd.DataCenterID} },
			nil,
		)
		if err != nil {
			return total, err
		}
		total.Add(res)
		w.metrics.AddRows(worldTable.name, res.Inserted, res.Ignored)

		w.logger.Debug("saved data center",
			"data_center", dc.Name,
			"id", dcID,
			"worlds", len(worlds),
		)
	}

	return total, nil
}
