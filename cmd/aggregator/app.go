package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/rickgao/xiv-marketboard/internal/api"
	"github.com/rickgao/xiv-marketboard/internal/catalog"
	"github.com/rickgao/xiv-marketboard/internal/config"
	"github.com/rickgao/xiv-marketboard/internal/database"
	"github.com/rickgao/xiv-marketboard/internal/metrics"
	"github.com/rickgao/xiv-marketboard/internal/store"
	"github.com/rickgao/xiv-marketboard/internal/tradevolume"
	"github.com/rickgao/xiv-marketboard/internal/writer"
)

// app wires the components shared by every command.
type app struct {
	cfg     *config.AggregatorConfig
	logger  *slog.Logger
	metrics *metrics.Metrics

	db       database.DB
	store    *store.Store
	importer *catalog.Importer
	engine   *tradevolume.Engine
}

func newApp(ctx context.Context, cfg *config.AggregatorConfig, logger *slog.Logger) (*app, error) {
	m := metrics.New()

	logger.Info("connecting to database",
		"driver", cfg.Database.Driver,
		"host", cfg.Database.Host,
		"database", cfg.Database.Name,
		"path", cfg.Database.Path,
	)
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	logger.Info("database connected")

	marketClient := newClient(cfg.Market, logger, m)
	catalogClient := newClient(cfg.Catalog, logger, m)

	wcfg := writer.FromConfig(cfg.Writer)
	st := store.New(db)

	importer := catalog.NewImporter(
		catalogClient,
		marketClient,
		writer.NewItemWriter(wcfg, db, logger, m),
		st,
		writer.NewTopologyWriter(wcfg, db, logger, m),
		logger,
	)

	engine := tradevolume.New(
		tradevolume.Config{
			ChunkSize:           cfg.Engine.ChunkSize,
			FetchConcurrency:    cfg.Engine.FetchConcurrency,
			VelocityConcurrency: cfg.Engine.VelocityConcurrency,
			ZeroPricePolicy:     tradevolume.ZeroPricePolicy(cfg.Engine.ZeroPricePolicy),
		},
		marketClient,
		st,
		st,
		writer.NewTradeVolumeWriter(wcfg, db, logger, m),
		logger,
		m,
	)

	return &app{
		cfg:      cfg,
		logger:   logger,
		metrics:  m,
		db:       db,
		store:    st,
		importer: importer,
		engine:   engine,
	}, nil
}

func newClient(cfg config.APIConfig, logger *slog.Logger, m *metrics.Metrics) *api.Client {
	return api.NewClient(cfg.BaseURL, cfg.APIKey,
		api.WithLogger(logger),
		api.WithMetrics(m),
		api.WithTimeout(cfg.Timeout),
		api.WithMaxConcurrent(cfg.MaxConcurrent),
		api.WithRetryPolicy(api.RetryPolicy{
			MaxAttempts: cfg.MaxAttempts,
			BaseDelay:   cfg.BaseDelay,
			Multiplier:  cfg.Multiplier,
			MaxDelay:    cfg.MaxDelay,
			Jitter:      true,
		}),
	)
}

func (a *app) Close() {
	a.db.Close()
}

func (a *app) migrate(ctx context.Context) error {
	if err := database.Migrate(ctx, a.db); err != nil {
		return err
	}
	a.logger.Info("schema ready", "dialect", a.db.Dialect())
	return nil
}

func (a *app) syncBase(ctx context.Context) error {
	if _, err := a.importer.ImportServers(ctx); err != nil {
		return err
	}
	if _, err := a.importer.ImportItems(ctx); err != nil {
		return err
	}
	return nil
}

func (a *app) syncTrades(ctx context.Context, dataCenter, homeWorld string) error {
	summary, err := a.engine.Run(ctx, dataCenter, homeWorld)
	if err != nil {
		return fmt.Errorf("run %s: %w", summary.RunID, err)
	}
	return nil
}

// tradeVolumeView is the JSON shape printed by show.
type tradeVolumeView struct {
	ItemID            int64   `json:"item_id"`
	WorldID           int64   `json:"world_id"`
	CheapestWorldID   int64   `json:"cheapest_world_id"`
	SaleScore         float64 `json:"sale_score"`
	PriceDiffScore    float64 `json:"price_diff_score"`
	HomeWorldAvgPrice float64 `json:"home_world_avg_price"`
}

func (a *app) show(ctx context.Context, w io.Writer, dataCenter, homeWorld string, itemID int64) error {
	server, err := a.store.DataCenterByName(ctx, dataCenter)
	if err != nil {
		return err
	}
	world, err := a.store.WorldByName(ctx, server.DataCenter.ID, homeWorld)
	if err != nil {
		return err
	}
	tv, err := a.store.TradeVolume(ctx, itemID, world.ID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(tradeVolumeView(tv))
}
