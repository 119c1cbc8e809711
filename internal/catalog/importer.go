package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rickgao/xiv-marketboard/internal/model"
	"github.com/rickgao/xiv-marketboard/internal/writer"
)

// ItemSource lists every catalog item. Implemented by the catalog *api.Client.
type ItemSource interface {
	GetAllItems(ctx context.Context) ([]model.Item, error)
}

// MarketSource lists marketable ids and server topology. Implemented by the market *api.Client.
type MarketSource interface {
	GetMarketableItemIDs(ctx context.Context) ([]int64, error)
	GetServers(ctx context.Context) ([]model.Server, error)
}

// ItemStore persists and prunes items.
type ItemStore interface {
	Save(ctx context.Context, items []model.Item) (writer.Result, error)
	Delete(ctx context.Context, ids []int64) (int64, error)
}

// StaleFinder lists stored item ids missing from a keep set.
type StaleFinder interface {
	StaleItemIDs(ctx context.Context, keep []int64) ([]int64, error)
}

// ServerStore persists data centers and worlds.
type ServerStore interface {
	SaveServers(ctx context.Context, servers []model.Server) (writer.Result, error)
}

// ItemSyncResult summarizes an item import.
type ItemSyncResult struct {
	Fetched    int // Catalog items returned by the item source
	Marketable int // Catalog items that are marketable
	Saved      writer.Result
	Pruned     int64
}

// ServerSyncResult summarizes a topology import.
type ServerSyncResult struct {
	DataCenters int
	Worlds      int
	Saved       writer.Result
}

// Importer syncs items and topology into the store.
type Importer struct {
	items   ItemSource
	market  MarketSource
	itemDB  ItemStore
	stale   StaleFinder
	servers ServerStore
	logger  *slog.Logger
}

// NewImporter creates a new Importer.
func NewImporter(items ItemSource, market MarketSource, itemDB ItemStore, stale StaleFinder, servers ServerStore, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		items:   items,
		market:  market,
		itemDB:  itemDB,
		stale:   stale,
		servers: servers,
		logger:  logger,
	}
}

// ImportItems fetches the catalog, keeps marketable items, stores them and
// deletes stored items that are no longer marketable.
func (im *Importer) ImportItems(ctx context.Context) (ItemSyncResult, error) {
	var res ItemSyncResult
	start := time.Now()

	im.logger.Info("fetching item catalog")
	all, err := im.items.GetAllItems(ctx)
	if err != nil {
		return res, fmt.Errorf("fetch items: %w", err)
	}
	res.Fetched = len(all)

	marketableIDs, err := im.market.GetMarketableItemIDs(ctx)
	if err != nil {
		return res, fmt.Errorf("fetch marketable ids: %w", err)
	}
	im.logger.Info("fetched item catalog", "items", len(all), "marketable_ids", len(marketableIDs))

	items := FilterMarketable(all, marketableIDs)
	res.Marketable = len(items)

	res.Saved, err = im.itemDB.Save(ctx, items)
	if err != nil {
		return res, fmt.Errorf("save items: %w", err)
	}

	keep := make([]int64, len(items))
	for i, it := range items {
		keep[i] = it.ID
	}
	stale, err := im.stale.StaleItemIDs(ctx, keep)
	if err != nil {
		return res, fmt.Errorf("find stale items: %w", err)
	}
	res.Pruned, err = im.itemDB.Delete(ctx, stale)
	if err != nil {
		return res, fmt.Errorf("prune items: %w", err)
	}

	im.logger.Info("item import complete",
		"marketable", res.Marketable,
		"inserted", res.Saved.Inserted,
		"ignored", res.Saved.Ignored,
		"pruned", res.Pruned,
		"duration", time.Since(start),
	)
	return res, nil
}

// ImportServers fetches data centers and worlds and stores them.
func (im *Importer) ImportServers(ctx context.Context) (ServerSyncResult, error) {
	var res ServerSyncResult
	start := time.Now()

	servers, err := im.market.GetServers(ctx)
	if err != nil {
		return res, fmt.Errorf("fetch servers: %w", err)
	}
	res.DataCenters = len(servers)
	for _, s := range servers {
		res.Worlds += len(s.Worlds)
	}

	res.Saved, err = im.servers.SaveServers(ctx, servers)
	if err != nil {
		return res, fmt.Errorf("save servers: %w", err)
	}

	im.logger.Info("server import complete",
		"data_centers", res.DataCenters,
		"worlds", res.Worlds,
		"inserted", res.Saved.Inserted,
		"duration", time.Since(start),
	)
	return res, nil
}

// FilterMarketable keeps the items whose id is in marketable, preserving order.
func FilterMarketable(items []model.Item, marketable []int64) []model.Item {
	set := make(map[int64]struct{}, len(marketable))
	for _, id := range marketable {
		set[id] = struct{}{}
	}

	out := make([]model.Item, 0, len(marketable))
	for _, it := range items {
		if _, ok := set[it.ID]; ok {
			out = append(out, it)
		}
	}
	return out
}
