package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/rickgao/xiv-marketboard/internal/database"
	"github.com/rickgao/xiv-marketboard/internal/model"
)

// ErrNotFound is returned (wrapped) when a looked-up row does not exist.
var ErrNotFound = errors.New("not found")

// Store reads items, topology and trade volumes.
type Store struct {
	db database.DB
}

// New creates a Store.
func New(db database.DB) *Store {
	return &Store{db: db}
}

// Items returns all catalog items ordered by id.
func (s *Store) Items(ctx context.Context) ([]model.Item, error) {
	rows, err := s.db.Query(ctx, "SELECT item_id, name FROM items ORDER BY item_id")
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.Name); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

// ItemIDs returns all catalog item ids in ascending order.
func (s *Store) ItemIDs(ctx context.Context) ([]int64, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids, nil
}

// DataCenterByName returns a data center with its member worlds ordered by id.
func (s *Store) DataCenterByName(ctx context.Context, name string) (model.Server, error) {
	var dc model.DataCenter
	err := s.db.QueryRow(ctx,
		"SELECT id, name, region FROM data_centers WHERE name = ?", name,
	).Scan(&dc.ID, &dc.Name, &dc.Region)
	if err != nil {
		return model.Server{}, notFound(err, "data center %q", name)
	}

	rows, err := s.db.Query(ctx,
		"SELECT world_id, name, data_center_id FROM worlds WHERE data_center_id = ? ORDER BY world_id", dc.ID,
	)
	if err != nil {
		return model.Server{}, fmt.Errorf("query worlds of %s: %w", name, err)
	}
	defer rows.Close()

	var worlds []model.World
	for rows.Next() {
		var w model.World
		if err := rows.Scan(&w.ID, &w.Name, &w.DataCenterID); err != nil {
			return model.Server{}, fmt.Errorf("scan world: %w", err)
		}
		worlds = append(worlds, w)
		dc.WorldIDs = append(dc.WorldIDs, w.ID)
	}
	if err := rows.Err(); err != nil {
		return model.Server{}, fmt.Errorf("iterate worlds: %w", err)
	}

	return model.Server{DataCenter: dc, Worlds: worlds}, nil
}

// WorldByName returns the named world within a data center.
func (s *Store) WorldByName(ctx context.Context, dataCenterID int64, name string) (model.World, error) {
	var w model.World
	err := s.db.QueryRow(ctx,
		"SELECT world_id, name, data_center_id FROM worlds WHERE data_center_id = ? AND name = ?",
		dataCenterID, name,
	).Scan(&w.ID, &w.Name, &w.DataCenterID)
	if err != nil {
		return model.World{}, notFound(err, "world %q in data center %d", name, dataCenterID)
	}
	return w, nil
}

// TradeVolume returns the stored row for (item, home world).
func (s *Store) TradeVolume(ctx context.Context, itemID, worldID int64) (model.TradeVolume, error) {
	tv := model.TradeVolume{ItemID: itemID, WorldID: worldID}
	err := s.db.QueryRow(ctx, `
		SELECT cheapest_world_id, sale_score, price_diff_score, home_world_avg_price
		FROM items_trade_volumes
		WHERE item_id = ? AND world_id = ?`,
		itemID, worldID,
	).Scan(&tv.CheapestWorldID, &tv.SaleScore, &tv.PriceDiffScore, &tv.HomeWorldAvgPrice)
	if err != nil {
		return model.TradeVolume{}, notFound(err, "trade volume item %d world %d", itemID, worldID)
	}
	return tv, nil
}

// StaleItemIDs returns stored item ids that are not in keep.
func (s *Store) StaleItemIDs(ctx context.Context, keep []int64) ([]int64, error) {
	ids, err := s.ItemIDs(ctx)
	if err != nil {
		return nil, err
	}

	want := make(map[int64]struct{}, len(keep))
	for _, id := range keep {
		want[id] = struct{}{}
	}

	var stale []int64
	for _, id := range ids {
		if _, ok := want[id]; !ok {
			stale = append(stale, id)
		}
	}
	return stale, nil
}

func notFound(err error, format string, args ...any) error {
	what := fmt.Sprintf(format, args...)
	if errors.Is(err, database.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("query %s: %w", what, err)
}
