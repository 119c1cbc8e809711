package tradevolume

import (
	"context"

	"github.com/rickgao/xiv-marketboard/internal/model"
	"github.com/rickgao/xiv-marketboard/internal/writer"
)

// MarketSource fetches sale history and velocity. Implemented by *api.Client.
type MarketSource interface {
	GetSaleHistory(ctx context.Context, worldName string, itemIDs []int64) (model.SaleHistory, error)
	GetSaleVelocity(ctx context.Context, worldName string, itemID int64) (model.Velocity, error)
}

// Topology resolves a data center and its worlds. Implemented by *store.Store.
type Topology interface {
	DataCenterByName(ctx context.Context, name string) (model.Server, error)
}

// Catalog lists the items to aggregate. Implemented by *store.Store.
type Catalog interface {
	ItemIDs(ctx context.Context) ([]int64, error)
}

// Sink persists computed rows. Implemented by *writer.TradeVolumeWriter.
type Sink interface {
	Upsert(ctx context.Context, rows []model.TradeVolume) (writer.Result, error)
}
