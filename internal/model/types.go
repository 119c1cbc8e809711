package model

// -----------------------------------------------------------------------------
// Reference Types
// -----------------------------------------------------------------------------

// Item is a tradable catalog entry.
type Item struct {
	ID   int64  // Primary key (game item id)
	Name string // Display name
}

// DataCenter is a named cluster of worlds.
type DataCenter struct {
	ID       int64   // Primary key (database-assigned)
	Name     string  // Unique (e.g., "Chaos")
	Region   string  // e.g., "Europe"
	WorldIDs []int64 // Member worlds as reported by the market API
}

// World is a single game server belonging to a data center.
type World struct {
	ID           int64  // Primary key (game world id)
	Name         string // e.g., "Omega"
	DataCenterID int64  // Foreign key to DataCenter
}

// Server groups a data center with the worlds that belong to it.
type Server struct {
	DataCenter DataCenter
	Worlds     []World
}

// Members returns the worlds whose ids appear in the data center's member list.
func (s Server) Members() []World {
	member := make(map[int64]struct{}, len(s.DataCenter.WorldIDs))
	for _, id := range s.DataCenter.WorldIDs {
		member[id] = struct{}{}
	}

	worlds := make([]World, 0, len(s.DataCenter.WorldIDs))
	for _, w := range s.Worlds {
		if _, ok := member[w.ID]; ok {
			worlds = append(worlds, w)
		}
	}
	return worlds
}

// -----------------------------------------------------------------------------
// Market Types
// -----------------------------------------------------------------------------

// Sale is a single completed sale from the market history.
type Sale struct {
	PricePerUnit int64
	Quantity     int64
}

// SaleRecordBatch holds the recent sales of one item on one world.
type SaleRecordBatch struct {
	ItemID int64
	Sales  []Sale
}

// AveragePrice returns the quantity-weighted average price of the batch.
// ok is false when the batch sold nothing; such a batch is not a data point.
func (b SaleRecordBatch) AveragePrice() (avg float64, ok bool) {
	var total, quantity float64
	for _, s := range b.Sales {
		total += float64(s.PricePerUnit) * float64(s.Quantity)
		quantity += float64(s.Quantity)
	}
	if quantity == 0 {
		return 0, false
	}
	return total / quantity, true
}

// SaleHistory maps item id to its sale batch for one (world, item chunk) fetch.
type SaleHistory map[int64]SaleRecordBatch

// Velocity holds normal and high quality sale velocities for an item.
type Velocity struct {
	NQ float64
	HQ float64
}

// Effective prefers the high quality velocity whenever any hq sales exist.
func (v Velocity) Effective() float64 {
	if v.HQ > 0 {
		return v.HQ
	}
	return v.NQ
}

// -----------------------------------------------------------------------------
// Aggregation Types
// -----------------------------------------------------------------------------

// LowestPriceRecord is the reduction result for one item across a data center.
type LowestPriceRecord struct {
	ItemID            int64
	CheapestWorldID   int64
	CheapestAvgPrice  float64
	HomeWorldAvgPrice float64 // Zero unless HasHomePrice
	HasHomePrice      bool    // Home world reported a valid average
}

// TradeVolume is the persisted comparison row for an item on a home world.
type TradeVolume struct {
	ItemID            int64   // Primary key part
	WorldID           int64   // Home world, primary key part
	CheapestWorldID   int64   // World with the lowest average price
	SaleScore         float64 // Effective sale velocity on the home world
	PriceDiffScore    float64 // Home average / cheapest average
	HomeWorldAvgPrice float64
}
