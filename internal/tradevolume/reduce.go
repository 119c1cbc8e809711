package tradevolume

import (
	"slices"

	"github.com/rickgao/xiv-marketboard/internal/model"
)

// Reducer folds per-world sale history into one LowestPriceRecord per item.
// It is not safe for concurrent use; feed it from a single goroutine in a stable world order.
type Reducer struct {
	homeWorldID int64
	records     map[int64]*model.LowestPriceRecord
}

// NewReducer creates a Reducer anchored on the home world.
func NewReducer(homeWorldID int64) *Reducer {
	return &Reducer{
		homeWorldID: homeWorldID,
		records:     make(map[int64]*model.LowestPriceRecord),
	}
}

// Observe folds one world's sale history into the records.
// Batches with zero total quantity carry no price and are skipped.
func (r *Reducer) Observe(worldID int64, history model.SaleHistory) {
	isHome := worldID == r.homeWorldID

	for itemID, batch := range history {
		avg, ok := batch.AveragePrice()
		if !ok {
			continue
		}

		rec, seen := r.records[itemID]
		if !seen {
			rec = &model.LowestPriceRecord{
				ItemID:           itemID,
				CheapestWorldID:  worldID,
				CheapestAvgPrice: avg,
			}
			r.records[itemID] = rec
		} else if avg < rec.CheapestAvgPrice {
			rec.CheapestWorldID = worldID
			rec.CheapestAvgPrice = avg
		}

		if isHome {
			rec.HomeWorldAvgPrice = avg
			rec.HasHomePrice = true
		}
	}
}

// Len returns the number of items with at least one valid average.
func (r *Reducer) Len() int {
	return len(r.records)
}

// Records returns the reduced records ordered by item id.
func (r *Reducer) Records() []model.LowestPriceRecord {
	out := make([]model.LowestPriceRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, *rec)
	}
	slices.SortFunc(out, func(a, b model.LowestPriceRecord) int {
		switch {
		case a.ItemID < b.ItemID:
			return -1
		case a.ItemID > b.ItemID:
			return 1
		default:
			return 0
		}
	})
	return out
}
