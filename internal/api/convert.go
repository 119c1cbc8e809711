package api

import (
	"github.com/rickgao/xiv-marketboard/internal/model"
)

// ToModel converts history entries to a sale batch.
// Entries missing price or quantity are rejected as a shape error.
func (h HistoryItem) ToModel(itemID int64) (model.SaleRecordBatch, error) {
	batch := model.SaleRecordBatch{
		ItemID: itemID,
		Sales:  make([]model.Sale, 0, len(h.Entries)),
	}
	for i, e := range h.Entries {
		if e.PricePerUnit == nil || e.Quantity == nil {
			return model.SaleRecordBatch{}, shapeError(endpointHistory, "item %d entry %d missing pricePerUnit or quantity", itemID, i)
		}
		if *e.PricePerUnit < 0 || *e.Quantity < 0 {
			return model.SaleRecordBatch{}, shapeError(endpointHistory, "item %d entry %d has negative price or quantity", itemID, i)
		}
		batch.Sales = append(batch.Sales, model.Sale{
			PricePerUnit: *e.PricePerUnit,
			Quantity:     *e.Quantity,
		})
	}
	return batch, nil
}

// ToModel converts a velocity response, requiring both fields.
func (v VelocityResponse) ToModel() (model.Velocity, error) {
	if v.NQSaleVelocity == nil || v.HQSaleVelocity == nil {
		return model.Velocity{}, shapeError(endpointVelocity, "missing nqSaleVelocity or hqSaleVelocity")
	}
	return model.Velocity{NQ: *v.NQSaleVelocity, HQ: *v.HQSaleVelocity}, nil
}

// ToModel converts an API data center. The database id is assigned on import.
func (dc APIDataCenter) ToModel() model.DataCenter {
	ids := make([]int64, len(dc.Worlds))
	copy(ids, dc.Worlds)
	return model.DataCenter{
		Name:     dc.Name,
		Region:   dc.Region,
		WorldIDs: ids,
	}
}

// ToModel converts an API world.
func (w APIWorld) ToModel() model.World {
	return model.World{ID: w.ID, Name: w.Name}
}

// ToModel converts a catalog search result.
func (i APIItem) ToModel() model.Item {
	return model.Item{ID: i.ID, Name: i.Name}
}
