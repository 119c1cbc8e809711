package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rickgao/xiv-marketboard/internal/model"
)

const (
	endpointHistory  = "history"
	endpointVelocity = "velocity"
)

// GetSaleHistory fetches recent sales of the given items on one world.
// Items the API does not know about are simply absent from the result.
func (c *Client) GetSaleHistory(ctx context.Context, worldName string, itemIDs []int64) (model.SaleHistory, error) {
	if len(itemIDs) == 0 {
		return model.SaleHistory{}, nil
	}

	ids := make([]string, len(itemIDs))
	for i, id := range itemIDs {
		ids[i] = strconv.FormatInt(id, 10)
	}
	path := "/history/" + url.PathEscape(worldName) + "/" + strings.Join(ids, ",")

	var resp HistoryResponse
	if err := c.get(ctx, endpointHistory, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("get sale history %s (%d items): %w", worldName, len(itemIDs), err)
	}

	history, err := resp.toSaleHistory()
	if err != nil {
		return nil, fmt.Errorf("get sale history %s (%d items): %w", worldName, len(itemIDs), err)
	}
	return history, nil
}

func (r HistoryResponse) toSaleHistory() (model.SaleHistory, error) {
	history := make(model.SaleHistory, len(r.Items))

	switch {
	case r.Items != nil:
		for id, item := range r.Items {
			if item.Entries == nil {
				return nil, shapeError(endpointHistory, "item %d missing entries", id)
			}
			batch, err := item.ToModel(id)
			if err != nil {
				return nil, err
			}
			history[id] = batch
		}
	case r.ItemID != nil:
		if r.Entries == nil {
			return nil, shapeError(endpointHistory, "item %d missing entries", *r.ItemID)
		}
		batch, err := HistoryItem{ItemID: *r.ItemID, Entries: r.Entries}.ToModel(*r.ItemID)
		if err != nil {
			return nil, err
		}
		history[*r.ItemID] = batch
	default:
		return nil, shapeError(endpointHistory, "missing items")
	}

	return history, nil
}

// GetSaleVelocity fetches nq/hq sale velocity of one item on one world.
func (c *Client) GetSaleVelocity(ctx context.Context, worldName string, itemID int64) (model.Velocity, error) {
	path := "/" + url.PathEscape(worldName) + "/" + strconv.FormatInt(itemID, 10)
	query := url.Values{}
	query.Set("fields", "nqSaleVelocity,hqSaleVelocity")

	var resp VelocityResponse
	if err := c.get(ctx, endpointVelocity, path, query, &resp); err != nil {
		return model.Velocity{}, fmt.Errorf("get sale velocity %s item %d: %w", worldName, itemID, err)
	}

	v, err := resp.ToModel()
	if err != nil {
		return model.Velocity{}, fmt.Errorf("get sale velocity %s item %d: %w", worldName, itemID, err)
	}
	return v, nil
}
