package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/rickgao/xiv-marketboard/internal/model"
)

const endpointSearch = "search"

// DefaultPaginationTimeout bounds GetAllItems when the caller sets no deadline.
const DefaultPaginationTimeout = 10 * time.Minute

// SearchItems fetches one page of the item index.
func (c *Client) SearchItems(ctx context.Context, page int) (*SearchResponse, error) {
	query := url.Values{}
	query.Set("indexes", "Item")
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}

	var resp SearchResponse
	if err := c.get(ctx, endpointSearch, "/search", query, &resp); err != nil {
		return nil, fmt.Errorf("search items page %d: %w", page, err)
	}
	if resp.Pagination == nil || resp.Results == nil {
		return nil, fmt.Errorf("search items page %d: %w", page, shapeError(endpointSearch, "missing Pagination or Results"))
	}

	return &resp, nil
}

// GetAllItems fetches every catalog item by paginating until PageNext is absent.
// Uses DefaultPaginationTimeout if the context has no deadline.
func (c *Client) GetAllItems(ctx context.Context) ([]model.Item, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultPaginationTimeout)
		defer cancel()
	}

	var items []model.Item
	page := 1

	for {
		resp, err := c.SearchItems(ctx, page)
		if err != nil {
			return nil, err
		}

		for _, r := range resp.Results {
			items = append(items, r.ToModel())
		}

		next := resp.Pagination.PageNext
		if next == nil {
			break
		}
		if *next <= page {
			return nil, shapeError(endpointSearch, "PageNext %d does not advance past page %d", *next, page)
		}
		page = *next
	}

	return items, nil
}
