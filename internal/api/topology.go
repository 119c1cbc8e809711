package api

import (
	"context"
	"fmt"

	"github.com/rickgao/xiv-marketboard/internal/model"
)

const (
	endpointDataCenters = "data-centers"
	endpointWorlds      = "worlds"
	endpointMarketable  = "marketable"
)

// GetDataCenters fetches all data centers.
func (c *Client) GetDataCenters(ctx context.Context) ([]APIDataCenter, error) {
	var resp []APIDataCenter
	if err := c.get(ctx, endpointDataCenters, "/data-centers", nil, &resp); err != nil {
		return nil, fmt.Errorf("get data centers: %w", err)
	}
	for i, dc := range resp {
		if dc.Name == "" {
			return nil, fmt.Errorf("get data centers: %w", shapeError(endpointDataCenters, "data center %d missing name", i))
		}
	}
	return resp, nil
}

// GetWorlds fetches all worlds.
func (c *Client) GetWorlds(ctx context.Context) ([]APIWorld, error) {
	var resp []APIWorld
	if err := c.get(ctx, endpointWorlds, "/worlds", nil, &resp); err != nil {
		return nil, fmt.Errorf("get worlds: %w", err)
	}
	for i, w := range resp {
		if w.ID == 0 || w.Name == "" {
			return nil, fmt.Errorf("get worlds: %w", shapeError(endpointWorlds, "world %d missing id or name", i))
		}
	}
	return resp, nil
}

// GetServers fetches data centers and their member worlds.
func (c *Client) GetServers(ctx context.Context) ([]model.Server, error) {
	dataCenters, err := c.GetDataCenters(ctx)
	if err != nil {
		return nil, err
	}
	apiWorlds, err := c.GetWorlds(ctx)
	if err != nil {
		return nil, err
	}

	worlds := make([]model.World, len(apiWorlds))
	for i, w := range apiWorlds {
		worlds[i] = w.ToModel()
	}

	servers := make([]model.Server, 0, len(dataCenters))
	for _, dc := range dataCenters {
		s := model.Server{DataCenter: dc.ToModel(), Worlds: worlds}
		s.Worlds = s.Members()
		servers = append(servers, s)
	}
	return servers, nil
}

// GetMarketableItemIDs fetches the ids of all items that can be traded on the market board.
func (c *Client) GetMarketableItemIDs(ctx context.Context) ([]int64, error) {
	var resp []int64
	if err := c.get(ctx, endpointMarketable, "/marketable", nil, &resp); err != nil {
		return nil, fmt.Errorf("get marketable items: %w", err)
	}
	return resp, nil
}
