package tradevolume

import (
	"context"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/rickgao/xiv-marketboard/internal/model"
)

// Chunk partitions ids into consecutive slices of at most size ids.
func Chunk(ids []int64, size int) [][]int64 {
	if size < 1 {
		size = 1
	}
	chunks := make([][]int64, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

// OrderWorlds returns worlds with the home world first and the rest by ascending id.
func OrderWorlds(worlds []model.World, homeID int64) []model.World {
	ordered := slices.Clone(worlds)
	slices.SortStableFunc(ordered, func(a, b model.World) int {
		switch {
		case a.ID == homeID && b.ID != homeID:
			return -1
		case b.ID == homeID && a.ID != homeID:
			return 1
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})
	return ordered
}

// worldHistory is the result of one (world, chunk) fetch.
type worldHistory struct {
	WorldID int64
	History model.SaleHistory
}

// fetchHistories issues one request per (world, chunk) with at most limit in
// flight (limit <= 0 means unbounded). Slot i*len(chunks)+j holds the result for
// worlds[i] and chunks[j], so reading the slice in order preserves world order.
func fetchHistories(
	ctx context.Context,
	src MarketSource,
	worlds []model.World,
	chunks [][]int64,
	limit int,
) ([]worldHistory, error) {
	slots := make([]worldHistory, len(worlds)*len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, w := range worlds {
		for j, chunk := range chunks {
			slot := i*len(chunks) + j
			g.Go(func() error {
				history, err := src.GetSaleHistory(gctx, w.Name, chunk)
				if err != nil {
					return err
				}
				slots[slot] = worldHistory{WorldID: w.ID, History: onlyRequested(history, chunk)}
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return slots, nil
}

// onlyRequested drops items the API returned but the chunk did not ask for.
func onlyRequested(history model.SaleHistory, chunk []int64) model.SaleHistory {
	if len(history) <= len(chunk) {
		extra := false
		for id := range history {
			if !slices.Contains(chunk, id) {
				extra = true
				break
			}
		}
		if !extra {
			return history
		}
	}

	filtered := make(model.SaleHistory, len(chunk))
	for _, id := range chunk {
		if batch, ok := history[id]; ok {
			filtered[id] = batch
		}
	}
	return filtered
}
