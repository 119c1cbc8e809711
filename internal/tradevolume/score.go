package tradevolume

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/rickgao/xiv-marketboard/internal/model"
)

// ZeroPricePolicy decides what happens to an item whose cheapest average is zero.
type ZeroPricePolicy string

const (
	// ZeroPriceFail aborts the run with *ArithmeticError.
	ZeroPriceFail ZeroPricePolicy = "fail"
	// ZeroPriceSkip drops the item and continues.
	ZeroPriceSkip ZeroPricePolicy = "skip"
)

// BuildTradeVolume combines a reduced record with home-world velocity.
//
// PriceDiffScore is home average / cheapest average, exactly 1 when the home
// world is the cheapest. Items the home world has no sales for score 0 with a
// zero home price. A zero cheapest average returns *ArithmeticError.
func BuildTradeVolume(itemID int64, home model.World, rec model.LowestPriceRecord, v model.Velocity) (model.TradeVolume, error) {
	tv := model.TradeVolume{
		ItemID:          itemID,
		WorldID:         home.ID,
		CheapestWorldID: rec.CheapestWorldID,
		SaleScore:       v.Effective(),
	}

	switch {
	case rec.HasHomePrice && rec.CheapestAvgPrice == 0:
		return model.TradeVolume{}, &ArithmeticError{
			ItemID:          itemID,
			HomeWorld:       home.Name,
			CheapestWorldID: rec.CheapestWorldID,
			Detail:          "cheapest average price is zero",
		}
	case rec.CheapestWorldID == home.ID:
		tv.PriceDiffScore = 1
		tv.HomeWorldAvgPrice = rec.HomeWorldAvgPrice
	case !rec.HasHomePrice:
		// No home sales: nothing to compare against.
	default:
		tv.PriceDiffScore = rec.HomeWorldAvgPrice / rec.CheapestAvgPrice
		tv.HomeWorldAvgPrice = rec.HomeWorldAvgPrice
	}

	return tv, nil
}

// scored is one velocity task's output.
type scored struct {
	row     model.TradeVolume
	skipped bool
	done    bool
}

// scoreAll fetches velocity for every record concurrently and builds rows in
// record order. Skipped items are reported by id.
func scoreAll(
	ctx context.Context,
	src MarketSource,
	home model.World,
	records []model.LowestPriceRecord,
	limit int,
	policy ZeroPricePolicy,
) ([]model.TradeVolume, []int64, error) {
	slots := make([]scored, len(records))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, rec := range records {
		g.Go(func() error {
			v, err := src.GetSaleVelocity(gctx, home.Name, rec.ItemID)
			if err != nil {
				return fmt.Errorf("velocity item %d: %w", rec.ItemID, err)
			}

			row, err := BuildTradeVolume(rec.ItemID, home, rec, v)
			if err != nil {
				if policy == ZeroPriceSkip {
					slots[i] = scored{skipped: true, done: true}
					return nil
				}
				return err
			}
			slots[i] = scored{row: row, done: true}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	rows := make([]model.TradeVolume, 0, len(records))
	var skipped []int64
	for i, s := range slots {
		if !s.done {
			return nil, nil, &LookupInvariantError{
				Stage:  "score",
				ItemID: records[i].ItemID,
				Detail: "no velocity result",
			}
		}
		if s.skipped {
			skipped = append(skipped, records[i].ItemID)
			continue
		}
		rows = append(rows, s.row)
	}
	return rows, skipped, nil
}
