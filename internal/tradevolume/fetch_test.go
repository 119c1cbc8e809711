package tradevolume

import (
	"reflect"
	"testing"

	"github.com/rickgao/xiv-marketboard/internal/model"
)

func TestChunk(t *testing.T) {
	tests := []struct {
		name string
		ids  []int64
		size int
		want [][]int64
	}{
		{"empty", nil, 90, [][]int64{}},
		{"exact", []int64{1, 2, 3, 4}, 2, [][]int64{{1, 2}, {3, 4}}},
		{"remainder", []int64{1, 2, 3, 4, 5}, 2, [][]int64{{1, 2}, {3, 4}, {5}}},
		{"larger than input", []int64{1, 2}, 90, [][]int64{{1, 2}}},
		{"zero size", []int64{1, 2}, 0, [][]int64{{1}, {2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Chunk(tt.ids, tt.size)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Chunk() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOrderWorlds(t *testing.T) {
	worlds := []model.World{{ID: 40}, {ID: 21}, {ID: 73}, {ID: 35}}

	got := OrderWorlds(worlds, 73)
	want := []int64{73, 21, 35, 40}
	for i, w := range got {
		if w.ID != want[i] {
			t.Errorf("OrderWorlds()[%d] = %d, want %d", i, w.ID, want[i])
		}
	}

	if worlds[0].ID != 40 {
		t.Error("OrderWorlds must not reorder its input")
	}
}

func TestOnlyRequested(t *testing.T) {
	history := model.SaleHistory{
		1: {ItemID: 1},
		2: {ItemID: 2},
		9: {ItemID: 9},
	}

	got := onlyRequested(history, []int64{1, 2, 3})
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if _, ok := got[9]; ok {
		t.Error("unrequested item 9 should be dropped")
	}
}
