package model

import (
	"github.com/google/btree"

	"github.com/liqdesk/spread-revenue/pkg/model"
)

// CapacityLevel is a ladder rung keyed by its cumulative capacity, ascending.
// With strictly positive sizes the cumulative sums are strictly increasing,
// so tree order equals ladder (consumption) order and keys never collide.
type CapacityLevel struct {
	Cumulative float64
	Level      model.OrderBookLevel
}

func (c *CapacityLevel) Less(than btree.Item) bool {
	other := than.(*CapacityLevel)
	return c.Cumulative < other.Cumulative
}

// CapacityTree indexes a validated ladder for first-fit-by-capacity lookup.
type CapacityTree struct {
	tree    *btree.BTree
	deepest model.OrderBookLevel
}

// NewCapacityTree builds the index in ladder order. The ladder must be
// non-empty with positive sizes (enforced by the validator upstream).
func NewCapacityTree(ladder model.Ladder) *CapacityTree {
	t := btree.New(2)
	cums := ladder.CumulativeSizes()
	for i, lvl := range ladder {
		t.ReplaceOrInsert(&CapacityLevel{Cumulative: cums[i], Level: lvl})
	}
	return &CapacityTree{tree: t, deepest: ladder[len(ladder)-1]}
}

// Assign returns the first level whose cumulative capacity reaches upperBound.
// When no level does (the ladder is too shallow), it degrades gracefully to
// the deepest level rather than failing.
func (ct *CapacityTree) Assign(upperBound float64) model.OrderBookLevel {
	assigned := ct.deepest
	ct.tree.AscendGreaterOrEqual(&CapacityLevel{Cumulative: upperBound}, func(item btree.Item) bool {
		assigned = item.(*CapacityLevel).Level
		return false
	})
	return assigned
}
