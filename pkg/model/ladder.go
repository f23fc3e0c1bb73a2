package model

// OrderBookLevel is one rung of the liquidity ladder. LevelID defines the
// consumption order; Size is the incremental quantity available at this rung
// beyond all better rungs, SpreadCost the round-trip cost (in price points)
// charged to a trade that reaches it.
type OrderBookLevel struct {
	LevelID    int     `json:"levelId" yaml:"level_id" db:"level_id"`
	Size       float64 `json:"size" yaml:"size" db:"size"`
	SpreadCost float64 `json:"spreadCost" yaml:"spread_cost" db:"spread_cost"`
}

// Ladder is an ordered sequence of levels. Order of appearance is the
// consumption order; cumulative capacity is derived, never stored.
type Ladder []OrderBookLevel

// CumulativeSizes returns the running capacity sum in ladder order.
func (l Ladder) CumulativeSizes() []float64 {
	out := make([]float64, len(l))
	cum := 0.0
	for i, lvl := range l {
		cum += lvl.Size
		out[i] = cum
	}
	return out
}

// TotalDepth is the capacity of the whole ladder.
func (l Ladder) TotalDepth() float64 {
	cum := 0.0
	for _, lvl := range l {
		cum += lvl.Size
	}
	return cum
}
