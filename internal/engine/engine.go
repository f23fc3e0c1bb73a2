package engine

import (
	"math"

	"github.com/liqdesk/spread-revenue/pkg/model"
)

// RevenueEngine is the calculation core: it assigns histogram buckets to
// order-book levels by cumulative capacity, prices them, aggregates per-level
// fill statistics and diffs two ladder configurations against the same
// histogram. Every method is a pure function of its inputs: identical inputs
// produce identical outputs, and the only side channel is the skipped-row
// list returned as data.
type RevenueEngine interface {
	Compute(ladder model.Ladder, histogram []model.VolumeBucket, unitNotional float64) (*model.ScenarioResult, error)
	Aggregate(results []model.BucketResult, ladder model.Ladder, unitNotional float64) []model.LevelFillSummary
	Compare(ladderA, ladderB model.Ladder, histogram []model.VolumeBucket, unitNotional float64) (*model.Comparison, error)
}

type revenueEngineImpl struct{}

func NewRevenueEngine() RevenueEngine {
	return &revenueEngineImpl{}
}

// round2 rounds to 2 decimals, the precision of every monetary output field.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

const rpmScale = 1_000_000

// rpm is revenue per million of notional turnover, 0 when there is no
// turnover (never a division error).
func rpm(revenue, turnover float64) float64 {
	if turnover <= 0 {
		return 0
	}
	return round2(revenue / turnover * rpmScale)
}
