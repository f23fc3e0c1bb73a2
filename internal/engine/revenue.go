package engine

import (
	"fmt"

	engineModel "github.com/liqdesk/spread-revenue/internal/engine/model"
	"github.com/liqdesk/spread-revenue/pkg/model"
)

// Compute runs one ladder against one histogram. Each bucket consumes
// liquidity from the first level upward until its whole upper bound is
// absorbed and pays the spread of the last (worst) level it touches; a
// bucket deeper than the whole ladder pays the deepest level's spread.
//
// Histogram rows whose range label does not parse are skipped, recorded on
// the result and never fatal. The only error is a ladder that fails
// validation, which would make cumulative-capacity lookups meaningless.
func (e *revenueEngineImpl) Compute(ladder model.Ladder, histogram []model.VolumeBucket, unitNotional float64) (*model.ScenarioResult, error) {
	if errs := ValidateLadder(ladder); len(errs) > 0 {
		return nil, fmt.Errorf("invalid order book: %s", errs[0])
	}

	capacity := engineModel.NewCapacityTree(ladder)
	out := &model.ScenarioResult{
		Results: make([]model.BucketResult, 0, len(histogram)),
	}

	for i, bucket := range histogram {
		upper, ok := ParseUpperBound(bucket.RangeLabel)
		if !ok {
			out.Skipped = append(out.Skipped, model.SkippedBucket{Index: i, RangeLabel: bucket.RangeLabel})
			continue
		}

		level := capacity.Assign(upper)
		turnover := bucket.FilledVolume * unitNotional
		revenue := round2(bucket.FilledVolume * level.SpreadCost / 2)

		out.Results = append(out.Results, model.BucketResult{
			BucketLabel:     bucket.RangeLabel,
			FilledVolume:    round2(bucket.FilledVolume),
			AssignedLevelID: level.LevelID,
			AssignedSpread:  round2(level.SpreadCost),
			Turnover:        turnover,
			Revenue:         revenue,
			EfficiencyRatio: rpm(revenue, turnover),
		})
		out.TotalRevenue = round2(out.TotalRevenue + revenue)
	}

	return out, nil
}
