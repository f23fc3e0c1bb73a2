package engine

import (
	"github.com/liqdesk/spread-revenue/pkg/model"
)

// Aggregate folds a scenario's bucket results into one utilisation row per
// ladder level. Levels that absorbed nothing still appear with zero-valued
// counters. Percentages are shares of the grand total fill volume; when the
// grand total is 0 every share is 0.
func (e *revenueEngineImpl) Aggregate(results []model.BucketResult, ladder model.Ladder, unitNotional float64) []model.LevelFillSummary {
	type acc struct {
		count    int
		volume   float64
		revenue  float64
		turnover float64
	}
	byLevel := make(map[int]*acc, len(ladder))
	for _, lvl := range ladder {
		byLevel[lvl.LevelID] = &acc{}
	}

	grandTotal := 0.0
	for _, r := range results {
		a, ok := byLevel[r.AssignedLevelID]
		if !ok {
			// Result rows from a different ladder; nothing sane to do with
			// them, and the comparator never produces this.
			continue
		}
		a.count++
		a.volume += r.FilledVolume
		a.revenue += r.Revenue
		a.turnover += r.FilledVolume * unitNotional
		grandTotal += r.FilledVolume
	}

	out := make([]model.LevelFillSummary, 0, len(ladder))
	for _, lvl := range ladder {
		a := byLevel[lvl.LevelID]
		pct := 0.0
		if grandTotal > 0 {
			pct = round2(a.volume / grandTotal * 100)
		}
		out = append(out, model.LevelFillSummary{
			LevelID:         lvl.LevelID,
			FillCount:       a.count,
			FillVolume:      round2(a.volume),
			FillVolumePct:   pct,
			Revenue:         round2(a.revenue),
			EfficiencyRatio: rpm(a.revenue, a.turnover),
		})
	}
	return out
}
