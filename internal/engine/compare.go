package engine

import (
	"fmt"

	"github.com/liqdesk/spread-revenue/pkg/model"
)

// Compare runs scenarios A and B independently against the same histogram
// and combines their outputs. No information flows from A's run into B's;
// both see the same skipped rows because they share the histogram and the
// parser, so result rows pair up by position.
func (e *revenueEngineImpl) Compare(ladderA, ladderB model.Ladder, histogram []model.VolumeBucket, unitNotional float64) (*model.Comparison, error) {
	resA, err := e.Compute(ladderA, histogram, unitNotional)
	if err != nil {
		return nil, fmt.Errorf("scenario A: %w", err)
	}
	resB, err := e.Compute(ladderB, histogram, unitNotional)
	if err != nil {
		return nil, fmt.Errorf("scenario B: %w", err)
	}

	deltas := make([]model.BucketDelta, len(resB.Results))
	for i, rb := range resB.Results {
		deltas[i] = model.BucketDelta{
			BucketResult:    rb,
			RevenueDeltaPct: revenueDeltaPct(resA.Results[i].Revenue, rb.Revenue),
		}
	}

	return &model.Comparison{
		ResultsA:          resA.Results,
		ResultsB:          deltas,
		SummaryA:          e.Aggregate(resA.Results, ladderA, unitNotional),
		SummaryB:          e.Aggregate(resB.Results, ladderB, unitNotional),
		Skipped:           resA.Skipped,
		TotalRevenueA:     resA.TotalRevenue,
		TotalRevenueB:     resB.TotalRevenue,
		TotalRevenueDelta: round2(resB.TotalRevenue - resA.TotalRevenue),
	}, nil
}

// revenueDeltaPct is the per-bucket change of B against A. The zero cases
// are asymmetric on purpose: revenue appearing where none existed reads as
// +100%, and 0-vs-0 reads as no change, so a division by zero never occurs.
func revenueDeltaPct(revA, revB float64) float64 {
	switch {
	case revA > 0:
		return round2((revB - revA) / revA * 100)
	case revB > 0:
		return 100
	default:
		return 0
	}
}
