package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liqdesk/spread-revenue/pkg/model"
)

func TestCompare_TotalsAndDeltas(t *testing.T) {
	eng := NewRevenueEngine()
	ladderA := validLadder()
	// Scenario B doubles every spread, so every bucket's revenue doubles.
	ladderB := model.Ladder{
		{LevelID: 1, Size: 1, SpreadCost: 62},
		{LevelID: 2, Size: 6, SpreadCost: 84},
		{LevelID: 3, Size: 11, SpreadCost: 114},
	}
	histogram := []model.VolumeBucket{
		{RangeLabel: "(0, 1]", FilledVolume: 100},
		{RangeLabel: "(6, 11]", FilledVolume: 50},
	}

	cmp, err := eng.Compare(ladderA, ladderB, histogram, 500_000)
	require.NoError(t, err)

	require.Len(t, cmp.ResultsA, 2)
	require.Len(t, cmp.ResultsB, 2)
	for _, d := range cmp.ResultsB {
		assert.Equal(t, 100.0, d.RevenueDeltaPct)
	}

	assert.Equal(t, cmp.TotalRevenueB-cmp.TotalRevenueA, cmp.TotalRevenueDelta)
	assert.Equal(t, 2*cmp.TotalRevenueA, cmp.TotalRevenueB)

	require.Len(t, cmp.SummaryA, 3)
	require.Len(t, cmp.SummaryB, 3)
}

func TestCompare_IndependentScenarios(t *testing.T) {
	// A's output must not leak into B: running B alone gives the same rows.
	eng := NewRevenueEngine()
	ladderA := validLadder()
	ladderB := model.Ladder{
		{LevelID: 1, Size: 20, SpreadCost: 15},
	}
	histogram := []model.VolumeBucket{
		{RangeLabel: "(0, 1]", FilledVolume: 10},
		{RangeLabel: "(6, 11]", FilledVolume: 5},
	}

	cmp, err := eng.Compare(ladderA, ladderB, histogram, 400_000)
	require.NoError(t, err)
	solo, err := eng.Compute(ladderB, histogram, 400_000)
	require.NoError(t, err)

	require.Len(t, cmp.ResultsB, len(solo.Results))
	for i, d := range cmp.ResultsB {
		assert.Equal(t, solo.Results[i], d.BucketResult)
	}
	assert.Equal(t, solo.TotalRevenue, cmp.TotalRevenueB)
}

func TestCompare_InvalidScenarioIsNamed(t *testing.T) {
	eng := NewRevenueEngine()
	histogram := []model.VolumeBucket{{RangeLabel: "(0, 1]", FilledVolume: 1}}

	_, err := eng.Compare(model.Ladder{}, validLadder(), histogram, 500_000)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenario A")

	_, err = eng.Compare(validLadder(), model.Ladder{}, histogram, 500_000)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenario B")
}

func TestRevenueDeltaPct(t *testing.T) {
	cases := []struct {
		name string
		a, b float64
		want float64
	}{
		{"growth", 1000, 1200, 20},
		{"decline", 1000, 800, -20},
		{"unchanged", 1000, 1000, 0},
		{"new revenue from zero", 0, 50, 100},
		{"both zero", 0, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, revenueDeltaPct(tc.a, tc.b))
		})
	}
}
