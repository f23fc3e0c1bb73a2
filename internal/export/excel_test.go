package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/liqdesk/spread-revenue/pkg/model"
)

func sampleComparison() *model.Comparison {
	resA := model.BucketResult{
		BucketLabel: "(0, 1]", FilledVolume: 100, AssignedLevelID: 1,
		AssignedSpread: 31, Turnover: 50_000_000, Revenue: 1550, EfficiencyRatio: 31,
	}
	resB := resA
	resB.AssignedSpread = 62
	resB.Revenue = 3100
	resB.EfficiencyRatio = 62
	return &model.Comparison{
		ResultsA: []model.BucketResult{resA},
		ResultsB: []model.BucketDelta{{BucketResult: resB, RevenueDeltaPct: 100}},
		SummaryA: []model.LevelFillSummary{
			{LevelID: 1, FillCount: 1, FillVolume: 100, FillVolumePct: 100, Revenue: 1550, EfficiencyRatio: 31},
		},
		SummaryB: []model.LevelFillSummary{
			{LevelID: 1, FillCount: 1, FillVolume: 100, FillVolumePct: 100, Revenue: 3100, EfficiencyRatio: 62},
		},
		TotalRevenueA:     1550,
		TotalRevenueB:     3100,
		TotalRevenueDelta: 1550,
	}
}

func TestWriteComparison(t *testing.T) {
	buf, err := NewExporter().WriteComparison(sampleComparison())
	require.NoError(t, err)
	require.NotZero(t, buf.Len())

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.ElementsMatch(t, []string{SheetResultsA, SheetResultsB, SheetSummaryA, SheetSummaryB}, sheets)

	label, err := f.GetCellValue(SheetResultsA, "A2")
	require.NoError(t, err)
	assert.Equal(t, "(0, 1]", label)

	revenue, err := f.GetCellValue(SheetResultsA, "F2")
	require.NoError(t, err)
	assert.Equal(t, "1550", revenue)

	// Scenario B carries the delta column.
	delta, err := f.GetCellValue(SheetResultsB, "H2")
	require.NoError(t, err)
	assert.Equal(t, "100", delta)

	total, err := f.GetCellValue(SheetResultsB, "A4")
	require.NoError(t, err)
	assert.Equal(t, "Total Revenue", total)
}
