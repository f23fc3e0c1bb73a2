package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/liqdesk/spread-revenue/pkg/model"
)

// Workbook sheet names, one sheet per scenario/summary combination.
const (
	SheetResultsA = "Results A"
	SheetResultsB = "Results B"
	SheetSummaryA = "Fill Summary A"
	SheetSummaryB = "Fill Summary B"
)

type Exporter interface {
	WriteComparison(cmp *model.Comparison) (*bytes.Buffer, error)
}

type exporterImpl struct{}

func NewExporter() Exporter {
	return &exporterImpl{}
}

// WriteComparison renders an A/B comparison into an in-memory xlsx workbook
// with four sheets. Nothing touches the filesystem; the caller decides where
// the bytes go.
func (e *exporterImpl) WriteComparison(cmp *model.Comparison) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeResults(f, SheetResultsA, cmp.ResultsA, nil, cmp.TotalRevenueA); err != nil {
		return nil, err
	}
	if err := writeResults(f, SheetResultsB, nil, cmp.ResultsB, cmp.TotalRevenueB); err != nil {
		return nil, err
	}
	if err := writeSummary(f, SheetSummaryA, cmp.SummaryA); err != nil {
		return nil, err
	}
	if err := writeSummary(f, SheetSummaryB, cmp.SummaryB); err != nil {
		return nil, err
	}

	// excelize creates "Sheet1" by default; ours replace it.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("dropping default sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf, nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

// writeResults fills one results sheet. Exactly one of plain/deltas is set:
// scenario A rows carry no delta column, scenario B rows do.
func writeResults(f *excelize.File, sheet string, plain []model.BucketResult, deltas []model.BucketDelta, total float64) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []any{"Volume Bucket", "Filled Volume", "Assigned Level", "Assigned Spread", "Turnover", "Revenue", "RPM"}
	if deltas != nil {
		header = append(header, "Revenue Delta %")
	}
	if err := writeRow(f, sheet, 1, header); err != nil {
		return err
	}

	row := 2
	emit := func(r model.BucketResult, extra ...any) error {
		values := []any{r.BucketLabel, r.FilledVolume, r.AssignedLevelID, r.AssignedSpread, r.Turnover, r.Revenue, r.EfficiencyRatio}
		values = append(values, extra...)
		if err := writeRow(f, sheet, row, values); err != nil {
			return err
		}
		row++
		return nil
	}
	for _, r := range plain {
		if err := emit(r); err != nil {
			return err
		}
	}
	for _, d := range deltas {
		if err := emit(d.BucketResult, d.RevenueDeltaPct); err != nil {
			return err
		}
	}

	return writeRow(f, sheet, row+1, []any{"Total Revenue", total})
}

func writeSummary(f *excelize.File, sheet string, summary []model.LevelFillSummary) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := writeRow(f, sheet, 1, []any{"Level", "Fill Count", "Fill Volume", "Fill Volume %", "Revenue", "RPM"}); err != nil {
		return err
	}
	for i, s := range summary {
		if err := writeRow(f, sheet, i+2, []any{s.LevelID, s.FillCount, s.FillVolume, s.FillVolumePct, s.Revenue, s.EfficiencyRatio}); err != nil {
			return err
		}
	}
	return nil
}
