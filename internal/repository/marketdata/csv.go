package marketdata

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/liqdesk/spread-revenue/pkg/model"
)

// Histogram tables live in fixed CSV files, one per instrument, produced by
// an external data-preparation step. A missing or unreadable file is an
// error here, before the core boundary; malformed range labels inside a
// readable file are the engine's concern and are skipped there.

//go:embed defaults/volume_distribution.csv
var defaultDistribution []byte

// ladderRow mirrors the editable order-book sheet: level_id,size,spread_cost.
type ladderRow struct {
	LevelID    int     `csv:"level_id"`
	Size       float64 `csv:"size"`
	SpreadCost float64 `csv:"spread_cost"`
}

type MarketDataRepository interface {
	LoadHistogram(path string) ([]model.VolumeBucket, error)
	DefaultHistogram() ([]model.VolumeBucket, error)
	LoadLadder(path string) (model.Ladder, error)
}

type marketDataRepositoryImpl struct{}

func NewMarketDataRepository() MarketDataRepository {
	return &marketDataRepositoryImpl{}
}

func (r *marketDataRepositoryImpl) LoadHistogram(path string) ([]model.VolumeBucket, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening histogram file: %w", err)
	}
	defer f.Close()

	var buckets []model.VolumeBucket
	if err := gocsv.Unmarshal(f, &buckets); err != nil {
		return nil, fmt.Errorf("parsing histogram file %s: %w", path, err)
	}
	return buckets, nil
}

// DefaultHistogram returns the embedded distribution shipped with the tool,
// used when an instrument does not point at its own file.
func (r *marketDataRepositoryImpl) DefaultHistogram() ([]model.VolumeBucket, error) {
	var buckets []model.VolumeBucket
	if err := gocsv.Unmarshal(bytes.NewReader(defaultDistribution), &buckets); err != nil {
		return nil, fmt.Errorf("parsing embedded distribution: %w", err)
	}
	return buckets, nil
}

func (r *marketDataRepositoryImpl) LoadLadder(path string) (model.Ladder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ladder file: %w", err)
	}
	defer f.Close()

	var rows []ladderRow
	if err := gocsv.Unmarshal(f, &rows); err != nil {
		return nil, fmt.Errorf("parsing ladder file %s: %w", path, err)
	}
	ladder := make(model.Ladder, 0, len(rows))
	for _, row := range rows {
		ladder = append(ladder, model.OrderBookLevel{
			LevelID:    row.LevelID,
			Size:       row.Size,
			SpreadCost: row.SpreadCost,
		})
	}
	return ladder, nil
}
