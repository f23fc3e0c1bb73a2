package scenario

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/liqdesk/spread-revenue/internal/config"
	"github.com/liqdesk/spread-revenue/internal/engine"
	"github.com/liqdesk/spread-revenue/internal/export"
	ladderConfigRepository "github.com/liqdesk/spread-revenue/internal/repository/ladderconfig"
	"github.com/liqdesk/spread-revenue/internal/repository/marketdata"
	"github.com/liqdesk/spread-revenue/pkg/model"
)

// Update is handed to the registered handler after every successful
// comparison; the server maps it onto the websocket payload.
type Update struct {
	Instrument        string
	TotalRevenueA     float64
	TotalRevenueB     float64
	TotalRevenueDelta float64
	Ts                time.Time
}

type UpdateHandler func(Update)

// ComputeOutput bundles one scenario's result rows with its per-level
// fill summary.
type ComputeOutput struct {
	Instrument   string                   `json:"instrument"`
	Result       *model.ScenarioResult    `json:"result"`
	Summary      []model.LevelFillSummary `json:"summary"`
	UnitNotional float64                  `json:"unitNotional"`
}

type ScenarioUseCase interface {
	Instruments(ctx context.Context) []config.Instrument
	Histogram(ctx context.Context, symbol string) ([]model.VolumeBucket, error)
	DefaultLadder(ctx context.Context, symbol string) (model.Ladder, error)
	Validate(ctx context.Context, ladder model.Ladder) []string
	Compute(ctx context.Context, symbol string, ladder model.Ladder) (*ComputeOutput, error)
	Compare(ctx context.Context, symbol string, ladderA, ladderB model.Ladder) (*model.Comparison, error)
	Export(ctx context.Context, symbol string, ladderA, ladderB model.Ladder) (*bytes.Buffer, error)

	SaveConfig(ctx context.Context, ownerID int64, name, symbol string, ladder model.Ladder) (int64, error)
	ListConfigs(ctx context.Context, ownerID int64) ([]ladderConfigRepository.ConfigRecord, error)
	GetConfig(ctx context.Context, id int64) (*ladderConfigRepository.ConfigRecord, error)
	DeleteConfig(ctx context.Context, id, ownerID int64) error

	RegisterUpdateHandler(handler UpdateHandler)
}

type scenarioUseCaseImpl struct {
	revenueEngine engine.RevenueEngine // hold interface by value, not pointer to interface
	exporter      export.Exporter

	catalog    *config.Catalog
	histograms map[string][]model.VolumeBucket

	configRepo *ladderConfigRepository.LadderConfigRepository

	updateHandler UpdateHandler
	logger        zerolog.Logger
}

type ScenarioUseCaseOpts struct {
	Catalog    *config.Catalog
	MarketData marketdata.MarketDataRepository
	Engine     engine.RevenueEngine
	Exporter   export.Exporter
	ConfigRepo *ladderConfigRepository.LadderConfigRepository
	Logger     zerolog.Logger
}

// NewScenarioUseCase loads every instrument's histogram up front: histograms
// are fixed per session, so the engine always receives the same explicit
// table, never something re-fetched mid-flight.
func NewScenarioUseCase(opts ScenarioUseCaseOpts) (ScenarioUseCase, error) {
	histograms := make(map[string][]model.VolumeBucket, len(opts.Catalog.Instruments))
	for _, inst := range opts.Catalog.Instruments {
		var (
			buckets []model.VolumeBucket
			err     error
		)
		if inst.HistogramCSV == "" {
			buckets, err = opts.MarketData.DefaultHistogram()
		} else {
			buckets, err = opts.MarketData.LoadHistogram(inst.HistogramCSV)
		}
		if err != nil {
			return nil, fmt.Errorf("instrument %s: %w", inst.Symbol, err)
		}
		histograms[inst.Symbol] = buckets
	}

	return &scenarioUseCaseImpl{
		revenueEngine: opts.Engine,
		exporter:      opts.Exporter,
		catalog:       opts.Catalog,
		histograms:    histograms,
		configRepo:    opts.ConfigRepo,
		logger:        opts.Logger,
	}, nil
}

func (uc *scenarioUseCaseImpl) RegisterUpdateHandler(handler UpdateHandler) {
	uc.updateHandler = handler
}

func (uc *scenarioUseCaseImpl) Instruments(ctx context.Context) []config.Instrument {
	return uc.catalog.Instruments
}

func (uc *scenarioUseCaseImpl) instrument(symbol string) (config.Instrument, []model.VolumeBucket, error) {
	inst, ok := uc.catalog.Get(symbol)
	if !ok {
		return config.Instrument{}, nil, fmt.Errorf("unknown instrument %q", symbol)
	}
	return inst, uc.histograms[symbol], nil
}

func (uc *scenarioUseCaseImpl) Histogram(ctx context.Context, symbol string) ([]model.VolumeBucket, error) {
	_, buckets, err := uc.instrument(symbol)
	return buckets, err
}

func (uc *scenarioUseCaseImpl) DefaultLadder(ctx context.Context, symbol string) (model.Ladder, error) {
	inst, _, err := uc.instrument(symbol)
	if err != nil {
		return nil, err
	}
	return inst.DefaultLadder, nil
}

func (uc *scenarioUseCaseImpl) Validate(ctx context.Context, ladder model.Ladder) []string {
	return engine.ValidateLadder(ladder)
}

func (uc *scenarioUseCaseImpl) logSkipped(symbol string, skipped []model.SkippedBucket) {
	for _, s := range skipped {
		uc.logger.Warn().
			Str("instrument", symbol).
			Int("row", s.Index).
			Str("label", s.RangeLabel).
			Msg("skipping unparseable histogram row")
	}
}

func (uc *scenarioUseCaseImpl) Compute(ctx context.Context, symbol string, ladder model.Ladder) (*ComputeOutput, error) {
	inst, buckets, err := uc.instrument(symbol)
	if err != nil {
		return nil, err
	}

	result, err := uc.revenueEngine.Compute(ladder, buckets, inst.UnitNotional)
	if err != nil {
		return nil, err
	}
	uc.logSkipped(symbol, result.Skipped)

	return &ComputeOutput{
		Instrument:   symbol,
		Result:       result,
		Summary:      uc.revenueEngine.Aggregate(result.Results, ladder, inst.UnitNotional),
		UnitNotional: inst.UnitNotional,
	}, nil
}

func (uc *scenarioUseCaseImpl) Compare(ctx context.Context, symbol string, ladderA, ladderB model.Ladder) (*model.Comparison, error) {
	inst, buckets, err := uc.instrument(symbol)
	if err != nil {
		return nil, err
	}

	cmp, err := uc.revenueEngine.Compare(ladderA, ladderB, buckets, inst.UnitNotional)
	if err != nil {
		return nil, err
	}
	uc.logSkipped(symbol, cmp.Skipped)

	if uc.updateHandler != nil {
		uc.updateHandler(Update{
			Instrument:        symbol,
			TotalRevenueA:     cmp.TotalRevenueA,
			TotalRevenueB:     cmp.TotalRevenueB,
			TotalRevenueDelta: cmp.TotalRevenueDelta,
			Ts:                time.Now(),
		})
	}
	return cmp, nil
}

func (uc *scenarioUseCaseImpl) Export(ctx context.Context, symbol string, ladderA, ladderB model.Ladder) (*bytes.Buffer, error) {
	cmp, err := uc.Compare(ctx, symbol, ladderA, ladderB)
	if err != nil {
		return nil, err
	}
	return uc.exporter.WriteComparison(cmp)
}

func (uc *scenarioUseCaseImpl) SaveConfig(ctx context.Context, ownerID int64, name, symbol string, ladder model.Ladder) (int64, error) {
	if _, ok := uc.catalog.Get(symbol); !ok {
		return 0, fmt.Errorf("unknown instrument %q", symbol)
	}
	// Drafts may be saved mid-edit; validation only gates computation.
	return (*uc.configRepo).Save(ctx, ownerID, name, symbol, ladder)
}

func (uc *scenarioUseCaseImpl) ListConfigs(ctx context.Context, ownerID int64) ([]ladderConfigRepository.ConfigRecord, error) {
	return (*uc.configRepo).ListByOwner(ctx, ownerID)
}

func (uc *scenarioUseCaseImpl) GetConfig(ctx context.Context, id int64) (*ladderConfigRepository.ConfigRecord, error) {
	return (*uc.configRepo).GetByID(ctx, id)
}

func (uc *scenarioUseCaseImpl) DeleteConfig(ctx context.Context, id, ownerID int64) error {
	return (*uc.configRepo).Delete(ctx, id, ownerID)
}
