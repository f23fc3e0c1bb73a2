package scenario

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liqdesk/spread-revenue/internal/config"
	"github.com/liqdesk/spread-revenue/internal/engine"
	"github.com/liqdesk/spread-revenue/internal/export"
	"github.com/liqdesk/spread-revenue/internal/repository/marketdata"
	"github.com/liqdesk/spread-revenue/pkg/model"
)

func newUseCase(t *testing.T) ScenarioUseCase {
	t.Helper()
	catalog, err := config.Load("")
	require.NoError(t, err)

	uc, err := NewScenarioUseCase(ScenarioUseCaseOpts{
		Catalog:    catalog,
		MarketData: marketdata.NewMarketDataRepository(),
		Engine:     engine.NewRevenueEngine(),
		Exporter:   export.NewExporter(),
		Logger:     zerolog.Nop(),
	})
	require.NoError(t, err)
	return uc
}

func TestCompute_UsesInstrumentNotional(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()

	ladder, err := uc.DefaultLadder(ctx, "FUTURES")
	require.NoError(t, err)

	fut, err := uc.Compute(ctx, "FUTURES", ladder)
	require.NoError(t, err)
	spot, err := uc.Compute(ctx, "SPOT", ladder)
	require.NoError(t, err)

	assert.Equal(t, 500_000.0, fut.UnitNotional)
	assert.Equal(t, 400_000.0, spot.UnitNotional)
	// Same ladder, same histogram: revenue matches, turnover scales with
	// the per-lot notional.
	assert.Equal(t, fut.Result.TotalRevenue, spot.Result.TotalRevenue)
	assert.Greater(t, fut.Result.Results[0].Turnover, spot.Result.Results[0].Turnover)
}

func TestCompute_UnknownInstrument(t *testing.T) {
	uc := newUseCase(t)
	_, err := uc.Compute(context.Background(), "NOPE", model.Ladder{
		{LevelID: 1, Size: 1, SpreadCost: 1},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown instrument")
}

func TestCompare_FiresUpdateHandler(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()

	var got *Update
	uc.RegisterUpdateHandler(func(u Update) { got = &u })

	ladder, err := uc.DefaultLadder(ctx, "FUTURES")
	require.NoError(t, err)

	cmp, err := uc.Compare(ctx, "FUTURES", ladder, ladder)
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, "FUTURES", got.Instrument)
	assert.Equal(t, cmp.TotalRevenueA, got.TotalRevenueA)
	assert.Equal(t, cmp.TotalRevenueDelta, got.TotalRevenueDelta)
	assert.Zero(t, got.TotalRevenueDelta)
	assert.False(t, got.Ts.IsZero())
}

func TestExport_ProducesWorkbook(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()

	ladder, err := uc.DefaultLadder(ctx, "SPOT")
	require.NoError(t, err)

	buf, err := uc.Export(ctx, "SPOT", ladder, ladder)
	require.NoError(t, err)
	assert.NotZero(t, buf.Len())
}
