package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog"

	"github.com/liqdesk/spread-revenue/internal/config"
	"github.com/liqdesk/spread-revenue/internal/engine"
	"github.com/liqdesk/spread-revenue/internal/export"
	"github.com/liqdesk/spread-revenue/internal/repository/marketdata"
)

// Offline one-shot: compare two ladder files against an instrument's
// histogram and write the 4-sheet workbook, no server or database needed.
//
//	report -instrument FUTURES -ladder-a a.csv -ladder-b b.csv -out out.xlsx
func main() {
	var (
		catalogPath = flag.String("config", "", "instrument catalog YAML (empty = built-in)")
		instrument  = flag.String("instrument", "FUTURES", "instrument symbol from the catalog")
		ladderAPath = flag.String("ladder-a", "", "scenario A ladder CSV (empty = instrument default)")
		ladderBPath = flag.String("ladder-b", "", "scenario B ladder CSV")
		outPath     = flag.String("out", "spread_revenue.xlsx", "output workbook path")
	)
	flag.Parse()

	logger := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()

	catalog, err := config.Load(*catalogPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("loading instrument catalog")
	}
	inst, ok := catalog.Get(*instrument)
	if !ok {
		logger.Fatal().Str("instrument", *instrument).Msg("unknown instrument")
	}

	repo := marketdata.NewMarketDataRepository()

	histogram, err := repo.DefaultHistogram()
	if inst.HistogramCSV != "" {
		histogram, err = repo.LoadHistogram(inst.HistogramCSV)
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("loading histogram")
	}

	ladderA := inst.DefaultLadder
	if *ladderAPath != "" {
		if ladderA, err = repo.LoadLadder(*ladderAPath); err != nil {
			logger.Fatal().Err(err).Msg("loading ladder A")
		}
	}
	if *ladderBPath == "" {
		logger.Fatal().Msg("-ladder-b is required")
	}
	ladderB, err := repo.LoadLadder(*ladderBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("loading ladder B")
	}

	eng := engine.NewRevenueEngine()
	cmp, err := eng.Compare(ladderA, ladderB, histogram, inst.UnitNotional)
	if err != nil {
		logger.Fatal().Err(err).Msg("comparison failed")
	}
	for _, s := range cmp.Skipped {
		logger.Warn().Int("row", s.Index).Str("label", s.RangeLabel).Msg("skipped unparseable histogram row")
	}

	buf, err := export.NewExporter().WriteComparison(cmp)
	if err != nil {
		logger.Fatal().Err(err).Msg("writing workbook")
	}
	if err := os.WriteFile(*outPath, buf.Bytes(), 0o644); err != nil {
		logger.Fatal().Err(err).Msg("saving workbook")
	}

	logger.Info().
		Str("out", *outPath).
		Float64("totalRevenueA", cmp.TotalRevenueA).
		Float64("totalRevenueB", cmp.TotalRevenueB).
		Float64("delta", cmp.TotalRevenueDelta).
		Msg("report written")
}
