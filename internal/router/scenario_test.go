package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liqdesk/spread-revenue/internal/config"
	"github.com/liqdesk/spread-revenue/internal/engine"
	"github.com/liqdesk/spread-revenue/internal/export"
	"github.com/liqdesk/spread-revenue/internal/repository/marketdata"
	"github.com/liqdesk/spread-revenue/internal/router/middleware"
	"github.com/liqdesk/spread-revenue/internal/usecase/scenario"
)

func newTestServer(t *testing.T) (*http.ServeMux, string) {
	t.Helper()

	catalog, err := config.Load("")
	require.NoError(t, err)

	uc, err := scenario.NewScenarioUseCase(scenario.ScenarioUseCaseOpts{
		Catalog:    catalog,
		MarketData: marketdata.NewMarketDataRepository(),
		Engine:     engine.NewRevenueEngine(),
		Exporter:   export.NewExporter(),
		Logger:     zerolog.Nop(),
	})
	require.NoError(t, err)

	tokenMaker := middleware.NewJWTMaker("test-secret")
	mux := http.NewServeMux()
	BindRouter(BindRouterOpts{
		ServerRouter:    mux,
		ScenarioUseCase: &uc,
		TokenMaker:      tokenMaker,
		Logger:          zerolog.Nop(),
	})

	token, _, err := tokenMaker.CreateToken(1, "analyst", time.Hour)
	require.NoError(t, err)
	return mux, token
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestComputeEndpoint(t *testing.T) {
	mux, token := newTestServer(t)

	ladder := []map[string]any{
		{"levelId": 1, "size": 1, "spreadCost": 31},
		{"levelId": 2, "size": 6, "spreadCost": 42},
		{"levelId": 3, "size": 11, "spreadCost": 57},
	}
	rec := doJSON(t, mux, http.MethodPost, "/api/v1/scenario/compute", token, map[string]any{
		"instrument": "FUTURES",
		"ladder":     ladder,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var out scenario.ComputeOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "FUTURES", out.Instrument)
	assert.Equal(t, 500_000.0, out.UnitNotional)
	require.Len(t, out.Result.Results, 26)
	require.Len(t, out.Summary, 3)
	assert.Positive(t, out.Result.TotalRevenue)
}

func TestComputeEndpoint_InvalidLadderRejected(t *testing.T) {
	mux, token := newTestServer(t)

	rec := doJSON(t, mux, http.MethodPost, "/api/v1/scenario/compute", token, map[string]any{
		"instrument": "FUTURES",
		"ladder":     []map[string]any{{"levelId": 1, "size": 0, "spreadCost": 31}},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var out struct {
		Status string   `json:"status"`
		Errors []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "rejected", out.Status)
	assert.NotEmpty(t, out.Errors)
}

func TestCompareEndpoint_PerScenarioErrors(t *testing.T) {
	mux, token := newTestServer(t)

	// A is broken, B is fine: the response names A's errors and leaves B's
	// list empty rather than failing wholesale.
	rec := doJSON(t, mux, http.MethodPost, "/api/v1/scenario/compare", token, map[string]any{
		"instrument": "FUTURES",
		"ladderA":    []map[string]any{{"levelId": 1, "size": -1, "spreadCost": 31}},
		"ladderB":    []map[string]any{{"levelId": 1, "size": 5, "spreadCost": 10}},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var out struct {
		ScenarioAErrors []string `json:"scenarioAErrors"`
		ScenarioBErrors []string `json:"scenarioBErrors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.NotEmpty(t, out.ScenarioAErrors)
	assert.Empty(t, out.ScenarioBErrors)
}

func TestCompareEndpoint(t *testing.T) {
	mux, token := newTestServer(t)

	ladder := []map[string]any{{"levelId": 1, "size": 100, "spreadCost": 20}}
	rec := doJSON(t, mux, http.MethodPost, "/api/v1/scenario/compare", token, map[string]any{
		"instrument": "SPOT",
		"ladderA":    ladder,
		"ladderB":    []map[string]any{{"levelId": 1, "size": 100, "spreadCost": 40}},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		TotalRevenueA     float64 `json:"totalRevenueA"`
		TotalRevenueB     float64 `json:"totalRevenueB"`
		TotalRevenueDelta float64 `json:"totalRevenueDelta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.InDelta(t, out.TotalRevenueB-out.TotalRevenueA, out.TotalRevenueDelta, 0.01)
	assert.Greater(t, out.TotalRevenueB, out.TotalRevenueA)
}

func TestScenarioEndpoints_RequireAuth(t *testing.T) {
	mux, _ := newTestServer(t)
	rec := doJSON(t, mux, http.MethodGet, "/api/v1/instrument", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestExportEndpoint(t *testing.T) {
	mux, token := newTestServer(t)

	ladder := []map[string]any{{"levelId": 1, "size": 30, "spreadCost": 25}}
	rec := doJSON(t, mux, http.MethodPost, "/api/v1/scenario/export", token, map[string]any{
		"instrument": "FUTURES",
		"ladderA":    ladder,
		"ladderB":    ladder,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "FUTURES")
	assert.NotZero(t, rec.Body.Len())
}

func TestDefaultLadderEndpoint(t *testing.T) {
	mux, token := newTestServer(t)

	rec := doJSON(t, mux, http.MethodGet, "/api/v1/instrument/FUTURES/ladder", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Ladder []struct {
			LevelID int     `json:"levelId"`
			Size    float64 `json:"size"`
		} `json:"ladder"`
		TotalDepth float64 `json:"totalDepth"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Ladder, 7)
	assert.Equal(t, 90.0, out.TotalDepth)
}

func TestHistogramEndpoint(t *testing.T) {
	mux, token := newTestServer(t)

	rec := doJSON(t, mux, http.MethodGet, "/api/v1/instrument/FUTURES/histogram", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var buckets []struct {
		RangeLabel   string  `json:"rangeLabel"`
		FilledVolume float64 `json:"filledVolume"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &buckets))
	require.Len(t, buckets, 26)
	assert.Equal(t, "(0, 1]", buckets[0].RangeLabel)

	rec = doJSON(t, mux, http.MethodGet, "/api/v1/instrument/NOPE/histogram", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
