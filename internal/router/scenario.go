package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/liqdesk/spread-revenue/internal/usecase/scenario"
	"github.com/liqdesk/spread-revenue/pkg/model"
)

type ScenarioRouter interface {
	Instruments(w http.ResponseWriter, r *http.Request)
	Histogram(w http.ResponseWriter, r *http.Request)
	DefaultLadder(w http.ResponseWriter, r *http.Request)
	Validate(w http.ResponseWriter, r *http.Request)
	Compute(w http.ResponseWriter, r *http.Request)
	Compare(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
}

type scenarioRouterImpl struct {
	usecase *scenario.ScenarioUseCase
}

func NewScenarioRouter(usecase *scenario.ScenarioUseCase) ScenarioRouter {
	return &scenarioRouterImpl{usecase: usecase}
}

func (sr *scenarioRouterImpl) Instruments(w http.ResponseWriter, r *http.Request) {
	uc := *sr.usecase
	writeJSON(w, http.StatusOK, uc.Instruments(r.Context()))
}

func (sr *scenarioRouterImpl) Histogram(w http.ResponseWriter, r *http.Request) {
	uc := *sr.usecase
	buckets, err := uc.Histogram(r.Context(), r.PathValue("symbol"))
	if err != nil {
		writeJSONError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, buckets)
}

func (sr *scenarioRouterImpl) DefaultLadder(w http.ResponseWriter, r *http.Request) {
	uc := *sr.usecase
	ladder, err := uc.DefaultLadder(r.Context(), r.PathValue("symbol"))
	if err != nil {
		writeJSONError(w, http.StatusNotFound, err)
		return
	}
	type DefaultLadderResponse struct {
		Ladder     model.Ladder `json:"ladder"`
		TotalDepth float64      `json:"totalDepth"`
	}
	writeJSON(w, http.StatusOK, DefaultLadderResponse{
		Ladder:     ladder,
		TotalDepth: ladder.TotalDepth(),
	})
}

func (sr *scenarioRouterImpl) Validate(w http.ResponseWriter, r *http.Request) {
	type ValidateRequest struct {
		Ladder model.Ladder `json:"ladder"`
	}
	type ValidateResponse struct {
		Valid  bool     `json:"valid"`
		Errors []string `json:"errors,omitempty"`
	}
	req, err := decodeJSON[ValidateRequest](w, r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err)
		return
	}

	uc := *sr.usecase
	errs := uc.Validate(r.Context(), req.Ladder)
	writeJSON(w, http.StatusOK, ValidateResponse{Valid: len(errs) == 0, Errors: errs})
}

func (sr *scenarioRouterImpl) Compute(w http.ResponseWriter, r *http.Request) {
	type ComputeRequest struct {
		Instrument string       `json:"instrument"`
		Ladder     model.Ladder `json:"ladder"`
	}
	req, err := decodeJSON[ComputeRequest](w, r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err)
		return
	}

	uc := *sr.usecase
	// Structural ladder errors block this scenario with the full
	// description list; the analyst fixes the sheet and retries.
	if errs := uc.Validate(r.Context(), req.Ladder); len(errs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"status": "rejected",
			"errors": errs,
		})
		return
	}

	out, err := uc.Compute(r.Context(), req.Instrument, req.Ladder)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// compareRequest is shared by Compare and Export.
type compareRequest struct {
	Instrument string       `json:"instrument"`
	LadderA    model.Ladder `json:"ladderA"`
	LadderB    model.Ladder `json:"ladderB"`
}

// validateScenarios checks both ladders and reports each scenario's errors
// separately, so a broken A never hides B's problems (or results).
func (sr *scenarioRouterImpl) validateScenarios(w http.ResponseWriter, r *http.Request, req compareRequest) bool {
	uc := *sr.usecase
	errsA := uc.Validate(r.Context(), req.LadderA)
	errsB := uc.Validate(r.Context(), req.LadderB)
	if len(errsA) == 0 && len(errsB) == 0 {
		return true
	}
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"status":          "rejected",
		"scenarioAErrors": errsA,
		"scenarioBErrors": errsB,
	})
	return false
}

func (sr *scenarioRouterImpl) Compare(w http.ResponseWriter, r *http.Request) {
	req, err := decodeJSON[compareRequest](w, r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err)
		return
	}
	if !sr.validateScenarios(w, r, req) {
		return
	}

	uc := *sr.usecase
	cmp, err := uc.Compare(r.Context(), req.Instrument, req.LadderA, req.LadderB)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, cmp)
}

func (sr *scenarioRouterImpl) Export(w http.ResponseWriter, r *http.Request) {
	req, err := decodeJSON[compareRequest](w, r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err)
		return
	}
	if req.Instrument == "" {
		writeJSONError(w, http.StatusBadRequest, errors.New("instrument is required"))
		return
	}
	if !sr.validateScenarios(w, r, req) {
		return
	}

	uc := *sr.usecase
	buf, err := uc.Export(r.Context(), req.Instrument, req.LadderA, req.LadderB)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="spread_revenue_%s.xlsx"`, req.Instrument))
	_, _ = w.Write(buf.Bytes())
}
