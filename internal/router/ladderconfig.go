package router

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/liqdesk/spread-revenue/internal/router/middleware"
	"github.com/liqdesk/spread-revenue/internal/usecase/scenario"
	"github.com/liqdesk/spread-revenue/pkg/model"
)

type LadderConfigRouter interface {
	Save(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type ladderConfigRouterImpl struct {
	usecase *scenario.ScenarioUseCase
}

func NewLadderConfigRouter(usecase *scenario.ScenarioUseCase) LadderConfigRouter {
	return &ladderConfigRouterImpl{usecase: usecase}
}

func claimsFrom(r *http.Request) *middleware.UserClaims {
	return r.Context().Value(middleware.AuthKey{}).(*middleware.UserClaims)
}

func (cr *ladderConfigRouterImpl) Save(w http.ResponseWriter, r *http.Request) {
	type SaveRequest struct {
		Name       string       `json:"name"`
		Instrument string       `json:"instrument"`
		Ladder     model.Ladder `json:"ladder"`
	}
	type SaveResponse struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	req, err := decodeJSON[SaveRequest](w, r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err)
		return
	}
	if req.Name == "" {
		writeJSONError(w, http.StatusBadRequest, errors.New("name is required"))
		return
	}

	claims := claimsFrom(r)
	uc := *cr.usecase
	id, err := uc.SaveConfig(r.Context(), claims.UserId, req.Name, req.Instrument, req.Ladder)
	if err != nil {
		writeJSONError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, SaveResponse{ID: id, Status: "saved"})
}

func (cr *ladderConfigRouterImpl) List(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	uc := *cr.usecase
	recs, err := uc.ListConfigs(r.Context(), claims.UserId)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (cr *ladderConfigRouterImpl) Get(w http.ResponseWriter, r *http.Request) {
	type GetResponse struct {
		ID         int64        `json:"id"`
		Name       string       `json:"name"`
		Instrument string       `json:"instrument"`
		Ladder     model.Ladder `json:"ladder"`
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, errors.New("invalid config id"))
		return
	}

	uc := *cr.usecase
	rec, err := uc.GetConfig(r.Context(), id)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, err)
		return
	}
	if rec.OwnerID != claimsFrom(r).UserId {
		writeJSONError(w, http.StatusForbidden, errors.New("not your config"))
		return
	}
	ladder, err := rec.Ladder()
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, GetResponse{
		ID:         rec.ID,
		Name:       rec.Name,
		Instrument: rec.Instrument,
		Ladder:     ladder,
	})
}

func (cr *ladderConfigRouterImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, errors.New("invalid config id"))
		return
	}

	uc := *cr.usecase
	if err := uc.DeleteConfig(r.Context(), id, claimsFrom(r).UserId); err != nil {
		writeJSONError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
