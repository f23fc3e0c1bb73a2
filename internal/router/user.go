package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/liqdesk/spread-revenue/internal/router/middleware"
	"github.com/liqdesk/spread-revenue/internal/usecase/user"
)

type UserRouter interface {
	GetUser(w http.ResponseWriter, r *http.Request)
	RegisterUser(w http.ResponseWriter, r *http.Request)
	LoginUser(w http.ResponseWriter, r *http.Request)
}

type userRouterImpl struct {
	usecase    *user.UserUseCase
	tokenMaker *middleware.JWTMaker
}

func NewUserRouter(usecase *user.UserUseCase, tokenMaker *middleware.JWTMaker) UserRouter {
	return &userRouterImpl{
		usecase:    usecase,
		tokenMaker: tokenMaker,
	}
}

func (ur *userRouterImpl) GetUser(w http.ResponseWriter, r *http.Request) {
	type UserResponse struct {
		Id        string    `json:"id"`
		CreatedAt time.Time `json:"created_at"`
		Username  string    `json:"username"`
	}
	claims := r.Context().Value(middleware.AuthKey{}).(*middleware.UserClaims)

	u, err := (*ur.usecase).GetProfile(r.Context(), claims.UserId)
	if err != nil || u == nil {
		writeJSONError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, UserResponse{
		Id:        fmt.Sprintf("%d", u.ID),
		CreatedAt: u.CreatedAt,
		Username:  u.Username,
	})
}

func (ur *userRouterImpl) RegisterUser(w http.ResponseWriter, r *http.Request) {
	type RegisterRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	type UserResponse struct {
		Id       string `json:"id"`
		Username string `json:"username"`
	}
	req, err := decodeJSON[RegisterRequest](w, r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err)
		return
	}

	userId, err := (*ur.usecase).Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, UserResponse{
		Id:       fmt.Sprintf("%d", userId),
		Username: req.Username,
	})
}

func (ur *userRouterImpl) LoginUser(w http.ResponseWriter, r *http.Request) {
	type LoginReq struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	type LoginRes struct {
		Token     string    `json:"token"`
		Id        string    `json:"id"`
		Username  string    `json:"username"`
		ExpiresAt time.Time `json:"expires_at"`
	}
	req, err := decodeJSON[LoginReq](w, r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err)
		return
	}

	u, err := (*ur.usecase).Login(r.Context(), req.Username, req.Password)
	if err != nil || u == nil {
		writeJSONError(w, http.StatusUnauthorized, err)
		return
	}

	token, claims, err := ur.tokenMaker.CreateToken(u.ID, req.Username, 24*time.Hour)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, LoginRes{
		Token:     token,
		Id:        claims.ID,
		Username:  u.Username,
		ExpiresAt: claims.ExpiresAt.Time,
	})
}
