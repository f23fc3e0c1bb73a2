package router

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/liqdesk/spread-revenue/internal/router/middleware"
	"github.com/liqdesk/spread-revenue/internal/usecase/scenario"
	"github.com/liqdesk/spread-revenue/internal/usecase/user"
)

type statusWriter struct {
	http.ResponseWriter
	status int
	n      int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.n += n
	return n, err
}

func requestLogging(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(sw, r)
			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", sw.status).
				Int("bytes", sw.n).
				Dur("elapsed", time.Since(start)).
				Msg("request")
		})
	}
}

// Cors wraps the mux when starting the server:
// http.ListenAndServe(":8080", Cors(mux))
func Cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")

			reqHdrs := r.Header.Get("Access-Control-Request-Headers")
			if reqHdrs == "" {
				reqHdrs = "Content-Type, Authorization"
			}
			w.Header().Set("Access-Control-Allow-Headers", reqHdrs)

			reqMethod := r.Header.Get("Access-Control-Request-Method")
			if reqMethod == "" {
				reqMethod = "GET, POST, PUT, DELETE, OPTIONS"
			}
			w.Header().Set("Access-Control-Allow-Methods", reqMethod)

			// Cache preflight for a day
			w.Header().Set("Access-Control-Max-Age", "86400")
		}

		// Short-circuit preflight so it never hits the route table
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func bindScenario(mux *http.ServeMux, uc *scenario.ScenarioUseCase, tokenMaker *middleware.JWTMaker, logging func(http.Handler) http.Handler) {
	auth := middleware.AuthMiddleware(tokenMaker)
	sr := NewScenarioRouter(uc)
	mux.Handle("GET /api/v1/instrument", logging(auth(http.HandlerFunc(sr.Instruments))))
	mux.Handle("GET /api/v1/instrument/{symbol}/histogram", logging(auth(http.HandlerFunc(sr.Histogram))))
	mux.Handle("GET /api/v1/instrument/{symbol}/ladder", logging(auth(http.HandlerFunc(sr.DefaultLadder))))
	mux.Handle("POST /api/v1/scenario/validate", logging(auth(http.HandlerFunc(sr.Validate))))
	mux.Handle("POST /api/v1/scenario/compute", logging(auth(http.HandlerFunc(sr.Compute))))
	mux.Handle("POST /api/v1/scenario/compare", logging(auth(http.HandlerFunc(sr.Compare))))
	mux.Handle("POST /api/v1/scenario/export", logging(auth(http.HandlerFunc(sr.Export))))
}

func bindLadderConfig(mux *http.ServeMux, uc *scenario.ScenarioUseCase, tokenMaker *middleware.JWTMaker, logging func(http.Handler) http.Handler) {
	auth := middleware.AuthMiddleware(tokenMaker)
	cr := NewLadderConfigRouter(uc)
	mux.Handle("POST /api/v1/ladder-config", logging(auth(http.HandlerFunc(cr.Save))))
	mux.Handle("GET /api/v1/ladder-config", logging(auth(http.HandlerFunc(cr.List))))
	mux.Handle("GET /api/v1/ladder-config/{id}", logging(auth(http.HandlerFunc(cr.Get))))
	mux.Handle("DELETE /api/v1/ladder-config/{id}", logging(auth(http.HandlerFunc(cr.Delete))))
}

func bindUser(mux *http.ServeMux, tokenMaker *middleware.JWTMaker, userUseCase *user.UserUseCase, logging func(http.Handler) http.Handler) {
	auth := middleware.AuthMiddleware(tokenMaker)
	ur := NewUserRouter(userUseCase, tokenMaker)
	mux.Handle("GET /api/v1/user/", logging(auth(http.HandlerFunc(ur.GetUser))))
	mux.Handle("POST /api/v1/user/register", logging(http.HandlerFunc(ur.RegisterUser)))
	mux.Handle("POST /api/v1/user/login", logging(http.HandlerFunc(ur.LoginUser)))
}

type BindRouterOpts struct {
	ServerRouter    *http.ServeMux
	ScenarioUseCase *scenario.ScenarioUseCase
	UserUseCase     *user.UserUseCase
	TokenMaker      *middleware.JWTMaker
	Logger          zerolog.Logger
}

func BindRouter(opts BindRouterOpts) {
	logging := requestLogging(opts.Logger)
	bindScenario(opts.ServerRouter, opts.ScenarioUseCase, opts.TokenMaker, logging)
	bindLadderConfig(opts.ServerRouter, opts.ScenarioUseCase, opts.TokenMaker, logging)
	bindUser(opts.ServerRouter, opts.TokenMaker, opts.UserUseCase, logging)

	//healthcheck
	opts.ServerRouter.Handle("GET /healthz", logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": 200,
			"health": "healthy",
		})
	})))
}
