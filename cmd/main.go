package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/liqdesk/spread-revenue/internal/config"
	"github.com/liqdesk/spread-revenue/internal/engine"
	"github.com/liqdesk/spread-revenue/internal/export"
	ladderConfigRepository "github.com/liqdesk/spread-revenue/internal/repository/ladderconfig"
	"github.com/liqdesk/spread-revenue/internal/repository/marketdata"
	userRepository "github.com/liqdesk/spread-revenue/internal/repository/user"
	"github.com/liqdesk/spread-revenue/internal/router"
	"github.com/liqdesk/spread-revenue/internal/router/middleware"
	"github.com/liqdesk/spread-revenue/internal/usecase/scenario"
	"github.com/liqdesk/spread-revenue/internal/usecase/user"
	"github.com/liqdesk/spread-revenue/internal/websocket"

	_ "github.com/lib/pq"
)

func mapToWsUpdate(u scenario.Update) websocket.ScenarioUpdate {
	return websocket.ScenarioUpdate{
		Instrument:        u.Instrument,
		TotalRevenueA:     u.TotalRevenueA,
		TotalRevenueB:     u.TotalRevenueB,
		TotalRevenueDelta: u.TotalRevenueDelta,
		Ts:                u.Ts.UnixMilli(),
	}
}

func main() {
	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	//load environment variable
	if err := godotenv.Load(); err != nil {
		logger.Fatal().Msg("Error loading .env file")
	}

	catalog, err := config.Load(os.Getenv("INSTRUMENTS_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("loading instrument catalog")
	}

	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASSWORD")
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbName := os.Getenv("DB_NAME")
	jwtSecret := os.Getenv("JWT_SECRET")

	// construct DSN
	pgInfo := fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=disable",
		dbUser, dbPass, dbHost, dbPort, dbName,
	)
	db, err := sqlx.Connect("postgres", pgInfo)
	if err != nil {
		logger.Fatal().Err(err).Msg("error connecting postgres")
	}

	hub := websocket.NewHub(logger)
	go hub.Run(rootCtx)

	serveMux := http.NewServeMux()

	//start ws on servemux
	serveMux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		websocket.ServeWS(hub, w, r)
	})

	userRepo := userRepository.NewUserRepository(db)
	configRepo := ladderConfigRepository.NewLadderConfigRepository(db)

	scenarioUseCase, err := scenario.NewScenarioUseCase(scenario.ScenarioUseCaseOpts{
		Catalog:    catalog,
		MarketData: marketdata.NewMarketDataRepository(),
		Engine:     engine.NewRevenueEngine(),
		Exporter:   export.NewExporter(),
		ConfigRepo: &configRepo,
		Logger:     logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("loading market data")
	}
	userUseCase := user.NewUserUseCase(user.UserUseCaseOpts{UserRepo: &userRepo})

	tokenMaker := middleware.NewJWTMaker(jwtSecret)
	//bind router
	router.BindRouter(router.BindRouterOpts{
		ServerRouter:    serveMux,
		ScenarioUseCase: &scenarioUseCase,
		UserUseCase:     &userUseCase,
		TokenMaker:      tokenMaker,
		Logger:          logger,
	})
	logger.Info().Msg("finished binding router")

	scenarioUseCase.RegisterUpdateHandler(func(u scenario.Update) {
		hub.PublishUpdate(mapToWsUpdate(u))
	})

	corsServerMux := router.Cors(serveMux)
	server := http.Server{
		Addr:    ":8080",
		Handler: corsServerMux,
	}

	// Start server in background.
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("listen error")
		}
	}()

	// Block until we get a signal (or parent context canceled).
	<-rootCtx.Done()
	logger.Info().Msg("shutdown signal received")

	// Give in-flight requests up to 10s to finish.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		// If graceful shutdown times out, force close.
		logger.Warn().Err(err).Msg("graceful shutdown failed; forcing close")
		_ = server.Close()
	}

	logger.Info().Msg("server stopped")
}
