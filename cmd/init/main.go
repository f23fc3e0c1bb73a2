package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/liqdesk/spread-revenue/internal/config"
	ladderConfigRepository "github.com/liqdesk/spread-revenue/internal/repository/ladderconfig"
	userRepository "github.com/liqdesk/spread-revenue/internal/repository/user"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            BIGSERIAL PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS ladder_configs (
    id         BIGSERIAL PRIMARY KEY,
    owner_id   BIGINT NOT NULL REFERENCES users(id),
    name       TEXT NOT NULL,
    instrument TEXT NOT NULL,
    levels     JSONB NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// One-shot setup: creates the schema and seeds an analyst account holding a
// default draft per instrument, so a fresh deployment is usable immediately.
func main() {
	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

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

	pgInfo := fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=disable",
		dbUser, dbPass, dbHost, dbPort, dbName,
	)
	db, err := sqlx.Connect("postgres", pgInfo)
	if err != nil {
		logger.Fatal().Err(err).Msg("error connecting postgres")
	}

	if _, err := db.ExecContext(rootCtx, schema); err != nil {
		logger.Fatal().Err(err).Msg("creating schema")
	}
	logger.Info().Msg("schema ready")

	username := os.Getenv("SEED_USERNAME")
	if username == "" {
		username = "analyst"
	}
	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		logger.Fatal().Msg("SEED_PASSWORD is required")
	}

	userRepo := userRepository.NewUserRepository(db)
	ownerID := int64(0)
	if existing, err := userRepo.GetByUsername(rootCtx, username); err == nil {
		ownerID = existing.ID
		logger.Info().Str("username", username).Msg("seed user already exists")
	} else {
		ownerID, err = userRepo.Create(rootCtx, username, password)
		if err != nil {
			logger.Fatal().Err(err).Msg("creating seed user")
		}
		logger.Info().Str("username", username).Int64("id", ownerID).Msg("seed user created")
	}

	configRepo := ladderConfigRepository.NewLadderConfigRepository(db)
	for _, inst := range catalog.Instruments {
		id, err := configRepo.Save(rootCtx, ownerID, "default", inst.Symbol, inst.DefaultLadder)
		if err != nil {
			logger.Fatal().Err(err).Str("instrument", inst.Symbol).Msg("seeding default draft")
		}
		logger.Info().Str("instrument", inst.Symbol).Int64("id", id).Msg("default draft seeded")
	}
}
