package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"campus_life/internal/adapters/observability"
	redisad "campus_life/internal/adapters/redis"
	"campus_life/internal/adapters/supabase"
	"campus_life/internal/app"
	"campus_life/internal/shared"
	mysqlrepo "campus_life/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cfg := shared.Load()

	// Logs go to stderr; JSON outside dev.
	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("base", cfg.SupabaseURL).
		Int("workers", cfg.Workers).
		Msg("ingestor starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	client, err := supabase.New(cfg.SupabaseURL, cfg.SupabaseKey, cfg.GatewayRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Supabase client")
	}
	rdb := redisad.Connect(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer rdb.Close()

	ing := app.NewIngestionService(app.NewRemoteGateway(client), mysqlrepo.New(db), redisad.New(rdb))
	failed, err := ing.IngestAll(ctx, cfg.Workers)
	if err != nil {
		log.Error().Err(err).Msg("ingestion aborted")
		os.Exit(1)
	}
	if failed > 0 {
		log.Warn().Int("failed", failed).Msg("ingestion completed with failures")
		os.Exit(1)
	}
	log.Info().Msg("ingestion completed")
}
