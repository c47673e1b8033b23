package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "campus_life/internal/adapters/http_server"
	"campus_life/internal/adapters/observability"
	redisad "campus_life/internal/adapters/redis"
	"campus_life/internal/adapters/supabase"
	"campus_life/internal/app"
	"campus_life/internal/domain"
	"campus_life/internal/shared"
	mysqlrepo "campus_life/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// Console output in dev, JSON lines elsewhere.
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	client, err := supabase.New(cfg.SupabaseURL, cfg.SupabaseKey, cfg.GatewayRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Supabase client")
	}

	// directory source: live Supabase or the ingested MySQL mirror
	var source domain.Gateway = app.NewRemoteGateway(client)
	if cfg.DirectorySource == shared.SourceMySQL {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		source = mysqlrepo.New(db)
	}

	rdb := redisad.Connect(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer rdb.Close()

	gw := app.NewCachedGateway(source, redisad.New(rdb), cfg.CacheTTL)
	sessions := app.NewSessions(gw, redisad.NewCampusStore(rdb, cfg.SessionTTL), cfg.SessionTTL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sessions.RunSweeper(ctx, time.Minute)

	// http
	srv := server.New(cfg.RateLimitPerMin)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Sessions:  sessions,
		Campuses:  app.NewCampusService(gw),
		Auth:      app.NewAuthService(client, sessions),
		JWTSecret: cfg.SupabaseJWTSecret,
	})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("source", cfg.DirectorySource).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server failed")
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
	}
	cancel()
	log.Info().Msg("API stopped")
}
