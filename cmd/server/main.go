package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/coveradmin/insurance-portal/internal/api"
	"github.com/coveradmin/insurance-portal/internal/core/ports"
	"github.com/coveradmin/insurance-portal/internal/core/service"
	"github.com/coveradmin/insurance-portal/internal/infrastructure/credentials"
	mongodb "github.com/coveradmin/insurance-portal/internal/infrastructure/db/mongo"
	redisdb "github.com/coveradmin/insurance-portal/internal/infrastructure/db/redis"
	"github.com/coveradmin/insurance-portal/internal/infrastructure/queue"
	"github.com/coveradmin/insurance-portal/internal/pkg/config"
	"github.com/coveradmin/insurance-portal/pkg/logger"
)

// @title        Insurance Portal Auth API
// @version      1.0
// @description  Authentication and session-lifecycle service for the insurance portal.
// @BasePath     /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// --- Redis: token blacklist ---
	var blacklist *redisdb.TokenBlacklist
	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, token blacklist disabled")
		rdb = nil
	} else {
		blacklist = redisdb.NewTokenBlacklist(rdb)
	}

	// --- Mongo: only when a configured component needs it ---
	var db *mongo.Database
	if cfg.CredentialSource == "mongo" || cfg.AuditSink == "mongo" {
		client, database, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("mongo connection failed")
		}
		defer func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(disconnectCtx)
		}()
		db = database
	}

	// --- Credential source (pluggable, selected by configuration) ---
	var source ports.CredentialSource
	switch cfg.CredentialSource {
	case "mongo":
		source = mongodb.NewCredentialRepository(db)
	default:
		source, err = credentials.NewDemoSource()
		if err != nil {
			log.Fatal().Err(err).Msg("demo credential source failed")
		}
		log.Info().Msg("using demo credential source")
	}

	// --- Audit trail ---
	var sink ports.AuditSink
	if cfg.AuditSink == "mongo" {
		sink = mongodb.NewAuditRepository(db)
	} else {
		sink = service.NewLogSink(log)
	}
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, service.NewAuditService(sink, log), log)
	dispatcher.Start(ctx)

	e := api.NewRouter(ctx, cfg, api.Dependencies{
		Log:         log,
		Credentials: source,
		Blacklist:   blacklist,
		Audit:       dispatcher,
		Mongo:       db,
		Redis:       rdb,
	})

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting insurance portal auth service")
	if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
