package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/conectar/admin-api/internal/api"
	"github.com/conectar/admin-api/internal/core/service"
	mongodb "github.com/conectar/admin-api/internal/infrastructure/db/mongo"
	redisdb "github.com/conectar/admin-api/internal/infrastructure/db/redis"
	"github.com/conectar/admin-api/internal/infrastructure/queue"
	"github.com/conectar/admin-api/internal/pkg/config"
	"github.com/conectar/admin-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title           Conectar Admin API
// @version         1.0
// @description     Administrative backend: accounts, JWT authentication, client (tenant) records and profile self-service.
//
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
// @description                Type "Bearer" followed by a space and the access token.
func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}()

	auditRepo := mongodb.NewAuditRepository(db)
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, auditRepo, logger.Component("audit"))
	dispatcher.Start(ctx)

	userRepo := mongodb.NewUserRepository(db)
	if err := service.EnsureDefaultAdmin(ctx, userRepo, logger.Component("seed")); err != nil {
		log.Fatal().Err(err).Msg("default admin seed failed")
	}

	e := api.NewRouter(db, rdb, cfg, dispatcher, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting http server")
		if err := e.Start(":" + cfg.Port); err != nil {
			log.Info().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
	}
}
