// @title        Affirmation API
// @version      1.0
// @description  Fetches affirmations from an upstream API, keeps them in memory, and manages user accounts.
// @BasePath     /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/affirmly/affirmation-api/internal/api"
	"github.com/affirmly/affirmation-api/internal/api/handler"
	"github.com/affirmly/affirmation-api/internal/core/service"
	mongodb "github.com/affirmly/affirmation-api/internal/infrastructure/db/mongo"
	redisdb "github.com/affirmly/affirmation-api/internal/infrastructure/db/redis"
	"github.com/affirmly/affirmation-api/internal/infrastructure/upstream"
	"github.com/affirmly/affirmation-api/internal/pkg/config"
	"github.com/affirmly/affirmation-api/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "affirmation-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect")
		}
	}()

	users := mongodb.NewUserRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create user indexes")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	source := upstream.NewClient(upstream.Config{
		URL:       cfg.Upstream.URL,
		Timeout:   cfg.Upstream.Timeout,
		UserAgent: cfg.Upstream.UserAgent,
	})
	cache := service.NewAffirmationCache(source, cfg.Cache.Capacity, log)

	accounts := service.NewAuthService(
		users,
		redisdb.NewUserIDSequence(rdb),
		redisdb.NewLoginLimiter(rdb, cfg.Auth.MaxLoginAttempts, cfg.Auth.LockoutWindow),
		cfg.Auth.JWTSecret,
		cfg.Auth.TokenTTL,
		log,
	)

	e := api.NewRouter(api.Dependencies{
		Log:       log,
		Cache:     cache,
		Accounts:  accounts,
		JWTSecret: cfg.Auth.JWTSecret,
		Checks: []handler.DependencyCheck{
			handler.MongoCheck(db),
			handler.UsersCollectionCheck(db),
			handler.RedisCheck(rdb),
		},
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped unexpectedly")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
