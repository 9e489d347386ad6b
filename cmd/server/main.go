package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/authkit/identity-api/internal/api"
	"github.com/authkit/identity-api/internal/core/service"
	"github.com/authkit/identity-api/internal/infrastructure/config"
	mongodb "github.com/authkit/identity-api/internal/infrastructure/db/mongo"
	redisdb "github.com/authkit/identity-api/internal/infrastructure/db/redis"
	"github.com/authkit/identity-api/internal/infrastructure/queue"
	"github.com/authkit/identity-api/internal/pkg/hash"
	"github.com/authkit/identity-api/internal/pkg/token"
	"github.com/authkit/identity-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title Identity API
// @version 1.0
// @description Identity and access-control service: authentication, token issuance, and role/ownership based authorization.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{})
		bootLog.Fatal().Err(err).Msg("loading configuration")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to mongodb")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("disconnecting mongodb")
		}
	}()

	redisClient, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to redis")
	}
	defer redisClient.Close()

	userRepo := mongodb.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("ensuring user indexes")
	}
	auditRepo := mongodb.NewAuditRepository(db)
	if err := auditRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("ensuring audit indexes")
	}

	issuer, err := token.NewIssuer(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("configuring token issuer")
	}
	hasher := hash.NewBcrypt(cfg.BcryptCost)

	auditService := service.NewAuditService(auditRepo, log)
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, auditService, log)
	// Audit processing must outlive the signal context so events recorded
	// while the server drains in-flight requests still get persisted.
	dispatcher.Start(context.Background())

	userCache := redisdb.NewUserCache(redisClient, cfg.Redis.CacheTTL, log)

	authService := service.NewAuthService(userRepo, hasher, issuer, dispatcher, cfg.AllowPrivilegedSignup, log)
	userService := service.NewUserService(userRepo, userCache, dispatcher, log)

	e := api.NewRouter(api.Dependencies{
		AuthService: authService,
		UserService: userService,
		Mongo:       db,
		Redis:       redisClient,
		JWTSecret:   cfg.JWTSecret,
		Logger:      log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	// Drain the audit queue once no new requests can arrive.
	dispatcher.Stop()
}
