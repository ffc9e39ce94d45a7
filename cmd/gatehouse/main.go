package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/campuslabs/gatehouse/config"
	"github.com/campuslabs/gatehouse/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "starting gatehouse",
		"addr", cfg.HTTP.Addr,
		"auth_mode", cfg.Auth.Mode,
		"session_store", cfg.Session.Store,
		"principal_mode", cfg.Session.PrincipalMode,
		"allowed_domains", cfg.Auth.AllowedEmailDomains)

	deps := bootstrap.AuthDeps{Config: cfg, Logger: logger}

	if cfg.Session.Store == config.SessionStoreRedis {
		redisClient, redisErr := bootstrap.ConnectRedis(ctx, cfg.Redis)
		if redisErr != nil {
			return redisErr
		}
		defer closeRedis(ctx, redisClient, logger)
		deps.Redis = redisClient
	}

	if cfg.Session.PrincipalMode == config.PrincipalModeDirectory {
		mongoClient, mongoErr := bootstrap.ConnectMongo(ctx, cfg.Mongo)
		if mongoErr != nil {
			return mongoErr
		}
		defer disconnectMongo(ctx, mongoClient, logger)
		deps.Mongo = mongoClient.Database(cfg.Mongo.Database)
	}

	authSvc, err := bootstrap.BuildAuthService(ctx, deps)
	if err != nil {
		return err
	}

	server := bootstrap.NewHTTPServer(bootstrap.HTTPServerConfig{
		Config: &cfg,
		Auth:   authSvc,
		Logger: logger,
	})

	return bootstrap.RunHTTPServer(ctx, server, logger)
}

func closeRedis(ctx context.Context, client *redis.Client, logger *slog.Logger) {
	if err := client.Close(); err != nil {
		logger.ErrorContext(ctx, "close redis failed", "error", err)
	}
}

func disconnectMongo(ctx context.Context, client *mongo.Client, logger *slog.Logger) {
	if err := client.Disconnect(ctx); err != nil {
		logger.ErrorContext(ctx, "close mongo failed", "error", err)
	}
}
