package main

import (
	"context"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"chirper/api"
	"chirper/config"
	"chirper/identity"
	"chirper/ratelimit"
	"chirper/service"
	"chirper/storage"
)

func main() {
	cfg := config.Load()
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx := context.Background()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURL))
	if err != nil {
		logger.Fatal("mongo connect", zap.Error(err))
	}
	store, err := storage.NewMongoStorage(ctx, client.Database(cfg.MongoDBName))
	if err != nil {
		logger.Fatal("mongo indexes", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	var provider identity.Provider = &identity.HTTPProvider{
		BaseURL: cfg.IdentityBaseURL,
		APIKey:  cfg.IdentityAPIKey,
	}
	provider = &identity.CachedProvider{Client: rdb, Internal: provider}

	limiter := &ratelimit.RedisLimiter{
		Client: rdb,
		Quota:  cfg.LikeQuota,
		Window: cfg.LikeWindow,
	}

	svc := &service.Service{Store: store, Identity: provider, Limiter: limiter}

	srv, err := api.MakeServer(cfg.ServerAddr, svc, logger)
	if err != nil {
		logger.Fatal("build server", zap.Error(err))
	}
	logger.Info("listening", zap.String("addr", cfg.ServerAddr))
	logger.Fatal("server exited", zap.Error(srv.ListenAndServe()))
}
