package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/hszk-dev/gotube/internal/cli"
	"github.com/hszk-dev/gotube/internal/config"
	"github.com/hszk-dev/gotube/internal/infrastructure/cache"
	"github.com/hszk-dev/gotube/internal/infrastructure/postgres"
	"github.com/hszk-dev/gotube/internal/infrastructure/queue"
	"github.com/hszk-dev/gotube/internal/infrastructure/storage"
	"github.com/hszk-dev/gotube/internal/usecase"
)

// factory wires the same stores as the API so deletes made from the
// command line also invalidate the video cache.
type factory struct{}

func newFactory() cli.Factory {
	return factory{}
}

func (factory) Migrator() (cli.Migrator, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return postgres.SchemaMigrator{DatabaseURL: cfg.Database.DSN()}, nil
}

func (factory) Deleter(ctx context.Context) (cli.Deleter, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (cli.Deleter, func(), error) {
		cleanup()
		return nil, nil, err
	}

	pgClient, err := postgres.NewClient(ctx, postgres.DefaultClientConfig(cfg.Database.DSN()))
	if err != nil {
		return fail(fmt.Errorf("failed to connect to PostgreSQL: %w", err))
	}
	closers = append(closers, pgClient.Close)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	closers = append(closers, func() { _ = redisClient.Close() })

	storageClient, err := storage.NewClient(ctx, storage.ClientConfig{
		Endpoint:      cfg.MinIO.Endpoint,
		AccessKey:     cfg.MinIO.AccessKey,
		SecretKey:     cfg.MinIO.SecretKey,
		Bucket:        cfg.MinIO.Bucket,
		UseSSL:        cfg.MinIO.UseSSL,
		PublicBaseURL: cfg.MinIO.PublicBaseURL,
	}, nil)
	if err != nil {
		return fail(fmt.Errorf("failed to connect to MinIO: %w", err))
	}

	queueClient, err := queue.NewClient(ctx, queue.DefaultClientConfig(cfg.RabbitMQ.URL()))
	if err != nil {
		return fail(fmt.Errorf("failed to connect to RabbitMQ: %w", err))
	}
	closers = append(closers, func() { _ = queueClient.Close() })

	repos := pgClient.Repositories()
	stores := usecase.Stores{
		Videos:    cache.NewCachedVideoRepository(repos.Videos, cache.NewRedisVideoCache(redisClient), cfg.Cache.VideoTTL),
		Comments:  repos.Comments,
		Likes:     repos.Likes,
		Playlists: repos.Playlists,
		Users:     repos.Users,
	}
	janitor := usecase.NewAssetJanitor(storageClient, queueClient)

	return usecase.NewCascadeEngine(stores, janitor, cfg.Cascade.Concurrency), cleanup, nil
}
