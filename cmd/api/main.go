package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/hszk-dev/gotube/internal/api"
	"github.com/hszk-dev/gotube/internal/api/handler"
	"github.com/hszk-dev/gotube/internal/config"
	"github.com/hszk-dev/gotube/internal/infrastructure/cache"
	"github.com/hszk-dev/gotube/internal/infrastructure/postgres"
	"github.com/hszk-dev/gotube/internal/infrastructure/queue"
	"github.com/hszk-dev/gotube/internal/infrastructure/storage"
	"github.com/hszk-dev/gotube/internal/mediaprobe"
	"github.com/hszk-dev/gotube/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := os.MkdirAll(cfg.Server.UploadTempDir, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	// Initialize infrastructure clients
	pgClient, err := postgres.NewClient(ctx, postgres.DefaultClientConfig(cfg.Database.DSN()))
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer pgClient.Close()
	logger.Info("connected to PostgreSQL")

	if cfg.Database.AutoMigrate {
		if err := pgClient.Migrate(); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		logger.Info("database migrated")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	logger.Info("connected to Redis")

	prober := mediaprobe.NewFFprobe(mediaprobe.FFprobeConfig{Timeout: cfg.FFprobe.Timeout})
	storageClient, err := storage.NewClient(ctx, storage.ClientConfig{
		Endpoint:      cfg.MinIO.Endpoint,
		AccessKey:     cfg.MinIO.AccessKey,
		SecretKey:     cfg.MinIO.SecretKey,
		Bucket:        cfg.MinIO.Bucket,
		UseSSL:        cfg.MinIO.UseSSL,
		PublicBaseURL: cfg.MinIO.PublicBaseURL,
	}, prober)
	if err != nil {
		return fmt.Errorf("failed to connect to MinIO: %w", err)
	}
	logger.Info("connected to MinIO")

	queueClient, err := queue.NewClient(ctx, queue.DefaultClientConfig(cfg.RabbitMQ.URL()))
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer queueClient.Close()
	logger.Info("connected to RabbitMQ")

	// Initialize repositories and services
	repos := pgClient.Repositories()
	videoCache := cache.NewRedisVideoCache(redisClient)
	stores := usecase.Stores{
		Videos:    cache.NewCachedVideoRepository(repos.Videos, videoCache, cfg.Cache.VideoTTL),
		Comments:  repos.Comments,
		Likes:     repos.Likes,
		Playlists: repos.Playlists,
		Users:     repos.Users,
	}

	janitor := usecase.NewAssetJanitor(storageClient, queueClient)
	cascade := usecase.NewCascadeEngine(stores, janitor, cfg.Cascade.Concurrency)

	videoSvc := usecase.NewVideoService(stores, storageClient, janitor, cascade, usecase.VideoServiceConfig{
		SearchCaseSensitive: cfg.Search.CaseSensitive,
	})
	commentSvc := usecase.NewCommentService(stores, cascade)
	likeSvc := usecase.NewLikeService(stores)

	r := api.NewRouter(logger, api.Handlers{
		Health: handler.NewHealthHandler(map[string]handler.Pinger{
			"postgres": pgClient,
			"redis":    videoCache,
			"minio":    storageClient,
			"rabbitmq": queueClient,
		}, 0),
		Videos: handler.NewVideoHandler(videoSvc, handler.VideoHandlerConfig{
			MaxUploadBytes: cfg.Server.MaxUploadBytes,
			TempDir:        cfg.Server.UploadTempDir,
		}),
		Comments: handler.NewCommentHandler(commentSvc),
		Likes:    handler.NewLikeHandler(likeSvc),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down server", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
