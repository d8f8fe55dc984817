package main

import (
	"context"
	"log"
	"log/slog"
	"strings"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"resumeSync/internal/config"
	"resumeSync/internal/logging"
	"resumeSync/internal/metrics"
	"resumeSync/internal/pdf"
	"resumeSync/internal/storage"
	"resumeSync/internal/tasks"
	"resumeSync/internal/worker"
)

func main() {
	cfg := config.MustLoad()

	logger := logging.New(cfg.Log)
	slog.SetDefault(logger)

	ctx := context.Background()

	storageClient, err := storage.NewClient(ctx, cfg.MinIO)
	if err != nil {
		log.Fatalf("init storage client: %v", err)
	}
	logger.Info("storage client ready", slog.String("bucket", cfg.MinIO.Bucket))

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr(), DB: cfg.Redis.DB})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("close redis client failed", slog.Any("error", err))
		}
	}()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("ping redis: %v", err)
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.Print.AssetBaseURL), "/")
	if baseURL == "" {
		logger.Warn("PRINT_ASSET_BASE_URL not set, theme stylesheets will not load in printed PDFs")
	}

	server := asynq.NewServer(asynq.RedisClientOpt{Addr: cfg.Redis.Addr(), DB: cfg.Redis.DB}, asynq.Config{
		Concurrency: cfg.Worker.Concurrency,
	})

	handler := worker.NewPrintTaskHandler(
		pdf.NewObjectSink(storageClient, "prints/", cfg.Print.LinkTTL),
		redisClient,
		logger,
		baseURL+"/assets/",
		pdf.WithTimeout(cfg.Print.Timeout),
	)

	mux := asynq.NewServeMux()
	mux.Use(metrics.AsynqMetricsMiddleware())
	mux.Handle(tasks.TypePrintResume, handler)

	logger.Info("worker service started", slog.String("redis_addr", cfg.Redis.Addr()))
	if err := server.Run(mux); err != nil {
		logger.Error("worker server stopped", slog.Any("error", err))
	}
}
