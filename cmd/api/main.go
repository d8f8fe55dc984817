package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"resumeSync/internal/api"
	"resumeSync/internal/config"
	"resumeSync/internal/engine"
	"resumeSync/internal/logging"
	"resumeSync/internal/page"
	"resumeSync/internal/pdf"
	"resumeSync/internal/storage"
	"resumeSync/internal/tasks"
)

const assetRoute = "/assets/"

func main() {
	cfg := config.MustLoad()

	logger := logging.New(cfg.Log)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("close storage failed", slog.Any("error", err))
		}
	}()
	logger.Info("storage ready", slog.String("driver", cfg.Storage.Driver))

	var redisClient *redis.Client
	if cfg.Print.Mode == config.PrintQueue || cfg.Print.RateLimit > 0 {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr(), DB: cfg.Redis.DB})
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error("close redis client failed", slog.Any("error", err))
			}
		}()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("ping redis: %v", err)
		}
	}

	doc := page.NewDocument()
	loop := engine.NewLoop(0)
	loopCtx, cancelLoop := context.WithCancel(context.Background())
	go loop.Run(loopCtx)

	printer, closePrinter, err := buildPrinter(ctx, cfg, doc, logger)
	if err != nil {
		log.Fatalf("init printer: %v", err)
	}
	defer closePrinter()

	eng := engine.New(doc, store, loop,
		engine.WithConfirmer(doc),
		engine.WithPrinter(printer),
		engine.WithLogger(logger),
		engine.WithDelays(cfg.Engine.PasteDelay, cfg.Engine.PrintDelay),
		engine.WithAssetPath(assetRoute),
	)
	if err := loop.Do(ctx, func() { eng.Initialize(ctx) }); err != nil {
		log.Fatalf("initialize engine: %v", err)
	}

	var throttle *api.PrintThrottle
	if redisClient != nil {
		throttle = api.NewPrintThrottle(redisClient, cfg.Print.RateLimit, cfg.Print.RateWindow)
	}
	var notifyClient *redis.Client
	if cfg.Print.Mode == config.PrintQueue {
		notifyClient = redisClient
	}

	router := api.NewRouter(logger)
	api.RegisterRoutes(router,
		api.NewEditorHandler(doc, loop, throttle),
		api.NewWsHandler(doc, notifyClient, logger),
		cfg.Theme.AssetsDir,
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.API.Port),
		Handler: router,
	}
	go func() {
		logger.Info("api listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server stopped", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.API.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", slog.Any("error", err))
	}

	// 页面销毁：最后一次保存快照。
	if err := loop.Do(shutdownCtx, doc.Teardown); err != nil {
		logger.Error("page teardown failed", slog.Any("error", err))
	}
	cancelLoop()
	<-loop.Done()
}

func buildPrinter(ctx context.Context, cfg *config.Config, doc *page.Document, logger *slog.Logger) (engine.Printer, func(), error) {
	noop := func() {}

	if cfg.Print.Mode == config.PrintQueue {
		client := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.Redis.Addr(), DB: cfg.Redis.DB})
		closeClient := func() {
			if err := client.Close(); err != nil {
				logger.Error("close asynq client failed", slog.Any("error", err))
			}
		}
		logger.Info("print mode: queue")
		return tasks.NewQueuePrinter(doc, client, logger), closeClient, nil
	}

	var sink pdf.Sink = pdf.FileSink{Dir: cfg.Print.OutputDir}
	if cfg.Print.Upload {
		client, err := storage.NewClient(ctx, cfg.MinIO)
		if err != nil {
			return nil, noop, fmt.Errorf("init storage client: %w", err)
		}
		sink = pdf.NewObjectSink(client, "prints/", cfg.Print.LinkTTL)
	}

	baseURL := strings.TrimSpace(cfg.Print.AssetBaseURL)
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://127.0.0.1:%d/", cfg.API.Port)
	}

	logger.Info("print mode: direct", slog.String("asset_base_url", baseURL))
	return pdf.NewDocumentPrinter(doc, sink,
		pdf.WithBaseURL(baseURL),
		pdf.WithTimeout(cfg.Print.Timeout),
		pdf.WithLogger(logger),
	), noop, nil
}
