package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"resumeSync/internal/config"
	"resumeSync/internal/database"
)

// Backend 是可关闭的键值存储，方法集与 engine.Store 一致。
type Backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	io.Closer
}

var (
	_ Backend = (*MemoryStore)(nil)
	_ Backend = (*SQLStore)(nil)
	_ Backend = (*RedisStore)(nil)
	_ Backend = (*ObjectStore)(nil)
)

// Open 按 storage.driver 选择持久化后端。
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Backend, error) {
	driver := cfg.Storage.Driver
	switch driver {
	case config.DriverMemory:
		logger.Warn("using in-memory storage, form state will not survive restarts")
		return NewMemoryStore(), nil

	case config.DriverSQLite, config.DriverPostgres:
		db, err := database.InitDatabase(driver, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("init database: %w", err)
		}
		return NewSQLStore(db)

	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr(), DB: cfg.Redis.DB})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		return NewRedisStore(client, cfg.Storage.KeyPrefix), nil

	case config.DriverMinIO:
		client, err := NewClient(ctx, cfg.MinIO)
		if err != nil {
			return nil, fmt.Errorf("init minio client: %w", err)
		}
		return NewObjectStore(client, cfg.Storage.KeyPrefix), nil

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}
}
