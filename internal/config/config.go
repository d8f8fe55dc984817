package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// 存储驱动。
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMinIO    = "minio"
)

// 打印模式。
const (
	PrintDirect = "direct"
	PrintQueue  = "queue"
)

// Config 汇总应用配置，可来自配置文件或环境变量。
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Log      LogConfig      `mapstructure:"log"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Print    PrintConfig    `mapstructure:"print"`
	Theme    ThemeConfig    `mapstructure:"theme"`
	Worker   WorkerConfig   `mapstructure:"worker"`
}

// APIConfig 包含 HTTP 服务配置。
type APIConfig struct {
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig 决定 slog 的输出格式与级别。
type LogConfig struct {
	Format string `mapstructure:"format"`
	Level  string `mapstructure:"level"`
}

// StorageConfig 选择表单状态的持久化后端。
type StorageConfig struct {
	Driver    string `mapstructure:"driver"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// DatabaseConfig 包含 SQLite 或 PostgreSQL 的连接配置。
type DatabaseConfig struct {
	SQLitePath string `mapstructure:"sqlite_path"`
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	Name       string `mapstructure:"name"`
	User       string `mapstructure:"user"`
	Password   string `mapstructure:"password"`
	SSLMode    string `mapstructure:"sslmode"`
}

// RedisConfig 包含 Redis 连接配置。
type RedisConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	DB   int    `mapstructure:"db"`
}

// MinIOConfig 包含 MinIO/S3 兼容存储的连接配置。
type MinIOConfig struct {
	Endpoint         string `mapstructure:"endpoint"`
	PublicEndpoint   string `mapstructure:"public_endpoint"`
	AccessKeyID      string `mapstructure:"access_key_id"`
	SecretAccessKey  string `mapstructure:"secret_access_key"`
	UseSSL           bool   `mapstructure:"use_ssl"`
	Region           string `mapstructure:"region"`
	BucketLookup     string `mapstructure:"bucket_lookup"`
	Bucket           string `mapstructure:"bucket"`
	AutoCreateBucket bool   `mapstructure:"auto_create_bucket"`
}

// EngineConfig 配置粘贴与打印的延迟。
type EngineConfig struct {
	PasteDelay time.Duration `mapstructure:"paste_delay"`
	PrintDelay time.Duration `mapstructure:"print_delay"`
}

// PrintConfig 决定打印方式与 PDF 的去向。
type PrintConfig struct {
	Mode         string        `mapstructure:"mode"`
	OutputDir    string        `mapstructure:"output_dir"`
	Upload       bool          `mapstructure:"upload"`
	LinkTTL      time.Duration `mapstructure:"link_ttl"`
	Timeout      time.Duration `mapstructure:"timeout"`
	AssetBaseURL string        `mapstructure:"asset_base_url"`
	RateLimit    int64         `mapstructure:"rate_limit"`
	RateWindow   time.Duration `mapstructure:"rate_window"`
}

// ThemeConfig 指定主题样式表所在目录。
type ThemeConfig struct {
	AssetsDir string `mapstructure:"assets_dir"`
}

// WorkerConfig 包含 asynq Worker 配置。
type WorkerConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// DSN 构造 lib/pq 兼容的连接串。
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
		d.SSLMode,
	)
}

// Addr 返回 host:port。
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Load 从可选的 config.yaml 与环境变量读取配置。
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.AutomaticEnv()
	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	cfg.Print.Mode = strings.ToLower(strings.TrimSpace(cfg.Print.Mode))

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad 包装 Load，失败时 panic。
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.shutdown_timeout", 10*time.Second)
	v.SetDefault("log.format", "text")
	v.SetDefault("log.level", "info")
	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.key_prefix", "resumesync:")
	v.SetDefault("database.sqlite_path", "data/resumesync.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "resumesync")
	v.SetDefault("database.user", "resumesync")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.bucket", "resumes")
	v.SetDefault("minio.bucket_lookup", "auto")
	v.SetDefault("minio.auto_create_bucket", true)
	v.SetDefault("engine.paste_delay", 10*time.Millisecond)
	v.SetDefault("engine.print_delay", 100*time.Millisecond)
	v.SetDefault("print.mode", PrintDirect)
	v.SetDefault("print.output_dir", "data/prints")
	v.SetDefault("print.upload", false)
	v.SetDefault("print.link_ttl", 15*time.Minute)
	v.SetDefault("print.timeout", 60*time.Second)
	v.SetDefault("print.rate_limit", 0)
	v.SetDefault("print.rate_window", time.Minute)
	v.SetDefault("theme.assets_dir", "assets")
	v.SetDefault("worker.concurrency", 2)
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"api.port":                 "API_PORT",
		"log.format":               "LOG_FORMAT",
		"log.level":                "LOG_LEVEL",
		"storage.driver":           "STORAGE_DRIVER",
		"storage.key_prefix":       "STORAGE_KEY_PREFIX",
		"database.sqlite_path":     "SQLITE_PATH",
		"database.host":            "DATABASE_HOST",
		"database.port":            "DATABASE_PORT",
		"database.name":            "POSTGRES_DB",
		"database.user":            "POSTGRES_USER",
		"database.password":        "POSTGRES_PASSWORD",
		"database.sslmode":         "DATABASE_SSLMODE",
		"redis.host":               "REDIS_HOST",
		"redis.port":               "REDIS_PORT",
		"redis.db":                 "REDIS_DB",
		"minio.endpoint":           "MINIO_ENDPOINT",
		"minio.public_endpoint":    "MINIO_PUBLIC_ENDPOINT",
		"minio.access_key_id":      "MINIO_ACCESS_KEY_ID",
		"minio.secret_access_key":  "MINIO_SECRET_ACCESS_KEY",
		"minio.use_ssl":            "MINIO_USE_SSL",
		"minio.region":             "MINIO_REGION",
		"minio.bucket":             "MINIO_BUCKET",
		"minio.auto_create_bucket": "MINIO_AUTO_CREATE_BUCKET",
		"engine.paste_delay":       "PASTE_DELAY",
		"engine.print_delay":       "PRINT_DELAY",
		"print.mode":               "PRINT_MODE",
		"print.output_dir":         "PRINT_OUTPUT_DIR",
		"print.upload":             "PRINT_UPLOAD",
		"print.asset_base_url":     "PRINT_ASSET_BASE_URL",
		"print.rate_limit":         "PRINT_RATE_LIMIT",
		"theme.assets_dir":         "THEME_ASSETS_DIR",
		"worker.concurrency":       "WORKER_CONCURRENCY",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

func validate(cfg Config) error {
	if cfg.API.Port <= 0 {
		return errors.New("api port must be positive")
	}
	if cfg.Engine.PasteDelay < 0 || cfg.Engine.PrintDelay < 0 {
		return errors.New("engine delays must not be negative")
	}

	switch cfg.Storage.Driver {
	case DriverMemory:
	case DriverSQLite:
		if cfg.Database.SQLitePath == "" {
			return errors.New("sqlite path is required")
		}
	case DriverPostgres:
		if err := validatePostgres(cfg.Database); err != nil {
			return err
		}
	case DriverRedis:
		if err := validateRedis(cfg.Redis); err != nil {
			return err
		}
	case DriverMinIO:
		if err := validateMinIO(cfg.MinIO); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	switch cfg.Print.Mode {
	case PrintDirect:
		if cfg.Print.OutputDir == "" && !cfg.Print.Upload {
			return errors.New("print output dir is required unless uploads are enabled")
		}
	case PrintQueue:
		if err := validateRedis(cfg.Redis); err != nil {
			return fmt.Errorf("queue print mode: %w", err)
		}
		if err := validateMinIO(cfg.MinIO); err != nil {
			return fmt.Errorf("queue print mode: %w", err)
		}
	default:
		return fmt.Errorf("unknown print mode %q", cfg.Print.Mode)
	}

	if cfg.Print.Upload {
		if err := validateMinIO(cfg.MinIO); err != nil {
			return fmt.Errorf("print upload: %w", err)
		}
	}
	return nil
}

func validatePostgres(d DatabaseConfig) error {
	if d.Host == "" {
		return errors.New("database host is required")
	}
	if d.Port <= 0 {
		return errors.New("database port must be positive")
	}
	if d.Name == "" {
		return errors.New("database name is required")
	}
	if d.User == "" {
		return errors.New("database user is required")
	}
	if d.Password == "" {
		return errors.New("database password is required")
	}
	if d.SSLMode == "" {
		return errors.New("database sslmode is required")
	}
	return nil
}

func validateRedis(r RedisConfig) error {
	if r.Host == "" {
		return errors.New("redis host is required")
	}
	if r.Port <= 0 {
		return errors.New("redis port must be positive")
	}
	return nil
}

func validateMinIO(m MinIOConfig) error {
	if m.Endpoint == "" {
		return errors.New("minio endpoint is required")
	}
	if m.AccessKeyID == "" {
		return errors.New("minio access key id is required")
	}
	if m.SecretAccessKey == "" {
		return errors.New("minio secret access key is required")
	}
	if m.Bucket == "" {
		return errors.New("minio bucket is required")
	}
	return nil
}
