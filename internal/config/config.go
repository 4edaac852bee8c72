package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server   ServerConfig
	Worker   WorkerConfig
	Database DatabaseConfig
	MinIO    MinIOConfig
	RabbitMQ RabbitMQConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Cascade  CascadeConfig
	Search   SearchConfig
	FFprobe  FFprobeConfig
}

type ServerConfig struct {
	Port            int           `envconfig:"API_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"API_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"API_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"API_SHUTDOWN_TIMEOUT" default:"10s"`
	// MaxUploadBytes bounds a multipart request body (video file plus thumbnail).
	MaxUploadBytes int64  `envconfig:"API_MAX_UPLOAD_BYTES" default:"536870912"`
	UploadTempDir  string `envconfig:"API_UPLOAD_TEMP_DIR" default:"/tmp/gotube"`
}

type WorkerConfig struct {
	MaxRetries      int           `envconfig:"WORKER_MAX_RETRIES" default:"3"`
	ShutdownTimeout time.Duration `envconfig:"WORKER_SHUTDOWN_TIMEOUT" default:"30s"`
}

type DatabaseConfig struct {
	Host     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" default:"gotube"`
	Password string `envconfig:"POSTGRES_PASSWORD" default:"gotube"`
	DBName   string `envconfig:"POSTGRES_DB" default:"gotube"`
	SSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`
	// AutoMigrate applies pending migrations when the API starts.
	AutoMigrate bool `envconfig:"POSTGRES_AUTO_MIGRATE" default:"false"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

type MinIOConfig struct {
	Endpoint  string `envconfig:"MINIO_ENDPOINT" default:"localhost:9000"`
	AccessKey string `envconfig:"MINIO_ACCESS_KEY" default:"minioadmin"`
	SecretKey string `envconfig:"MINIO_SECRET_KEY" default:"minioadmin"`
	Bucket    string `envconfig:"MINIO_BUCKET" default:"videos"`
	UseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"false"`
	// PublicBaseURL prefixes asset URLs handed to clients. Empty means the endpoint itself.
	PublicBaseURL string `envconfig:"MINIO_PUBLIC_BASE_URL"`
}

type RabbitMQConfig struct {
	Host     string `envconfig:"RABBITMQ_HOST" default:"localhost"`
	Port     int    `envconfig:"RABBITMQ_PORT" default:"5672"`
	User     string `envconfig:"RABBITMQ_USER" default:"gotube"`
	Password string `envconfig:"RABBITMQ_PASSWORD" default:"gotube"`
	VHost    string `envconfig:"RABBITMQ_VHOST" default:"/"`
}

func (c RabbitMQConfig) URL() string {
	return fmt.Sprintf(
		"amqp://%s:%s@%s:%d%s",
		c.User, c.Password, c.Host, c.Port, c.VHost,
	)
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type CacheConfig struct {
	VideoTTL time.Duration `envconfig:"CACHE_VIDEO_TTL" default:"5m"`
}

type CascadeConfig struct {
	// Concurrency bounds how many cascade branches touch the store at once.
	Concurrency int `envconfig:"CASCADE_CONCURRENCY" default:"4"`
}

type SearchConfig struct {
	CaseSensitive bool `envconfig:"SEARCH_CASE_SENSITIVE" default:"true"`
}

type FFprobeConfig struct {
	Timeout time.Duration `envconfig:"FFPROBE_TIMEOUT" default:"30s"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Cascade.Concurrency < 1 {
		return nil, fmt.Errorf("CASCADE_CONCURRENCY must be at least 1, got %d", cfg.Cascade.Concurrency)
	}
	return &cfg, nil
}
