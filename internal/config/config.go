package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Pagination   PaginationConfig
	Notification NotificationConfig
	Storage      StorageConfig
	Tracing      TracingConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	ShutdownTimeoutSecs   int
}

// PostgresConfig holds DB connection values. An empty DSN selects the in-memory store.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// PaginationConfig bounds list queries. MaxFirst <= 0 leaves page sizes unbounded.
type PaginationConfig struct {
	MaxFirst int
}

// NotificationConfig controls how domain events leave the process.
type NotificationConfig struct {
	Enabled      bool
	RedisChannel string
}

// StorageConfig configures the avatar bucket. An empty Bucket disables uploads.
type StorageConfig struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
	UsePathStyle    bool
	PresignTTLSecs  int
}

// TracingConfig configures the OTLP exporter. An empty Endpoint disables export.
type TracingConfig struct {
	Endpoint    string
	Insecure    bool
	SampleRatio float64
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	sampleRatio, err := strconv.ParseFloat(getEnv("OTEL_TRACES_SAMPLER_RATIO", "1"), 64)
	if err != nil || sampleRatio < 0 || sampleRatio > 1 {
		return nil, fmt.Errorf("invalid OTEL_TRACES_SAMPLER_RATIO %q", os.Getenv("OTEL_TRACES_SAMPLER_RATIO"))
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "staff-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			ShutdownTimeoutSecs:   getEnvAsInt("HTTP_SHUTDOWN_TIMEOUT_SECONDS", 10),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Pagination: PaginationConfig{
			MaxFirst: getEnvAsInt("PAGINATION_MAX_FIRST", 0),
		},
		Notification: NotificationConfig{
			Enabled:      getEnvAsBool("NOTIFY_ENABLED", true),
			RedisChannel: getEnv("NOTIFY_REDIS_CHANNEL", "staff.events"),
		},
		Storage: StorageConfig{
			Bucket:          os.Getenv("S3_BUCKET"),
			Region:          getEnv("S3_REGION", "us-east-1"),
			Endpoint:        os.Getenv("S3_ENDPOINT"),
			AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
			PublicBaseURL:   os.Getenv("S3_PUBLIC_BASE_URL"),
			UsePathStyle:    getEnvAsBool("S3_USE_PATH_STYLE", false),
			PresignTTLSecs:  getEnvAsInt("S3_PRESIGN_TTL_SECONDS", 900),
		},
		Tracing: TracingConfig{
			Endpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
			Insecure:    getEnvAsBool("OTEL_EXPORTER_OTLP_INSECURE", true),
			SampleRatio: sampleRatio,
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// ShutdownTimeout bounds graceful shutdown.
func (a AppConfig) ShutdownTimeout() time.Duration {
	if a.ShutdownTimeoutSecs <= 0 {
		return 10 * time.Second
	}
	return time.Duration(a.ShutdownTimeoutSecs) * time.Second
}

// PresignTTL is how long an upload URL stays valid.
func (s StorageConfig) PresignTTL() time.Duration {
	if s.PresignTTLSecs <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(s.PresignTTLSecs) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
