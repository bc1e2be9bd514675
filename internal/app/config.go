package app

import (
	"os"
	"strconv"
	"time"
)

// StorageDriver выбирает реализацию хранилища.
type StorageDriver string

const (
	StorageDriverMemory   StorageDriver = "memory"
	StorageDriverPostgres StorageDriver = "postgres"
)

// Config описывает настройки запуска приложения.
type Config struct {
	HTTPAddr    string
	MetricsAddr string

	StorageDriver       StorageDriver
	PostgresDSN         string
	PostgresAutoMigrate bool

	// RedisAddr пустой — каталог работает без кэша.
	RedisAddr string

	// KafkaBrokers пустой — события копятся в outbox до появления брокера.
	KafkaBrokers string

	JWTSecret string
	TokenTTL  time.Duration

	RequestTimeout time.Duration

	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxMaxAttempts  int
	OutboxRetryDelay   time.Duration
}

// DefaultConfig возвращает конфигурацию для локальной разработки:
// всё в памяти, без внешних систем.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:            ":8080",
		MetricsAddr:         ":9090",
		StorageDriver:       StorageDriverMemory,
		PostgresAutoMigrate: true,
		JWTSecret:           "dev-secret-change-me",
		TokenTTL:            24 * time.Hour,
		RequestTimeout:      30 * time.Second,
		OutboxPollInterval:  time.Second,
		OutboxBatchSize:     100,
		OutboxMaxAttempts:   3,
		OutboxRetryDelay:    50 * time.Millisecond,
	}
}

// LoadConfigFromEnv читает конфигурацию из окружения поверх значений по умолчанию.
// Переменные с префиксом STOREFRONT_; нечитаемые значения молча заменяются дефолтом.
func LoadConfigFromEnv() Config {
	cfg := DefaultConfig()

	cfg.HTTPAddr = envString("STOREFRONT_HTTP_ADDR", cfg.HTTPAddr)
	cfg.MetricsAddr = envString("STOREFRONT_METRICS_ADDR", cfg.MetricsAddr)

	if driver := os.Getenv("STOREFRONT_STORAGE_DRIVER"); driver != "" {
		cfg.StorageDriver = StorageDriver(driver)
	}
	cfg.PostgresDSN = envString("STOREFRONT_POSTGRES_DSN", cfg.PostgresDSN)
	cfg.PostgresAutoMigrate = envBool("STOREFRONT_POSTGRES_AUTO_MIGRATE", cfg.PostgresAutoMigrate)

	cfg.RedisAddr = envString("STOREFRONT_REDIS_ADDR", cfg.RedisAddr)
	cfg.KafkaBrokers = envString("STOREFRONT_KAFKA_BROKERS", cfg.KafkaBrokers)

	cfg.JWTSecret = envString("STOREFRONT_JWT_SECRET", cfg.JWTSecret)
	cfg.TokenTTL = envDuration("STOREFRONT_TOKEN_TTL", cfg.TokenTTL)

	cfg.RequestTimeout = envDuration("STOREFRONT_REQUEST_TIMEOUT", cfg.RequestTimeout)

	cfg.OutboxPollInterval = envDuration("STOREFRONT_OUTBOX_POLL_INTERVAL", cfg.OutboxPollInterval)
	cfg.OutboxBatchSize = envInt("STOREFRONT_OUTBOX_BATCH_SIZE", cfg.OutboxBatchSize)
	cfg.OutboxMaxAttempts = envInt("STOREFRONT_OUTBOX_MAX_ATTEMPTS", cfg.OutboxMaxAttempts)
	cfg.OutboxRetryDelay = envDuration("STOREFRONT_OUTBOX_RETRY_DELAY", cfg.OutboxRetryDelay)

	return cfg
}

func envString(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envBool(name string, fallback bool) bool {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}
