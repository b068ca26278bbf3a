package app

import (
	"errors"
	"strings"
	"time"

	"github.com/yungbote/coincollector-backend/internal/clients/redis"
	"github.com/yungbote/coincollector-backend/internal/data/db"
	"github.com/yungbote/coincollector-backend/internal/observability"
	"github.com/yungbote/coincollector-backend/internal/platform/envutil"
	"github.com/yungbote/coincollector-backend/internal/platform/logger"
)

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"

	defaultSessionSecret = "dev-session-secret"
)

type Config struct {
	HTTPAddr    string
	ServiceName string

	DB db.Config

	// TxAttempts bounds how often a storage transaction that failed with a
	// retryable error is run.
	TxAttempts int
	TxBackoff  time.Duration

	SessionSecret string
	SessionTTL    time.Duration
	SessionCookie string
	CookieSecure  bool
	SessionStore  string
	Redis         redis.Config

	LoginRateLimit string
	CORSOrigins    []string

	Otel observability.OtelConfig
}

func LoadConfig(log *logger.Logger) Config {
	serviceName := envutil.String("SERVICE_NAME", "coincollector", log)
	return Config{
		HTTPAddr:    envutil.String("HTTP_ADDR", ":8080", log),
		ServiceName: serviceName,
		DB: db.Config{
			Driver:           envutil.String("DB_DRIVER", db.DriverSQLite, log),
			SQLitePath:       envutil.String("SQLITE_PATH", "coincollector.db", log),
			PostgresHost:     envutil.String("POSTGRES_HOST", "localhost", log),
			PostgresPort:     envutil.String("POSTGRES_PORT", "5432", log),
			PostgresUser:     envutil.String("POSTGRES_USER", "postgres", log),
			PostgresPassword: envutil.String("POSTGRES_PASSWORD", "", log),
			PostgresName:     envutil.String("POSTGRES_NAME", "coincollector", log),
			PostgresSSLMode:  envutil.String("POSTGRES_SSLMODE", "disable", log),
			MaxOpenConns:     envutil.Int("DB_MAX_OPEN_CONNS", 20, log),
			MaxIdleConns:     envutil.Int("DB_MAX_IDLE_CONNS", 5, log),
			ConnMaxLifetime:  envutil.Duration("DB_CONN_MAX_LIFETIME", 30*time.Minute, log),
			SlowThreshold:    envutil.Duration("DB_SLOW_THRESHOLD", time.Second, log),
		},
		TxAttempts:    envutil.Int("DB_TX_ATTEMPTS", 3, log),
		TxBackoff:     envutil.Duration("DB_TX_BACKOFF", 25*time.Millisecond, log),
		SessionSecret: envutil.String("SESSION_SECRET", defaultSessionSecret, log),
		SessionTTL:    envutil.Duration("SESSION_TTL", 24*time.Hour, log),
		SessionCookie: envutil.String("SESSION_COOKIE", "sessionId", log),
		CookieSecure:  envutil.Bool("SESSION_COOKIE_SECURE", false, log),
		SessionStore:  strings.ToLower(envutil.String("SESSION_STORE", SessionStoreMemory, log)),
		Redis: redis.Config{
			Addr:     envutil.String("REDIS_ADDR", "localhost:6379", log),
			Password: envutil.String("REDIS_PASSWORD", "", log),
			DB:       envutil.Int("REDIS_DB", 0, log),
		},
		LoginRateLimit: envutil.String("LOGIN_RATE_LIMIT", "5-M", log),
		CORSOrigins:    envutil.List("CORS_ORIGINS", nil, log),
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false, log),
			ServiceName: serviceName,
			Environment: envutil.String("OTEL_ENVIRONMENT", "development", log),
			Version:     envutil.String("OTEL_SERVICE_VERSION", "", log),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false, log),
			Headers:     observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "", log)),
			SampleRatio: envutil.Float64("OTEL_SAMPLER_RATIO", 1, log),
		},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.SessionSecret) == "" {
		return errors.New("SESSION_SECRET is blank")
	}
	if c.TxAttempts < 1 {
		return errors.New("DB_TX_ATTEMPTS must be at least 1")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	switch c.SessionStore {
	case SessionStoreMemory, SessionStoreRedis:
	default:
		return errors.New("SESSION_STORE must be memory or redis")
	}
	return nil
}
