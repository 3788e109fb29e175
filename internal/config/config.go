package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	QR       QRConfig
	Janitor  JanitorConfig
	Limits   LimitsConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines staff authentication parameters (login sessions,
// separate from the QR token secret).
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// QRConfig defines the attendance token protocol parameters. Secret is the
// shared HMAC key between issuer and verifier; PreviousSecret, when set, is
// also accepted during verification so the key can rotate without
// invalidating in-flight tokens.
type QRConfig struct {
	Secret         string
	PreviousSecret string
	TokenTTL       time.Duration
}

// JanitorConfig controls the expired-nonce sweeper.
type JanitorConfig struct {
	Enabled       bool
	SweepInterval time.Duration
	Grace         time.Duration
}

// LimitsConfig controls the per-caller rate limiter.
type LimitsConfig struct {
	IssuePerMinute  int
	VerifyPerMinute int
}

// ErrMissingQRSecret signals the shared signing secret is absent. The
// protocol cannot run without it, so loading fails instead of falling back.
var ErrMissingQRSecret = errors.New("QR_TOKEN_SECRET is required")

// Load reads configuration from environment variables, applying defaults
// where possible. The QR signing secret has no default on purpose.
func Load() (*Config, error) {
	_ = godotenv.Load()

	qrSecret := os.Getenv("QR_TOKEN_SECRET")
	if qrSecret == "" {
		return nil, ErrMissingQRSecret
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "attendance-token-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
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
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		QR: QRConfig{
			Secret:         qrSecret,
			PreviousSecret: os.Getenv("QR_TOKEN_SECRET_PREVIOUS"),
			TokenTTL:       time.Duration(getEnvAsInt("QR_TOKEN_TTL_SECONDS", 60)) * time.Second,
		},
		Janitor: JanitorConfig{
			Enabled:       getEnvAsBool("JANITOR_ENABLED", true),
			SweepInterval: time.Duration(getEnvAsInt("JANITOR_SWEEP_INTERVAL_SECONDS", 300)) * time.Second,
			Grace:         time.Duration(getEnvAsInt("JANITOR_GRACE_SECONDS", 120)) * time.Second,
		},
		Limits: LimitsConfig{
			IssuePerMinute:  getEnvAsInt("RATE_LIMIT_ISSUE_PER_MINUTE", 30),
			VerifyPerMinute: getEnvAsInt("RATE_LIMIT_VERIFY_PER_MINUTE", 120),
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
