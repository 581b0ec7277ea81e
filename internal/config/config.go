// Package config は環境変数からアプリケーション設定を読み込む。
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// ストレージバックエンドの種別。
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Storage
	StorageBackend string `envconfig:"STORAGE_BACKEND" default:"memory"`
	SeedOnStart    bool   `envconfig:"SEED_ON_START" default:"false"`
	ConnectRetries int    `envconfig:"CONNECT_RETRIES" default:"5"`

	// PostgreSQL
	DatabaseURL       string        `envconfig:"DATABASE_URL"`
	DBMaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
	DBMaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	DBConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`

	// MongoDB
	MongoURI      string `envconfig:"MONGO_URI"`
	MongoDatabase string `envconfig:"MONGO_DATABASE" default:"soulelevate"`

	// Server
	ServerPort      string        `envconfig:"SERVER_PORT" default:"8080"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`

	// CORS
	CORSAllowedOrigin string `envconfig:"CORS_ALLOWED_ORIGIN" default:"http://localhost:3000"`

	// Rate Limit（req/min）
	RateLimitGeneral int `envconfig:"RATE_LIMIT_GENERAL" default:"120"`
	RateLimitSubmit  int `envconfig:"RATE_LIMIT_SUBMIT" default:"10"`

	// Logging
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load は環境変数からConfigを読み込み、検証する。
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate は設定値の組み合わせを検証する。
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendMemory:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("required environment variables are not set: [DATABASE_URL] (STORAGE_BACKEND=%s)", c.StorageBackend)
		}
	case BackendMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("required environment variables are not set: [MONGO_URI] (STORAGE_BACKEND=%s)", c.StorageBackend)
		}
	default:
		return fmt.Errorf("unsupported STORAGE_BACKEND %q (memory, postgres, mongo)", c.StorageBackend)
	}

	if c.RateLimitGeneral <= 0 || c.RateLimitSubmit <= 0 {
		return fmt.Errorf("rate limits must be positive: general=%d submit=%d", c.RateLimitGeneral, c.RateLimitSubmit)
	}
	if c.ConnectRetries < 1 {
		return fmt.Errorf("CONNECT_RETRIES must be at least 1: %d", c.ConnectRetries)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive: %s", c.RequestTimeout)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level はLOG_LEVELをslog.Levelに変換する。
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return level, nil
}
