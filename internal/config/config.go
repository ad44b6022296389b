// Package config loads server settings from AGENCY_* environment variables.
package config

import (
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/KirkDiggler/agency-api/internal/errors"
)

// Storage backends
const (
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// Save interval bounds
const (
	MinSaveInterval = 300 * time.Millisecond
	MaxSaveInterval = time.Second
)

// Config holds every server setting
type Config struct {
	GRPCPort int `env:"AGENCY_GRPC_PORT" envDefault:"50051"`
	HTTPPort int `env:"AGENCY_HTTP_PORT" envDefault:"8080"`

	Store         string `env:"AGENCY_STORE"          envDefault:"sqlite"`
	RedisAddr     string `env:"AGENCY_REDIS_ADDR"     envDefault:"localhost:6379"`
	RedisPassword string `env:"AGENCY_REDIS_PASSWORD"`
	RedisDB       int    `env:"AGENCY_REDIS_DB"`
	RedisTLS      bool   `env:"AGENCY_REDIS_TLS"`
	SQLitePath    string `env:"AGENCY_SQLITE_PATH"    envDefault:"agency.db"`

	SaveInterval time.Duration `env:"AGENCY_SAVE_INTERVAL" envDefault:"500ms"`

	ShareBaseURL        string `env:"AGENCY_SHARE_BASE_URL"`
	ShareMaxDecodedSize uint64 `env:"AGENCY_SHARE_MAX_DECODED_SIZE" envDefault:"4194304"`

	CORSOrigins   []string `env:"AGENCY_CORS_ORIGINS" envSeparator:","`
	MaxUploadSize int64    `env:"AGENCY_MAX_UPLOAD_SIZE" envDefault:"10485760"`

	LogLevel  string `env:"AGENCY_LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"AGENCY_LOG_FORMAT" envDefault:"text"`

	ShutdownTimeout time.Duration `env:"AGENCY_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// Load reads the process environment
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom reads the given variables instead of the process environment
func LoadFrom(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and enums
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRange("AGENCY_GRPC_PORT", c.GRPCPort, 0, 65535, vb)
	errors.ValidateRange("AGENCY_HTTP_PORT", c.HTTPPort, 0, 65535, vb)
	errors.ValidateEnum("AGENCY_STORE", c.Store, []string{StoreRedis, StoreSQLite, StoreMemory}, vb)
	switch c.Store {
	case StoreRedis:
		errors.ValidateRequired("AGENCY_REDIS_ADDR", c.RedisAddr, vb)
	case StoreSQLite:
		errors.ValidateRequired("AGENCY_SQLITE_PATH", c.SQLitePath, vb)
	}
	if c.SaveInterval < MinSaveInterval || c.SaveInterval > MaxSaveInterval {
		vb.Fieldf("AGENCY_SAVE_INTERVAL", "must be between %s and %s", MinSaveInterval, MaxSaveInterval)
	}
	if c.ShareMaxDecodedSize == 0 {
		vb.InvalidField("AGENCY_SHARE_MAX_DECODED_SIZE", "must be positive")
	}
	if c.MaxUploadSize <= 0 {
		vb.InvalidField("AGENCY_MAX_UPLOAD_SIZE", "must be positive")
	}
	errors.ValidateEnum("AGENCY_LOG_LEVEL", c.LogLevel, []string{"debug", "info", "warn", "error"}, vb)
	errors.ValidateEnum("AGENCY_LOG_FORMAT", c.LogFormat, []string{"text", "json"}, vb)

	return vb.Build()
}

// SlogLevel maps LogLevel to a slog level
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
