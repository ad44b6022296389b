package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/agency-api/internal/config"
	"github.com/KirkDiggler/agency-api/internal/errors"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (s *ConfigTestSuite) TestDefaults() {
	cfg, err := config.LoadFrom(map[string]string{})
	s.Require().NoError(err)

	s.Equal(50051, cfg.GRPCPort)
	s.Equal(8080, cfg.HTTPPort)
	s.Equal(config.StoreSQLite, cfg.Store)
	s.Equal("agency.db", cfg.SQLitePath)
	s.Equal(500*time.Millisecond, cfg.SaveInterval)
	s.Equal(uint64(4<<20), cfg.ShareMaxDecodedSize)
	s.Equal(slog.LevelInfo, cfg.SlogLevel())
}

func (s *ConfigTestSuite) TestOverrides() {
	cfg, err := config.LoadFrom(map[string]string{
		"AGENCY_STORE":         "redis",
		"AGENCY_REDIS_ADDR":    "redis:6379",
		"AGENCY_SAVE_INTERVAL": "1s",
		"AGENCY_CORS_ORIGINS":  "https://a.example,https://b.example",
		"AGENCY_LOG_LEVEL":     "debug",
	})
	s.Require().NoError(err)

	s.Equal(config.StoreRedis, cfg.Store)
	s.Equal("redis:6379", cfg.RedisAddr)
	s.Equal(time.Second, cfg.SaveInterval)
	s.Equal([]string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	s.Equal(slog.LevelDebug, cfg.SlogLevel())
}

func (s *ConfigTestSuite) TestInvalid() {
	testCases := []struct {
		name  string
		vars  map[string]string
		field string
	}{
		{"unknown store", map[string]string{"AGENCY_STORE": "postgres"}, "AGENCY_STORE"},
		{"save interval too short", map[string]string{"AGENCY_SAVE_INTERVAL": "100ms"}, "AGENCY_SAVE_INTERVAL"},
		{"save interval too long", map[string]string{"AGENCY_SAVE_INTERVAL": "2s"}, "AGENCY_SAVE_INTERVAL"},
		{"empty sqlite path", map[string]string{"AGENCY_SQLITE_PATH": " "}, "AGENCY_SQLITE_PATH"},
		{"bad log level", map[string]string{"AGENCY_LOG_LEVEL": "loud"}, "AGENCY_LOG_LEVEL"},
		{"port out of range", map[string]string{"AGENCY_HTTP_PORT": "70000"}, "AGENCY_HTTP_PORT"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := config.LoadFrom(tc.vars)
			s.Require().Error(err)
			s.True(errors.IsInvalidArgument(err))
			s.Contains(err.Error(), tc.field)
		})
	}

	s.Run("unparseable duration", func() {
		_, err := config.LoadFrom(map[string]string{"AGENCY_SAVE_INTERVAL": "soon"})
		s.True(errors.IsInvalidArgument(err))
	})
}
