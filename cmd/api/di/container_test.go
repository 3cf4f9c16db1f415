package di

import (
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"user-resource-service/internal/config"
)

func validConfig(t *testing.T) *config.Config {
	return &config.Config{
		DB: config.DatabaseConfig{
			URL:          "sqlite://" + filepath.Join(t.TempDir(), "users.db"),
			MaxOpenConns: 25,
			MaxIdleConns: 5,
			AutoMigrate:  true,
		},
		App: config.AppConfig{
			Host:                   "127.0.0.1",
			HTTPPort:               "8080",
			ShutdownTimeoutSeconds: 10,
		},
		Logger: config.LoggerConfig{Level: "info", Format: "json"},
		RateLimit: config.RateLimitConfig{
			RequestsPerSecond: 10,
			BurstCapacity:     20,
		},
	}
}

func TestNewContainer_DatabaseOnly(t *testing.T) {
	c, err := NewContainer(validConfig(t), zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	assert.NotNil(t, c.DB)
	assert.NotNil(t, c.UserUC)
	assert.NotNil(t, c.GinHandler)
	assert.Nil(t, c.RedisClient)
	assert.Nil(t, c.RateLimiter)
}

func TestNewContainer_WithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := validConfig(t)
	cfg.Redis = config.RedisConfig{Enabled: true, Host: mr.Host(), Port: mr.Port(), CacheTTL: 60}
	cfg.RateLimit.Enabled = true

	c, err := NewContainer(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.NotNil(t, c.RedisClient)
	assert.NotNil(t, c.RateLimiter)
	assert.NoError(t, c.Close())
}

func TestNewContainer_InvalidConfig(t *testing.T) {
	cfg := validConfig(t)
	cfg.DB.URL = ""

	c, err := NewContainer(cfg, zaptest.NewLogger(t))
	assert.Nil(t, c)
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestNewContainer_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := validConfig(t)
	cfg.Redis = config.RedisConfig{Enabled: true, Host: mr.Host(), Port: mr.Port()}
	mr.Close()

	c, err := NewContainer(cfg, zaptest.NewLogger(t))
	assert.Nil(t, c)
	assert.ErrorContains(t, err, "failed to initialize Redis")
}
