package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("VERSION_RETENTION", "")
	t.Setenv("REDIS_HOST", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.VersionRetention)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.False(t, cfg.RedisEnabled())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("VERSION_RETENTION", "3")
	t.Setenv("CACHE_TTL_SECONDS", "60")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "templates")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.VersionRetention)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "host=db user=app password=secret dbname=templates port=5433 sslmode=disable", cfg.DSN())
	assert.Equal(t, "cache:6380", cfg.RedisFullAddr())
	assert.True(t, cfg.RedisEnabled())
}

func TestGetEnvAsIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("LOG_MAX_SIZE", "lots")
	assert.Equal(t, 100, getEnvAsInt("LOG_MAX_SIZE", 100))
}
