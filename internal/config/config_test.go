package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("APP_PORT", "")
	t.Setenv("OTEL_TRACES_SAMPLER_RATIO", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Empty(t, cfg.Postgres.DSN)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, "staff.events", cfg.Notification.RedisChannel)
	assert.Equal(t, 15*time.Minute, cfg.Storage.PresignTTL())
	assert.InDelta(t, 1.0, cfg.Tracing.SampleRatio, 0.0001)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "0")
	t.Setenv("POSTGRES_MAX_CONNS", "25")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "false")
	t.Setenv("PAGINATION_MAX_FIRST", "50")
	t.Setenv("S3_PRESIGN_TTL_SECONDS", "60")
	t.Setenv("OTEL_TRACES_SAMPLER_RATIO", "0.25")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.App.Port)
	assert.Zero(t, cfg.App.RequestTimeout())
	assert.EqualValues(t, 25, cfg.Postgres.MaxConns)
	assert.False(t, cfg.Postgres.RunMigrations)
	assert.Equal(t, 50, cfg.Pagination.MaxFirst)
	assert.Equal(t, time.Minute, cfg.Storage.PresignTTL())
	assert.InDelta(t, 0.25, cfg.Tracing.SampleRatio, 0.0001)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("redis db", func(t *testing.T) {
		t.Setenv("REDIS_DB", "one")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("sample ratio", func(t *testing.T) {
		t.Setenv("OTEL_TRACES_SAMPLER_RATIO", "2")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestEnvHelpersFallBack(t *testing.T) {
	t.Setenv("STAFF_TEST_INT", "abc")
	t.Setenv("STAFF_TEST_BOOL", "maybe")

	assert.Equal(t, 7, getEnvAsInt("STAFF_TEST_INT", 7))
	assert.True(t, getEnvAsBool("STAFF_TEST_BOOL", true))
	assert.Equal(t, "x", getEnv("STAFF_TEST_MISSING", "x"))
}
