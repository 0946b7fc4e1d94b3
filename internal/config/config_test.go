package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "appeal-router", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, "memory", cfg.Assignment.GuardBackend)
	assert.Equal(t, 1, cfg.Assignment.ResolveRetries)
	assert.Equal(t, "appeal-router:load:", cfg.Assignment.RedisKeyPrefix)
	assert.Equal(t, 60, cfg.Auth.AccessTokenTTLMinutes)
	assert.True(t, cfg.Postgres.RunMigrations)
	assert.Empty(t, cfg.Broker.URL)
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("ASSIGNMENT_GUARD_BACKEND", "redis")
	t.Setenv("ASSIGNMENT_RESOLVE_RETRIES", "3")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "false")
	t.Setenv("REDIS_DB", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
	assert.Equal(t, "redis", cfg.Assignment.GuardBackend)
	assert.Equal(t, 3, cfg.Assignment.ResolveRetries)
	assert.False(t, cfg.Postgres.RunMigrations)
	assert.Equal(t, 2, cfg.Redis.DB)
}

func TestLoad_InvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_MalformedIntFallsBack(t *testing.T) {
	t.Setenv("ASSIGNMENT_RESOLVE_RETRIES", "many")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Assignment.ResolveRetries)
}

func TestWebhookTimeout_FloorsNonPositive(t *testing.T) {
	n := NotificationConfig{TimeoutSeconds: 0}
	assert.Equal(t, 10*time.Second, n.WebhookTimeout())

	n.TimeoutSeconds = 3
	assert.Equal(t, 3*time.Second, n.WebhookTimeout())
}
