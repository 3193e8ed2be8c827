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
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "catalog", cfg.PostgresDB)
	assert.Equal(t, 5*time.Minute, cfg.ProductCacheTTL)
	assert.False(t, cfg.CacheEnabled())
	assert.False(t, cfg.EventsEnabled())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("CATALOG_HTTP_PORT", "9090")
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092,broker-2:9092")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, "db.internal", cfg.Postgres().Host)
	assert.True(t, cfg.CacheEnabled())
	assert.Equal(t, "cache.internal:6379", cfg.Redis().Addr())
	assert.True(t, cfg.EventsEnabled())
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.KafkaBrokers)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("CATALOG_HTTP_PORT", "99999")

	cfg, err := Load()

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "invalid HTTP port")
}
