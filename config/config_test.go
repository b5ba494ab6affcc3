package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("CATALOG_BASE_URL", "http://catalog.local/api/v1/")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "http://catalog.local/api/v1", cfg.Catalog.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.Cache.KeepUnused)
	assert.Equal(t, 3*time.Second, cfg.Server.RenderTimeout)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,")
	t.Setenv("CATALOG_TIMEOUT_SECONDS", "3")
	t.Setenv("CACHE_SWEEP_SECONDS", "nope")

	cfg := Load()

	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 3*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Cache.SweepInterval)
}
