package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "notehub", cfg.Database.Database)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, time.Hour, cfg.Auth.AccessExpiry)
	assert.Empty(t, cfg.Kafka.Brokers, "event publishing disabled by default")
	assert.Equal(t, "note-events", cfg.Kafka.Topic)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := []byte(`
server:
  addr: ":9090"
  request_timeout: 10s
database:
  host: db.internal
  port: 5433
redis:
  addr: cache.internal:6379
kafka:
  brokers:
    - broker-1:9092
    - broker-2:9092
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "cache.internal:6379", cfg.Redis.Addr)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Kafka.Brokers)

	// Unset keys still fall back to defaults.
	assert.Equal(t, "postgres", cfg.Database.User)
	assert.Equal(t, "note-events", cfg.Kafka.Topic)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("DB_NAME", "notehub_test")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092,broker-2:9092")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "notehub_test", cfg.Database.Database)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Kafka.Brokers)
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	cfg, err := Load("/nonexistent/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestGetEnvAsDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "90s")
	assert.Equal(t, 90*time.Second, GetEnvAsDuration("TEST_DURATION", time.Minute))

	t.Setenv("TEST_DURATION", "not-a-duration")
	assert.Equal(t, time.Minute, GetEnvAsDuration("TEST_DURATION", time.Minute))
}
