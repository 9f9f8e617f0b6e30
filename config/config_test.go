package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadEnv_Defaults(t *testing.T) {
	cfg := LoadEnv()

	assert.Equal(t, ":8083", cfg.Server.HTTPPort)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, "orders.events", cfg.Kafka.OrdersTopic)
	assert.Equal(t, "inventory.events", cfg.Kafka.EventsTopic)
}

func TestLoadEnv_Overrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("POSTGRES_MAX_OPEN_CONNS", "not-a-number")

	cfg := LoadEnv()

	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 10, cfg.Postgres.MaxOpenConns)
}

func TestValidate_JWTSecret(t *testing.T) {
	cfg := LoadEnv()
	assert.NoError(t, cfg.Validate())

	t.Setenv("APP_ENV", "production")
	cfg = LoadEnv()
	assert.Error(t, cfg.Validate())

	t.Setenv("JWT_SECRET_KEY", "s3cret")
	cfg = LoadEnv()
	assert.NoError(t, cfg.Validate())

	t.Setenv("JWT_SECRET_KEY", "")
	cfg = LoadEnv()
	assert.Error(t, cfg.Validate())
}
