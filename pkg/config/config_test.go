package config_test

import (
	"testing"

	"github.com/jhoicas/heliosuite-api/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("JWT_SECRET", "s")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "heliosuite-api", cfg.App.Name)
	assert.Equal(t, 60, cfg.JWT.Expiration)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Memory")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SEED_OWNER_EMAIL", "owner@helio.test")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.BackendMemory, cfg.Store.Backend)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, "owner@helio.test", cfg.Seed.OwnerEmail)
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "mongo")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDSN_EscapesPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "helio", Password: "p@ss:word", DBName: "heliosuite", SSLMode: "disable"}
	assert.Equal(t, "postgres://helio:p%40ss%3Aword@db:5432/heliosuite?sslmode=disable", c.DSN())
	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
