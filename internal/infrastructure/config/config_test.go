package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.Auth.JWTTTL)
	assert.Equal(t, 720*time.Hour, cfg.Auth.RevocationTTL)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, 10, cfg.Postgres.MaxOpenConns)
	assert.Equal(t, "messagely", cfg.Mongo.Database)
	assert.Empty(t, cfg.Redis.Addr)
	assert.True(t, cfg.Development())
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":       "s3cret",
		"PORT":             "9090",
		"ENV":              "production",
		"JWT_TTL":          "0s",
		"BCRYPT_COST":      "4",
		"STORE_DRIVER":     "memory",
		"REDIS_ADDR":       "localhost:6379",
		"REDIS_DB":         "2",
		"REDIS_PASSWORD":   "hunter2",
		"SHUTDOWN_TIMEOUT": "30s",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "hunter2", cfg.Redis.Password)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.Development())
	assert.Equal(t, time.Duration(0), cfg.Auth.JWTTTL)
	assert.Equal(t, 4, cfg.Auth.BcryptCost)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
}

func TestLoadFrom_RequiresSecret(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadFrom_RejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown driver": {"STORE_DRIVER": "sqlite"},
		"low cost":       {"BCRYPT_COST": "2"},
		"high cost":      {"BCRYPT_COST": "32"},
		"negative ttl":   {"JWT_TTL": "-1h"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			env["JWT_SECRET"] = "s3cret"
			_, err := LoadFrom(context.Background(), envconfig.MapLookuper(env))
			assert.Error(t, err)
		})
	}
}
