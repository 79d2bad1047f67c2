package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
env: prod
api:
  base_url: "https://dairy.example.com/api"
  timeout: 15s
  rate_limit: 5
  rate_burst: 2
credentials:
  backend: redis
  key_prefix: "customer:"
  redis_connection:
    addressredis: "localhost:6379"
    password: "redis_pass"
    db: 2
    dial_timeout: 5s
session:
  logout_on_expiry: true
dev_server:
  addresshttp: ":9090"
  jwt_secret_key: "secret"
  token_ttl: 1h
  cache:
    addressredis: "localhost:6380"
  cache_ttl: 30s
  billing_interval: 10m
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "https://dairy.example.com/api", cfg.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, 5.0, cfg.API.RateLimit)
	assert.Equal(t, 2, cfg.API.RateBurst)
	assert.Equal(t, "redis", cfg.Backend)
	assert.Equal(t, "customer:", cfg.KeyPrefix)
	assert.Equal(t, "localhost:6379", cfg.AddressRedis)
	assert.Equal(t, "redis_pass", cfg.Password)
	assert.Equal(t, 2, cfg.DB)
	assert.Equal(t, 5*time.Second, cfg.DialTimeout)
	assert.True(t, cfg.LogoutOnExpiry)
	assert.Equal(t, ":9090", cfg.AddressHTTP)
	assert.Equal(t, "secret", cfg.JWTSecretKey)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, "localhost:6380", cfg.DevServer.Cache.AddressRedis)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, 10*time.Minute, cfg.BillingInterval)
}

func TestLoad_DefaultValues(t *testing.T) {
	path := writeConfig(t, `
env: local
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api", cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, 0.0, cfg.API.RateLimit)
	assert.Equal(t, "file", cfg.Backend)
	assert.Equal(t, "milk:", cfg.KeyPrefix)
	assert.False(t, cfg.LogoutOnExpiry)
	assert.Equal(t, ":8080", cfg.AddressHTTP)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.Equal(t, time.Hour, cfg.BillingInterval)
	assert.Empty(t, cfg.DevServer.Cache.AddressRedis)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestLoad_EnvOnly(t *testing.T) {
	t.Setenv("MILK_API_URL", "http://10.0.0.2/api")
	t.Setenv("MILK_CREDENTIALS_BACKEND", "redis")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://10.0.0.2/api", cfg.BaseURL)
	assert.Equal(t, "redis", cfg.Backend)
	assert.Equal(t, "local", cfg.Env)
}

func TestConfig_String(t *testing.T) {
	cfg := &Config{Env: "dev"}
	cfg.BaseURL = "http://x"
	out := cfg.String()
	assert.Contains(t, out, "Env: dev")
	assert.Contains(t, out, "BaseURL: http://x")
}
