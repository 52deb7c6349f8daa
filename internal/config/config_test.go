package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vasiliy-maslov/ecommerce-admin/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("", "")
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.App.Port)
	assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Orders.PollInterval)
	assert.Equal(t, config.SessionStoreMemory, cfg.Session.Store)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "config.yaml")
	err := os.WriteFile(yamlPath, []byte(`
app:
  port: "9000"
api:
  base_url: http://api.internal
orders:
  poll_interval: 5s
`), 0o600)
	require.NoError(t, err)

	t.Setenv("API_BASE_URL", "http://override")

	cfg, err := config.Load(yamlPath, "")
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, "http://override", cfg.API.BaseURL, "env must win over yaml")
	assert.Equal(t, 5*time.Second, cfg.Orders.PollInterval)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("ORDERS_POLL_INTERVAL=1s\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("ORDERS_POLL_INTERVAL") })

	cfg, err := config.Load("", envPath)
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.Orders.PollInterval)
}

func TestLoad_MissingDotEnvIsIgnored(t *testing.T) {
	_, err := config.Load("", filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "bad duration", key: "API_TIMEOUT", val: "soon"},
		{name: "bad store", key: "SESSION_STORE", val: "disk"},
		{name: "bad redis db", key: "REDIS_DB", val: "one"},
		{name: "zero poll", key: "ORDERS_POLL_INTERVAL", val: "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := config.Load("", "")
			assert.Error(t, err)
		})
	}
}
