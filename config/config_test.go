package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost:8080", cfg.Server.Hostname)
	assert.Equal(t, "debug", cfg.Server.Mode)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Contains(t, cfg.Database.URL, "postgres://")
	assert.Equal(t, int32(20), cfg.Database.MaxConns)
	assert.Equal(t, int32(5), cfg.Database.MinConns)
	assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.Pretty)
}

func TestLoad_FromYAMLFile(t *testing.T) {
	content := []byte(`
server:
  port: 9000
  hostname: pay.example.com
database:
  driver: memory
log:
  level: debug
  pretty: true
`)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "pay.example.com", cfg.Server.Hostname)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)
}

func TestLoad_ContractEnvNames(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/billing?sslmode=disable")
	t.Setenv("TEST_DATABASE_URL", "postgres://u:p@db:5432/billing_test?sslmode=disable")
	t.Setenv("SYNC_DRIVER", "memory")
	t.Setenv("SERVER_HOSTNAME", "pay.example.com")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "postgres://u:p@db:5432/billing?sslmode=disable", cfg.Database.URL)
	assert.Equal(t, "postgres://u:p@db:5432/billing_test?sslmode=disable", cfg.Database.TestURL)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, "pay.example.com", cfg.Server.Hostname)
}

func TestLoad_PrefixedEnvOverridesContractName(t *testing.T) {
	t.Setenv("SYNC_DRIVER", "postgres")
	t.Setenv("BILLING_DATABASE_DRIVER", "memory")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Database.Driver)
}
