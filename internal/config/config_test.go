package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
auth:
  secret: s3cret
  owner_email: owner@example.com
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, 168*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, "", cfg.DB.Dsn)
	assert.False(t, cfg.Limiter.Enabled)
	assert.Equal(t, 4, cfg.Tasks.MaxWorkers)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
auth:
  secret: s3cret
  owner_email: owner@example.com
server:
  port: "9000"
`)
	t.Setenv("STREAMHUB_PORT", "9090")
	t.Setenv("STREAMHUB_DB_DSN", "postgres://u:p@localhost/db")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "postgres://u:p@localhost/db", cfg.DB.Dsn)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
	assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "absent.yml")) })
}

func TestLoadRequiresSecret(t *testing.T) {
	path := writeConfig(t, `
auth:
  owner_email: owner@example.com
`)
	_, err := Load(path)
	assert.Error(t, err)
}
