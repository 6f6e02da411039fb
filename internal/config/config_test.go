package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/football-stats-service/internal/config"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func setSecrets(t *testing.T, user, pass, db string) {
	t.Helper()
	t.Setenv("APP_POSTGRES_USER", user)
	t.Setenv("APP_POSTGRES_PASSWORD", pass)
	t.Setenv("APP_POSTGRES_DB", db)
}

func TestConfigLoad_FromYAMLAndEnv(t *testing.T) {
	yaml := `
app:
  name: football-stats-service
  version: 0.2.0
  env: test
  port: 18080
  photo_dir: /var/lib/football/photos
  shutdown_timeout: 20

logger:
  level: info
  format: json
  output_target: stdout
  time_format: rfc3339

postgres:
  host: 127.0.0.1
  port: 5432
  sslmode: disable
  max_conns: 5
  min_conns: 1
`
	path := writeTempConfig(t, yaml)
	setSecrets(t, "coach", "secret", "football")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 18080, cfg.App.Port)
	assert.Equal(t, "/var/lib/football/photos", cfg.App.PhotoDir)
	assert.Equal(t, 20, cfg.App.ShutdownTimeout)
	assert.Equal(t, "coach", cfg.Postgres.User)
	assert.Equal(t, "secret", cfg.Postgres.Password)
	assert.Equal(t, "football", cfg.Postgres.DBName)
	assert.Equal(t, int32(5), cfg.Postgres.MaxConns)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestConfigLoad_DefaultsFillGaps(t *testing.T) {
	path := writeTempConfig(t, "app:\n  env: dev\n")
	setSecrets(t, "coach", "secret", "football")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "uploads", cfg.App.PhotoDir)
	assert.Equal(t, 10, cfg.App.ShutdownTimeout)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, 5432, cfg.Postgres.Port)
}

func TestConfigLoad_EnvOverridesYAML(t *testing.T) {
	path := writeTempConfig(t, "app:\n  port: 9000\n")
	setSecrets(t, "coach", "secret", "football")
	t.Setenv("APP_APP_PORT", "9100")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.App.Port)
}

func TestConfigLoad_MissingRequiredEnvFails(t *testing.T) {
	path := writeTempConfig(t, "app:\n  env: test\n")
	setSecrets(t, "", "", "")

	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestConfigLoad_InvalidEnumFails(t *testing.T) {
	path := writeTempConfig(t, "app:\n  env: qa\n")
	setSecrets(t, "coach", "secret", "football")

	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestConfigLoad_MissingFileFails(t *testing.T) {
	setSecrets(t, "coach", "secret", "football")
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
