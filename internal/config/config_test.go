package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  host: "127.0.0.1"
  port: 9090
  env: "development"
database:
  url: "postgres://localhost/test"
storage:
  type: "local"
  base_path: "/tmp/drive"
  base_url: "/files"
transient:
  base_path: "/tmp/temp"
  ttl_hours: 12
upload:
  max_size: 1048576
  allowed_types: ["image/png"]
`), 0o644))

	t.Setenv("DATABASE_URL", "")
	t.Setenv("CONFIG_PATH", path)
	LoadConfig()

	cfg := AppConfig
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres://localhost/test", cfg.Database.DSN)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, 12, cfg.Transient.TTLHours)
	assert.Equal(t, int64(1048576), cfg.Upload.MaxSize)
	assert.Equal(t, []string{"image/png"}, cfg.Upload.AllowedTypes)
	// Defaults fill what the file leaves out.
	assert.Equal(t, "./uploads/backup", cfg.Transient.BackupDir)
	assert.Equal(t, 15000, cfg.Upload.FetchTimeoutMS)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env/test")
	t.Setenv("SERVER_ENV", "test")
	t.Setenv("SERVER_PORT", "8099")
	LoadConfig()

	cfg := AppConfig
	assert.Equal(t, "postgres://env/test", cfg.Database.DSN)
	assert.Equal(t, "test", cfg.Server.Env)
	assert.Equal(t, 8099, cfg.Server.Port)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, 48, cfg.Transient.TTLHours)
}
