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
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "configs/symbols.json", cfg.Registry.SymbolsFile)
	assert.Equal(t, "5 * * * * *", cfg.Schedule.RefreshCron)
	assert.Equal(t, 8, cfg.Engine.Workers)
	assert.Equal(t, 10*time.Second, cfg.Engine.QueryTimeout)
	assert.Equal(t, ":8080", cfg.Feed.Addr)
	assert.Empty(t, cfg.Database.Path)
	require.NoError(t, cfg.Validate())
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, `
redis:
  addr: cache:6380
  db: 2
registry:
  symbols_file: /etc/symbols.json
engine:
  workers: 3
  query_timeout: 2s
database:
  sqlite_path: /tmp/stats.db
log:
  level: debug
  format: console
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "/etc/symbols.json", cfg.Registry.SymbolsFile)
	assert.Equal(t, 3, cfg.Engine.Workers)
	assert.Equal(t, 2*time.Second, cfg.Engine.QueryTimeout)
	assert.Equal(t, "/tmp/stats.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := writeConfig(t, `
redis:
  addr: cache:6380
engine:
  workers: 3
`)
	t.Setenv("SYMBOLSTATS_REDIS_ADDR", "override:6379")
	t.Setenv("SYMBOLSTATS_ENGINE_WORKERS", "16")
	t.Setenv("SYMBOLSTATS_SCHEDULE_REFRESH_CRON", "0 */5 * * * *")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "override:6379", cfg.Redis.Addr)
	assert.Equal(t, 16, cfg.Engine.Workers)
	assert.Equal(t, "0 */5 * * * *", cfg.Schedule.RefreshCron)
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeConfig(t, "redis: [unterminated")
	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	cfg.Engine.Workers = -1
	assert.EqualError(t, cfg.Validate(), "engine.workers must be positive")

	cfg.Engine.Workers = 1
	cfg.Redis.Addr = ""
	assert.EqualError(t, cfg.Validate(), "redis.addr is required")
}

func TestLoad_IgnoresUnprefixedEnv(t *testing.T) {
	path := writeConfig(t, `
redis:
  addr: cache:6380
  password: secret
feed:
  addr: ":9090"
log:
  level: warn
`)
	t.Setenv("ADDR", "elsewhere:1")
	t.Setenv("PASSWORD", "other-tool")
	t.Setenv("DB", "7")
	t.Setenv("LEVEL", "trace")
	t.Setenv("WORKERS", "99")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.Equal(t, "secret", cfg.Redis.Password)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, ":9090", cfg.Feed.Addr)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 8, cfg.Engine.Workers)
}

func TestLoad_EnvMultiWordKeys(t *testing.T) {
	t.Setenv("SYMBOLSTATS_REGISTRY_SYMBOLS_FILE", "/srv/symbols.json")
	t.Setenv("SYMBOLSTATS_ENGINE_QUERY_TIMEOUT", "3s")
	t.Setenv("SYMBOLSTATS_DATABASE_PATH", "/var/lib/stats.db")
	t.Setenv("SYMBOLSTATS_FEED_ADDR", ":7070")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "/srv/symbols.json", cfg.Registry.SymbolsFile)
	assert.Equal(t, 3*time.Second, cfg.Engine.QueryTimeout)
	assert.Equal(t, "/var/lib/stats.db", cfg.Database.Path)
	assert.Equal(t, ":7070", cfg.Feed.Addr)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}
