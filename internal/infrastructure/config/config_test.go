package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Search.Backend)
	assert.Equal(t, 100, cfg.Search.CacheCapacity)
	assert.Equal(t, 5*time.Minute, cfg.Search.CacheTTL)
	assert.Equal(t, 500*time.Millisecond, cfg.Search.QueryTimeout)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.AccessTokenExpire)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "config"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config", "config.yaml"), []byte(`
server:
  port: 9090
database:
  driver: sqlite
  sqlite_path: test.db
`), 0o644))

	t.Setenv("BOOKSTORE_SERVER_PORT", "9191")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "test.db", cfg.Database.DSN())
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: 8080, Mode: "debug"},
			Database: DatabaseConfig{Driver: "mysql"},
			Search:   SearchConfig{Backend: "memory", CacheCapacity: 100},
			Outbox:   OutboxConfig{EventSink: "log"},
			Realtime: RealtimeConfig{Bridge: "none"},
			JWT:      JWTConfig{Secret: "change-me-in-production"},
		}
	}

	assert.NoError(t, validate(base()))

	cfg := base()
	cfg.Server.Mode = "release"
	assert.Error(t, validate(cfg))

	cfg = base()
	cfg.Search.Backend = "redis"
	assert.Error(t, validate(cfg))
	cfg.Redis.Enabled = true
	assert.NoError(t, validate(cfg))

	cfg = base()
	cfg.Database.Driver = "postgres"
	assert.Error(t, validate(cfg))
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Driver: "mysql", User: "root", Password: "pw", Host: "db", Port: 3306,
		DBName: "boipara", Charset: "utf8mb4", ParseTime: true, Loc: "Asia/Dhaka",
	}
	assert.Equal(t, "root:pw@tcp(db:3306)/boipara?charset=utf8mb4&parseTime=true&loc=Asia%2FDhaka", d.DSN())
}
