package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DOTENV_FILE", filepath.Join(dir, "missing.env"))
	t.Setenv("CONFIG_FILE", "")
	for _, key := range []string{
		"LEDGER_STORAGE_DRIVER", "LEDGER_POSTGRES_DSN", "LEDGER_MONGO_URI",
		"LEDGER_JWT_SECRET", "LEDGER_HTTP_PORT", "LEDGER_TIMEZONE", "LEDGER_REDIS_ADDR",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadDefaultsWithMemoryDriver(t *testing.T) {
	isolate(t)
	t.Setenv("LEDGER_STORAGE_DRIVER", "Memory")
	t.Setenv("LEDGER_JWT_SECRET", "s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, ":8085", cfg.HTTPAddress())
	assert.Equal(t, "estacionamento", cfg.Mongo.Database)
	assert.Equal(t, 50, cfg.History.Limit)
	assert.Equal(t, 5*time.Second, cfg.LockTTL())
	assert.Equal(t, time.Hour, cfg.TokenTTL())
	assert.False(t, cfg.RedisEnabled())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoadFromYAMLFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "ledger.yaml")
	body := `
http:
  port: "9090"
storage:
  driver: mongo
mongo:
  uri: mongodb://localhost:27017
redis:
  addr: localhost:6379
  lockTTLMillis: 250
auth:
  jwtSecret: from-file
  tokenTTLMinutes: 5
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("LEDGER_HTTP_PORT", "9191")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverMongo, cfg.Storage.Driver)
	assert.Equal(t, ":9191", cfg.HTTPAddress())
	assert.Equal(t, 250*time.Millisecond, cfg.LockTTL())
	assert.Equal(t, 5*time.Minute, cfg.TokenTTL())
	assert.True(t, cfg.RedisEnabled())
}

func TestReadValidation(t *testing.T) {
	cases := map[string]map[string]string{
		"postgres without dsn": {"LEDGER_STORAGE_DRIVER": "postgres"},
		"mongo without uri":    {"LEDGER_STORAGE_DRIVER": "mongo"},
		"unknown driver":       {"LEDGER_STORAGE_DRIVER": "sqlite"},
		"bad timezone":         {"LEDGER_STORAGE_DRIVER": "memory", "LEDGER_TIMEZONE": "Mars/Olympus"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Read()
			assert.Error(t, err)
		})
	}
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	isolate(t)
	t.Setenv("LEDGER_STORAGE_DRIVER", "memory")

	_, err := Read()
	require.NoError(t, err)

	_, err = Load()
	assert.Error(t, err)
}
