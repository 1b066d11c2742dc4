package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("QUERYDSL_DATABASE_DRIVER", "mysql")
	t.Setenv("QUERYDSL_DATABASE_DSN", "root:root@tcp(localhost:3306)/querydsl")
	t.Setenv("QUERYDSL_DATABASE_MAX_OPEN_CONNS", "10")
	t.Setenv("QUERYDSL_DATABASE_SLOW_QUERY_THRESHOLD", "250ms")
	t.Setenv("QUERYDSL_LOG_SQL", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, 250*time.Millisecond, cfg.Database.SlowQueryThreshold)
	assert.True(t, cfg.Log.SQL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadDotEnv(t *testing.T) {
	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(file, []byte("QUERYDSL_LOG_LEVEL=debug\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("QUERYDSL_LOG_LEVEL") })

	cfg, err := Load(file, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv("QUERYDSL_DATABASE_DRIVER", "oracle")

	_, err := Load()
	assert.ErrorContains(t, err, "invalid config")
}
