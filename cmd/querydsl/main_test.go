package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QUERYDSL_DATABASE_DRIVER", "sqlite3")
	t.Setenv("QUERYDSL_DATABASE_DSN", "file:"+filepath.Join(dir, "demo.db")+"?_foreign_keys=on")

	require.NoError(t, run(t, "migrate", "up"))
	require.NoError(t, run(t, "migrate", "status"))

	fixture := filepath.Join(dir, "fixture.yaml")
	require.NoError(t, os.WriteFile(fixture, []byte("members:\n  - {username: loner, age: 50}\n"), 0644))
	require.NoError(t, run(t, "seed", "-f", fixture))

	require.NoError(t, run(t, "demo"))
	require.NoError(t, run(t, "migrate", "down"))
}

func TestInvalidConfig(t *testing.T) {
	t.Setenv("QUERYDSL_DATABASE_DRIVER", "oracle")

	assert.Error(t, run(t, "migrate", "status"))
}

func TestGenRequiresFile(t *testing.T) {
	t.Setenv("GOFILE", "")

	assert.Error(t, run(t, "gen"))
}
