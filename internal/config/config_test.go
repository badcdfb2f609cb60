package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celestiaorg/taskman/internal/db"
)

// isolate runs the test in an empty directory with a scratch home so no real
// config or .env file is picked up
func isolate(t *testing.T) string {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", dir)
	for _, key := range []string{
		"TASKMAN_LISTEN_ADDR", "TASKMAN_DB_DRIVER", "TASKMAN_DB_PATH", "TASKMAN_DB_DSN",
		"TASKMAN_TODO_DB_PATH", "TASKMAN_EXPORT_DIR", "TASKMAN_UI_DIR",
		"TASKMAN_LOG_LEVEL", "LOG_LEVEL", "TASKMAN_LOG_FORMAT", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	assert.Equal(t, db.DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "data/projects.db", cfg.DB.Path)
	assert.Equal(t, "data/todo.db", cfg.TodoDBPath)
	assert.Equal(t, "data/exports", cfg.ExportDir)
	assert.Equal(t, "ui", cfg.UIDir)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadPrecedence(t *testing.T) {
	dir := isolate(t)

	file := filepath.Join(dir, "taskman.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
listen_addr: ":9000"
db:
  driver: postgres
  dsn: "host=db user=u"
ui_dir: /srv/ui
`), 0o644))

	t.Run("file", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, ":9000", cfg.ListenAddr)
		assert.Equal(t, db.DriverPostgres, cfg.DB.Driver)
		assert.Equal(t, "host=db user=u", cfg.DBOptions().DSN)
		assert.Equal(t, "/srv/ui", cfg.UIDir)
	})

	t.Run("env wins over file", func(t *testing.T) {
		t.Setenv("TASKMAN_LISTEN_ADDR", ":7000")
		t.Setenv("TASKMAN_DB_DRIVER", "sqlite")
		t.Setenv("LOG_LEVEL", "debug")

		cfg, err := Load(file)
		require.NoError(t, err)
		assert.Equal(t, ":7000", cfg.ListenAddr)
		assert.Equal(t, db.DriverSQLite, cfg.DB.Driver)
		assert.Equal(t, "debug", cfg.Log.Level)
	})
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TASKMAN_EXPORT_DIR=/tmp/exports\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("TASKMAN_EXPORT_DIR") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/exports", cfg.ExportDir)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	dir := isolate(t)

	_, err := Load(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}
