package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TRAFFIC_DB", "")
	t.Setenv("TRAFFIC_DEBUG", "")
	t.Setenv("TRAFFIC_LOG_DIR", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, ".config/traffic/traffic.db"), cfg.Storage.DSN)
	assert.Equal(t, filepath.Join(home, ".config/traffic/logs"), cfg.Log.Dir)
	assert.False(t, cfg.Log.Debug)
	assert.Equal(t, DefaultConfig().Work, cfg.Work)
}

func TestLoadFile(t *testing.T) {
	t.Setenv("TRAFFIC_DB", "")
	t.Setenv("TRAFFIC_DEBUG", "")
	t.Setenv("TRAFFIC_LOG_DIR", "")

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[storage]
dsn = "postgres://planner@db.local/studio"

[log]
debug = true
dir = "/var/log/traffic"

[work]
workday_start = 8.5
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://planner@db.local/studio", cfg.Storage.DSN)
	assert.True(t, cfg.Log.Debug)
	assert.Equal(t, "/var/log/traffic", cfg.Log.Dir)
	assert.Equal(t, 8.5, cfg.Work.WorkdayStart)
	assert.Equal(t, 18.0, cfg.Work.WorkdayEnd, "unset keys keep their defaults")
}

func TestLoadRejectsInvalidWork(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[work]\nlunch_start = 20\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[storage\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TRAFFIC_DB", "keyring")
	t.Setenv("TRAFFIC_DEBUG", "true")
	t.Setenv("TRAFFIC_LOG_DIR", "/tmp/traffic-logs")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, KeyringDSN, cfg.Storage.DSN)
	assert.True(t, cfg.Log.Debug)
	assert.Equal(t, "/tmp/traffic-logs", cfg.Log.Dir)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("TRAFFIC_DB", "")
	t.Setenv("TRAFFIC_DEBUG", "")
	t.Setenv("TRAFFIC_LOG_DIR", "")

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := DefaultConfig()
	cfg.Storage.DSN = "/data/traffic.db"
	cfg.Work.MeetingHours = 1.5
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/traffic.db", loaded.Storage.DSN)
	assert.Equal(t, 1.5, loaded.Work.MeetingHours)
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandHome("~/x/y")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "x/y"), got)

	got, err = ExpandHome("/abs/path")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path", got)
}
