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
	t.Setenv("HOME", t.TempDir())
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://healthcare-ai-backend-re4u.onrender.com", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, 10*time.Second, cfg.Reminder.PollInterval)
	assert.Equal(t, 120*time.Second, cfg.Reminder.Window)
	assert.Equal(t, 5*time.Minute, cfg.Reminder.Snooze)
	assert.False(t, cfg.Reminder.RearmOnSnooze)
	assert.Zero(t, cfg.Sync.Interval)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "care.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  base_url: http://localhost:8000/
reminder:
  poll_interval: 5s
  rearm_on_snooze: true
sync:
  interval: 2m
log:
  level: debug
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Reminder.PollInterval)
	assert.True(t, cfg.Reminder.RearmOnSnooze)
	assert.Equal(t, 2*time.Minute, cfg.Sync.Interval)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 120*time.Second, cfg.Reminder.Window, "unset keys keep defaults")
}

func TestLoadSearchPath(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile("care-reminder.yaml", []byte("log:\n  level: warn\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("CARE_API_BASE_URL", "https://staging.example.org")
	t.Setenv("CARE_REMINDER_SNOOZE", "10m")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://staging.example.org", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Minute, cfg.Reminder.Snooze)
}

func TestLoadErrors(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "an explicit path must exist")

	t.Setenv("CARE_REMINDER_POLL_INTERVAL", "0s")
	_, err = Load("")
	assert.ErrorContains(t, err, "reminder.poll_interval")
}
