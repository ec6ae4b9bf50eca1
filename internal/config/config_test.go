package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, TransportStdio, cfg.Transport.Mode)
	require.Equal(t, "watchlog.db", cfg.DB.Path)
	require.Equal(t, 1000, cfg.Tracker.LogCapacity)
	require.Equal(t, 1000, cfg.Tracker.DedupLimit)
	require.Equal(t, 500, cfg.Tracker.DedupKeep)
	require.Equal(t, 256, cfg.Notify.BufferSize)
	require.Equal(t, 30*time.Second, time.Duration(cfg.Persist.Interval))
	require.False(t, cfg.Auth.Enabled)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchlog.yaml")
	err := os.WriteFile(path, []byte(`
server:
  port: 9090
transport:
  mode: http
tracker:
  tracked: [u1, u2]
  timezone: UTC
  notify_voice: true
persist:
  interval: 5m
`), 0o600)
	require.NoError(t, err)

	t.Setenv("WATCHLOG_CONFIG_PATH", path)
	t.Setenv("WATCHLOG_SERVER_PORT", "9191")
	t.Setenv("WATCHLOG_AUTH_TOKEN", "secret")
	t.Setenv("WATCHLOG_TRACK_ALL", "true")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9191, cfg.Server.Port)
	require.Equal(t, TransportHTTP, cfg.Transport.Mode)
	require.Equal(t, []string{"u1", "u2"}, cfg.Tracker.Tracked)
	require.True(t, cfg.Tracker.NotifyVoice)
	require.True(t, cfg.Tracker.TrackAll)
	require.True(t, cfg.Auth.Enabled)
	require.Equal(t, "secret", cfg.Auth.Token)
	require.Equal(t, 5*time.Minute, time.Duration(cfg.Persist.Interval))

	loc, err := cfg.Tracker.Location()
	require.NoError(t, err)
	require.Equal(t, time.UTC, loc)
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"port":      {"WATCHLOG_SERVER_PORT": "http"},
		"transport": {"WATCHLOG_TRANSPORT": "carrier-pigeon"},
		"track all": {"WATCHLOG_TRACK_ALL": "sometimes"},
		"timezone":  {"WATCHLOG_TIMEZONE": "Mars/Olympus_Mons"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestLoad_InvalidFileValues(t *testing.T) {
	cases := map[string]string{
		"duration":   "persist:\n  interval: soon\n",
		"dedup keep": "tracker:\n  dedup_limit: 10\n  dedup_keep: 20\n",
		"capacity":   "tracker:\n  log_capacity: 0\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "watchlog.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
			t.Setenv("WATCHLOG_CONFIG_PATH", path)

			_, err := Load()
			require.Error(t, err)
		})
	}
}
