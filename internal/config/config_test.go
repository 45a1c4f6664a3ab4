package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SCRIBE_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "ws://127.0.0.1:4040/ipc", cfg.Host.URL)
	require.Equal(t, 10, cfg.Host.DialTimeout)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := "[host]\nurl = \"ws://10.0.0.1:9000/ipc\"\n\n[log]\nlevel = \"debug\"\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Setenv("SCRIBE_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "ws://10.0.0.1:9000/ipc", cfg.Host.URL)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "console", cfg.Log.Format, "unset keys keep defaults")
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("SCRIBE_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	t.Setenv("SCRIBE_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "warn", cfg.Log.Level)
}
