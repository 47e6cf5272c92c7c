package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	require.Equal(t, "http://localhost:8080", cfg.ServerBaseURL)
	require.Equal(t, "gallery.db", cfg.SessionDBPath)
}

func TestParseFlags_Overrides(t *testing.T) {
	oldArgs := os.Args
	os.Args = []string{"test", "-a", "https://gallery.example.com", "-f", "/tmp/s.db"}
	defer func() { os.Args = oldArgs }()

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	require.Equal(t, "https://gallery.example.com", cfg.ServerBaseURL)
	require.Equal(t, "/tmp/s.db", cfg.SessionDBPath)
}

func TestParseJson_AppliesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	content := `{
		"server_base_url": "https://api.example.com",
		"session_db_path": "/var/lib/gallery/session.db"
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	oldArgs := os.Args
	os.Args = []string{"test", "-c", path}
	defer func() { os.Args = oldArgs }()

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	require.Equal(t, "https://api.example.com", cfg.ServerBaseURL)
	require.Equal(t, "/var/lib/gallery/session.db", cfg.SessionDBPath)
}
