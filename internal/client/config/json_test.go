package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJSON_SourcesAndPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := writeTempJSON(t, dir, "flag.json", map[string]any{
		"api_base_url":    "https://www.example/api",
		"app_version":     "2.0.0",
		"request_timeout": "10s",
	})

	t.Run("loads from -config", func(t *testing.T) {
		cfg := &Config{APIKey: "kept", LogLevel: "warn"}
		require.NoError(t, parseJSON(cfg, []string{"-config", path}))

		assert.Equal(t, "https://www.example/api", cfg.APIBaseURL)
		assert.Equal(t, "2.0.0", cfg.AppVersion)
		assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
		assert.Equal(t, "kept", cfg.APIKey, "absent keys do not overwrite")
		assert.Equal(t, "warn", cfg.LogLevel)
	})

	t.Run("nanosecond timeout", func(t *testing.T) {
		p := writeTempJSON(t, dir, "ns.json", map[string]any{"request_timeout": int64(2 * time.Second)})
		cfg := &Config{}
		require.NoError(t, parseJSON(cfg, []string{"-c", p}))
		assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	})

	t.Run("no flag means no changes", func(t *testing.T) {
		cfg := &Config{APIBaseURL: "http://defaults/api", RequestTimeout: 42 * time.Second}
		require.NoError(t, parseJSON(cfg, nil))

		assert.Equal(t, "http://defaults/api", cfg.APIBaseURL)
		assert.Equal(t, 42*time.Second, cfg.RequestTimeout)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))
		require.Error(t, parseJSON(&Config{}, []string{"-config", bad}))
	})

	t.Run("missing file", func(t *testing.T) {
		require.ErrorContains(t, parseJSON(&Config{}, []string{"-c", filepath.Join(dir, "nope.json")}), "read config")
	})
}
