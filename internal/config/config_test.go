package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/caloriepad/caloriepad/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	want := DefaultConfig()
	assert.Equal(t, want.Remote, cfg.Remote)
	assert.Equal(t, want.Search, cfg.Search)
	assert.Equal(t, want.Log, cfg.Log)
	assert.Equal(t, storage.BackendSQLite, cfg.Storage.Backend)
	require.NotNil(t, cfg.Storage.Postgres)
	assert.Equal(t, 5432, cfg.Storage.Postgres.Port)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
storage:
  backend: postgres
  postgres:
    host: db.internal
    port: 6543
    password: hunter2
remote:
  enabled: false
  timeout: 3s
  page_size: 50
search:
  suggestion_limit: 10
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, storage.BackendPostgres, cfg.Storage.Backend)
	assert.Equal(t, "db.internal", cfg.Storage.Postgres.Host)
	assert.Equal(t, 6543, cfg.Storage.Postgres.Port)
	assert.Equal(t, "caloriepad", cfg.Storage.Postgres.Database, "unset keys keep defaults")
	assert.False(t, cfg.Remote.Enabled)
	assert.Equal(t, 3*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, 50, cfg.Remote.PageSize)
	assert.Equal(t, DefaultRemoteBaseURL, cfg.Remote.BaseURL)
	assert.Equal(t, 10, cfg.Search.SuggestionLimit)

	level, err := cfg.Log.ZapLevel()
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, level)

	assert.NotContains(t, cfg.String(), "hunter2")
	assert.Contains(t, cfg.String(), "db.internal")
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
remote:
  page_size: 50
log:
  level: info
`)
	t.Setenv("CALORIEPAD_REMOTE_PAGE_SIZE", "5")
	t.Setenv("CALORIEPAD_REMOTE_ENABLED", "false")
	t.Setenv("CALORIEPAD_LOG_LEVEL", "error")
	t.Setenv(storage.DBPathEnv, ":memory:")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Remote.PageSize)
	assert.False(t, cfg.Remote.Enabled)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, ":memory:", cfg.Storage.Path)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"bad backend", "storage:\n  backend: redis\n", "storage backend"},
		{"bad page size", "remote:\n  page_size: 0\n", "page_size"},
		{"bad level", "log:\n  level: loud\n", "log.level"},
		{"bad yaml", "remote: [", "failed to read config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestRemoteConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *RemoteConfig)
		wantErr string
	}{
		{"default config is valid", func(c *RemoteConfig) {}, ""},
		{"relative base url", func(c *RemoteConfig) { c.BaseURL = "/cgi" }, "base_url"},
		{"timeout too short", func(c *RemoteConfig) { c.Timeout = time.Millisecond }, "timeout"},
		{"too many retries", func(c *RemoteConfig) { c.MaxRetries = 11 }, "max_retries"},
		{"backoff inverted", func(c *RemoteConfig) { c.MaxBackoff = c.InitialBackoff / 2 }, "max_backoff"},
		{"zero failure threshold", func(c *RemoteConfig) { c.CircuitFailureThreshold = 0 }, "circuit_failure_threshold"},
		{"negative rate", func(c *RemoteConfig) { c.RateLimit = -1 }, "rate_limit"},
		{"rate without burst", func(c *RemoteConfig) { c.RateBurst = 0 }, "rate_burst"},
		{"no limiting needs no burst", func(c *RemoteConfig) { c.RateLimit = 0; c.RateBurst = 0 }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultRemoteConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSearchConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultSearchConfig().Validate())

	cfg := DefaultSearchConfig()
	cfg.SuggestionLimit = 0
	assert.NoError(t, cfg.Validate(), "0 means unlimited")

	cfg.SuggestionLimit = -1
	assert.Error(t, cfg.Validate())

	cfg = DefaultSearchConfig()
	cfg.PopularLimit = 0
	assert.Error(t, cfg.Validate())
}

func TestConfigString(t *testing.T) {
	s := DefaultConfig().String()
	for _, want := range []string{"sqlite(", "RemoteConfig{", "SuggestionLimit: 6", "warn/console"} {
		assert.True(t, strings.Contains(s, want), "String() = %s, missing %s", s, want)
	}
}
