package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  path: /tmp/ambassadord.db
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ambassadord", cfg.App.Name)
	assert.Equal(t, 8080, cfg.API.Port)
	assert.Equal(t, 20, cfg.Tracker.BatchSize)
	assert.Equal(t, time.Hour, cfg.Tracker.Interval())
	assert.Equal(t, 30*time.Minute, cfg.Tracker.FollowUpDelay())
	assert.Equal(t, 24*time.Hour, cfg.Tracker.RegionCooldown())
	assert.Equal(t, 48*time.Hour, cfg.Tracker.LogRetention())
	assert.Equal(t, "exports", cfg.Exports.Path)
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("TEST_BEARER_TOKEN", "token-from-env")

	path := writeConfig(t, `
database:
  path: /tmp/ambassadord.db
tracker:
  bearer_token: ${TEST_BEARER_TOKEN}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "token-from-env", cfg.Tracker.BearerToken)
}

func TestLoadAllowsMissingBearerToken(t *testing.T) {
	path := writeConfig(t, `
database:
  path: /tmp/ambassadord.db
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Tracker.BearerToken)
}

func TestValidateRequiresDatabasePath(t *testing.T) {
	path := writeConfig(t, `
app:
  name: test
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database path")
}

func TestAuthDefaultsOnWhenAPIEnabled(t *testing.T) {
	path := writeConfig(t, `
database:
  path: /tmp/ambassadord.db
api:
  enabled: true
  auth:
    api_keys:
      - key: secret
        name: ops
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.API.Auth.IsEnabled())
}

func TestAuthExplicitlyDisabled(t *testing.T) {
	path := writeConfig(t, `
database:
  path: /tmp/ambassadord.db
api:
  enabled: true
  auth:
    enabled: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.API.Auth.IsEnabled())
}

func TestValidateRequiresAPIKeysWhenAuthEnabled(t *testing.T) {
	path := writeConfig(t, `
database:
  path: /tmp/ambassadord.db
api:
  enabled: true
  auth:
    enabled: true
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api keys")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
