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
	path := filepath.Join(t.TempDir(), "facility-locator.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
token: "abc"
dbPath: "/tmp/f.db"
commandPrefix: "?"
ownerIds: [1, 2]
flowTimeoutSeconds: 60
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "abc", cfg.Token)
	assert.Equal(t, "/tmp/f.db", cfg.DBPath)
	assert.Equal(t, "?", cfg.CommandPrefix)
	assert.Equal(t, time.Minute, cfg.FlowTimeout())
	assert.True(t, cfg.IsOwner(2))
	assert.False(t, cfg.IsOwner(3))
	assert.Equal(t, "json", cfg.LogFormat)
	assert.NoError(t, cfg.RequireToken())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "from-env")
	t.Setenv("FACILITY_DB", "/data/env.db")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("OWNER_IDS", "10, 20")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(writeConfig(t, `token: "from-file"`))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Token)
	assert.Equal(t, "/data/env.db", cfg.DBPath)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, []int64{10, 20}, cfg.OwnerIDs)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadDefaultPathMissing(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 180*time.Second, cfg.FlowTimeout())
	assert.Equal(t, "!", cfg.CommandPrefix)
	assert.Error(t, cfg.RequireToken())
}

func TestLoadExplicitPathMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsBadOwnerIDs(t *testing.T) {
	t.Setenv("OWNER_IDS", "1,abc")
	_, err := Load(writeConfig(t, ``))
	assert.ErrorContains(t, err, "OWNER_IDS")
}

func TestValidateConfig(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, validateConfig(cfg))

	bad := cfg
	bad.LogFormat = "xml"
	assert.Error(t, validateConfig(bad))

	bad = cfg
	bad.FlowTimeoutSeconds = 0
	assert.Error(t, validateConfig(bad))

	bad = cfg
	bad.DBPath = " "
	assert.Error(t, validateConfig(bad))
}
