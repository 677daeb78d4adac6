package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "./reachscore.db", cfg.Database.Path)
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 0.3, cfg.Score.Defaults.Likes)
	assert.Equal(t, 0.02, cfg.Score.Defaults.Follow)
	assert.Equal(t, 0.01, cfg.Score.Defaults.Block)
	assert.True(t, cfg.Batch.SameAuthor)
	assert.Equal(t, 10, cfg.Diversity.Posts)
	require.NoError(t, cfg.Validate())
}

func TestLoadNoPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFileMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  port: 9090
log:
  format: json
score:
  defaults:
    likes: 0.6
batch:
  same_author: false
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 0.6, cfg.Score.Defaults.Likes)
	assert.Equal(t, 0.15, cfg.Score.Defaults.Replies, "unset values keep defaults")
	assert.False(t, cfg.Batch.SameAuthor)
	assert.Equal(t, "./reachscore.db", cfg.Database.Path)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not, a, map"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("REACHSCORE_DB_PATH", "/tmp/history.db")
	t.Setenv("REACHSCORE_LOG_LEVEL", "debug")
	t.Setenv("REACHSCORE_PORT", "7000")
	t.Setenv("REACHSCORE_HISTORY", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/history.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.True(t, cfg.History.Enabled)
}

func TestEnvOverrideInvalidPort(t *testing.T) {
	t.Setenv("REACHSCORE_PORT", "eighty")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REACHSCORE_PORT")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Log.Format = "xml"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Server.Port = -1
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Diversity.Posts = -3
	assert.Error(t, cfg.Validate())
}
