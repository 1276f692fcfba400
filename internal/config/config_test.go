package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	uploads := filepath.Join(t.TempDir(), "uploads")
	dir := writeConfig(t, `
jwt:
  secret: test-secret
storage:
  local_path: `+uploads+`
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, 2.0, cfg.Progression.SeekToleranceSeconds)
	assert.Equal(t, 95.0, cfg.Progression.VideoCompletionPct)
	assert.Equal(t, 90.0, cfg.Progression.ReadingCompletionPct)
	assert.Equal(t, "redis", cfg.Progression.SessionStore)
	assert.Equal(t, 4*time.Hour, cfg.Progression.SessionTTL())
	assert.Equal(t, 6000, cfg.RateLimit.MaxRequests)

	_, err = os.Stat(uploads)
	assert.NoError(t, err, "local storage directory is created")
}

func TestLoadConfigProgressionOverrides(t *testing.T) {
	dir := writeConfig(t, `
jwt:
  secret: test-secret
storage:
  type: minio
progression:
  seek_tolerance_seconds: 5
  video_completion_pct: 80
  reading_completion_pct: 75
  session_store: memory
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, 5.0, cfg.Progression.SeekToleranceSeconds)
	assert.Equal(t, 80.0, cfg.Progression.VideoCompletionPct)
	assert.Equal(t, 75.0, cfg.Progression.ReadingCompletionPct)
	assert.Equal(t, "memory", cfg.Progression.SessionStore)
}

func TestLoadConfigRejectsBadProgression(t *testing.T) {
	cases := map[string]string{
		"negative tolerance": "seek_tolerance_seconds: -1",
		"video pct zero":     "video_completion_pct: 0",
		"reading pct 100":    "reading_completion_pct: 100",
		"unknown store":      "session_store: etcd",
	}
	for name, line := range cases {
		t.Run(name, func(t *testing.T) {
			dir := writeConfig(t, `
jwt:
  secret: test-secret
storage:
  type: minio
progression:
  `+line+`
`)
			_, err := LoadConfig(dir)
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigReleaseRequiresLongSecret(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: release
jwt:
  secret: short
storage:
  type: minio
`)
	_, err := LoadConfig(dir)
	assert.Error(t, err)
}
