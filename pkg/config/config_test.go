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
	path := filepath.Join(t.TempDir(), "cluso.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvBearerToken, EnvAPIBaseURL, EnvLogLevel} {
		t.Setenv(k, "")
	}
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultMaxFriends, cfg.Collect.MaxFriends)
	assert.Equal(t, DefaultDataset, cfg.Cluster.Input)
	assert.Equal(t, 1, cfg.Cluster.MinCommon)
	assert.Equal(t, 0, cfg.Cluster.TargetComponents)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
log_level: debug
collect:
  seeds: seeds.txt
  timeout: 5s
  max_posts: 20
cluster:
  target_components: 4
  max_depth: 3
summarize:
  output: out/report.txt
  styled: true
metrics:
  textfile: out/cluso.prom
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "seeds.txt", cfg.Collect.Seeds)
	assert.Equal(t, 5*time.Second, cfg.Collect.Timeout)
	assert.Equal(t, 20, cfg.Collect.MaxPosts)
	assert.Equal(t, DefaultMaxFriends, cfg.Collect.MaxFriends, "unset keys keep defaults")
	assert.Equal(t, 4, cfg.Cluster.TargetComponents)
	assert.Equal(t, 3, cfg.Cluster.MaxDepth)
	assert.Equal(t, "out/report.txt", cfg.Summarize.Output)
	assert.True(t, cfg.Summarize.Styled)
	assert.Equal(t, "out/cluso.prom", cfg.Metrics.Textfile)
}

func TestLoad_EmptyFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIBaseURL, cfg.Collect.APIBaseURL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvBearerToken, "secret")
	t.Setenv(EnvAPIBaseURL, "http://127.0.0.1:9999/1.1")
	t.Setenv(EnvLogLevel, " WARN ")

	cfg, err := Load(writeConfig(t, "collect:\n  bearer_token: from-file\n"))
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.Collect.BearerToken)
	assert.Equal(t, "http://127.0.0.1:9999/1.1", cfg.Collect.APIBaseURL)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"unknown key", "colect:\n  seeds: x\n", "field colect not found"},
		{"bad duration", "collect:\n  timeout: soon\n", "parse config"},
		{"short timeout", "collect:\n  timeout: 10ms\n", "collect.timeout"},
		{"bad log level", "log_level: loud\n", "LogLevel"},
		{"too many friends", "collect:\n  max_friends: 6000\n", "must not exceed 5000"},
		{"negative target", "cluster:\n  target_components: -1\n", "TargetComponents"},
		{"unknown layout", "cluster:\n  layout: spiral\n", "Layout"},
		{"bad base url", "collect:\n  api_base_url: not a url\n", "APIBaseURL"},
		{"colliding outputs", "classify:\n  output: data/partition.json.sz\n", "both point at"},
		{"publish without bucket", "publish:\n  enabled: true\n", "publish.bucket"},
		{"half credentials", "publish:\n  enabled: true\n  bucket: b\n  access_key_id: k\n", "must be set together"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidateFor(t *testing.T) {
	cfg := Default()
	err := cfg.ValidateFor(StageCollect)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collect.bearer_token")

	cfg.Collect.BearerToken = "t"
	assert.NoError(t, cfg.ValidateFor(StageCollect))
	assert.NoError(t, cfg.ValidateFor(StageCluster))
	assert.Error(t, cfg.ValidateFor("deploy"))
}
