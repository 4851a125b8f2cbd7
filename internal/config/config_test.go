package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment does not leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DB_PATH", "CATALOG_PATH", "LOG_LEVEL", "RECENT_WINDOW",
		"WEAK_THRESHOLD", "REVIEW_LIMIT", "TARGET_SCORE",
	} {
		name := EnvPrefix + "_" + key
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("CCPREP_LOG_LEVEL", "DEBUG")
	t.Setenv("CCPREP_RECENT_WINDOW", "5")
	t.Setenv("CCPREP_WEAK_THRESHOLD", "65.5")
	t.Setenv("CCPREP_TARGET_SCORE", "900")
	t.Setenv("CCPREP_DB_PATH", "/tmp/x.db")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5, cfg.RecentWindow)
	assert.InDelta(t, 65.5, cfg.WeakThreshold, 1e-9)
	assert.Equal(t, 900, cfg.TargetScore)
	assert.Equal(t, "/tmp/x.db", cfg.DBPath)
	assert.Equal(t, 20, cfg.ReviewLimit)
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "ccprep.yaml")
	require.NoError(t, os.WriteFile(path, []byte("review_limit: 30\ntarget_score: 750\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.ReviewLimit)
	assert.Equal(t, 750, cfg.TargetScore)

	// Environment wins over the file.
	t.Setenv("CCPREP_TARGET_SCORE", "850")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 850, cfg.TargetScore)
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad log level", map[string]string{"CCPREP_LOG_LEVEL": "verbose"}},
		{"negative window", map[string]string{"CCPREP_RECENT_WINDOW": "-1"}},
		{"threshold above 100", map[string]string{"CCPREP_WEAK_THRESHOLD": "120"}},
		{"zero review limit", map[string]string{"CCPREP_REVIEW_LIMIT": "0"}},
		{"target below scale", map[string]string{"CCPREP_TARGET_SCORE": "50"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}
