package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/macsetup/pkg/errors"
	"github.com/arthur-debert/macsetup/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	s, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, types.DefaultCategoryOrder, s.Categories())
	assert.Equal(t, 3, s.Retry.MaxAttempts)
	assert.Equal(t, 2*time.Second, s.Retry.InitialInterval)
	assert.Equal(t, 30*time.Second, s.Retry.MaxInterval)
	assert.InDelta(t, 2.0, s.Retry.Multiplier, 0.0001)
	assert.InDelta(t, 0.2, s.Retry.Jitter, 0.0001)
	assert.Equal(t, 30*time.Minute, s.Runner.Timeout)
	assert.True(t, s.Bootstrap.Enabled)
	assert.True(t, s.Homebrew.NoAutoUpdate)
	assert.Empty(t, s.Metrics.Textfile)
}

func TestLoad_Layering(t *testing.T) {
	dir := t.TempDir()
	settingsFile := filepath.Join(dir, "settings.toml")
	require.NoError(t, os.WriteFile(settingsFile, []byte(`
[retry]
max_attempts = 5
initial_interval = "1s"

[runner]
timeout = "10m"
`), 0644))

	t.Setenv("MACSETUP_RETRY_MAX_ATTEMPTS", "7")
	t.Setenv("MACSETUP_CONFIG_DIR", "/ignored")

	s, err := Load(settingsFile, map[string]interface{}{"bootstrap.enabled": false})
	require.NoError(t, err)

	assert.Equal(t, 7, s.Retry.MaxAttempts, "env overrides file")
	assert.Equal(t, time.Second, s.Retry.InitialInterval, "file overrides defaults")
	assert.Equal(t, 10*time.Minute, s.Runner.Timeout)
	assert.False(t, s.Bootstrap.Enabled, "flag overrides win")
}

func TestLoad_MissingSettingsFileIsFine(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"), nil)
	assert.NoError(t, err)
}

func TestLoad_MalformedFile(t *testing.T) {
	settingsFile := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(settingsFile, []byte("[retry\nmax_attempts ="), 0644))

	_, err := Load(settingsFile, nil)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestLoad_CategoryOrderFromEnv(t *testing.T) {
	t.Setenv("MACSETUP_CATEGORY_ORDER", "bootstrap,tap,cask,formula,mas,preference,dotfile,manual")

	s, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, []types.Category{
		types.CategoryBootstrap, types.CategoryTap, types.CategoryCask, types.CategoryFormula,
		types.CategoryAppStore, types.CategoryPreference, types.CategoryDotfile, types.CategoryManual,
	}, s.Categories())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"unknown category", func(s *Settings) { s.CategoryOrder = append(s.CategoryOrder, "ports") }},
		{"duplicate category", func(s *Settings) { s.CategoryOrder = append(s.CategoryOrder, "tap") }},
		{"missing category", func(s *Settings) { s.CategoryOrder = s.CategoryOrder[1:] }},
		{"zero attempts", func(s *Settings) { s.Retry.MaxAttempts = 0 }},
		{"shrinking multiplier", func(s *Settings) { s.Retry.Multiplier = 0.5 }},
		{"jitter out of range", func(s *Settings) { s.Retry.Jitter = 1.5 }},
		{"zero timeout", func(s *Settings) { s.Runner.Timeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(s)
			err := s.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrSettingsInvalid))
		})
	}
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"MACSETUP_RETRY_MAX_ATTEMPTS":        "retry.max_attempts",
		"MACSETUP_RUNNER_TIMEOUT":            "runner.timeout",
		"MACSETUP_HOMEBREW_NO_AUTO_UPDATE":   "homebrew.no_auto_update",
		"MACSETUP_BOOTSTRAP_ENABLED":         "bootstrap.enabled",
		"MACSETUP_CATEGORY_ORDER":            "category_order",
		"MACSETUP_CONFIG_DIR":                "",
		"MACSETUP_LOG_FILE":                  "",
		"MACSETUP_METRICS_TEXTFILE":          "metrics.textfile",
	}
	for in, want := range tests {
		assert.Equal(t, want, envKey(in), in)
	}
}

func TestTOML(t *testing.T) {
	s, err := Load("", map[string]interface{}{"retry.max_attempts": 9})
	require.NoError(t, err)

	out, err := s.TOML()
	require.NoError(t, err)
	assert.Contains(t, string(out), "max_attempts = 9")
	assert.Contains(t, string(out), "[runner]")
}
