package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Precedence(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvHome, home)

	t.Run("flag wins over env", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "/from/env")
		p, err := New("/from/flag")
		require.NoError(t, err)
		assert.Equal(t, "/from/flag", p.ConfigDir())
	})

	t.Run("env used when no flag", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "/from/env")
		p, err := New("")
		require.NoError(t, err)
		assert.Equal(t, "/from/env", p.ConfigDir())
	})

	t.Run("tilde expands to home", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "~/setup")
		p, err := New("")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "setup"), p.ConfigDir())
	})

	t.Run("default is under xdg config home", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "")
		p, err := New("")
		require.NoError(t, err)
		assert.Equal(t, AppDirName, filepath.Base(p.ConfigDir()))
	})
}

func TestDerivedPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvHome, home)

	p, err := New("/cfg")
	require.NoError(t, err)

	assert.Equal(t, "/cfg/config.yaml", p.ConfigFile())
	assert.Equal(t, "/cfg/settings.toml", p.SettingsFile())
	assert.Equal(t, "/cfg/.state.json", p.StateFile())
	assert.Equal(t, "/cfg/dotfiles", p.DotfilesDir())
	assert.Equal(t, home, p.HomeDir())
}

func TestExpandHome(t *testing.T) {
	t.Setenv(EnvHome, "/home/u")

	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"~", "/home/u"},
		{"~/x/y", "/home/u/x/y"},
		{"~other/x", "~other/x"},
		{"/abs", "/abs"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, expandHome(tt.in), "expandHome(%q)", tt.in)
	}
}
