package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/macsetup/pkg/errors"
)

// Environment variable names
const (
	// EnvConfigDir overrides the configuration directory
	EnvConfigDir = "MACSETUP_CONFIG_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Fixed names inside the configuration directory. These are not
// configurable: a resumed run must find the state where the last run left it.
const (
	AppDirName       = "macsetup"
	ConfigFileName   = "config.yaml"
	SettingsFileName = "settings.toml"
	StateFileName    = ".state.json"
	DotfilesDirName  = "dotfiles"
)

// Paths resolves every location macsetup touches.
type Paths struct {
	configDir string
	homeDir   string
}

// New resolves paths. configDir wins when non-empty, then MACSETUP_CONFIG_DIR,
// then $XDG_CONFIG_HOME/macsetup.
func New(configDir string) (*Paths, error) {
	p := &Paths{}

	switch {
	case configDir != "":
		p.configDir = expandHome(configDir)
	case os.Getenv(EnvConfigDir) != "":
		p.configDir = expandHome(os.Getenv(EnvConfigDir))
	default:
		p.configDir = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	abs, err := filepath.Abs(p.configDir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput,
			"cannot resolve config directory %q", p.configDir)
	}
	p.configDir = abs

	home, err := homeDir()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrNotFound, "cannot determine home directory")
	}
	p.homeDir = home

	return p, nil
}

// ConfigDir returns the configuration directory.
func (p *Paths) ConfigDir() string { return p.configDir }

// ConfigFile returns the profiles document path.
func (p *Paths) ConfigFile() string { return filepath.Join(p.configDir, ConfigFileName) }

// SettingsFile returns the optional tool settings path.
func (p *Paths) SettingsFile() string { return filepath.Join(p.configDir, SettingsFileName) }

// StateFile returns the persisted execution state path.
func (p *Paths) StateFile() string { return filepath.Join(p.configDir, StateFileName) }

// DotfilesDir returns the directory holding dotfile sources.
func (p *Paths) DotfilesDir() string { return filepath.Join(p.configDir, DotfilesDirName) }

// HomeDir returns the dotfile target root.
func (p *Paths) HomeDir() string { return p.homeDir }

func homeDir() (string, error) {
	if h := os.Getenv(EnvHome); h != "" {
		return h, nil
	}
	return os.UserHomeDir()
}

// expandHome expands a leading ~ to the user's home directory.
func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	home, err := homeDir()
	if err != nil || home == "" {
		return path
	}

	if len(path) == 1 {
		return home
	}

	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(home, path[2:])
	}

	// ~user forms are left alone
	return path
}
