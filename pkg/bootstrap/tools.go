package bootstrap

import (
	"fmt"

	"github.com/arthur-debert/macsetup/pkg/adapters/runner"
)

// DefaultHomebrewInstallURL is the official Homebrew install script.
const DefaultHomebrewInstallURL = "https://raw.githubusercontent.com/Homebrew/install/HEAD/install.sh"

// Tool describes a prerequisite and how to get it.
type Tool struct {
	Name   string
	Binary string
	// Builtin tools are part of macsetup itself and always available.
	Builtin bool
	// Requires lists tools that must be available before Install runs.
	Requires []string
	// Locations are directories searched when Binary is not on PATH, e.g.
	// a freshly installed Homebrew on Apple Silicon.
	Locations []string
	// Install is nil for tools that cannot be installed (they ship with the OS).
	Install *runner.Command
}

// DefaultTools returns the registry of tools the adapters rely on.
func DefaultTools(homebrewInstallURL string) []Tool {
	if homebrewInstallURL == "" {
		homebrewInstallURL = DefaultHomebrewInstallURL
	}
	return []Tool{
		{
			Name:      "homebrew",
			Binary:    "brew",
			Locations: []string{"/opt/homebrew/bin", "/usr/local/bin"},
			Install: &runner.Command{
				Name: "/bin/bash",
				Args: []string{"-c", fmt.Sprintf(`/bin/bash -c "$(curl -fsSL %s)"`, homebrewInstallURL)},
				Env:  []string{"NONINTERACTIVE=1"},
			},
		},
		{
			Name:     "mas",
			Binary:   "mas",
			Requires: []string{"homebrew"},
			Install: &runner.Command{
				Name: "brew",
				Args: []string{"install", "mas"},
				Env:  []string{"HOMEBREW_NO_AUTO_UPDATE=1"},
			},
		},
		{
			Name:   "defaults",
			Binary: "defaults",
		},
		{
			Name:    "dotfiles",
			Builtin: true,
		},
	}
}
