// Package profile loads the configuration document (config.yaml) and
// resolves its profiles, including `extends` inheritance.
package profile

import (
	"time"
)

// DefaultProfile is used when no profile is named.
const DefaultProfile = "default"

// Document is the parsed config.yaml.
type Document struct {
	Version  string              `yaml:"version"`
	Metadata Metadata            `yaml:"metadata"`
	Profiles map[string]*Profile `yaml:"profiles"`
}

// Metadata records where the document was captured.
type Metadata struct {
	CapturedAt    time.Time `yaml:"captured_at"`
	SourceMachine string    `yaml:"source_machine"`
	MacOSVersion  string    `yaml:"macos_version"`
	ToolVersion   string    `yaml:"tool_version"`
}

// Profile is a named subset of the configuration.
type Profile struct {
	Name         string        `yaml:"-"`
	Description  string        `yaml:"description,omitempty"`
	Extends      string        `yaml:"extends,omitempty"`
	Applications *Applications `yaml:"applications,omitempty"`
	Dotfiles     []Dotfile     `yaml:"dotfiles,omitempty"`
	Preferences  []Preference  `yaml:"preferences,omitempty"`
}

// Applications groups the application sources.
type Applications struct {
	Homebrew *Homebrew   `yaml:"homebrew,omitempty"`
	Mas      []MacApp    `yaml:"mas,omitempty"`
	Manual   []ManualApp `yaml:"manual,omitempty"`
}

// Homebrew lists taps, formulas and casks.
type Homebrew struct {
	Taps     []string `yaml:"taps,omitempty"`
	Formulas []string `yaml:"formulas,omitempty"`
	Casks    []string `yaml:"casks,omitempty"`
}

// MacApp is a Mac App Store application.
type MacApp struct {
	ID   int64  `yaml:"id"`
	Name string `yaml:"name"`
}

// ManualApp is an application the user installs by hand.
type ManualApp struct {
	Name         string `yaml:"name"`
	URL          string `yaml:"url,omitempty"`
	Instructions string `yaml:"instructions,omitempty"`
}

// Dotfile is a file under <config dir>/dotfiles linked or copied into $HOME.
// Template is accepted for compatibility and currently has no effect.
type Dotfile struct {
	Path     string `yaml:"path"`
	Mode     string `yaml:"mode,omitempty"`
	Template bool   `yaml:"template,omitempty"`
}

// Preference is one `defaults` value.
type Preference struct {
	Domain string      `yaml:"domain"`
	Key    string      `yaml:"key,omitempty"`
	Value  interface{} `yaml:"value,omitempty"`
	Type   string      `yaml:"type,omitempty"`
}

// Complete reports whether the preference names both a key and a value.
// Incomplete entries are skipped when planning.
func (p Preference) Complete() bool {
	return p.Domain != "" && p.Key != "" && p.Value != nil
}
