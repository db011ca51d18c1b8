// Package paths provides centralized path handling for macsetup.
//
// Everything macsetup reads or writes lives under one configuration
// directory:
//
//   - config.yaml: the profiles document
//   - settings.toml: optional tool settings (see pkg/config)
//   - dotfiles/: sources for dotfile items
//   - .state.json: the persisted execution state of an unfinished run
//
// # Environment Variables
//
//   - MACSETUP_CONFIG_DIR: overrides the configuration directory
//     (default: $XDG_CONFIG_HOME/macsetup)
//   - HOME: target root for dotfiles
//
// The --config-dir flag takes precedence over the environment.
package paths
