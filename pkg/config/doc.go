// Package config loads macsetup's tool settings.
//
// Settings are layered with koanf, later layers overriding earlier ones:
//
//  1. embedded/defaults.toml, compiled into the binary
//  2. <config dir>/settings.toml, when present
//  3. MACSETUP_* environment variables (MACSETUP_RETRY_MAX_ATTEMPTS=5)
//  4. explicit overrides from command-line flags
//
// Settings are distinct from the profiles document (config.yaml), which is
// handled by pkg/profile.
package config
