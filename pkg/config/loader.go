package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/arthur-debert/macsetup/pkg/errors"
	"github.com/arthur-debert/macsetup/pkg/logging"
	"github.com/arthur-debert/macsetup/pkg/types"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"
)

// EnvPrefix prefixes every settings environment variable.
const EnvPrefix = "MACSETUP_"

// sections are the nested tables of the settings file. An env var whose
// name starts with one of them maps to "<section>.<rest>".
var sections = []string{"retry", "runner", "bootstrap", "homebrew", "metrics"}

// topLevel keys live at the root of the settings file.
var topLevel = []string{"category_order"}

// Load builds the effective settings. settingsFile may be empty or point
// to a missing file; overrides use dotted keys ("bootstrap.enabled").
func Load(settingsFile string, overrides map[string]interface{}) (*Settings, error) {
	log := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load default settings")
	}

	// 2. User settings file
	if settingsFile != "" {
		if _, err := os.Stat(settingsFile); err == nil {
			if err := k.Load(file.Provider(settingsFile), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse,
					"failed to load settings from %s", settingsFile)
			}
			log.Debug().Str("path", settingsFile).Msg("Loaded settings file")
		}
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment settings")
	}

	// 4. Flag overrides
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	var cfg Settings
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal settings")
	}
	cfg.raw = k.Raw()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Debug().
		Strs("categoryOrder", cfg.CategoryOrder).
		Int("maxAttempts", cfg.Retry.MaxAttempts).
		Dur("runnerTimeout", cfg.Runner.Timeout).
		Bool("bootstrap", cfg.Bootstrap.Enabled).
		Msg("Settings loaded")

	return &cfg, nil
}

// Default returns the embedded defaults with no file or env layers.
func Default() *Settings {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		panic(fmt.Sprintf("embedded defaults are invalid: %v", err))
	}
	var cfg Settings
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		panic(fmt.Sprintf("embedded defaults are invalid: %v", err))
	}
	cfg.raw = k.Raw()
	return &cfg
}

// envKey maps MACSETUP_RETRY_MAX_ATTEMPTS to retry.max_attempts. Variables
// that name no known setting (MACSETUP_CONFIG_DIR) are ignored.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, top := range topLevel {
		if key == top {
			return key
		}
	}
	for _, section := range sections {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok && rest != "" {
			return section + "." + rest
		}
	}
	return ""
}

// Validate checks values that would make a run misbehave.
func (s *Settings) Validate() error {
	seen := map[types.Category]bool{}
	for _, name := range s.CategoryOrder {
		c, err := types.ParseCategory(name)
		if err != nil {
			return errors.Wrap(err, errors.ErrSettingsInvalid, "invalid category_order")
		}
		if seen[c] {
			return errors.Newf(errors.ErrSettingsInvalid, "category %q listed twice in category_order", name)
		}
		seen[c] = true
	}
	for _, c := range types.DefaultCategoryOrder {
		if !seen[c] {
			return errors.Newf(errors.ErrSettingsInvalid, "category_order is missing %q", c)
		}
	}
	if s.Retry.MaxAttempts < 1 {
		return errors.Newf(errors.ErrSettingsInvalid, "retry.max_attempts must be at least 1, got %d", s.Retry.MaxAttempts)
	}
	if s.Retry.Multiplier < 1 {
		return errors.Newf(errors.ErrSettingsInvalid, "retry.multiplier must be at least 1, got %g", s.Retry.Multiplier)
	}
	if s.Retry.Jitter < 0 || s.Retry.Jitter >= 1 {
		return errors.Newf(errors.ErrSettingsInvalid, "retry.jitter must be in [0, 1), got %g", s.Retry.Jitter)
	}
	if s.Runner.Timeout <= 0 {
		return errors.Newf(errors.ErrSettingsInvalid, "runner.timeout must be positive, got %s", s.Runner.Timeout)
	}
	return nil
}

// TOML renders the effective settings the way a settings.toml would hold them.
func (s *Settings) TOML() ([]byte, error) {
	return gotoml.Marshal(s.raw)
}
