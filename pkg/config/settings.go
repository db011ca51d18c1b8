package config

import (
	"time"

	"github.com/arthur-debert/macsetup/pkg/types"
)

// Settings is the effective tool configuration.
type Settings struct {
	CategoryOrder []string          `koanf:"category_order"`
	Retry         RetrySettings     `koanf:"retry"`
	Runner        RunnerSettings    `koanf:"runner"`
	Bootstrap     BootstrapSettings `koanf:"bootstrap"`
	Homebrew      HomebrewSettings  `koanf:"homebrew"`
	Metrics       MetricsSettings   `koanf:"metrics"`

	raw map[string]interface{}
}

// RetrySettings parameterizes the backoff for network-dependent items.
type RetrySettings struct {
	MaxAttempts     int           `koanf:"max_attempts"`
	InitialInterval time.Duration `koanf:"initial_interval"`
	MaxInterval     time.Duration `koanf:"max_interval"`
	Multiplier      float64       `koanf:"multiplier"`
	Jitter          float64       `koanf:"jitter"`
}

// RunnerSettings bounds each external command.
type RunnerSettings struct {
	Timeout time.Duration `koanf:"timeout"`
}

// BootstrapSettings controls installation of missing prerequisite tools.
type BootstrapSettings struct {
	Enabled            bool   `koanf:"enabled"`
	HomebrewInstallURL string `koanf:"homebrew_install_url"`
}

// HomebrewSettings tunes brew invocations.
type HomebrewSettings struct {
	NoAutoUpdate bool `koanf:"no_auto_update"`
}

// MetricsSettings configures the Prometheus textfile output. An empty
// Textfile disables it.
type MetricsSettings struct {
	Textfile string `koanf:"textfile"`
}

// Categories returns CategoryOrder as typed categories. Load has already
// validated the values.
func (s *Settings) Categories() []types.Category {
	out := make([]types.Category, 0, len(s.CategoryOrder))
	for _, name := range s.CategoryOrder {
		c, err := types.ParseCategory(name)
		if err != nil {
			continue
		}
		out = append(out, c)
	}
	return out
}
