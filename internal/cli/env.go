package cli

import (
	"fmt"
	"time"

	"github.com/arthur-debert/macsetup/pkg/adapters/defaults"
	"github.com/arthur-debert/macsetup/pkg/adapters/dotfiles"
	"github.com/arthur-debert/macsetup/pkg/adapters/homebrew"
	"github.com/arthur-debert/macsetup/pkg/adapters/mas"
	"github.com/arthur-debert/macsetup/pkg/adapters/runner"
	"github.com/arthur-debert/macsetup/pkg/bootstrap"
	"github.com/arthur-debert/macsetup/pkg/config"
	"github.com/arthur-debert/macsetup/pkg/paths"
	"github.com/arthur-debert/macsetup/pkg/plan"
	"github.com/arthur-debert/macsetup/pkg/profile"
	"github.com/arthur-debert/macsetup/pkg/state"
	"github.com/arthur-debert/macsetup/pkg/types"
)

// newRunner is replaced in tests.
var newRunner = func(timeout time.Duration) runner.Runner {
	return runner.NewExec(runner.Options{Timeout: timeout})
}

// environment is everything a command needs, resolved from flags,
// settings and the configuration directory.
type environment struct {
	paths    *paths.Paths
	settings *config.Settings
	runner   runner.Runner
	dotfiles *dotfiles.Adapter

	bootstrap *bootstrap.Manager
	adapters  map[types.Category]types.Adapter
}

func loadEnvironment(g *globalOptions, overrides map[string]interface{}) (*environment, error) {
	p, err := paths.New(g.configDir)
	if err != nil {
		return nil, fmt.Errorf(MsgErrInitPaths, err)
	}
	settings, err := config.Load(p.SettingsFile(), overrides)
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadSettings, err)
	}

	r := newRunner(settings.Runner.Timeout)
	brew := homebrew.NewClient(r, homebrew.Options{NoAutoUpdate: settings.Homebrew.NoAutoUpdate})
	dots := dotfiles.New(dotfiles.Options{})

	return &environment{
		paths:    p,
		settings: settings,
		runner:   r,
		dotfiles: dots,
		bootstrap: bootstrap.New(r, bootstrap.Options{
			Tools:    bootstrap.DefaultTools(settings.Bootstrap.HomebrewInstallURL),
			Disabled: !settings.Bootstrap.Enabled,
		}),
		adapters: map[types.Category]types.Adapter{
			types.CategoryTap:        homebrew.NewTapAdapter(brew),
			types.CategoryFormula:    homebrew.NewFormulaAdapter(brew),
			types.CategoryCask:       homebrew.NewCaskAdapter(brew),
			types.CategoryAppStore:   mas.New(r),
			types.CategoryDotfile:    dots,
			types.CategoryPreference: defaults.New(r),
		},
	}, nil
}

func (e *environment) store() *state.Store {
	return state.New(e.paths.ConfigDir(), state.Options{})
}

func (e *environment) document() (*profile.Document, error) {
	return profile.Load(e.paths.ConfigFile())
}

func (e *environment) resolveProfile(name string) (*profile.Profile, error) {
	doc, err := e.document()
	if err != nil {
		return nil, err
	}
	return doc.Resolve(name)
}

type planOptions struct {
	skipDotfiles    bool
	skipPreferences bool
}

func (e *environment) buildPlan(p *profile.Profile, o planOptions) (*types.ExecutionPlan, error) {
	b := plan.NewBuilder(e.adapters, e.bootstrap, plan.Options{
		SkipDotfiles:    o.skipDotfiles,
		SkipPreferences: o.skipPreferences,
		Order:           e.settings.Categories(),
		DotfilesDir:     e.paths.DotfilesDir(),
		HomeDir:         e.paths.HomeDir(),
	})
	return b.Build(p)
}
