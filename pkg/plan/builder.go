// Package plan turns a resolved profile into an ExecutionPlan: one install
// item per declared entry, ordered by category, with every category bound
// to the adapter that will apply it.
package plan

import (
	"path/filepath"
	"strconv"

	"github.com/arthur-debert/macsetup/pkg/errors"
	"github.com/arthur-debert/macsetup/pkg/logging"
	"github.com/arthur-debert/macsetup/pkg/profile"
	"github.com/arthur-debert/macsetup/pkg/types"
	"github.com/rs/zerolog"
)

// ToolCatalog answers which tools can be bootstrapped and in which order.
// *bootstrap.Manager satisfies it.
type ToolCatalog interface {
	Installable(name string) bool
	Chain(name string) []string
}

// Options controls plan construction.
type Options struct {
	SkipDotfiles    bool
	SkipPreferences bool
	// Order overrides types.DefaultCategoryOrder.
	Order []types.Category
	// DotfilesDir holds dotfile sources; HomeDir receives the targets.
	DotfilesDir string
	HomeDir     string
	Logger      *zerolog.Logger
}

// Builder builds execution plans.
type Builder struct {
	adapters map[types.Category]types.Adapter
	tools    ToolCatalog
	opts     Options
	logger   zerolog.Logger
}

// NewBuilder creates a Builder. tools may be nil, in which case the plan
// has no bootstrap items and tools are only checked lazily while running.
func NewBuilder(adapters map[types.Category]types.Adapter, tools ToolCatalog, opts Options) *Builder {
	if len(opts.Order) == 0 {
		opts.Order = types.AllCategories()
	}
	b := &Builder{
		adapters: adapters,
		tools:    tools,
		opts:     opts,
		logger:   logging.GetLogger("plan"),
	}
	if opts.Logger != nil {
		b.logger = *opts.Logger
	}
	return b
}

// Build creates the plan for a resolved profile.
func (b *Builder) Build(p *profile.Profile) (*types.ExecutionPlan, error) {
	if p == nil {
		return nil, errors.New(errors.ErrInvalidInput, "no profile to plan")
	}

	byCategory := map[types.Category][]types.InstallItem{}
	seen := map[types.Identifier]bool{}
	add := func(item types.InstallItem) {
		id := item.ID()
		if seen[id] {
			b.logger.Warn().Str("identifier", id.String()).Msg("Duplicate entry in profile, keeping the first")
			return
		}
		seen[id] = true
		byCategory[item.Category] = append(byCategory[item.Category], item)
	}

	b.collectApplications(p.Applications, add)
	if !b.opts.SkipDotfiles {
		b.collectDotfiles(p.Dotfiles, add)
	}
	if !b.opts.SkipPreferences {
		b.collectPreferences(p.Preferences, add)
	}

	for _, item := range b.bootstrapItems(byCategory) {
		add(item)
	}

	plan := &types.ExecutionPlan{
		Profile:  p.Name,
		Adapters: map[types.Category]types.Adapter{},
	}
	for _, c := range b.opts.Order {
		items := byCategory[c]
		if len(items) == 0 {
			continue
		}
		if c.NeedsAdapter() {
			adapter := b.adapters[c]
			if adapter == nil {
				return nil, errors.Newf(errors.ErrMissingAdapter, "no adapter registered for category %s", c).
					WithDetail("category", string(c))
			}
			plan.Adapters[c] = adapter
		}
		plan.Items = append(plan.Items, items...)
	}

	if len(plan.Items) == 0 {
		return nil, errors.Newf(errors.ErrEmptyPlan, "profile %q has nothing to install", p.Name).
			WithRemediation("Add applications, dotfiles or preferences to the profile.")
	}

	b.logger.Debug().
		Str("profile", plan.Profile).
		Int("items", len(plan.Items)).
		Msg("Plan built")
	return plan, nil
}

func (b *Builder) collectApplications(apps *profile.Applications, add func(types.InstallItem)) {
	if apps == nil {
		return
	}
	if brew := apps.Homebrew; brew != nil {
		for _, name := range brew.Taps {
			add(types.InstallItem{Category: types.CategoryTap, Name: name})
		}
		for _, name := range brew.Formulas {
			add(types.InstallItem{Category: types.CategoryFormula, Name: name})
		}
		for _, name := range brew.Casks {
			add(types.InstallItem{Category: types.CategoryCask, Name: name})
		}
	}
	for _, app := range apps.Mas {
		add(types.InstallItem{
			Category: types.CategoryAppStore,
			Name:     strconv.FormatInt(app.ID, 10),
			Params:   types.AppStoreParams{ID: app.ID, Name: app.Name},
		})
	}
	for _, app := range apps.Manual {
		add(types.InstallItem{
			Category: types.CategoryManual,
			Name:     app.Name,
			Params:   types.ManualParams{URL: app.URL, Instructions: app.Instructions},
		})
	}
}

func (b *Builder) collectDotfiles(dotfiles []profile.Dotfile, add func(types.InstallItem)) {
	for _, d := range dotfiles {
		mode := types.DotfileSymlink
		if d.Mode == string(types.DotfileCopy) {
			mode = types.DotfileCopy
		}
		add(types.InstallItem{
			Category: types.CategoryDotfile,
			Name:     d.Path,
			Params: types.DotfileParams{
				Source: filepath.Join(b.opts.DotfilesDir, d.Path),
				Target: filepath.Join(b.opts.HomeDir, d.Path),
				Mode:   mode,
			},
		})
	}
}

func (b *Builder) collectPreferences(prefs []profile.Preference, add func(types.InstallItem)) {
	for _, pref := range prefs {
		if !pref.Complete() {
			b.logger.Debug().Str("domain", pref.Domain).Msg("Skipping preference without key or value")
			continue
		}
		add(types.InstallItem{
			Category: types.CategoryPreference,
			Name:     pref.Domain + ":" + pref.Key,
			Params: types.PreferenceParams{
				Domain: pref.Domain,
				Key:    pref.Key,
				Value:  pref.Value,
				Type:   pref.Type,
			},
		})
	}
}

// bootstrapItems returns one item per installable tool the planned
// categories rely on, prerequisites first.
func (b *Builder) bootstrapItems(byCategory map[types.Category][]types.InstallItem) []types.InstallItem {
	if b.tools == nil {
		return nil
	}
	var out []types.InstallItem
	seen := map[string]bool{}
	for _, c := range b.opts.Order {
		if len(byCategory[c]) == 0 || !c.NeedsAdapter() {
			continue
		}
		adapter := b.adapters[c]
		if adapter == nil {
			continue
		}
		for _, tool := range b.tools.Chain(adapter.ToolName()) {
			if seen[tool] || !b.tools.Installable(tool) {
				continue
			}
			seen[tool] = true
			out = append(out, types.InstallItem{Category: types.CategoryBootstrap, Name: tool})
		}
	}
	return out
}
