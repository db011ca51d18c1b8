// Package preview shows what a setup run would do without changing the
// host: the planned items per category, or, with Diff, which of them are
// already applied.
package preview

import (
	"context"
	"fmt"
	"io"

	"github.com/arthur-debert/macsetup/pkg/types"
)

// Entry is one planned item.
type Entry struct {
	Identifier types.Identifier `json:"identifier"`
	Name       string           `json:"name"`
	Detail     string           `json:"detail,omitempty"`
}

// Group is the planned items of one category.
type Group struct {
	Category types.Category `json:"category"`
	Entries  []Entry        `json:"items"`
}

// CategoryDiff splits a category's items by whether they are applied.
type CategoryDiff struct {
	Category  types.Category `json:"category"`
	ToInstall []Entry        `json:"to_install"`
	Installed []Entry        `json:"installed"`
}

// List groups the plan's items by category, in plan order.
func List(plan *types.ExecutionPlan) []Group {
	var groups []Group
	for _, c := range plan.Categories() {
		g := Group{Category: c}
		for _, item := range plan.Items {
			if item.Category == c {
				g.Entries = append(g.Entries, entry(item))
			}
		}
		groups = append(groups, g)
	}
	return groups
}

// Diff asks each category's adapter whether its items are applied.
// Bootstrap and manual items are left out. An item whose check fails,
// typically because the tool is missing, counts as to install.
func Diff(ctx context.Context, plan *types.ExecutionPlan) []CategoryDiff {
	var diffs []CategoryDiff
	for _, c := range plan.Categories() {
		adapter := plan.Adapters[c]
		if !c.NeedsAdapter() || adapter == nil {
			continue
		}
		d := CategoryDiff{Category: c, ToInstall: []Entry{}, Installed: []Entry{}}
		for _, item := range plan.Items {
			if item.Category != c {
				continue
			}
			applied, err := adapter.IsApplied(ctx, item)
			if err == nil && applied {
				d.Installed = append(d.Installed, entry(item))
			} else {
				d.ToInstall = append(d.ToInstall, entry(item))
			}
		}
		diffs = append(diffs, d)
	}
	return diffs
}

func entry(item types.InstallItem) Entry {
	e := Entry{Identifier: item.ID(), Name: item.Name}
	switch p := item.Params.(type) {
	case types.AppStoreParams:
		e.Detail = p.Name
	case types.DotfileParams:
		e.Detail = string(p.Mode)
	case types.PreferenceParams:
		e.Detail = fmt.Sprintf("%v", p.Value)
	case types.ManualParams:
		e.Detail = p.URL
	}
	return e
}

func label(e Entry) string {
	if e.Detail == "" {
		return e.Name
	}
	return fmt.Sprintf("%s (%s)", e.Name, e.Detail)
}

// RenderList prints the output of List.
func RenderList(w io.Writer, profile string, groups []Group) error {
	if _, err := fmt.Fprintf(w, "Preview for profile '%s':\n", profile); err != nil {
		return err
	}
	for _, g := range groups {
		if _, err := fmt.Fprintf(w, "\n  %s (%d):\n", g.Category.DisplayName(), len(g.Entries)); err != nil {
			return err
		}
		for _, e := range g.Entries {
			if _, err := fmt.Fprintf(w, "    - %s\n", label(e)); err != nil {
				return err
			}
		}
	}
	return nil
}

// RenderDiff prints the output of Diff: "+" for items to install and "="
// for items already present.
func RenderDiff(w io.Writer, profile string, diffs []CategoryDiff) error {
	if _, err := fmt.Fprintf(w, "Diff for profile '%s':\n", profile); err != nil {
		return err
	}
	for _, d := range diffs {
		if _, err := fmt.Fprintf(w, "\n  %s:\n", d.Category.DisplayName()); err != nil {
			return err
		}
		for _, e := range d.ToInstall {
			if _, err := fmt.Fprintf(w, "    + %s\n", label(e)); err != nil {
				return err
			}
		}
		for _, e := range d.Installed {
			if _, err := fmt.Fprintf(w, "    = %s (installed)\n", label(e)); err != nil {
				return err
			}
		}
	}
	return nil
}
