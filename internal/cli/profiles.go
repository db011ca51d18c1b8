package cli

import (
	"fmt"

	"github.com/arthur-debert/macsetup/pkg/errors"
	"github.com/arthur-debert/macsetup/pkg/preview"
	"github.com/arthur-debert/macsetup/pkg/types"
	"github.com/spf13/cobra"
)

type profileInfo struct {
	Name        string `json:"name"`
	Extends     string `json:"extends,omitempty"`
	Description string `json:"description,omitempty"`
}

func newProfilesCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: MsgProfilesShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(g, nil)
			if err != nil {
				return err
			}
			doc, err := env.document()
			if err != nil {
				return err
			}

			infos := []profileInfo{}
			for _, name := range doc.Names() {
				p := doc.Profiles[name]
				infos = append(infos, profileInfo{Name: name, Extends: p.Extends, Description: p.Description})
			}

			out := cmd.OutOrStdout()
			if g.json {
				return writeJSON(out, map[string]interface{}{"success": true, "profiles": infos})
			}
			if g.quiet {
				return nil
			}
			if len(infos) == 0 {
				fmt.Fprintln(out, MsgNoProfiles)
				return nil
			}
			for _, info := range infos {
				line := "  " + info.Name
				if info.Extends != "" {
					line += " (extends " + info.Extends + ")"
				}
				if info.Description != "" {
					line += " - " + info.Description
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	cmd.AddCommand(newProfileShowCmd(g), newProfileDiffCmd(g))
	return cmd
}

func newProfileShowCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: MsgProfileShowShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(g, nil)
			if err != nil {
				return err
			}
			name := args[0]
			execPlan, err := env.profilePlan(name)
			if err != nil {
				return err
			}
			doc, err := env.document()
			if err != nil {
				return err
			}
			raw := doc.Profiles[name]

			groups := preview.List(execPlan)
			counts := map[types.Category]int{}
			for _, gr := range groups {
				if gr.Category != types.CategoryBootstrap {
					counts[gr.Category] = len(gr.Entries)
				}
			}

			out := cmd.OutOrStdout()
			if g.json {
				return writeJSON(out, map[string]interface{}{
					"success":     true,
					"profile":     name,
					"description": raw.Description,
					"extends":     raw.Extends,
					"counts":      counts,
					"items":       groups,
				})
			}
			if g.quiet {
				return nil
			}
			fmt.Fprintf(out, MsgProfileFormat, name)
			if raw.Description != "" {
				fmt.Fprintf(out, MsgProfileDescFormat, raw.Description)
			}
			if raw.Extends != "" {
				fmt.Fprintf(out, MsgProfileExtendsFormat, raw.Extends)
			}
			for _, gr := range groups {
				if gr.Category == types.CategoryBootstrap {
					continue
				}
				fmt.Fprintf(out, "  %s: %d\n", gr.Category.DisplayName(), len(gr.Entries))
			}
			return nil
		},
	}
}

func newProfileDiffCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "diff <first> <second>",
		Short: MsgProfileDiffShort,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(g, nil)
			if err != nil {
				return err
			}
			first, err := env.profilePlan(args[0])
			if err != nil {
				return err
			}
			second, err := env.profilePlan(args[1])
			if err != nil {
				return err
			}

			diffs := preview.Compare(first, second)
			out := cmd.OutOrStdout()
			if g.json {
				if diffs == nil {
					diffs = []preview.Difference{}
				}
				return writeJSON(out, map[string]interface{}{
					"success":     true,
					"first":       args[0],
					"second":      args[1],
					"differences": diffs,
				})
			}
			if g.quiet {
				return nil
			}
			return preview.RenderCompare(out, args[0], args[1], diffs)
		},
	}
}

// profilePlan plans the named profile with every category included. A
// profile with nothing to install yields an empty plan rather than an error.
func (e *environment) profilePlan(name string) (*types.ExecutionPlan, error) {
	p, err := e.resolveProfile(name)
	if err != nil {
		return nil, err
	}
	execPlan, err := e.buildPlan(p, planOptions{})
	if errors.IsErrorCode(err, errors.ErrEmptyPlan) {
		return &types.ExecutionPlan{Profile: name}, nil
	}
	return execPlan, err
}
