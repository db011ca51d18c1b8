package cli

import (
	"encoding/json"
	"io"

	"github.com/arthur-debert/macsetup/pkg/preview"
	"github.com/arthur-debert/macsetup/pkg/profile"
	"github.com/spf13/cobra"
)

func newPreviewCmd(g *globalOptions) *cobra.Command {
	var (
		profileName string
		diff        bool
		po          planOptions
	)
	cmd := &cobra.Command{
		Use:     "preview",
		Short:   MsgPreviewShort,
		Long:    MsgPreviewLong,
		Example: MsgPreviewExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(g, nil)
			if err != nil {
				return err
			}
			p, err := env.resolveProfile(profileName)
			if err != nil {
				return err
			}
			execPlan, err := env.buildPlan(p, po)
			if err != nil {
				return err
			}
			if !diff {
				return renderList(g, cmd, execPlan, false)
			}

			diffs := preview.Diff(cmd.Context(), execPlan)
			if g.json {
				return writeJSON(cmd.OutOrStdout(), map[string]interface{}{"success": true, "diff": diffs})
			}
			if g.quiet {
				return nil
			}
			return preview.RenderDiff(cmd.OutOrStdout(), execPlan.Profile, diffs)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&profileName, "profile", "p", profile.DefaultProfile, MsgFlagProfile)
	flags.BoolVar(&diff, "diff", false, MsgFlagDiff)
	flags.BoolVar(&po.skipDotfiles, "skip-dotfiles", false, MsgFlagSkipDotfiles)
	flags.BoolVar(&po.skipPreferences, "skip-preferences", false, MsgFlagSkipPreferences)
	return cmd
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
