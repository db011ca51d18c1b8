package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/arthur-debert/macsetup/pkg/adapters/dotfiles"
	"github.com/arthur-debert/macsetup/pkg/profile"
	"github.com/arthur-debert/macsetup/pkg/types"
	"github.com/spf13/cobra"
)

func newStatusCmd(g *globalOptions) *cobra.Command {
	var (
		profileName string
		check       bool
	)
	cmd := &cobra.Command{
		Use:   "status",
		Short: MsgStatusShort,
		Long:  MsgStatusLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(g, nil)
			if err != nil {
				return err
			}
			st, err := env.store().Load()
			if err != nil {
				return err
			}

			var dangling []dotfiles.DanglingLink
			if check {
				p, err := env.resolveProfile(profileName)
				if err != nil {
					return err
				}
				execPlan, err := env.buildPlan(p, planOptions{skipPreferences: true})
				if err != nil {
					return err
				}
				dangling = env.dotfiles.DetectDangling(execPlan.Items)
			}

			out := cmd.OutOrStdout()
			if g.json {
				return writeJSON(out, map[string]interface{}{
					"success":  true,
					"state":    st,
					"dangling": dangling,
				})
			}
			if g.quiet {
				return nil
			}
			renderState(out, st)
			if check {
				renderDangling(out, dangling)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&profileName, "profile", "p", profile.DefaultProfile, MsgFlagProfile)
	cmd.Flags().BoolVar(&check, "check", false, MsgFlagCheck)
	return cmd
}

func renderState(w io.Writer, st *types.ExecutionState) {
	if st == nil {
		fmt.Fprintln(w, MsgNoSavedState)
		return
	}
	fmt.Fprintf(w, "Run:       %s\n", st.RunID)
	fmt.Fprintf(w, "Profile:   %s\n", st.ProfileName)
	fmt.Fprintf(w, "Status:    %s\n", st.Status)
	fmt.Fprintf(w, "Started:   %s\n", st.StartedAt.Local().Format(time.DateTime))
	fmt.Fprintf(w, "Updated:   %s\n", st.UpdatedAt.Local().Format(time.DateTime))
	fmt.Fprintf(w, "Completed: %d item(s)\n", len(st.Completed))
	if len(st.FailedItems) == 0 {
		return
	}
	fmt.Fprintf(w, "\nFailed (%d):\n", len(st.FailedItems))
	for _, f := range st.FailedItems {
		fmt.Fprintf(w, "  - %s [%s, %d attempt(s)]: %s\n", f.Identifier, f.ErrorKind, f.Attempts, f.Message)
		if f.Remediation != "" {
			fmt.Fprintf(w, "    -> %s\n", f.Remediation)
		}
	}
}

func renderDangling(w io.Writer, links []dotfiles.DanglingLink) {
	fmt.Fprintln(w)
	if len(links) == 0 {
		fmt.Fprintln(w, MsgNoDangling)
		return
	}
	fmt.Fprintln(w, MsgDanglingHeader)
	for _, l := range links {
		fmt.Fprintf(w, "  - %s: %s\n", l.Target, l.Problem)
	}
}
