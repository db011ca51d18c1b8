package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResetCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: MsgResetShort,
		Long:  MsgResetLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(g, nil)
			if err != nil {
				return err
			}
			store := env.store()
			if err := store.Clear(); err != nil {
				return fmt.Errorf(MsgErrClearState, err)
			}
			if g.json {
				return writeJSON(cmd.OutOrStdout(), map[string]interface{}{"success": true, "path": store.Path()})
			}
			if !g.quiet {
				fmt.Fprintf(cmd.OutOrStdout(), MsgStateClearedFormat, store.Path())
			}
			return nil
		},
	}
}
