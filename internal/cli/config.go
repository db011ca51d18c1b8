package cli

import (
	"fmt"

	"github.com/arthur-debert/macsetup/pkg/config"
	"github.com/spf13/cobra"
)

func newConfigCmd(g *globalOptions) *cobra.Command {
	var showDefaults bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: MsgConfigShort,
		Long:  MsgConfigLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if showDefaults {
				_, err := fmt.Fprint(out, config.DefaultsContent())
				return err
			}
			env, err := loadEnvironment(g, nil)
			if err != nil {
				return err
			}
			data, err := env.settings.TOML()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "# %s\n", env.paths.SettingsFile())
			_, err = out.Write(data)
			return err
		},
	}
	cmd.Flags().BoolVar(&showDefaults, "defaults", false, MsgFlagDefaults)
	return cmd
}
