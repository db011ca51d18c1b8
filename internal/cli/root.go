// Package cli implements the macsetup command line.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/macsetup/internal/version"
	"github.com/arthur-debert/macsetup/pkg/errors"
	"github.com/arthur-debert/macsetup/pkg/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	verbosity int
	configDir string
	json      bool
	quiet     bool
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&globalOptions{})
}

func newRootCmd(g *globalOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "macsetup",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLoggerTo(g.verbosity, cmd.ErrOrStderr(), logging.LogFilePath())
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&g.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.StringVarP(&g.configDir, "config-dir", "c", "", MsgFlagConfigDir)
	flags.BoolVar(&g.json, "json", false, MsgFlagJSON)
	flags.BoolVarP(&g.quiet, "quiet", "q", false, MsgFlagQuiet)

	rootCmd.AddCommand(newSetupCmd(g))
	rootCmd.AddCommand(newPreviewCmd(g))
	rootCmd.AddCommand(newStatusCmd(g))
	rootCmd.AddCommand(newResetCmd(g))
	rootCmd.AddCommand(newProfilesCmd(g))
	rootCmd.AddCommand(newConfigCmd(g))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Run executes the command line args and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	g := &globalOptions{}
	rootCmd := newRootCmd(g)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		reportError(g, stdout, stderr, err)
	}
	return ExitCode(err)
}

// Execute runs macsetup with the process arguments.
func Execute() int {
	return Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}

func reportError(g *globalOptions, stdout, stderr io.Writer, err error) {
	var exitErr *ExitError
	if asExitError(err, &exitErr) && exitErr.Err == nil {
		return
	}
	if g.json {
		_ = json.NewEncoder(stdout).Encode(map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	fmt.Fprintln(stderr, MsgErrPrefix+err.Error())
	if remediation := errors.Remediation(err); remediation != "" {
		fmt.Fprintln(stderr, "  "+remediation)
	}
	if errors.IsErrorCode(err, errors.ErrProfileNotFound) {
		if names, ok := errors.GetErrorDetails(err)["available"].([]string); ok && len(names) > 0 {
			fmt.Fprintf(stderr, MsgAvailableFormat, strings.Join(names, ", "))
		}
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, MsgVersionFormat, version.Version)
			if version.Commit != "" {
				fmt.Fprintf(out, MsgCommitFormat, version.Commit)
			}
			if version.Date != "" {
				fmt.Fprintf(out, MsgBuiltFormat, version.Date)
			}
		},
	}
}
