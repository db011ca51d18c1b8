package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/macsetup/pkg/metrics"
	"github.com/arthur-debert/macsetup/pkg/orchestrator"
	"github.com/arthur-debert/macsetup/pkg/preview"
	"github.com/arthur-debert/macsetup/pkg/profile"
	"github.com/arthur-debert/macsetup/pkg/progress"
	"github.com/arthur-debert/macsetup/pkg/retry"
	"github.com/arthur-debert/macsetup/pkg/types"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type setupOptions struct {
	profile     string
	resume      bool
	force       bool
	dryRun      bool
	noBootstrap bool
	planOptions
}

func newSetupCmd(g *globalOptions) *cobra.Command {
	o := &setupOptions{}
	cmd := &cobra.Command{
		Use:     "setup",
		Short:   MsgSetupShort,
		Long:    MsgSetupLong,
		Example: MsgSetupExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetup(cmd, g, o)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&o.profile, "profile", "p", profile.DefaultProfile, MsgFlagProfile)
	flags.BoolVar(&o.resume, "resume", false, MsgFlagResume)
	flags.BoolVar(&o.force, "force", false, MsgFlagForce)
	flags.BoolVar(&o.dryRun, "dry-run", false, MsgFlagDryRun)
	flags.BoolVar(&o.noBootstrap, "no-bootstrap", false, MsgFlagNoBootstrap)
	flags.BoolVar(&o.skipDotfiles, "skip-dotfiles", false, MsgFlagSkipDotfiles)
	flags.BoolVar(&o.skipPreferences, "skip-preferences", false, MsgFlagSkipPreferences)
	return cmd
}

func runSetup(cmd *cobra.Command, g *globalOptions, o *setupOptions) error {
	overrides := map[string]interface{}{}
	if o.noBootstrap {
		overrides["bootstrap.enabled"] = false
	}
	env, err := loadEnvironment(g, overrides)
	if err != nil {
		return err
	}
	p, err := env.resolveProfile(o.profile)
	if err != nil {
		return err
	}
	execPlan, err := env.buildPlan(p, o.planOptions)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if o.dryRun {
		return renderList(g, cmd, execPlan, true)
	}

	store := env.store()
	var prior *types.ExecutionState
	if o.resume {
		if prior, err = store.Load(); err != nil {
			return err
		}
		if prior != nil && prior.ProfileName != execPlan.Profile {
			log.Warn().Str("saved_profile", prior.ProfileName).Msgf(MsgStaleStateFormat, prior.ProfileName)
			prior = nil
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var reporter types.ProgressReporter
	if !g.json && !g.quiet {
		if reporter, err = progress.NewReporter(progress.FormatAuto, out); err != nil {
			return err
		}
		fmt.Fprintf(out, MsgApplyingFormat, env.paths.ConfigFile(), execPlan.Profile)
	}

	m := metrics.New()
	orch := orchestrator.New(orchestrator.Config{
		Store:     store,
		Bootstrap: env.bootstrap,
		Retry:     retry.FromSettings(env.settings.Retry),
		Reporter:  reporter,
		Metrics:   m,
	})
	res, runErr := orch.Run(ctx, execPlan, prior, orchestrator.Options{ForceReinstall: o.force})
	if res == nil {
		return runErr
	}

	if err := m.WriteTextfile(env.settings.Metrics.Textfile); err != nil {
		log.Warn().Err(err).Str("path", env.settings.Metrics.Textfile).Msg(MsgErrWriteMetrics)
	}

	switch {
	case g.json:
		if err := progress.WriteJSONSummary(out, res); err != nil {
			return err
		}
	case !g.quiet:
		if err := progress.RenderSummary(out, res, styledOutput(out)); err != nil {
			return err
		}
	}

	if runErr != nil {
		return &ExitError{Code: ExitFailure, Err: runErr}
	}
	if res.State.Status == types.RunCompleted {
		if err := store.Clear(); err != nil {
			return fmt.Errorf(MsgErrClearState, err)
		}
	}
	if code := StatusExitCode(res.State.Status); code != ExitOK {
		return &ExitError{Code: code}
	}
	return nil
}

func styledOutput(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && progress.DetectFormat(f) == progress.FormatTerminal
}

func renderList(g *globalOptions, cmd *cobra.Command, execPlan *types.ExecutionPlan, dryRun bool) error {
	out := cmd.OutOrStdout()
	groups := preview.List(execPlan)
	if g.json {
		return writeJSON(out, map[string]interface{}{"success": true, "preview": groups})
	}
	if g.quiet {
		return nil
	}
	if err := preview.RenderList(out, execPlan.Profile, groups); err != nil {
		return err
	}
	if dryRun {
		fmt.Fprintln(out, "\n"+MsgDryRunNotice)
	}
	return nil
}
