package orchestrator

import (
	"context"
	"time"

	"github.com/arthur-debert/macsetup/pkg/errors"
	"github.com/arthur-debert/macsetup/pkg/logging"
	"github.com/arthur-debert/macsetup/pkg/retry"
	"github.com/arthur-debert/macsetup/pkg/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DetailManual is the outcome detail of manual-install items.
const DetailManual = "manual"

// Store persists execution state. *state.Store satisfies it.
type Store interface {
	Save(s *types.ExecutionState) error
}

// Bootstrapper makes tools available. *bootstrap.Manager satisfies it.
type Bootstrapper interface {
	EnsureAvailable(ctx context.Context, tool string) bool
	Err(tool string) error
	Installed(tool string) bool
}

// Recorder receives metrics. *metrics.Metrics satisfies it.
type Recorder interface {
	ObserveItem(c types.Category, status types.OutcomeStatus)
	ObserveRetry(c types.Category)
	ObserveRun(status types.RunStatus, d time.Duration)
}

// Config wires an Orchestrator. Only Store is required.
type Config struct {
	Store     Store
	Bootstrap Bootstrapper
	// Retry defaults to retry.DefaultPolicy().
	Retry    *retry.Policy
	Reporter types.ProgressReporter
	Metrics  Recorder
	Logger   *zerolog.Logger
	// Clock and NewRunID are replaced in tests.
	Clock    func() time.Time
	NewRunID func() string
}

// Options are per-run switches.
type Options struct {
	// ForceReinstall applies every item, even ones completed earlier or
	// reported as present by their adapter.
	ForceReinstall bool
}

// Summary tallies the outcomes of a run.
type Summary struct {
	Installed      int
	AlreadyPresent int
	Skipped        int
	Failed         int
	// Manual lists the items the user has to install by hand.
	Manual []types.InstallItem
	// Failures are the failure records left in the state.
	Failures []types.FailureRecord
}

// Result is what a run produced.
type Result struct {
	State    *types.ExecutionState
	Outcomes []types.Outcome
	Summary  Summary
}

// Orchestrator runs plans.
type Orchestrator struct {
	store     Store
	bootstrap Bootstrapper
	retry     *retry.Policy
	reporter  types.ProgressReporter
	metrics   Recorder
	logger    zerolog.Logger
	now       func() time.Time
	newRunID  func() string
}

// New creates an Orchestrator.
func New(cfg Config) *Orchestrator {
	o := &Orchestrator{
		store:     cfg.Store,
		bootstrap: cfg.Bootstrap,
		retry:     cfg.Retry,
		reporter:  cfg.Reporter,
		metrics:   cfg.Metrics,
		logger:    logging.GetLogger("orchestrator"),
		now:       cfg.Clock,
		newRunID:  cfg.NewRunID,
	}
	if cfg.Logger != nil {
		o.logger = *cfg.Logger
	}
	if o.retry == nil {
		o.retry = retry.DefaultPolicy()
	}
	if o.reporter == nil {
		o.reporter = types.ReporterFunc(func(types.Event) {})
	}
	if o.bootstrap == nil {
		o.bootstrap = alwaysAvailable{}
	}
	if o.now == nil {
		o.now = time.Now
	}
	if o.newRunID == nil {
		o.newRunID = func() string { return uuid.NewString() }
	}
	return o
}

// Run executes plan. prior is the state of an interrupted or partially
// failed run to resume, or nil for a fresh run.
//
// The returned error is non-nil only for invalid input or a fatal error;
// item failures are reported through the result. On a fatal error the
// result is still returned, with status Failed.
func (o *Orchestrator) Run(ctx context.Context, plan *types.ExecutionPlan, prior *types.ExecutionState, opts Options) (*Result, error) {
	if o.store == nil {
		return nil, errors.New(errors.ErrInvalidInput, "orchestrator has no state store")
	}
	if err := plan.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "invalid execution plan")
	}
	if prior != nil && prior.ProfileName != plan.Profile {
		return nil, errors.Newf(errors.ErrInvalidInput,
			"saved state belongs to profile %q, not %q", prior.ProfileName, plan.Profile).
			WithRemediation("Run setup without --resume, or reset the saved state.")
	}

	r := &run{
		Orchestrator: o,
		plan:         plan,
		resume:       prior != nil,
		force:        opts.ForceReinstall,
		started:      o.now(),
		toolFailed:   map[string]bool{},
	}
	r.state = r.initialState(prior)
	r.policy = r.retryPolicy()

	o.logger.Info().
		Str("run_id", r.state.RunID).
		Str("profile", plan.Profile).
		Int("items", len(plan.Items)).
		Bool("resume", r.resume).
		Bool("force", r.force).
		Msg("Starting setup run")
	defer logging.LogOperationStart(o.logger, "setup run")()

	if err := r.save(); err != nil {
		return r.fail(err)
	}

	interrupted := false
	var phase types.Category
	for i := range plan.Items {
		item := plan.Items[i]
		if ctx.Err() != nil {
			interrupted = true
			o.logger.Warn().Str("next", item.ID().String()).Msg("Run interrupted")
			break
		}
		if item.Category != phase {
			if phase != "" {
				o.reporter.Report(types.Event{Type: types.EventPhaseCompleted, Category: phase})
			}
			phase = item.Category
			o.reporter.Report(types.Event{Type: types.EventPhaseStarted, Category: phase, Total: plan.CountByCategory(phase)})
		}

		if err := r.process(ctx, item); err != nil {
			return r.fail(err)
		}
	}
	if !interrupted && phase != "" {
		o.reporter.Report(types.Event{Type: types.EventPhaseCompleted, Category: phase})
	}
	// A cancel that lands during the last item still interrupts the run.
	if !interrupted && ctx.Err() != nil {
		interrupted = true
		o.logger.Warn().Msg("Run interrupted after the last item")
	}

	switch {
	case interrupted:
		r.state.Status = types.RunInterrupted
	case len(r.state.FailedItems) > 0:
		r.state.Status = types.RunCompletedWithErrors
	default:
		r.state.Status = types.RunCompleted
	}
	if err := r.save(); err != nil {
		return r.fail(err)
	}

	res := r.result()
	o.observeRun(r)
	o.logger.Info().
		Str("status", string(r.state.Status)).
		Int("installed", res.Summary.Installed).
		Int("already_present", res.Summary.AlreadyPresent).
		Int("failed", res.Summary.Failed).
		Dur("duration", o.now().Sub(r.started)).
		Msg("Setup run finished")
	return res, nil
}

func (o *Orchestrator) observeRun(r *run) {
	if o.metrics != nil {
		o.metrics.ObserveRun(r.state.Status, o.now().Sub(r.started))
	}
}

type alwaysAvailable struct{}

func (alwaysAvailable) EnsureAvailable(context.Context, string) bool { return true }
func (alwaysAvailable) Err(string) error                             { return nil }
func (alwaysAvailable) Installed(string) bool                        { return false }
