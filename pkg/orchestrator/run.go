package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/arthur-debert/macsetup/pkg/errors"
	"github.com/arthur-debert/macsetup/pkg/retry"
	"github.com/arthur-debert/macsetup/pkg/types"
)

// run is the mutable state of one Orchestrator.Run call.
type run struct {
	*Orchestrator

	plan    *types.ExecutionPlan
	state   *types.ExecutionState
	policy  *retry.Policy
	resume  bool
	force   bool
	started time.Time

	// current is the item being applied, for retry notifications.
	current    types.InstallItem
	toolFailed map[string]bool
	outcomes   []types.Outcome
	manual     []types.InstallItem
}

// initialState starts a fresh state or continues prior, dropping anything
// that no longer belongs to the plan.
func (r *run) initialState(prior *types.ExecutionState) *types.ExecutionState {
	if prior == nil {
		return types.NewExecutionState(r.newRunID(), r.plan.Profile, r.started)
	}

	s := prior.Clone()
	s.Status = types.RunInProgress
	s.UpdatedAt = r.started

	inPlan := make(map[types.Identifier]bool, len(r.plan.Items))
	for _, id := range r.plan.Identifiers() {
		inPlan[id] = true
	}
	completed := s.Completed[:0]
	for _, id := range s.Completed {
		if inPlan[id] {
			completed = append(completed, id)
		}
	}
	s.Completed = completed
	failed := s.FailedItems[:0]
	for _, rec := range s.FailedItems {
		if inPlan[rec.Identifier] {
			failed = append(failed, rec)
		}
	}
	s.FailedItems = failed
	s.Normalize()

	r.logger.Debug().
		Str("run_id", s.RunID).
		Int("completed", len(s.Completed)).
		Int("failed", len(s.FailedItems)).
		Msg("Resuming from saved state")
	return s
}

func (r *run) retryPolicy() *retry.Policy {
	p := *r.retry
	notify := r.retry.OnRetry
	p.OnRetry = func(identifier string, attempt int, delay time.Duration, err error) {
		item := r.current
		r.logger.Warn().
			Err(err).
			Str("identifier", identifier).
			Int("attempt", attempt).
			Dur("delay", delay).
			Msg("Transient failure, retrying")
		r.reporter.Report(types.Event{
			Type:     types.EventRetryScheduled,
			Category: item.Category,
			Item:     &item,
			Attempt:  attempt,
			Delay:    delay,
			Err:      err,
		})
		if r.metrics != nil {
			r.metrics.ObserveRetry(item.Category)
		}
		if notify != nil {
			notify(identifier, attempt, delay, err)
		}
	}
	return &p
}

// process handles one item. It returns an error only when the run must stop.
func (r *run) process(ctx context.Context, item types.InstallItem) error {
	r.current = item
	r.reporter.Report(types.Event{Type: types.EventItemStarted, Category: item.Category, Item: &item})

	outcome, changed, err := r.attempt(ctx, item)
	r.record(item, outcome)
	if err != nil {
		return err
	}
	if changed {
		return r.save()
	}
	return nil
}

// attempt decides the outcome of item and updates the state accordingly.
// changed reports whether the state needs saving.
func (r *run) attempt(ctx context.Context, item types.InstallItem) (outcome types.Outcome, changed bool, err error) {
	id := item.ID()

	if item.Category == types.CategoryManual {
		r.manual = append(r.manual, item)
		return types.Skipped(item, DetailManual), false, nil
	}

	if r.resume && !r.force && r.state.IsCompleted(id) {
		return types.AlreadyPresent(item, "completed in a previous run"), false, nil
	}

	// In-flight work finishes even when the run is interrupted.
	detached := context.WithoutCancel(ctx)

	if item.Category == types.CategoryBootstrap {
		return r.bootstrapItem(detached, item), true, nil
	}

	adapter := r.plan.Adapters[item.Category]
	tool := adapter.ToolName()
	if !r.bootstrap.EnsureAvailable(detached, tool) {
		return r.toolUnavailable(item, tool), true, nil
	}

	if !r.force {
		applied, checkErr := adapter.IsApplied(detached, item)
		if checkErr != nil {
			r.logger.Debug().Err(checkErr).Str("identifier", id.String()).Msg("Idempotency check failed, applying")
		} else if applied {
			r.state.MarkCompleted(id)
			return types.AlreadyPresent(item, ""), true, nil
		}
	}

	// apply leaves its result in outcome; the error return only drives retries.
	apply := func() error {
		outcome = adapter.Apply(detached, item)
		if outcome.Status != types.StatusFailed {
			return nil
		}
		if outcome.Err == nil {
			outcome.Err = errors.New(errors.ErrPermanent, outcome.Detail)
		}
		return outcome.Err
	}
	attempts := 1
	if item.Category.NetworkDependent() {
		// ctx, not detached: cancelling during a backoff wait ends the retries.
		attempts, _ = r.policy.Do(ctx, id.String(), apply)
	} else {
		apply()
	}
	outcome.Identifier = id
	outcome.Attempts = attempts

	switch {
	case outcome.Status == types.StatusFailed:
		if errors.IsFatal(outcome.Err) {
			return outcome, false, outcome.Err
		}
		r.markFailed(id, outcome.Err, attempts)
	case outcome.Succeeded():
		r.state.MarkCompleted(id)
	}
	return outcome, true, nil
}

func (r *run) bootstrapItem(ctx context.Context, item types.InstallItem) types.Outcome {
	tool := item.Name
	if !r.bootstrap.EnsureAvailable(ctx, tool) {
		return r.toolUnavailable(item, tool)
	}
	r.state.MarkCompleted(item.ID())
	if r.bootstrap.Installed(tool) {
		return types.Installed(item, "installed "+tool)
	}
	return types.AlreadyPresent(item, "")
}

// toolUnavailable records one failure per tool, on the first item that
// needed it. Later items are skipped and stay eligible for a resumed run.
func (r *run) toolUnavailable(item types.InstallItem, tool string) types.Outcome {
	if r.toolFailed[tool] {
		return types.Skipped(item, "tool unavailable: "+tool)
	}
	r.toolFailed[tool] = true

	err := r.bootstrap.Err(tool)
	switch {
	case err == nil:
		err = errors.Newf(errors.ErrToolUnavailable, "%s is not available", tool)
	case !errors.IsErrorCode(err, errors.ErrToolUnavailable):
		err = errors.Wrapf(err, errors.ErrToolUnavailable, "%s is not available", tool)
	}
	r.markFailed(item.ID(), err, 1)
	o := types.Failed(item, err)
	o.Attempts = 1
	return o
}

func (r *run) markFailed(id types.Identifier, err error, attempts int) {
	r.state.MarkFailed(types.FailureRecord{
		Identifier:  id,
		ErrorKind:   errors.Kind(err),
		Message:     err.Error(),
		Remediation: errors.Remediation(err),
		Timestamp:   r.now(),
		Attempts:    attempts,
	})
}

func (r *run) record(item types.InstallItem, outcome types.Outcome) {
	r.outcomes = append(r.outcomes, outcome)
	if r.metrics != nil {
		r.metrics.ObserveItem(item.Category, outcome.Status)
	}

	ev := r.logger.Info()
	eventType := types.EventItemSucceeded
	if outcome.Status == types.StatusFailed {
		ev = r.logger.Error().Err(outcome.Err).Int("attempts", outcome.Attempts)
		eventType = types.EventItemFailed
	}
	ev.Str("identifier", item.ID().String()).
		Str("status", string(outcome.Status)).
		Str("detail", outcome.Detail).
		Msg("Item processed")

	r.reporter.Report(types.Event{Type: eventType, Category: item.Category, Item: &item, Outcome: &outcome})
}

func (r *run) save() error {
	r.state.UpdatedAt = r.now()
	if err := r.store.Save(r.state); err != nil {
		if errors.IsFatal(err) {
			return err
		}
		return errors.Fatal(err, "cannot persist execution state")
	}
	return nil
}

// fail ends the run on a fatal error. The in-memory state is marked
// Failed; saving it is attempted but not required to succeed.
func (r *run) fail(err error) (*Result, error) {
	r.state.Status = types.RunFailed
	r.state.UpdatedAt = r.now()
	if saveErr := r.store.Save(r.state); saveErr != nil {
		r.logger.Debug().Err(saveErr).Msg("Could not persist failed status")
	}
	r.logger.Error().Err(err).Str("run_id", r.state.RunID).Msg("Setup run aborted")
	r.observeRun(r)
	if !errors.IsFatal(err) {
		err = errors.Fatal(err, fmt.Sprintf("run %s aborted", r.state.RunID))
	}
	return r.result(), err
}

func (r *run) result() *Result {
	res := &Result{
		State:    r.state,
		Outcomes: r.outcomes,
		Summary: Summary{
			Manual:   r.manual,
			Failures: append([]types.FailureRecord(nil), r.state.FailedItems...),
		},
	}
	for _, o := range r.outcomes {
		switch o.Status {
		case types.StatusInstalled:
			res.Summary.Installed++
		case types.StatusAlreadyPresent:
			res.Summary.AlreadyPresent++
		case types.StatusFailed:
			res.Summary.Failed++
		case types.StatusSkipped:
			if o.Detail != DetailManual {
				res.Summary.Skipped++
			}
		}
	}
	return res
}
