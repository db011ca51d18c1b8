// Package retry runs an operation again when it fails with a transient
// error, waiting an exponentially growing, jittered interval in between.
package retry

import (
	"context"
	"time"

	"github.com/arthur-debert/macsetup/pkg/config"
	"github.com/arthur-debert/macsetup/pkg/errors"
	"github.com/cenkalti/backoff/v5"
)

// NotifyFunc is told about every retry before the wait begins.
type NotifyFunc func(identifier string, attempt int, delay time.Duration, err error)

// SleepFunc waits for d or until ctx is done, returning ctx.Err() in the
// latter case.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Policy decides how often and how long to retry.
type Policy struct {
	MaxAttempts         int
	InitialInterval     time.Duration
	MaxInterval         time.Duration
	Multiplier          float64
	RandomizationFactor float64

	// OnRetry is optional.
	OnRetry NotifyFunc
	// Sleep defaults to a timer-based wait. Tests replace it.
	Sleep SleepFunc
}

// DefaultPolicy returns 3 attempts starting at 2s, doubling, capped at 30s.
func DefaultPolicy() *Policy {
	return &Policy{
		MaxAttempts:         3,
		InitialInterval:     2 * time.Second,
		MaxInterval:         30 * time.Second,
		Multiplier:          2,
		RandomizationFactor: 0.2,
	}
}

// FromSettings builds a policy from the retry section of the settings.
func FromSettings(s config.RetrySettings) *Policy {
	return &Policy{
		MaxAttempts:         s.MaxAttempts,
		InitialInterval:     s.InitialInterval,
		MaxInterval:         s.MaxInterval,
		Multiplier:          s.Multiplier,
		RandomizationFactor: s.Jitter,
	}
}

// NoRetry is a policy with a single attempt.
func NoRetry() *Policy {
	return &Policy{MaxAttempts: 1}
}

func (p *Policy) schedule() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.MaxInterval = p.MaxInterval
	b.Multiplier = p.Multiplier
	b.RandomizationFactor = p.RandomizationFactor
	b.Reset()
	return b
}

// Do calls fn until it succeeds, fails with a non-transient error, or the
// attempts run out. It returns the number of attempts made and the last
// error. Cancelling ctx during a wait stops retrying; the last error from
// fn is returned, not the context error.
func (p *Policy) Do(ctx context.Context, identifier string, fn func() error) (int, error) {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = timerSleep
	}
	b := p.schedule()

	var err error
	attempt := 0
	for attempt < maxAttempts {
		attempt++
		err = fn()
		if err == nil || !errors.IsTransient(err) || attempt == maxAttempts {
			return attempt, err
		}

		delay := b.NextBackOff()
		if delay == backoff.Stop {
			return attempt, err
		}
		if p.OnRetry != nil {
			p.OnRetry(identifier, attempt, delay, err)
		}
		if sleepErr := sleep(ctx, delay); sleepErr != nil {
			return attempt, err
		}
	}
	return attempt, err
}

func timerSleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
