// Package runner executes the external commands adapters drive (brew, mas,
// defaults) and classifies their failures.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/arthur-debert/macsetup/pkg/errors"
	"github.com/arthur-debert/macsetup/pkg/logging"
	"github.com/rs/zerolog"
)

// DefaultTimeout bounds a single command.
const DefaultTimeout = 30 * time.Minute

// Command is one invocation of an external tool.
type Command struct {
	Name string
	Args []string
	// Env entries are appended to the inherited environment.
	Env []string
	// Timeout overrides the runner's default when non-zero.
	Timeout time.Duration
}

func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result holds the captured output of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Output returns stderr, falling back to stdout, trimmed. Tools are not
// consistent about where they print errors.
func (r Result) Output() string {
	if s := strings.TrimSpace(r.Stderr); s != "" {
		return s
	}
	return strings.TrimSpace(r.Stdout)
}

// Runner runs commands. The exec implementation is replaced by a mock in
// adapter tests.
type Runner interface {
	// Run executes cmd. A non-zero exit yields the captured Result and an
	// error; a timeout yields a transient error.
	Run(ctx context.Context, cmd Command) (Result, error)
	// LookPath locates a binary on PATH.
	LookPath(name string) (string, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	timeout time.Duration
	logger  zerolog.Logger
}

// Options configures an ExecRunner.
type Options struct {
	Timeout time.Duration
	Logger  *zerolog.Logger
}

// NewExec creates an ExecRunner.
func NewExec(opts Options) *ExecRunner {
	r := &ExecRunner{
		timeout: opts.Timeout,
		logger:  logging.GetLogger("runner"),
	}
	if r.timeout <= 0 {
		r.timeout = DefaultTimeout
	}
	if opts.Logger != nil {
		r.logger = *opts.Logger
	}
	return r
}

// LookPath implements Runner.
func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, c Command) (Result, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = r.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	logging.LogCommand(r.logger, c.Name, c.Args)
	start := time.Now()

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Env = append(os.Environ(), c.Env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: cmd.ProcessState.ExitCode(),
	}

	r.logger.Debug().
		Str("command", c.String()).
		Int("exitCode", res.ExitCode).
		Dur("duration", time.Since(start)).
		Msg("Command finished")

	if ctx.Err() == context.DeadlineExceeded {
		return res, errors.Transient(ctx.Err(),
			fmt.Sprintf("%s timed out after %s", c.Name, timeout))
	}
	if err != nil {
		if res.Stderr != "" {
			r.logger.Debug().Str("stderr", res.Stderr).Msg("Command stderr")
		}
		return res, fmt.Errorf("%s: %w", c, err)
	}
	return res, nil
}
