// Package bootstrap makes sure the external tools adapters drive are
// installed, installing them when a fixed procedure exists.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/macsetup/pkg/adapters/runner"
	"github.com/arthur-debert/macsetup/pkg/errors"
	"github.com/arthur-debert/macsetup/pkg/logging"
	"github.com/rs/zerolog"
)

type result struct {
	available bool
	installed bool
	err       error
}

// Manager checks and installs tools. Results are cached for the lifetime
// of the Manager, which is one run: each tool gets one bootstrap attempt.
type Manager struct {
	tools   map[string]Tool
	runner  runner.Runner
	enabled bool
	logger  zerolog.Logger

	// exists and prependPath are swapped in tests.
	exists      func(path string) bool
	prependPath func(dir string)

	results map[string]result
}

// Options configures a Manager.
type Options struct {
	// Tools defaults to DefaultTools("").
	Tools []Tool
	// Disabled turns off installation; missing tools are just unavailable.
	Disabled bool
	Logger   *zerolog.Logger
}

// New creates a Manager.
func New(r runner.Runner, opts Options) *Manager {
	tools := opts.Tools
	if tools == nil {
		tools = DefaultTools("")
	}
	m := &Manager{
		tools:       make(map[string]Tool, len(tools)),
		runner:      r,
		enabled:     !opts.Disabled,
		logger:      logging.GetLogger("bootstrap"),
		exists:      fileExists,
		prependPath: prependPath,
		results:     map[string]result{},
	}
	for _, t := range tools {
		m.tools[t.Name] = t
	}
	if opts.Logger != nil {
		m.logger = *opts.Logger
	}
	return m
}

// Installable reports whether the tool has an install procedure, which is
// what earns it an explicit bootstrap item in a plan.
func (m *Manager) Installable(name string) bool {
	t, ok := m.tools[name]
	return ok && t.Install != nil
}

// Chain returns name preceded by the tools it requires, dependencies first.
func (m *Manager) Chain(name string) []string {
	var out []string
	seen := map[string]bool{}
	var visit func(string)
	visit = func(n string) {
		if seen[n] {
			return
		}
		seen[n] = true
		for _, dep := range m.tools[n].Requires {
			visit(dep)
		}
		out = append(out, n)
	}
	visit(name)
	return out
}

// EnsureAvailable returns true when the tool can be used, installing it
// first if needed. It never panics or aborts; failures are reported by Err.
func (m *Manager) EnsureAvailable(ctx context.Context, name string) bool {
	return m.ensure(ctx, name, map[string]bool{}).available
}

// Err returns why the tool is unavailable, or nil.
func (m *Manager) Err(name string) error {
	return m.results[name].err
}

// Installed reports whether this Manager installed the tool.
func (m *Manager) Installed(name string) bool {
	return m.results[name].installed
}

func (m *Manager) ensure(ctx context.Context, name string, visiting map[string]bool) result {
	if r, ok := m.results[name]; ok {
		return r
	}
	r := m.check(ctx, name, visiting)
	m.results[name] = r

	ev := m.logger.Debug()
	if !r.available {
		ev = m.logger.Warn().Err(r.err)
	}
	ev.Str("tool", name).Bool("available", r.available).Bool("installed", r.installed).Msg("Bootstrap checked")
	return r
}

func (m *Manager) check(ctx context.Context, name string, visiting map[string]bool) result {
	tool, ok := m.tools[name]
	if !ok {
		return unavailable(name, "unknown tool", "")
	}
	if tool.Builtin {
		return result{available: true}
	}
	if m.locate(tool) {
		return result{available: true}
	}
	if tool.Install == nil {
		return unavailable(name, fmt.Sprintf("%s not found on PATH", tool.Binary),
			fmt.Sprintf("%s ships with macOS; check that PATH includes /usr/bin.", tool.Binary))
	}
	if !m.enabled {
		return unavailable(name, fmt.Sprintf("%s not found and bootstrap is disabled", tool.Binary),
			fmt.Sprintf("Install %s manually or enable bootstrap in settings.", name))
	}

	if visiting[name] {
		return unavailable(name, "circular tool requirement", "")
	}
	visiting[name] = true
	for _, dep := range tool.Requires {
		if !m.ensure(ctx, dep, visiting).available {
			return unavailable(name, fmt.Sprintf("requires %s, which is unavailable", dep),
				fmt.Sprintf("Fix the %s installation first.", dep))
		}
	}

	m.logger.Info().Str("tool", name).Str("command", tool.Install.String()).Msg("Installing missing tool")
	res, err := m.runner.Run(ctx, *tool.Install)
	if err != nil {
		classified := runner.Classify("installing "+name, res, err, nil,
			fmt.Sprintf("Install %s manually, then run setup with --resume.", name))
		return result{err: errors.Wrapf(classified, errors.ErrToolUnavailable, "cannot install %s", name).
			WithRemediation(errors.Remediation(classified))}
	}

	if !m.locate(tool) {
		return unavailable(name, fmt.Sprintf("%s still not found after install", tool.Binary),
			fmt.Sprintf("Open a new shell or add %s's bin directory to PATH.", name))
	}
	return result{available: true, installed: true}
}

// locate finds the binary on PATH or in one of the tool's known locations,
// adding that location to PATH so later commands find it too.
func (m *Manager) locate(tool Tool) bool {
	if _, err := m.runner.LookPath(tool.Binary); err == nil {
		return true
	}
	for _, dir := range tool.Locations {
		if m.exists(filepath.Join(dir, tool.Binary)) {
			m.prependPath(dir)
			m.logger.Debug().Str("dir", dir).Str("tool", tool.Name).Msg("Added tool location to PATH")
			return true
		}
	}
	return false
}

func unavailable(name, message, remediation string) result {
	return result{err: errors.Newf(errors.ErrToolUnavailable, "%s unavailable: %s", name, message).
		WithRemediation(remediation)}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func prependPath(dir string) {
	current := os.Getenv("PATH")
	for _, p := range filepath.SplitList(current) {
		if p == dir {
			return
		}
	}
	_ = os.Setenv("PATH", strings.Join([]string{dir, current}, string(os.PathListSeparator)))
}
