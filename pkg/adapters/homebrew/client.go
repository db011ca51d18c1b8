// Package homebrew adapts the brew CLI for taps, formulas and casks.
package homebrew

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/arthur-debert/macsetup/pkg/adapters/runner"
	"github.com/arthur-debert/macsetup/pkg/logging"
	"github.com/rs/zerolog"
)

// ToolName is the bootstrap name of Homebrew.
const ToolName = "homebrew"

// Binary is the executable name.
const Binary = "brew"

type listKind string

const (
	listTaps     listKind = "tap"
	listFormulas listKind = "formula"
	listCasks    listKind = "cask"
)

// Client runs brew and caches the installed-package listings so a plan
// with hundreds of formulas issues one `brew list` rather than hundreds.
type Client struct {
	runner runner.Runner
	env    []string
	logger zerolog.Logger

	mu    sync.Mutex
	lists map[listKind]map[string]bool
}

// Options configures a Client.
type Options struct {
	// NoAutoUpdate sets HOMEBREW_NO_AUTO_UPDATE=1 on every call.
	NoAutoUpdate bool
	Logger       *zerolog.Logger
}

// NewClient creates a Client around r.
func NewClient(r runner.Runner, opts Options) *Client {
	c := &Client{
		runner: r,
		logger: logging.GetLogger("homebrew"),
		lists:  map[listKind]map[string]bool{},
	}
	if opts.NoAutoUpdate {
		c.env = append(c.env, "HOMEBREW_NO_AUTO_UPDATE=1")
	}
	if opts.Logger != nil {
		c.logger = *opts.Logger
	}
	return c
}

func (c *Client) brew(ctx context.Context, args ...string) (runner.Result, error) {
	return c.runner.Run(ctx, runner.Command{Name: Binary, Args: args, Env: c.env})
}

// installed returns the cached listing for kind, loading it on first use.
func (c *Client) installed(ctx context.Context, kind listKind) (map[string]bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if set, ok := c.lists[kind]; ok {
		return set, nil
	}

	var args []string
	switch kind {
	case listTaps:
		args = []string{"tap"}
	case listFormulas:
		args = []string{"list", "--formula", "-1"}
	case listCasks:
		args = []string{"list", "--cask", "-1"}
	}

	res, err := c.brew(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("listing installed %ss: %w", kind, err)
	}

	set := map[string]bool{}
	for _, line := range strings.Split(res.Stdout, "\n") {
		name := strings.TrimSpace(line)
		if name != "" {
			set[normalize(kind, name)] = true
		}
	}
	c.lists[kind] = set
	c.logger.Debug().Str("kind", string(kind)).Int("count", len(set)).Msg("Loaded brew listing")
	return set, nil
}

func (c *Client) isInstalled(ctx context.Context, kind listKind, name string) (bool, error) {
	set, err := c.installed(ctx, kind)
	if err != nil {
		return false, err
	}
	return set[normalize(kind, name)], nil
}

// remember records name as installed after a successful install.
func (c *Client) remember(kind listKind, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if set, ok := c.lists[kind]; ok {
		set[normalize(kind, name)] = true
	}
}

// Invalidate drops the cached listings.
func (c *Client) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists = map[listKind]map[string]bool{}
}

// normalize makes names comparable with brew's listings: lower case, and
// for formulas and casks the short name ("homebrew/core/git" is "git").
func normalize(kind listKind, name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if kind != listTaps {
		if i := strings.LastIndexByte(name, '/'); i >= 0 {
			name = name[i+1:]
		}
	}
	return name
}
