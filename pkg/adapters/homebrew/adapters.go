package homebrew

import (
	"context"
	"fmt"
	"strings"

	"github.com/arthur-debert/macsetup/pkg/adapters/runner"
	"github.com/arthur-debert/macsetup/pkg/types"
)

// adapter is shared by the tap, formula and cask adapters; they differ
// only in the brew arguments and the failure rules.
type adapter struct {
	client   *Client
	kind     listKind
	install  func(name string) []string
	rules    func(name string) []runner.Rule
	fallback func(name string) string
}

// NewTapAdapter handles CategoryTap items.
func NewTapAdapter(c *Client) types.Adapter {
	return &adapter{
		client:  c,
		kind:    listTaps,
		install: func(name string) []string { return []string{"tap", name} },
		rules: func(name string) []runner.Rule {
			return []runner.Rule{
				{Patterns: []string{"already tapped"},
					Remediation: fmt.Sprintf("Tap %s is already installed, no action needed.", name)},
				{Patterns: []string{"invalid tap", "not found"},
					Remediation: "Verify the tap name is correct. Format should be 'user/repo'."},
			}
		},
		fallback: func(name string) string {
			return fmt.Sprintf("Run 'brew tap %s' manually to see detailed error.", name)
		},
	}
}

// NewFormulaAdapter handles CategoryFormula items.
func NewFormulaAdapter(c *Client) types.Adapter {
	return &adapter{
		client:  c,
		kind:    listFormulas,
		install: func(name string) []string { return []string{"install", name} },
		rules: func(name string) []runner.Rule {
			return []runner.Rule{
				{Patterns: []string{"already installed"},
					Remediation: fmt.Sprintf("Formula %s is already installed, no action needed.", name)},
				{Patterns: []string{"no available formula", "not found"},
					Remediation: fmt.Sprintf("Verify the formula name is correct. Search with 'brew search %s'.", name)},
				{Patterns: []string{"permission denied"},
					Remediation: "Check Homebrew directory permissions. Run 'brew doctor' for diagnostics."},
			}
		},
		fallback: func(name string) string {
			return fmt.Sprintf("Run 'brew install %s' manually to see detailed error.", name)
		},
	}
}

// NewCaskAdapter handles CategoryCask items.
func NewCaskAdapter(c *Client) types.Adapter {
	return &adapter{
		client:  c,
		kind:    listCasks,
		install: func(name string) []string { return []string{"install", "--cask", name} },
		rules: func(name string) []runner.Rule {
			return []runner.Rule{
				{Patterns: []string{"already installed"},
					Remediation: fmt.Sprintf("Cask %s is already installed, no action needed.", name)},
				{Patterns: []string{"no available cask", "not found"},
					Remediation: fmt.Sprintf("Verify the cask name is correct. Search with 'brew search --cask %s'.", name)},
				{Patterns: []string{"permission denied"},
					Remediation: "Cask installation may require admin privileges. Check system permissions."},
				{Patterns: []string{"sha256 mismatch"},
					Remediation: "Download may be corrupted. Run 'brew cleanup' and try again."},
			}
		},
		fallback: func(name string) string {
			return fmt.Sprintf("Run 'brew install --cask %s' manually to see detailed error.", name)
		},
	}
}

func (a *adapter) ToolName() string {
	return ToolName
}

func (a *adapter) IsApplied(ctx context.Context, item types.InstallItem) (bool, error) {
	return a.client.isInstalled(ctx, a.kind, item.Name)
}

func (a *adapter) Apply(ctx context.Context, item types.InstallItem) types.Outcome {
	args := a.install(item.Name)
	res, err := a.client.brew(ctx, args...)
	if err != nil {
		what := "brew " + strings.Join(args, " ")
		return types.Failed(item, runner.Classify(what, res, err, a.rules(item.Name), a.fallback(item.Name)))
	}

	a.client.remember(a.kind, item.Name)

	lower := strings.ToLower(res.Output())
	if strings.Contains(lower, "already installed") || strings.Contains(lower, "already tapped") {
		return types.AlreadyPresent(item, "already installed")
	}
	verb := "installed"
	if a.kind == listTaps {
		verb = "tapped"
	}
	return types.Installed(item, verb)
}
