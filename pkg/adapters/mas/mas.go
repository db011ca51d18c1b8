// Package mas adapts the mas CLI for Mac App Store applications.
package mas

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/arthur-debert/macsetup/pkg/adapters/runner"
	"github.com/arthur-debert/macsetup/pkg/errors"
	"github.com/arthur-debert/macsetup/pkg/types"
)

// ToolName is the bootstrap name of the mas CLI.
const ToolName = "mas"

// Adapter installs App Store apps by numeric id.
type Adapter struct {
	runner runner.Runner
}

// New creates an Adapter.
func New(r runner.Runner) *Adapter {
	return &Adapter{runner: r}
}

func (a *Adapter) ToolName() string {
	return ToolName
}

func appID(item types.InstallItem) (int64, error) {
	if p, err := item.AppStore(); err == nil && p.ID != 0 {
		return p.ID, nil
	}
	id, err := strconv.ParseInt(item.Name, 10, 64)
	if err != nil {
		return 0, errors.Newf(errors.ErrInvalidInput, "app store item %q has no numeric id", item.Name)
	}
	return id, nil
}

// IsApplied checks `mas list`, whose lines look like "497799835  Xcode (15.0)".
func (a *Adapter) IsApplied(ctx context.Context, item types.InstallItem) (bool, error) {
	id, err := appID(item)
	if err != nil {
		return false, err
	}
	res, err := a.runner.Run(ctx, runner.Command{Name: "mas", Args: []string{"list"}})
	if err != nil {
		return false, fmt.Errorf("listing app store apps: %w", err)
	}
	want := strconv.FormatInt(id, 10)
	for _, line := range strings.Split(res.Stdout, "\n") {
		fields := strings.Fields(line)
		if len(fields) > 0 && fields[0] == want {
			return true, nil
		}
	}
	return false, nil
}

func (a *Adapter) Apply(ctx context.Context, item types.InstallItem) types.Outcome {
	id, err := appID(item)
	if err != nil {
		return types.Failed(item, errors.Permanent(err, "cannot install from the App Store",
			"Give the app a numeric App Store id in the configuration."))
	}
	ids := strconv.FormatInt(id, 10)

	res, err := a.runner.Run(ctx, runner.Command{Name: "mas", Args: []string{"install", ids}})
	if err != nil {
		rules := []runner.Rule{
			{Patterns: []string{"not signed in"},
				Remediation: `Sign into the Mac App Store first: open /System/Applications/App\ Store.app`},
			{Patterns: []string{"not found", "no results"},
				Remediation: fmt.Sprintf("Verify app ID %s is correct. Search for apps with 'mas search <name>'.", ids)},
			{Patterns: []string{"already installed"},
				Remediation: fmt.Sprintf("App %s is already installed, no action needed.", ids)},
			{Patterns: []string{"purchased"},
				Remediation: fmt.Sprintf("App %s must be purchased or downloaded from App Store first.", ids)},
		}
		fallback := fmt.Sprintf("Run 'mas install %s' manually to see detailed error.", ids)
		return types.Failed(item, runner.Classify("mas install "+ids, res, err, rules, fallback))
	}

	if strings.Contains(strings.ToLower(res.Output()), "already installed") {
		return types.AlreadyPresent(item, "already installed")
	}
	detail := "installed"
	if p, perr := item.AppStore(); perr == nil && p.Name != "" {
		detail = "installed " + p.Name
	}
	return types.Installed(item, detail)
}
