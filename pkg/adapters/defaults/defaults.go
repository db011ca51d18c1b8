// Package defaults adapts the macOS `defaults` command for preference items.
package defaults

import (
	"context"
	"fmt"

	"github.com/arthur-debert/macsetup/pkg/adapters/runner"
	"github.com/arthur-debert/macsetup/pkg/errors"
	"github.com/arthur-debert/macsetup/pkg/types"
)

// ToolName is the bootstrap name of the defaults command. It ships with
// macOS and has no install procedure.
const ToolName = "defaults"

// Adapter reads and writes preference values.
type Adapter struct {
	runner runner.Runner
	// exports caches `defaults export` output per domain for one run.
	exports map[string][]byte
}

// New creates an Adapter.
func New(r runner.Runner) *Adapter {
	return &Adapter{runner: r, exports: map[string][]byte{}}
}

func (a *Adapter) ToolName() string {
	return ToolName
}

func (a *Adapter) export(ctx context.Context, domain string) ([]byte, error) {
	if data, ok := a.exports[domain]; ok {
		return data, nil
	}
	res, err := a.runner.Run(ctx, runner.Command{Name: "defaults", Args: []string{"export", domain, "-"}})
	if err != nil {
		return nil, fmt.Errorf("exporting %s: %w", domain, err)
	}
	data := []byte(res.Stdout)
	a.exports[domain] = data
	return data, nil
}

// IsApplied compares the current value of the key with the desired one,
// typed as the item specifies.
func (a *Adapter) IsApplied(ctx context.Context, item types.InstallItem) (bool, error) {
	p, err := item.Preference()
	if err != nil {
		return false, err
	}
	data, err := a.export(ctx, p.Domain)
	if err != nil {
		return false, err
	}
	el, err := readKey(data, p.Key)
	if err != nil {
		return false, err
	}
	return matches(el, p.Value, p.Type), nil
}

func (a *Adapter) Apply(ctx context.Context, item types.InstallItem) types.Outcome {
	p, err := item.Preference()
	if err != nil {
		return types.Failed(item, errors.Permanent(err, "invalid preference item", ""))
	}

	valueArgs, err := writeArgs(p.Value, p.Type)
	if err != nil {
		return types.Failed(item, errors.Permanent(err,
			fmt.Sprintf("cannot write %s %s", p.Domain, p.Key),
			fmt.Sprintf("Value type mismatch for %s. Try specifying value_type explicitly.", p.Key)))
	}

	args := append([]string{"write", p.Domain, p.Key}, valueArgs...)
	res, err := a.runner.Run(ctx, runner.Command{Name: "defaults", Args: args})
	if err != nil {
		rules := []runner.Rule{
			{Patterns: []string{"does not exist"},
				Remediation: fmt.Sprintf("Domain %s may not be a valid preference domain. Check with 'defaults domains'.", p.Domain)},
			{Patterns: []string{"type"},
				Remediation: fmt.Sprintf("Value type mismatch for %s. Try specifying value_type explicitly.", p.Key)},
		}
		fallback := fmt.Sprintf("Run 'defaults write %s %s' manually to see detailed error.", p.Domain, p.Key)
		return types.Failed(item, runner.Classify("defaults write "+p.Domain+" "+p.Key, res, err, rules, fallback))
	}

	delete(a.exports, p.Domain)
	return types.Installed(item, fmt.Sprintf("set %s %s", p.Domain, p.Key))
}
