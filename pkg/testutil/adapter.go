package testutil

import (
	"context"

	"github.com/arthur-debert/macsetup/pkg/types"
)

// FakeAdapter is a scripted types.Adapter. Items listed in Present are
// reported as applied; Apply consumes Errors[id] one entry per call (a nil
// entry, or running out of entries, means success) and marks the item
// present on success.
type FakeAdapter struct {
	Tool         string
	Present      map[types.Identifier]bool
	Errors       map[types.Identifier][]error
	IsAppliedErr map[types.Identifier]error
	// ApplyFunc, when set, replaces the scripted behavior of Apply.
	ApplyFunc func(ctx context.Context, item types.InstallItem) types.Outcome

	IsAppliedCalls []types.Identifier
	ApplyCalls     []types.Identifier
}

// NewFakeAdapter returns a FakeAdapter for tool with nothing present.
func NewFakeAdapter(tool string) *FakeAdapter {
	return &FakeAdapter{
		Tool:         tool,
		Present:      map[types.Identifier]bool{},
		Errors:       map[types.Identifier][]error{},
		IsAppliedErr: map[types.Identifier]error{},
	}
}

// Fail scripts the next Apply calls for id to return errs in order.
func (f *FakeAdapter) Fail(id types.Identifier, errs ...error) *FakeAdapter {
	f.Errors[id] = append(f.Errors[id], errs...)
	return f
}

// MarkPresent makes IsApplied report the ids as applied.
func (f *FakeAdapter) MarkPresent(ids ...types.Identifier) *FakeAdapter {
	for _, id := range ids {
		f.Present[id] = true
	}
	return f
}

func (f *FakeAdapter) ToolName() string { return f.Tool }

func (f *FakeAdapter) IsApplied(_ context.Context, item types.InstallItem) (bool, error) {
	id := item.ID()
	f.IsAppliedCalls = append(f.IsAppliedCalls, id)
	if err := f.IsAppliedErr[id]; err != nil {
		return false, err
	}
	return f.Present[id], nil
}

func (f *FakeAdapter) Apply(ctx context.Context, item types.InstallItem) types.Outcome {
	id := item.ID()
	f.ApplyCalls = append(f.ApplyCalls, id)
	if f.ApplyFunc != nil {
		return f.ApplyFunc(ctx, item)
	}
	if errs := f.Errors[id]; len(errs) > 0 {
		err := errs[0]
		f.Errors[id] = errs[1:]
		if err != nil {
			return types.Failed(item, err)
		}
	}
	f.Present[id] = true
	return types.Installed(item, "")
}

// ApplyCount returns how many times Apply ran for id.
func (f *FakeAdapter) ApplyCount(id types.Identifier) int {
	n := 0
	for _, c := range f.ApplyCalls {
		if c == id {
			n++
		}
	}
	return n
}
