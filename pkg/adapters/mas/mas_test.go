package mas_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/macsetup/pkg/adapters/mas"
	"github.com/arthur-debert/macsetup/pkg/adapters/runner"
	"github.com/arthur-debert/macsetup/pkg/errors"
	"github.com/arthur-debert/macsetup/pkg/testutil"
	"github.com/arthur-debert/macsetup/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func xcode() types.InstallItem {
	return types.InstallItem{
		Category: types.CategoryAppStore,
		Name:     "497799835",
		Params:   types.AppStoreParams{ID: 497799835, Name: "Xcode"},
	}
}

func TestIsApplied(t *testing.T) {
	r := &testutil.MockRunner{}
	r.On("Run", mock.Anything, testutil.Cmd("mas", "list")).
		Return(runner.Result{Stdout: "497799835  Xcode (15.0)\n4977998350 Other (1.0)\n"}, nil)

	a := mas.New(r)
	ok, err := a.IsApplied(context.Background(), xcode())
	require.NoError(t, err)
	assert.True(t, ok)

	other := types.InstallItem{Category: types.CategoryAppStore, Name: "49779983"}
	ok, err = a.IsApplied(context.Background(), other)
	require.NoError(t, err)
	assert.False(t, ok, "ids match whole fields, not prefixes")
}

func TestApply(t *testing.T) {
	tests := []struct {
		name            string
		result          runner.Result
		err             error
		wantStatus      types.OutcomeStatus
		wantRemediation string
	}{
		{"installed", runner.Result{Stdout: "==> Downloading Xcode\n==> Installed Xcode\n"}, nil, types.StatusInstalled, ""},
		{"not signed in", runner.Result{Stderr: "Error: Not signed in\n"}, stderrors.New("exit 1"), types.StatusFailed,
			`Sign into the Mac App Store first: open /System/Applications/App\ Store.app`},
		{"not purchased", runner.Result{Stderr: "Error: This app has not been purchased\n"}, stderrors.New("exit 1"), types.StatusFailed,
			"App 497799835 must be purchased or downloaded from App Store first."},
		{"unknown id", runner.Result{Stderr: "Error: No results found\n"}, stderrors.New("exit 1"), types.StatusFailed,
			"Verify app ID 497799835 is correct. Search for apps with 'mas search <name>'."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &testutil.MockRunner{}
			r.On("Run", mock.Anything, testutil.Cmd("mas", "install", "497799835")).Return(tt.result, tt.err)

			out := mas.New(r).Apply(context.Background(), xcode())
			assert.Equal(t, tt.wantStatus, out.Status)
			assert.Equal(t, tt.wantRemediation, errors.Remediation(out.Err))
		})
	}
}

func TestApply_NonNumericID(t *testing.T) {
	r := &testutil.MockRunner{}
	out := mas.New(r).Apply(context.Background(), types.InstallItem{Category: types.CategoryAppStore, Name: "xcode"})

	assert.Equal(t, types.StatusFailed, out.Status)
	assert.Equal(t, "permanent", errors.Kind(out.Err))
	assert.Equal(t, `[PERMANENT] cannot install from the App Store: [INVALID_INPUT] app store item "xcode" has no numeric id`,
		out.Err.Error())
	r.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
}
