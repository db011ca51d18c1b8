package homebrew_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/macsetup/pkg/adapters/homebrew"
	"github.com/arthur-debert/macsetup/pkg/adapters/runner"
	"github.com/arthur-debert/macsetup/pkg/errors"
	"github.com/arthur-debert/macsetup/pkg/testutil"
	"github.com/arthur-debert/macsetup/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var exitErr = stderrors.New("exit status 1")

func formula(name string) types.InstallItem {
	return types.InstallItem{Category: types.CategoryFormula, Name: name}
}

func TestFormulaAdapter_IsApplied_UsesCachedListing(t *testing.T) {
	r := &testutil.MockRunner{}
	r.On("Run", mock.Anything, testutil.Cmd("brew", "list", "--formula", "-1")).
		Return(runner.Result{Stdout: "git\nripgrep\n\n"}, nil).Once()

	a := homebrew.NewFormulaAdapter(homebrew.NewClient(r, homebrew.Options{}))
	ctx := context.Background()

	ok, err := a.IsApplied(ctx, formula("git"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = a.IsApplied(ctx, formula("homebrew/core/ripgrep"))
	require.NoError(t, err)
	assert.True(t, ok, "fully qualified names compare by short name")

	ok, err = a.IsApplied(ctx, formula("jq"))
	require.NoError(t, err)
	assert.False(t, ok)

	r.AssertExpectations(t)
}

func TestFormulaAdapter_IsApplied_ListingFails(t *testing.T) {
	r := &testutil.MockRunner{}
	r.On("Run", mock.Anything, mock.Anything).Return(runner.Result{}, exitErr)

	a := homebrew.NewFormulaAdapter(homebrew.NewClient(r, homebrew.Options{}))
	_, err := a.IsApplied(context.Background(), formula("git"))
	assert.Error(t, err)
}

func TestFormulaAdapter_Apply(t *testing.T) {
	tests := []struct {
		name            string
		result          runner.Result
		err             error
		wantStatus      types.OutcomeStatus
		wantTransient   bool
		wantRemediation string
	}{
		{
			name:       "installed",
			result:     runner.Result{Stdout: "==> Pouring git--2.44.bottle.tar.gz\n"},
			wantStatus: types.StatusInstalled,
		},
		{
			name:       "warning already installed",
			result:     runner.Result{Stderr: "Warning: git 2.44.0 is already installed and up-to-date.\n"},
			wantStatus: types.StatusAlreadyPresent,
		},
		{
			name:            "unknown formula",
			result:          runner.Result{Stderr: "Error: No available formula with the name \"git\".\n", ExitCode: 1},
			err:             exitErr,
			wantStatus:      types.StatusFailed,
			wantRemediation: "Verify the formula name is correct. Search with 'brew search git'.",
		},
		{
			name:            "permission denied",
			result:          runner.Result{Stderr: "Error: Permission denied @ apply2files - /usr/local/lib\n", ExitCode: 1},
			err:             exitErr,
			wantStatus:      types.StatusFailed,
			wantRemediation: "Check Homebrew directory permissions. Run 'brew doctor' for diagnostics.",
		},
		{
			name:          "network failure",
			result:        runner.Result{Stderr: "curl: (6) Could not resolve host: ghcr.io\n", ExitCode: 1},
			err:           exitErr,
			wantStatus:    types.StatusFailed,
			wantTransient: true,
		},
		{
			name:            "unrecognized failure",
			result:          runner.Result{Stderr: "Error: something else\n", ExitCode: 1},
			err:             exitErr,
			wantStatus:      types.StatusFailed,
			wantRemediation: "Run 'brew install git' manually to see detailed error.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &testutil.MockRunner{}
			r.On("Run", mock.Anything, mock.MatchedBy(func(c runner.Command) bool {
				return c.String() == "brew install git" &&
					len(c.Env) == 1 && c.Env[0] == "HOMEBREW_NO_AUTO_UPDATE=1"
			})).Return(tt.result, tt.err).Once()

			a := homebrew.NewFormulaAdapter(homebrew.NewClient(r, homebrew.Options{NoAutoUpdate: true}))
			out := a.Apply(context.Background(), formula("git"))

			assert.Equal(t, types.Identifier("formula:git"), out.Identifier)
			assert.Equal(t, tt.wantStatus, out.Status)
			if tt.wantStatus == types.StatusFailed {
				require.Error(t, out.Err)
				assert.Equal(t, tt.wantTransient, errors.IsTransient(out.Err))
				assert.Equal(t, tt.wantRemediation, errors.Remediation(out.Err))
			} else {
				assert.NoError(t, out.Err)
			}
			r.AssertExpectations(t)
		})
	}
}

func TestApply_UpdatesCachedListing(t *testing.T) {
	r := &testutil.MockRunner{}
	r.On("Run", mock.Anything, testutil.Cmd("brew", "list", "--cask", "-1")).
		Return(runner.Result{Stdout: "firefox\n"}, nil).Once()
	r.On("Run", mock.Anything, testutil.Cmd("brew", "install", "--cask", "iterm2")).
		Return(runner.Result{}, nil).Once()

	a := homebrew.NewCaskAdapter(homebrew.NewClient(r, homebrew.Options{}))
	item := types.InstallItem{Category: types.CategoryCask, Name: "iterm2"}
	ctx := context.Background()

	ok, err := a.IsApplied(ctx, item)
	require.NoError(t, err)
	require.False(t, ok)

	out := a.Apply(ctx, item)
	require.Equal(t, types.StatusInstalled, out.Status)

	ok, err = a.IsApplied(ctx, item)
	require.NoError(t, err)
	assert.True(t, ok)
	r.AssertExpectations(t)
}

func TestCaskAdapter_ShaMismatch(t *testing.T) {
	r := &testutil.MockRunner{}
	r.On("Run", mock.Anything, testutil.Cmd("brew", "install", "--cask", "zoom")).
		Return(runner.Result{Stderr: "Error: SHA256 mismatch\nExpected: abc\n"}, exitErr)

	a := homebrew.NewCaskAdapter(homebrew.NewClient(r, homebrew.Options{}))
	out := a.Apply(context.Background(), types.InstallItem{Category: types.CategoryCask, Name: "zoom"})

	assert.Equal(t, types.StatusFailed, out.Status)
	assert.Equal(t, "Download may be corrupted. Run 'brew cleanup' and try again.", errors.Remediation(out.Err))
	assert.Equal(t, "permanent", errors.Kind(out.Err))
}

func TestTapAdapter(t *testing.T) {
	r := &testutil.MockRunner{}
	r.On("Run", mock.Anything, testutil.Cmd("brew", "tap")).
		Return(runner.Result{Stdout: "homebrew/bundle\nHomebrew/Cask-Fonts\n"}, nil).Once()
	r.On("Run", mock.Anything, testutil.Cmd("brew", "tap", "user/invalid")).
		Return(runner.Result{Stderr: "Error: Invalid tap name 'user/invalid'"}, exitErr).Once()

	a := homebrew.NewTapAdapter(homebrew.NewClient(r, homebrew.Options{}))
	ctx := context.Background()
	assert.Equal(t, "homebrew", a.ToolName())

	ok, err := a.IsApplied(ctx, types.InstallItem{Category: types.CategoryTap, Name: "homebrew/cask-fonts"})
	require.NoError(t, err)
	assert.True(t, ok, "tap names compare case-insensitively")

	out := a.Apply(ctx, types.InstallItem{Category: types.CategoryTap, Name: "user/invalid"})
	assert.Equal(t, types.StatusFailed, out.Status)
	assert.Equal(t, "Verify the tap name is correct. Format should be 'user/repo'.", errors.Remediation(out.Err))
	r.AssertExpectations(t)
}
