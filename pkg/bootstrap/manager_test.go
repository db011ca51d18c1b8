package bootstrap

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/macsetup/pkg/adapters/runner"
	"github.com/arthur-debert/macsetup/pkg/errors"
	"github.com/arthur-debert/macsetup/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var notFound = stderrors.New("executable file not found in $PATH")

func newManager(r runner.Runner, opts Options) (*Manager, *[]string) {
	m := New(r, opts)
	var added []string
	m.exists = func(string) bool { return false }
	m.prependPath = func(dir string) { added = append(added, dir) }
	return m, &added
}

func TestEnsureAvailable_AlreadyPresentIsCached(t *testing.T) {
	r := &testutil.MockRunner{}
	r.On("LookPath", "brew").Return("/opt/homebrew/bin/brew", nil).Once()
	m, _ := newManager(r, Options{})

	ctx := context.Background()
	assert.True(t, m.EnsureAvailable(ctx, "homebrew"))
	assert.True(t, m.EnsureAvailable(ctx, "homebrew"))
	assert.False(t, m.Installed("homebrew"))
	assert.NoError(t, m.Err("homebrew"))

	r.AssertExpectations(t)
	r.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
}

func TestEnsureAvailable_InstallsHomebrew(t *testing.T) {
	r := &testutil.MockRunner{}
	r.On("LookPath", "brew").Return("", notFound).Once()
	r.On("Run", mock.Anything, mock.MatchedBy(func(c runner.Command) bool {
		return c.Name == "/bin/bash" && len(c.Args) == 2 &&
			c.Args[1] == `/bin/bash -c "$(curl -fsSL https://raw.githubusercontent.com/Homebrew/install/HEAD/install.sh)"` &&
			len(c.Env) == 1 && c.Env[0] == "NONINTERACTIVE=1"
	})).Return(runner.Result{}, nil).Once()

	m, added := newManager(r, Options{})
	installedAt := false
	m.exists = func(path string) bool { return installedAt && path == "/opt/homebrew/bin/brew" }
	r.On("LookPath", "brew").Return("", notFound).Run(func(mock.Arguments) { installedAt = true })

	assert.True(t, m.EnsureAvailable(context.Background(), "homebrew"))
	assert.True(t, m.Installed("homebrew"))
	assert.Equal(t, []string{"/opt/homebrew/bin"}, *added)
}

func TestEnsureAvailable_InstallFailureIsCachedAndClassified(t *testing.T) {
	r := &testutil.MockRunner{}
	r.On("LookPath", "brew").Return("", notFound)
	r.On("Run", mock.Anything, mock.Anything).
		Return(runner.Result{Stderr: "curl: (6) Could not resolve host: raw.githubusercontent.com"}, stderrors.New("exit 1")).Once()

	m, _ := newManager(r, Options{})
	ctx := context.Background()

	assert.False(t, m.EnsureAvailable(ctx, "homebrew"))
	assert.False(t, m.EnsureAvailable(ctx, "homebrew"), "one attempt per run")

	err := m.Err("homebrew")
	require.Error(t, err)
	assert.Equal(t, "tool_unavailable", errors.Kind(err))
	r.AssertNumberOfCalls(t, "Run", 1)
}

func TestEnsureAvailable_MasRequiresHomebrew(t *testing.T) {
	r := &testutil.MockRunner{}
	r.On("LookPath", "mas").Return("", notFound)
	r.On("LookPath", "brew").Return("", notFound)

	m, _ := newManager(r, Options{Disabled: true})
	assert.False(t, m.EnsureAvailable(context.Background(), "mas"))
	assert.True(t, errors.IsErrorCode(m.Err("mas"), errors.ErrToolUnavailable))
	r.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
}

func TestEnsureAvailable_MasInstalledThroughBrew(t *testing.T) {
	r := &testutil.MockRunner{}
	masPresent := false
	r.On("LookPath", "brew").Return("/usr/local/bin/brew", nil)
	r.On("LookPath", "mas").Return("", notFound).Once()
	r.On("Run", mock.Anything, testutil.Cmd("brew", "install", "mas")).
		Return(runner.Result{}, nil).Run(func(mock.Arguments) { masPresent = true }).Once()
	r.On("LookPath", "mas").Return("/usr/local/bin/mas", nil).Once()

	m, _ := newManager(r, Options{})
	assert.True(t, m.EnsureAvailable(context.Background(), "mas"))
	assert.True(t, masPresent)
	assert.True(t, m.Installed("mas"))
	assert.False(t, m.Installed("homebrew"))
}

func TestEnsureAvailable_ToolsWithoutInstallProcedure(t *testing.T) {
	r := &testutil.MockRunner{}
	r.On("LookPath", "defaults").Return("", notFound)
	m, _ := newManager(r, Options{})

	ctx := context.Background()
	assert.True(t, m.EnsureAvailable(ctx, "dotfiles"), "built in")
	assert.False(t, m.EnsureAvailable(ctx, "defaults"))
	assert.NotEmpty(t, errors.Remediation(m.Err("defaults")))
	assert.False(t, m.EnsureAvailable(ctx, "ports"), "unknown tools are unavailable")
}

func TestChainAndInstallable(t *testing.T) {
	m := New(&testutil.MockRunner{}, Options{})
	assert.Equal(t, []string{"homebrew", "mas"}, m.Chain("mas"))
	assert.Equal(t, []string{"homebrew"}, m.Chain("homebrew"))
	assert.True(t, m.Installable("homebrew"))
	assert.True(t, m.Installable("mas"))
	assert.False(t, m.Installable("defaults"))
	assert.False(t, m.Installable("dotfiles"))
}
