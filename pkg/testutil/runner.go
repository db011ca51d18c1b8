package testutil

import (
	"context"
	"strings"

	"github.com/arthur-debert/macsetup/pkg/adapters/runner"
	"github.com/stretchr/testify/mock"
)

// MockRunner is a testify mock of runner.Runner.
type MockRunner struct {
	mock.Mock
}

// Run records the call and returns the configured result.
func (m *MockRunner) Run(ctx context.Context, cmd runner.Command) (runner.Result, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(runner.Result), args.Error(1)
}

// LookPath records the call and returns the configured path.
func (m *MockRunner) LookPath(name string) (string, error) {
	args := m.Called(name)
	return args.String(0), args.Error(1)
}

// Cmd matches a runner.Command by its name and arguments, ignoring the
// environment and timeout: Cmd("brew", "install", "git").
func Cmd(name string, args ...string) interface{} {
	want := strings.Join(append([]string{name}, args...), " ")
	return mock.MatchedBy(func(c runner.Command) bool {
		return c.String() == want
	})
}
