package runner

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/arthur-debert/macsetup/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunner_CapturesOutput(t *testing.T) {
	r := NewExec(Options{})

	res, err := r.Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "echo out; echo err >&2; echo $MACSETUP_TEST_VAR"},
		Env:  []string{"MACSETUP_TEST_VAR=injected"},
	})

	require.NoError(t, err)
	assert.Equal(t, "out\ninjected\n", res.Stdout)
	assert.Equal(t, "err\n", res.Stderr)
	assert.Equal(t, 0, res.ExitCode)
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	r := NewExec(Options{})

	res, err := r.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "echo nope >&2; exit 3"}})

	require.Error(t, err)
	assert.False(t, errors.IsTransient(err))
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "nope", res.Output())
}

func TestExecRunner_TimeoutIsTransient(t *testing.T) {
	r := NewExec(Options{Timeout: 50 * time.Millisecond})

	_, err := r.Run(context.Background(), Command{Name: "sleep", Args: []string{"5"}})

	require.Error(t, err)
	assert.True(t, errors.IsTransient(err), "got %v", err)
}

func TestExecRunner_MissingBinary(t *testing.T) {
	r := NewExec(Options{})
	_, err := r.Run(context.Background(), Command{Name: "macsetup-definitely-not-a-binary"})
	assert.Error(t, err)

	_, err = r.LookPath("macsetup-definitely-not-a-binary")
	assert.Error(t, err)
}

func TestClassify(t *testing.T) {
	exitErr := stderrors.New("exit status 1")
	rules := []Rule{
		{Patterns: []string{"already installed"}, Remediation: "no action needed"},
		{Patterns: []string{"no available formula", "not found"}, Remediation: "brew search"},
	}

	tests := []struct {
		name            string
		stderr          string
		runErr          error
		wantTransient   bool
		wantRemediation string
	}{
		{"success", "", nil, false, ""},
		{"network", "curl: (6) Could not resolve host: github.com", exitErr, true, ""},
		{"timeout", "Error: Download failed: Operation timed out", exitErr, true, ""},
		{"first rule", "Warning: git 2.44 is already installed", exitErr, false, "no action needed"},
		{"second rule any pattern", "Error: No available formula with the name \"nope\"", exitErr, false, "brew search"},
		{"fallback", "Error: something odd", exitErr, false, "run it manually"},
		{"already transient", "", errors.Transient(exitErr, "timed out"), true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Classify("install git", Result{Stderr: tt.stderr}, tt.runErr, rules, "run it manually")
			if tt.runErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantTransient, errors.IsTransient(err))
			assert.Equal(t, tt.wantRemediation, errors.Remediation(err))
		})
	}
}

func TestClassify_MessageUsesFirstLine(t *testing.T) {
	err := Classify("install foo", Result{Stderr: "Error: bad thing\nmore detail\n"}, stderrors.New("exit 1"), nil, "")
	assert.Contains(t, err.Error(), "install foo: Error: bad thing")
	assert.NotContains(t, err.Error(), "more detail")
}
