package cli

import (
	stderrors "errors"
	"fmt"

	"github.com/arthur-debert/macsetup/pkg/errors"
	"github.com/arthur-debert/macsetup/pkg/types"
)

// Exit codes
const (
	ExitOK                  = 0
	ExitFailure             = 1
	ExitConfig              = 2
	ExitCompletedWithErrors = 3
	ExitInterrupted         = 130
)

// ExitError carries a specific exit code. With a nil Err nothing is
// printed; the command has already reported the problem.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// StatusExitCode maps a terminal run status to the process exit code.
func StatusExitCode(s types.RunStatus) int {
	switch s {
	case types.RunCompleted:
		return ExitOK
	case types.RunCompletedWithErrors:
		return ExitCompletedWithErrors
	case types.RunInterrupted:
		return ExitInterrupted
	default:
		return ExitFailure
	}
}

// ExitCode maps an error returned by a command to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if asExitError(err, &exitErr) {
		return exitErr.Code
	}
	switch errors.GetErrorCode(err) {
	case errors.ErrConfigLoad, errors.ErrConfigParse, errors.ErrProfileNotFound,
		errors.ErrProfileCycle, errors.ErrEmptyPlan, errors.ErrSettingsInvalid:
		return ExitConfig
	}
	return ExitFailure
}

func asExitError(err error, target **ExitError) bool {
	return stderrors.As(err, target)
}
