// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, classification helpers

package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/arthur-debert/macsetup/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "not_found_error",
			code:    errors.ErrNotFound,
			message: "file not found",
			wantStr: "[NOT_FOUND] file not found",
		},
		{
			name:    "invalid_input_error",
			code:    errors.ErrInvalidInput,
			message: "invalid configuration",
			wantStr: "[INVALID_INPUT] invalid configuration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			if err.Code != tt.code {
				t.Errorf("New() code = %v, want %v", err.Code, tt.code)
			}

			if err.Details == nil {
				t.Error("New() details should be initialized")
			}

			if got := err.Error(); got != tt.wantStr {
				t.Errorf("Error() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	baseErr := stderrors.New("base error")

	t.Run("wrap_non_nil_error", func(t *testing.T) {
		err := errors.Wrap(baseErr, errors.ErrInternal, "internal error")

		if err.Wrapped != baseErr {
			t.Error("Wrap() should preserve wrapped error")
		}

		wantStr := "[INTERNAL] internal error: base error"
		if got := err.Error(); got != wantStr {
			t.Errorf("Error() = %q, want %q", got, wantStr)
		}
	})

	t.Run("wrap_nil_error_returns_nil", func(t *testing.T) {
		err := errors.Wrap(nil, errors.ErrInternal, "internal error")
		if err != nil {
			t.Error("Wrap(nil) should return nil")
		}
	})
}

func TestIs(t *testing.T) {
	err1 := errors.New(errors.ErrNotFound, "error 1")
	err2 := errors.New(errors.ErrNotFound, "error 2")
	err3 := errors.New(errors.ErrInternal, "error 3")

	if !stderrors.Is(err1, err2) {
		t.Error("errors.Is() should match on code")
	}
	if err1.Is(err3) {
		t.Error("Is() should return false for different codes")
	}
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected errors.ErrorCode
	}{
		{"coded_error", errors.New(errors.ErrProfileNotFound, "missing"), errors.ErrProfileNotFound},
		{"wrapped_by_fmt", fmt.Errorf("context: %w", errors.New(errors.ErrFatal, "disk")), errors.ErrFatal},
		{"standard_error", stderrors.New("standard error"), errors.ErrUnknown},
		{"nil_error", nil, errors.ErrUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.GetErrorCode(tt.err); got != tt.expected {
				t.Errorf("GetErrorCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestClassification(t *testing.T) {
	base := stderrors.New("exit status 1")

	tests := []struct {
		name          string
		err           error
		wantTransient bool
		wantFatal     bool
		wantKind      string
	}{
		{"transient", errors.Transient(base, "connection reset"), true, false, "transient"},
		{"permanent", errors.Permanent(base, "no formula", "check the name"), false, false, "permanent"},
		{"fatal", errors.Fatal(base, "cannot save state"), false, true, "fatal"},
		{"tool_unavailable", errors.New(errors.ErrToolUnavailable, "brew missing"), false, false, "tool_unavailable"},
		{"plain_error_is_permanent", base, false, false, "permanent"},
		{"nil", nil, false, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.IsTransient(tt.err); got != tt.wantTransient {
				t.Errorf("IsTransient() = %v, want %v", got, tt.wantTransient)
			}
			if got := errors.IsFatal(tt.err); got != tt.wantFatal {
				t.Errorf("IsFatal() = %v, want %v", got, tt.wantFatal)
			}
			if got := errors.Kind(tt.err); got != tt.wantKind {
				t.Errorf("Kind() = %q, want %q", got, tt.wantKind)
			}
		})
	}
}

func TestRemediation(t *testing.T) {
	t.Run("direct", func(t *testing.T) {
		err := errors.Permanent(nil, "not signed in", "Sign in to the App Store")
		if got := errors.Remediation(err); got != "Sign in to the App Store" {
			t.Errorf("Remediation() = %q", got)
		}
	})

	t.Run("nested_in_wrap_chain", func(t *testing.T) {
		inner := errors.Permanent(nil, "sha mismatch", "Run: brew update")
		outer := errors.Wrap(inner, errors.ErrPermanent, "install failed")
		if got := errors.Remediation(fmt.Errorf("item: %w", outer)); got != "Run: brew update" {
			t.Errorf("Remediation() = %q", got)
		}
	})

	t.Run("absent", func(t *testing.T) {
		if got := errors.Remediation(stderrors.New("x")); got != "" {
			t.Errorf("Remediation() = %q, want empty", got)
		}
	})
}

func TestClassifiedMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"transient_without_cause", errors.Transient(nil, "timed out"), "[TRANSIENT] timed out"},
		{"permanent_without_cause", errors.Permanent(nil, "not signed in", "Sign in"), "[PERMANENT] not signed in"},
		{"permanent_with_cause", errors.Permanent(stderrors.New("exit status 1"), "no formula", ""),
			"[PERMANENT] no formula: exit status 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}
