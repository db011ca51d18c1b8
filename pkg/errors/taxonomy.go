package errors

import (
	"errors"
	"strings"
)

// Transient marks err as worth retrying (network blips, timeouts).
func Transient(err error, message string) *Error {
	if err == nil {
		return New(ErrTransient, message)
	}
	return Wrap(err, ErrTransient, message)
}

// Permanent marks err as not retryable and records how to fix it.
func Permanent(err error, message, remediation string) *Error {
	if err == nil {
		return New(ErrPermanent, message).WithRemediation(remediation)
	}
	return Wrap(err, ErrPermanent, message).WithRemediation(remediation)
}

// Fatal marks err as one that must abort the whole run.
func Fatal(err error, message string) *Error {
	return Wrap(err, ErrFatal, message)
}

// IsTransient reports whether err may succeed on retry.
func IsTransient(err error) bool {
	return err != nil && IsErrorCode(err, ErrTransient)
}

// IsFatal reports whether err must cross the per-item failure boundary.
func IsFatal(err error) bool {
	return err != nil && IsErrorCode(err, ErrFatal)
}

// Remediation returns the remediation text carried by err, searching the
// whole wrap chain. Empty when none is attached.
func Remediation(err error) string {
	for err != nil {
		var codedErr *Error
		if !errors.As(err, &codedErr) {
			return ""
		}
		if text, ok := codedErr.Details[DetailRemediation].(string); ok && text != "" {
			return text
		}
		err = codedErr.Wrapped
	}
	return ""
}

// Kind is the lower-case name of the error's code as stored in failure
// records ("transient", "permanent", "tool_unavailable", ...).
// Errors without a code are treated as permanent.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	code := GetErrorCode(err)
	if code == ErrUnknown {
		code = ErrPermanent
	}
	return strings.ToLower(string(code))
}
