package runner

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/macsetup/pkg/errors"
)

// Rule maps a substring of a tool's output to a permanent failure with a
// remediation hint.
type Rule struct {
	// Patterns are matched case-insensitively; any one of them matches.
	Patterns    []string
	Remediation string
}

// transientPatterns mark network and load problems worth retrying.
var transientPatterns = []string{
	"timed out",
	"timeout",
	"could not resolve host",
	"connection refused",
	"connection reset",
	"network is unreachable",
	"temporary failure in name resolution",
	"curl: (6)",
	"curl: (7)",
	"curl: (28)",
	"curl: (35)",
	"curl: (56)",
	"503 service unavailable",
	"502 bad gateway",
}

// Classify turns a failed command into a taxonomy error. Transient
// patterns are checked first, then rules in order; fallback supplies the
// remediation when nothing matches.
func Classify(what string, res Result, runErr error, rules []Rule, fallback string) error {
	if runErr == nil {
		return nil
	}
	if errors.IsTransient(runErr) {
		return runErr
	}

	output := res.Output()
	lower := strings.ToLower(output)
	message := what
	if output != "" {
		message = fmt.Sprintf("%s: %s", what, firstLine(output))
	}

	for _, p := range transientPatterns {
		if strings.Contains(lower, p) {
			return errors.Transient(runErr, message)
		}
	}

	for _, rule := range rules {
		for _, p := range rule.Patterns {
			if strings.Contains(lower, strings.ToLower(p)) {
				return errors.Permanent(runErr, message, rule.Remediation)
			}
		}
	}

	return errors.Permanent(runErr, message, fallback)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
