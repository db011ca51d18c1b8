package progress

import (
	"fmt"
	"io"

	"github.com/arthur-debert/macsetup/pkg/types"
)

// Terminal prints one line per processed item, grouped under a heading
// per category.
type Terminal struct {
	w      io.Writer
	styled bool
	ind    indicators
}

// NewTerminal creates a Terminal reporter. With styled false the output
// is plain ASCII.
func NewTerminal(w io.Writer, styled bool) *Terminal {
	ind := plainIndicators
	if styled {
		ind = styledIndicators
	}
	return &Terminal{w: w, styled: styled, ind: ind}
}

func (t *Terminal) render(style interface{ Render(...string) string }, s string) string {
	if !t.styled {
		return s
	}
	return style.Render(s)
}

// Report implements types.ProgressReporter.
func (t *Terminal) Report(e types.Event) {
	switch e.Type {
	case types.EventPhaseStarted:
		heading := fmt.Sprintf("%s (%d)", e.Category.DisplayName(), e.Total)
		fmt.Fprintf(t.w, "\n%s\n", t.render(headingStyle, heading))
	case types.EventItemSucceeded, types.EventItemFailed:
		if e.Outcome != nil {
			t.outcome(*e.Outcome)
		}
	case types.EventRetryScheduled:
		id := ""
		if e.Item != nil {
			id = e.Item.ID().String()
		}
		msg := fmt.Sprintf("%s: attempt %d failed, retrying in %s", id, e.Attempt, e.Delay)
		if e.Err != nil {
			msg += fmt.Sprintf(" (%v)", e.Err)
		}
		fmt.Fprintf(t.w, "  %s %s\n", t.ind.retry, t.render(mutedStyle, msg))
	}
}

func (t *Terminal) outcome(o types.Outcome) {
	var symbol, label string
	switch o.Status {
	case types.StatusInstalled:
		symbol, label = t.ind.success, "installed"
	case types.StatusAlreadyPresent:
		symbol, label = t.ind.present, "already present"
	case types.StatusFailed:
		symbol, label = t.ind.failed, "failed"
	default:
		symbol, label = t.ind.skipped, "skipped"
		if o.Identifier.Category() == types.CategoryManual {
			symbol, label = t.ind.manual, "install manually"
		}
	}

	line := fmt.Sprintf("  %s %s  %s", symbol, o.Identifier.Name(), t.render(mutedStyle, label))
	if o.Status == types.StatusSkipped && o.Detail != "" && o.Identifier.Category() != types.CategoryManual {
		line += t.render(mutedStyle, fmt.Sprintf(" (%s)", o.Detail))
	}
	fmt.Fprintln(t.w, line)
	if o.Status == types.StatusFailed && o.Detail != "" {
		detail := "      " + o.Detail
		if t.styled {
			detail = hintStyle.Render(o.Detail)
		}
		fmt.Fprintln(t.w, detail)
	}
}
