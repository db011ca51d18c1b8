package progress

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/arthur-debert/macsetup/pkg/orchestrator"
	"github.com/arthur-debert/macsetup/pkg/types"
	"github.com/pterm/pterm"
)

// RenderSummary prints the end-of-run report: the outcome counts, every
// failure with its remediation, and the apps left for the user to install.
func RenderSummary(w io.Writer, res *orchestrator.Result, styled bool) error {
	s := res.Summary
	counts := fmt.Sprintf("%d installed, %d already present, %d skipped, %d failed",
		s.Installed, s.AlreadyPresent, s.Skipped, s.Failed)

	var headline string
	switch res.State.Status {
	case types.RunCompleted:
		headline = "Setup complete!"
	case types.RunCompletedWithErrors:
		headline = fmt.Sprintf("Setup complete with %d failure(s)", len(s.Failures))
	case types.RunInterrupted:
		headline = "Setup interrupted. Run 'macsetup setup --resume' to continue."
	default:
		headline = "Setup failed"
	}

	if styled {
		printer := pterm.Success
		switch res.State.Status {
		case types.RunCompletedWithErrors, types.RunInterrupted:
			printer = pterm.Warning
		case types.RunFailed:
			printer = pterm.Error
		}
		printer.WithWriter(w).Println(headline)
		if _, err := fmt.Fprintln(w, mutedStyle.Render(counts)); err != nil {
			return err
		}
	} else {
		if _, err := fmt.Fprintf(w, "\n%s\n%s\n", headline, counts); err != nil {
			return err
		}
	}

	if len(s.Failures) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, renderIf(styled, errorStyle, "Failures:"))
		for _, f := range s.Failures {
			fmt.Fprintf(w, "  - %s: %s\n", f.Identifier, f.Message)
			if f.Remediation != "" {
				fmt.Fprintf(w, "    %s\n", renderIf(styled, hintStyle.PaddingLeft(0), "-> "+f.Remediation))
			}
		}
	}

	if len(s.Manual) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, renderIf(styled, headingStyle, "Manual steps required:"))
		for _, item := range s.Manual {
			m := item.Manual()
			line := "  - " + item.Name
			if m.URL != "" {
				line += ": " + m.URL
			}
			fmt.Fprintln(w, line)
			if m.Instructions != "" {
				fmt.Fprintf(w, "    %s\n", m.Instructions)
			}
		}
	}
	return nil
}

func renderIf(styled bool, style interface{ Render(...string) string }, s string) string {
	if !styled {
		return s
	}
	return style.Render(s)
}

// JSONSummary is the machine-readable end-of-run report.
type JSONSummary struct {
	Success        bool                  `json:"success"`
	Status         types.RunStatus       `json:"status"`
	RunID          string                `json:"run_id"`
	Completed      int                   `json:"completed"`
	Failed         int                   `json:"failed"`
	Failures       []types.FailureRecord `json:"failures"`
	ManualRequired []ManualApp           `json:"manual_required"`
}

// ManualApp is one entry of JSONSummary.ManualRequired.
type ManualApp struct {
	Name         string `json:"name"`
	URL          string `json:"url,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

// NewJSONSummary builds the JSON report for res.
func NewJSONSummary(res *orchestrator.Result) JSONSummary {
	out := JSONSummary{
		Success:        res.State.Status == types.RunCompleted,
		Status:         res.State.Status,
		RunID:          res.State.RunID,
		Completed:      len(res.State.Completed),
		Failed:         len(res.Summary.Failures),
		Failures:       res.Summary.Failures,
		ManualRequired: []ManualApp{},
	}
	if out.Failures == nil {
		out.Failures = []types.FailureRecord{}
	}
	for _, item := range res.Summary.Manual {
		m := item.Manual()
		out.ManualRequired = append(out.ManualRequired, ManualApp{Name: item.Name, URL: m.URL, Instructions: m.Instructions})
	}
	return out
}

// WriteJSONSummary writes the JSON report for res, indented.
func WriteJSONSummary(w io.Writer, res *orchestrator.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewJSONSummary(res))
}
