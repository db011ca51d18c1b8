// Package progress renders orchestrator events and run summaries for
// people (styled or plain terminal output) and for machines (JSON lines).
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/macsetup/pkg/types"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Format represents the output format type
type Format int

const (
	// FormatAuto picks terminal or text based on the output
	FormatAuto Format = iota
	// FormatTerminal renders colors and symbols
	FormatTerminal
	// FormatText renders plain text
	FormatText
	// FormatJSON renders one JSON object per line
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatTerminal:
		return "term"
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// ParseFormat parses a string into a Format value
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "auto", "":
		return FormatAuto, nil
	case "term", "terminal":
		return FormatTerminal, nil
	case "text", "plain":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatAuto, fmt.Errorf("unknown format: %s", s)
	}
}

// DetectFormat chooses between terminal and text output for f.
func DetectFormat(f *os.File) Format {
	if os.Getenv("NO_COLOR") != "" {
		return FormatText
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return FormatText
	}
	if termenv.ColorProfile() == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}

// NewReporter returns the reporter for format writing to w. FormatAuto is
// resolved with DetectFormat when w is a file, and means terminal otherwise.
func NewReporter(format Format, w io.Writer) (types.ProgressReporter, error) {
	switch format {
	case FormatAuto:
		if file, ok := w.(*os.File); ok {
			return NewReporter(DetectFormat(file), w)
		}
		return NewReporter(FormatTerminal, w)
	case FormatTerminal:
		return NewTerminal(w, true), nil
	case FormatText:
		return NewTerminal(w, false), nil
	case FormatJSON:
		return NewJSON(w), nil
	default:
		return nil, fmt.Errorf("unknown format: %v", format)
	}
}
