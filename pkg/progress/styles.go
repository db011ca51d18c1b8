package progress

import "github.com/charmbracelet/lipgloss"

// Colors switch automatically between light and dark terminals.
var (
	successColor = lipgloss.AdaptiveColor{Light: "#28A745", Dark: "#4CDD76"}
	errorColor   = lipgloss.AdaptiveColor{Light: "#DC3545", Dark: "#FF6B7D"}
	warningColor = lipgloss.AdaptiveColor{Light: "#FFC107", Dark: "#FFD54F"}
	infoColor    = lipgloss.AdaptiveColor{Light: "#17A2B8", Dark: "#4DD0E1"}
	headingColor = lipgloss.AdaptiveColor{Light: "#212529", Dark: "#F8F9FA"}
	mutedColor   = lipgloss.AdaptiveColor{Light: "#6C757D", Dark: "#ADB5BD"}
)

var (
	headingStyle = lipgloss.NewStyle().Foreground(headingColor).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(mutedColor)
	successStyle = lipgloss.NewStyle().Foreground(successColor).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(warningColor).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(infoColor)
	hintStyle    = lipgloss.NewStyle().Foreground(mutedColor).Italic(true).PaddingLeft(6)
)

// indicators are the status symbols, styled and plain.
type indicators struct {
	success, present, failed, skipped, manual, retry string
}

var (
	styledIndicators = indicators{
		success: successStyle.Render("✓"),
		present: mutedStyle.Render("✓"),
		failed:  errorStyle.Render("✗"),
		skipped: warningStyle.Render("!"),
		manual:  infoStyle.Render("•"),
		retry:   infoStyle.Render("⟳"),
	}
	plainIndicators = indicators{
		success: "+",
		present: "=",
		failed:  "x",
		skipped: "!",
		manual:  "*",
		retry:   "~",
	}
)
