package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dockedup/dockedup/pkg/format"
)

// Color palette
var (
	ColorPrimary   = lipgloss.Color("#7D56F4") // Purple, header background
	ColorGood      = lipgloss.Color("#04B575") // Green, Up / Healthy
	ColorBad       = lipgloss.Color("#FF4672") // Red, Down / over the memory ceiling
	ColorWarning   = lipgloss.Color("#FFC857") // Yellow, Restarting / mid CPU-memory pressure
	ColorInfo      = lipgloss.Color("#04B5DB") // Cyan, normal CPU/memory readings
	ColorSubtle    = lipgloss.Color("#6B6B6B") // Gray, muted/placeholder text
)

// Common styles
var (
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorGood).Bold(true)
	StyleError   = lipgloss.NewStyle().Foreground(ColorBad).Bold(true)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleInfo    = lipgloss.NewStyle().Foreground(ColorInfo)
	StyleSubtle  = lipgloss.NewStyle().Foreground(ColorSubtle)

	// StyleHeader is the fixed 3-line title bar (§4.5 step 1).
	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(ColorPrimary).
			Padding(0, 1)

	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			MarginBottom(1)

	// StyleSelectedRow inverse-videos the row at the selected flat index.
	StyleSelectedRow = lipgloss.NewStyle().Reverse(true)

	// StyleFooter renders the hotkey legend.
	StyleFooter = lipgloss.NewStyle().Foreground(ColorSubtle)

	// StyleEmpty renders the "No containers found." centered message.
	StyleEmpty = lipgloss.NewStyle().Foreground(ColorSubtle).Italic(true)
)

// toneStyle returns the lipgloss style a pkg/format Tone renders in. This
// is the one place a color value is chosen for a formatter's output — the
// formatters themselves stay free of any rendering dependency.
func toneStyle(t format.Tone) lipgloss.Style {
	switch t {
	case format.ToneGood:
		return lipgloss.NewStyle().Foreground(ColorGood)
	case format.ToneWarn:
		return lipgloss.NewStyle().Foreground(ColorWarning)
	case format.ToneBad:
		return lipgloss.NewStyle().Foreground(ColorBad)
	case format.ToneInfo:
		return lipgloss.NewStyle().Foreground(ColorInfo)
	default:
		return lipgloss.NewStyle().Foreground(ColorSubtle)
	}
}

// renderStyled applies a Styled value's tone and returns the colored text.
func renderStyled(s format.Styled) string {
	return toneStyle(s.Tone).Render(s.Text)
}
