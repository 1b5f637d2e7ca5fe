// Package render formats deck meter state for terminal display.
package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	meterFillLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff9f"))
	meterFillHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f5f"))
	meterEmpty    = lipgloss.NewStyle().Foreground(lipgloss.Color("#3a3a3a"))

	// clipThreshold is the fraction of full scale above which the bar
	// renders in the hot (clip-warning) color.
	clipThreshold = 0.85
)

// MeterBar renders a PPM or overview meter byte (0-255) as a fixed
// width bar, colored green below clipThreshold of full scale and red
// above it.
func MeterBar(level byte, width int) string {
	if width <= 0 {
		return ""
	}

	filled := int(float64(level) / 255 * float64(width))
	if filled > width {
		filled = width
	}

	fillStyle := meterFillLow
	if float64(level)/255 >= clipThreshold {
		fillStyle = meterFillHigh
	}

	var b strings.Builder
	b.WriteString(fillStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(meterEmpty.Render(strings.Repeat("░", width-filled)))
	return b.String()
}
