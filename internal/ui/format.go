package ui

import (
	"fmt"
	"strings"

	"github.com/five82/bodyscale/internal/prefs"
)

const poundsPerKilogram = 2.20462262

// formatWeight renders a mass given in kilograms in the chosen unit.
func formatWeight(kg float64, unit string) string {
	if unit == prefs.UnitPounds {
		return fmt.Sprintf("%.1f lb", kg*poundsPerKilogram)
	}
	return fmt.Sprintf("%.1f kg", kg)
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// padRight pads s with spaces to width runes, truncating with an ellipsis.
func padRight(s string, width int) string {
	r := []rune(s)
	if len(r) > width {
		if width <= 1 {
			return string(r[:width])
		}
		return string(r[:width-1]) + "…"
	}
	return s + strings.Repeat(" ", width-len(r))
}
