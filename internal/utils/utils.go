package utils

import (
	"fmt"

	"github.com/fatih/color"
)

// Percentage thresholds for translation progress
const (
	CompleteThreshold = 95.0
	WarningThreshold  = 80.0
)

// ProgressColor picks the color for a translation percentage: plain above
// CompleteThreshold, yellow above WarningThreshold, red otherwise
func ProgressColor(percentage float64) *color.Color {
	switch {
	case percentage > CompleteThreshold:
		return color.New(color.Reset)
	case percentage > WarningThreshold:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

// FormatPercent renders a percentage with two decimals
func FormatPercent(percentage float64) string {
	return fmt.Sprintf("%.2f%%", percentage)
}

// PrintProgress prints one colored progress line
func PrintProgress(percentage float64, message string) {
	ProgressColor(percentage).Fprintln(Output(), message)
}
