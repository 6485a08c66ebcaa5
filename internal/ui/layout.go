package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which body composition
	// columns are hidden.
	LayoutCompactWidth = 80
)

// Log display limits.
const (
	// LogTailLines is the number of log lines read per refresh.
	LogTailLines = 500
)

// Timing constants.
const (
	// DefaultUIInterval is the default UI refresh interval.
	DefaultUIInterval = time.Second
)

// chromeHeight is the number of rows taken by the header and command bar.
const chromeHeight = 2
