package ui

import "fmt"

// ANSI256 color codes.
const (
	colorAccent = 74  // blue
	colorOK     = 114 // green
	colorWarn   = 179 // amber
	colorMuted  = 245 // medium gray
)

var noColor bool

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}

func paint(code int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string {
	return paint(colorAccent, s)
}

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string {
	return paint(colorMuted, s)
}

// RenderStatus colors a lifecycle status: terminal states green, stalled
// or archived states gray, everything in flight amber.
func RenderStatus(status string) string {
	switch status {
	case "published", "recorded", "closed":
		return paint(colorOK, status)
	case "archived":
		return paint(colorMuted, status)
	default:
		return paint(colorWarn, status)
	}
}
