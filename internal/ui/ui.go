// Package ui holds terminal rendering helpers for the console gate simulator.
package ui

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

var noColor bool

// ShouldUseColor returns true when ANSI colors should be used on stdout.
// It respects NO_COLOR, CLICOLOR_FORCE, CLICOLOR, and TTY detection.
func ShouldUseColor() bool {
	if noColor {
		return false
	}
	// https://no-color.org — any non-empty value disables color.
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	// CLICOLOR_FORCE=1 forces color even without a TTY.
	if strings.TrimSpace(os.Getenv("CLICOLOR_FORCE")) == "1" {
		return true
	}
	// CLICOLOR=0 explicitly disables color.
	if strings.TrimSpace(os.Getenv("CLICOLOR")) == "0" {
		return false
	}
	// Default: color if stdout is a terminal.
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}

// Swatch returns a block of cells painted with the given truecolor RGB value,
// simulating the gate's LED strip. Without color support it falls back to the
// numeric triple.
func Swatch(r, g, b uint8, width int) string {
	if !ShouldUseColor() {
		return fmt.Sprintf("[%3d,%3d,%3d]", r, g, b)
	}
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm%s\x1b[0m", r, g, b, strings.Repeat(" ", width))
}
