// Package display renders terminal output: ANSI styling and aligned tables.
//
// Styling honors NO_COLOR (https://no-color.org/) and FORCE_COLOR, and turns
// itself off when stdout is piped or redirected.
package display

import (
	"os"

	"github.com/mattn/go-isatty"
)

type style string

const (
	styleReset  style = "\033[0m"
	styleBold   style = "\033[1m"
	styleDim    style = "\033[2m"
	styleAccent style = "\033[1m\033[36m" // bold cyan
)

var enabled = detectColor()

func detectColor() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if _, ok := os.LookupEnv("FORCE_COLOR"); ok {
		return true
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// SetEnabled overrides the detected color state.
func SetEnabled(b bool) { enabled = b }

// Enabled reports whether styling is currently active.
func Enabled() bool { return enabled }

func (s style) apply(text string) string {
	if !enabled {
		return text
	}
	return string(s) + text + string(styleReset)
}

// Bold renders text in bold.
func Bold(text string) string { return styleBold.apply(text) }

// Dim renders text dim, used for the prayer currently in progress.
func Dim(text string) string { return styleDim.apply(text) }

// Accent renders text in the highlight style, used for the next prayer and
// the today row in multi-day tables.
func Accent(text string) string { return styleAccent.apply(text) }
