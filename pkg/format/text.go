// Package format renders cell values for terminals: widths, truncation and
// the named pipes columns can reference by name.
package format

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// Ellipsis marks truncated cells.
const Ellipsis = "…"

// DisplayWidth returns the visible width of a string, ignoring ANSI escapes.
func DisplayWidth(s string) int {
	return ansi.StringWidth(s)
}

// Truncate trims a plain string to a maximum display width.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "")
}

// TruncateStyled trims a string that may carry ANSI styling, ending it with
// Ellipsis when anything was cut.
func TruncateStyled(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, Ellipsis)
}

// PadRight pads a string on the right to the target display width.
func PadRight(s string, width int) string {
	if width <= 0 {
		return ""
	}
	displayWidth := DisplayWidth(s)
	if displayWidth > width {
		return TruncateStyled(s, width)
	}
	return s + strings.Repeat(" ", width-displayWidth)
}
