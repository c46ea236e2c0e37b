// Package styles provides theming and styling utilities for the TUI.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette for the TUI interface
// These colors are defined to work with both 256-color and 16-color terminals
var (
	ColorPrimary   = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7C7AE6"}
	ColorPrimaryFg = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}

	// Status colors (semantic)
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#00AF87", Dark: "#00D787"} // Green
	ColorWarning = lipgloss.AdaptiveColor{Light: "#D7AF00", Dark: "#FFD700"} // Yellow
	ColorError   = lipgloss.AdaptiveColor{Light: "#D70000", Dark: "#FF5F5F"} // Red
	ColorInfo    = lipgloss.AdaptiveColor{Light: "#0087D7", Dark: "#5FAFFF"} // Blue

	// UI element colors
	ColorBorder    = lipgloss.AdaptiveColor{Light: "#B2B2B2", Dark: "#585858"}
	ColorSubtle    = lipgloss.AdaptiveColor{Light: "#6C6C6C", Dark: "#8A8A8A"}
	ColorHighlight = lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}
	ColorCursorBg  = lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#303030"}
)

// Text styles for various UI elements
var (
	// StyleHeading is used for section headings and titles
	StyleHeading = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	// StyleNormal is the default text style
	StyleNormal = lipgloss.NewStyle().
			Foreground(ColorHighlight)

	// StyleStatus is used for status messages and labels
	StyleStatus = lipgloss.NewStyle().
			Foreground(ColorInfo).
			Bold(true)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	StyleWarning = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)

	StyleSuccess = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	// StyleSubtle is used for secondary information
	StyleSubtle = lipgloss.NewStyle().
			Foreground(ColorSubtle)

	// StyleHighlight is used for emphasized text
	StyleHighlight = lipgloss.NewStyle().
			Foreground(ColorHighlight).
			Bold(true)
)

// Table styles
var (
	StyleTableHeader = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPrimary)

	// StyleTableCursor marks the row under the cursor
	StyleTableCursor = lipgloss.NewStyle().
				Background(ColorCursorBg).
				Bold(true)

	// StyleTableSelected marks selected rows
	StyleTableSelected = lipgloss.NewStyle().
				Foreground(ColorInfo)

	// StyleBadge renders badge cells
	StyleBadge = lipgloss.NewStyle().
			Foreground(ColorPrimaryFg).
			Background(ColorPrimary).
			Padding(0, 1)
)

// Border styles for boxes and containers
var (
	BorderRounded = lipgloss.RoundedBorder()

	// StyleBox is a standard bordered box
	StyleBox = lipgloss.NewStyle().
			Border(BorderRounded).
			BorderForeground(ColorBorder).
			Padding(1, 2)

	StylePaneActive = lipgloss.NewStyle().
			Border(BorderRounded).
			BorderForeground(ColorPrimary).
			Padding(0, 1)

	StylePaneInactive = lipgloss.NewStyle().
				Border(BorderRounded).
				BorderForeground(ColorBorder).
				Padding(0, 1)

	StylePaneTitleActive = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPrimary)

	StylePaneTitleInactive = lipgloss.NewStyle().
				Foreground(ColorSubtle)
)

// classStyles maps the custom cell classes sources emit to styles.
var classStyles = map[string]lipgloss.Style{
	"success": lipgloss.NewStyle().Foreground(ColorSuccess),
	"warning": lipgloss.NewStyle().Foreground(ColorWarning),
	"danger":  lipgloss.NewStyle().Foreground(ColorError),
	"info":    lipgloss.NewStyle().Foreground(ColorInfo),
	"bold":    lipgloss.NewStyle().Bold(true),
}

// ClassStyle combines the styles of the space separated classes. Unknown
// classes are ignored.
func ClassStyle(classes string) (lipgloss.Style, bool) {
	style := lipgloss.NewStyle()
	found := false
	for _, class := range strings.Fields(classes) {
		s, ok := classStyles[class]
		if !ok {
			continue
		}
		found = true
		style = style.Inherit(s)
	}
	return style, found
}
