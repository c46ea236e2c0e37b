// Package terminal detects what the terminal can render and picks the glyphs
// the table browser draws with.
package terminal

import (
	"os"
	"strings"
)

// Capability represents terminal capabilities
type Capability struct {
	Has256Colors bool
	HasNoColors  bool
	HasUnicode   bool

	// Term is the TERM environment variable
	Term string
}

// MinRecommendedWidth is the minimum recommended terminal width
const MinRecommendedWidth = 80

// MinRecommendedHeight is the minimum recommended terminal height
const MinRecommendedHeight = 24

// DetectCapabilities detects terminal capabilities from environment
func DetectCapabilities() Capability {
	term := os.Getenv("TERM")
	colorTerm := os.Getenv("COLORTERM")

	c := Capability{
		Term:       term,
		HasUnicode: true,
	}

	switch {
	case term == "dumb" || term == "":
		c.HasNoColors = true
		c.HasUnicode = false
	case colorTerm == "truecolor" || colorTerm == "24bit":
		c.Has256Colors = true
	case strings.Contains(term, "256color"):
		c.Has256Colors = true
	}

	if lang := os.Getenv("LC_ALL") + os.Getenv("LANG"); lang != "" &&
		!strings.Contains(strings.ToUpper(lang), "UTF") && term != "" {
		c.HasUnicode = false
	}

	// https://no-color.org/
	if os.Getenv("NO_COLOR") != "" {
		c.HasNoColors = true
		c.Has256Colors = false
	}

	return c
}

// Glyphs are the symbols drawn in table cells and chrome.
type Glyphs struct {
	Check     string
	Cross     string
	Selected  string
	Expanded  string
	Collapsed string
	SortAsc   string
	SortDesc  string
	Spinner   []string
}

// GetGlyphs returns appropriate glyphs for the terminal
func GetGlyphs(c Capability) Glyphs {
	if c.HasNoColors || !c.HasUnicode {
		return Glyphs{
			Check:     "[x]",
			Cross:     "[ ]",
			Selected:  "*",
			Expanded:  "v",
			Collapsed: ">",
			SortAsc:   "^",
			SortDesc:  "v",
			Spinner:   []string{"-", "\\", "|", "/"},
		}
	}

	return Glyphs{
		Check:     "✓",
		Cross:     "✗",
		Selected:  "●",
		Expanded:  "▾",
		Collapsed: "▸",
		SortAsc:   "↑",
		SortDesc:  "↓",
		Spinner:   []string{"◐", "◓", "◑", "◒"},
	}
}

// IsTooNarrow checks if the terminal width is below minimum
func IsTooNarrow(width int) bool {
	return width > 0 && width < MinRecommendedWidth
}

// IsTooShort checks if the terminal height is below minimum
func IsTooShort(height int) bool {
	return height > 0 && height < MinRecommendedHeight
}

// SizeWarning returns a warning message if terminal is too small
func SizeWarning(width, height int) string {
	var warnings []string

	if IsTooNarrow(width) {
		warnings = append(warnings, "terminal too narrow, recommend 80+ columns")
	}
	if IsTooShort(height) {
		warnings = append(warnings, "terminal too short, recommend 24+ rows")
	}

	return strings.Join(warnings, "; ")
}
