package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestColorPalette(t *testing.T) {
	tests := []struct {
		name  string
		color lipgloss.AdaptiveColor
	}{
		{"ColorPrimary", ColorPrimary},
		{"ColorSuccess", ColorSuccess},
		{"ColorWarning", ColorWarning},
		{"ColorError", ColorError},
		{"ColorInfo", ColorInfo},
		{"ColorCursorBg", ColorCursorBg},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.color.Light == "" {
				t.Errorf("%s: Light color variant is empty", tt.name)
			}
			if tt.color.Dark == "" {
				t.Errorf("%s: Dark color variant is empty", tt.name)
			}
		})
	}
}

func TestTextStyles(t *testing.T) {
	tests := []struct {
		name  string
		style lipgloss.Style
		text  string
	}{
		{"StyleHeading", StyleHeading, "Test Heading"},
		{"StyleError", StyleError, "Error message"},
		{"StyleSubtle", StyleSubtle, "Subtle text"},
		{"StyleTableHeader", StyleTableHeader, "NAME"},
		{"StyleTableCursor", StyleTableCursor, "row"},
		{"StyleBadge", StyleBadge, "mon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rendered := tt.style.Render(tt.text); rendered == "" {
				t.Errorf("%s: Rendered output is empty", tt.name)
			}
		})
	}
}

func TestClassStyle(t *testing.T) {
	tests := []struct {
		classes string
		found   bool
	}{
		{"success", true},
		{"warning bold", true},
		{"unknown", false},
		{"", false},
		{"unknown danger", true},
	}

	for _, tt := range tests {
		t.Run(tt.classes, func(t *testing.T) {
			_, found := ClassStyle(tt.classes)
			if found != tt.found {
				t.Errorf("ClassStyle(%q) found = %v, want %v", tt.classes, found, tt.found)
			}
		})
	}
}

func TestClassStyleCombines(t *testing.T) {
	style, _ := ClassStyle("danger bold")
	if !style.GetBold() {
		t.Error("expected bold from the bold class")
	}
	if style.GetForeground() != ColorError {
		t.Errorf("foreground = %v, want the error color", style.GetForeground())
	}
}
