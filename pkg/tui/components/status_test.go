package components

import (
	"strings"
	"testing"

	"github.com/andri/cdtable/pkg/tui/terminal"
	"github.com/charmbracelet/x/ansi"
)

var asciiGlyphs = terminal.GetGlyphs(terminal.Capability{HasNoColors: true})

func TestStatusIndicatorView(t *testing.T) {
	tests := []struct {
		name       string
		statusType StatusType
		label      string
		details    string
		want       string
	}{
		{"info", StatusTypeInfo, "12 rows", "page 1/2", "12 rows page 1/2"},
		{"error", StatusTypeError, "connection refused", "", "[ ] connection refused"},
		{"running", StatusTypeRunning, "loading", "", "- loading"},
		{"warning", StatusTypeWarning, "terminal too narrow", "", "terminal too narrow"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStatusIndicator(asciiGlyphs)
			s.Set(tt.statusType, tt.label, tt.details)
			if got := ansi.Strip(s.View()); got != tt.want {
				t.Errorf("View() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatusIndicatorSpinner(t *testing.T) {
	s := NewStatusIndicator(asciiGlyphs)
	if cmd := s.Set(StatusTypeRunning, "loading", ""); cmd == nil {
		t.Fatal("switching to running should start the spinner")
	}
	if cmd := s.Set(StatusTypeRunning, "loading", ""); cmd != nil {
		t.Fatal("a running spinner must not start a second tick loop")
	}

	_, cmd := s.Update(StatusTickMsg{})
	if cmd == nil {
		t.Fatal("running spinner should keep ticking")
	}
	if !strings.HasPrefix(ansi.Strip(s.View()), "\\") {
		t.Errorf("expected the second frame, got %q", ansi.Strip(s.View()))
	}

	s.Set(StatusTypeInfo, "done", "")
	if _, cmd := s.Update(StatusTickMsg{}); cmd != nil {
		t.Error("spinner should stop once the status is no longer running")
	}
	if cmd := s.Set(StatusTypeRunning, "loading", ""); cmd == nil {
		t.Error("spinner should restart after it stopped")
	}
}

func TestStatusIndicatorIgnoresOtherMessages(t *testing.T) {
	s := NewStatusIndicator(asciiGlyphs)
	if _, cmd := s.Update("other"); cmd != nil {
		t.Error("unexpected command for an unrelated message")
	}
}
