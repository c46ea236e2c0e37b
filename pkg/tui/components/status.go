package components

import (
	"fmt"
	"time"

	"github.com/andri/cdtable/pkg/tui/styles"
	"github.com/andri/cdtable/pkg/tui/terminal"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// StatusType represents the type of status being displayed
type StatusType int

const (
	// StatusTypeInfo is for informational messages
	StatusTypeInfo StatusType = iota
	// StatusTypeWarning is for warning messages
	StatusTypeWarning
	// StatusTypeError is for error messages
	StatusTypeError
	// StatusTypeRunning is for a fetch in flight
	StatusTypeRunning
)

const spinnerInterval = 100 * time.Millisecond

// StatusTickMsg advances the spinner animation
type StatusTickMsg struct{}

// StatusIndicator displays a status with icon, label, and optional details
type StatusIndicator struct {
	Label   string
	Details string
	Type    StatusType

	glyphs       terminal.Glyphs
	spinnerFrame int
	ticking      bool
}

// NewStatusIndicator creates a new status indicator
func NewStatusIndicator(glyphs terminal.Glyphs) *StatusIndicator {
	return &StatusIndicator{glyphs: glyphs}
}

// Set replaces the status. Switching to running starts the spinner.
func (s *StatusIndicator) Set(statusType StatusType, label, details string) tea.Cmd {
	s.Type = statusType
	s.Label = label
	s.Details = details
	if statusType == StatusTypeRunning && !s.ticking {
		s.ticking = true
		return s.tick()
	}
	return nil
}

func (s *StatusIndicator) tick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(time.Time) tea.Msg {
		return StatusTickMsg{}
	})
}

// Update implements tea.Model
func (s *StatusIndicator) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(StatusTickMsg); !ok {
		return s, nil
	}
	if s.Type != StatusTypeRunning || len(s.glyphs.Spinner) == 0 {
		s.ticking = false
		return s, nil
	}
	s.spinnerFrame = (s.spinnerFrame + 1) % len(s.glyphs.Spinner)
	return s, s.tick()
}

// Init implements tea.Model
func (s *StatusIndicator) Init() tea.Cmd {
	return nil
}

// View implements tea.Model
func (s *StatusIndicator) View() string {
	style := s.getStyle()

	result := style.Render(s.Label)
	if icon := s.getIcon(); icon != "" {
		result = fmt.Sprintf("%s %s", style.Render(icon), s.Label)
	}
	if s.Details != "" {
		result = fmt.Sprintf("%s %s", result, styles.StyleSubtle.Render(s.Details))
	}
	return result
}

func (s *StatusIndicator) getIcon() string {
	switch s.Type {
	case StatusTypeError:
		return s.glyphs.Cross
	case StatusTypeRunning:
		if len(s.glyphs.Spinner) == 0 {
			return ""
		}
		return s.glyphs.Spinner[s.spinnerFrame%len(s.glyphs.Spinner)]
	default:
		return ""
	}
}

func (s *StatusIndicator) getStyle() lipgloss.Style {
	switch s.Type {
	case StatusTypeWarning:
		return styles.StyleWarning
	case StatusTypeError:
		return styles.StyleError
	case StatusTypeRunning:
		return styles.StyleStatus
	default:
		return styles.StyleSubtle
	}
}
