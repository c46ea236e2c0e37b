// Package components provides the reusable pieces the table browser is
// assembled from.
package components

import (
	"fmt"
	"strings"

	"github.com/andri/cdtable/pkg/format"
	"github.com/andri/cdtable/pkg/tui/styles"
	"github.com/charmbracelet/lipgloss"
)

// PaneConfig holds configuration for a Pane component.
type PaneConfig struct {
	// Title is the pane title, typically the table source name
	Title string
}

// Pane wraps view content with a styled border and a title line.
type Pane struct {
	config PaneConfig
	active bool
	badge  string
	width  int
	height int
}

// NewPane creates a new Pane with the given configuration.
func NewPane(config PaneConfig) *Pane {
	return &Pane{
		config: config,
		width:  80,
		height: 10,
	}
}

// SetActive sets whether this pane has focus.
func (p *Pane) SetActive(active bool) {
	p.active = active
}

// IsActive returns whether this pane is currently active.
func (p *Pane) IsActive() bool {
	return p.active
}

// SetBadge sets the badge text, e.g. "12 rows" or "3/40".
func (p *Pane) SetBadge(badge string) {
	p.badge = badge
}

// SetSize sets the outer dimensions of the pane.
func (p *Pane) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// ContentSize returns the space available to content inside the border.
func (p *Pane) ContentSize() (int, int) {
	// 2 border + 2 padding columns, 2 border rows and the title line
	return max(p.width-4, 1), max(p.height-3, 1)
}

// SetTitle updates the pane title.
func (p *Pane) SetTitle(title string) {
	p.config.Title = title
}

// View wraps the given content with a styled border and title bar.
func (p *Pane) View(content string) string {
	borderStyle := styles.StylePaneInactive
	titleStyle := styles.StylePaneTitleInactive
	if p.active {
		borderStyle = styles.StylePaneActive
		titleStyle = styles.StylePaneTitleActive
	}

	contentWidth, contentHeight := p.ContentSize()

	var b strings.Builder
	b.WriteString(titleStyle.Render(format.TruncateStyled(p.titleText(), contentWidth)))
	b.WriteString("\n")
	b.WriteString(clipContent(content, contentWidth, contentHeight))

	// Width covers the horizontal padding, the border is added outside it
	return borderStyle.
		Width(contentWidth + 2).
		Height(contentHeight + 1).
		Render(b.String())
}

func (p *Pane) titleText() string {
	if p.badge == "" {
		return p.config.Title
	}
	return fmt.Sprintf("%s (%s)", p.config.Title, p.badge)
}

// clipContent clips and pads content to exactly width x height cells.
func clipContent(content string, width, height int) string {
	lines := strings.Split(content, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}

	result := make([]string, 0, height)
	for _, line := range lines {
		visible := lipgloss.Width(line)
		switch {
		case visible > width:
			line = format.TruncateStyled(line, width)
		case visible < width:
			line += strings.Repeat(" ", width-visible)
		}
		result = append(result, line)
	}

	for len(result) < height {
		result = append(result, strings.Repeat(" ", width))
	}

	return strings.Join(result, "\n")
}
