package components

import (
	"fmt"

	"github.com/andri/cdtable/pkg/tui/styles"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	modalMinWidth = 24
	modalMaxWidth = 72
)

// ModalContent is the interface for content hosted inside a modal.
type ModalContent interface {
	tea.Model
	SetSize(width, height int)
}

// ModalConfig holds configuration for a modal component.
type ModalConfig struct {
	Title string
	// Width is the outer width. Zero sizes the modal to the terminal.
	Width           int
	DisableEscClose bool
}

// ModalCloseMsg is emitted when the user requests closing the modal.
type ModalCloseMsg struct{}

// Modal renders a centered box over the table with embedded content.
type Modal struct {
	config ModalConfig
	model  ModalContent
	width  int
	height int
}

// NewModal creates a modal hosting model.
func NewModal(config ModalConfig, model ModalContent) *Modal {
	return &Modal{config: config, model: model}
}

// Content returns the hosted model.
func (m *Modal) Content() ModalContent {
	return m.model
}

// Init implements tea.Model.
func (m *Modal) Init() tea.Cmd {
	if m.model == nil {
		return nil
	}
	return m.model.Init()
}

// SetSize sets the terminal dimensions.
func (m *Modal) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.syncContentSize()
}

// Update handles messages and forwards them to the embedded model.
func (m *Modal) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc && !m.config.DisableEscClose {
			return m, func() tea.Msg { return ModalCloseMsg{} }
		}
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	}

	if m.model == nil {
		return m, nil
	}

	updated, cmd := m.model.Update(msg)
	if content, ok := updated.(ModalContent); ok {
		m.model = content
	}
	return m, cmd
}

// View renders the boxed content centered in the terminal. Without a known
// terminal size only the box is returned.
func (m *Modal) View() string {
	var content string
	if m.model != nil {
		content = m.model.View()
	}
	if m.config.Title != "" {
		content = fmt.Sprintf("%s\n%s", styles.StyleHeading.Render(m.config.Title), content)
	}

	// Width in lipgloss covers padding but not the border
	box := styles.StyleBox.Width(m.modalWidth() - styles.StyleBox.GetHorizontalBorderSize()).Render(content)
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *Modal) modalWidth() int {
	width := m.config.Width
	if width == 0 {
		width = m.width - 4
	}
	return min(max(width, modalMinWidth), modalMaxWidth)
}

func (m *Modal) syncContentSize() {
	if m.model == nil {
		return
	}
	frameW, frameH := styles.StyleBox.GetFrameSize()
	height := m.height - frameH - 4
	if m.config.Title != "" {
		height -= 2
	}
	m.model.SetSize(max(m.modalWidth()-frameW, 1), max(height, 1))
}
