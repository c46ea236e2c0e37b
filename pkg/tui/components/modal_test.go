package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

type mockModalContent struct {
	width   int
	height  int
	updates int
}

func (m *mockModalContent) Init() tea.Cmd {
	return nil
}

func (m *mockModalContent) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.updates++
	return m, nil
}

func (m *mockModalContent) View() string {
	return "content"
}

func (m *mockModalContent) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func TestModal_EscCloses(t *testing.T) {
	modal := NewModal(ModalConfig{}, &mockModalContent{})
	_, cmd := modal.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected close command on Esc")
	}

	msg := cmd()
	if _, ok := msg.(ModalCloseMsg); !ok {
		t.Fatalf("expected ModalCloseMsg, got %T", msg)
	}
}

func TestModal_EscDisabledForwards(t *testing.T) {
	content := &mockModalContent{}
	modal := NewModal(ModalConfig{DisableEscClose: true}, content)
	if _, cmd := modal.Update(tea.KeyMsg{Type: tea.KeyEsc}); cmd != nil {
		t.Fatal("expected no close command")
	}
	if content.updates != 1 {
		t.Fatalf("expected Esc forwarded to content, got %d updates", content.updates)
	}
}

func TestModal_SyncsContentSize(t *testing.T) {
	content := &mockModalContent{}
	modal := NewModal(ModalConfig{Width: 40}, content)
	modal.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	// StyleBox has a one cell border and two cells of horizontal padding
	if content.width != 34 {
		t.Fatalf("expected content width 34, got %d", content.width)
	}
	if content.height < 1 || content.height >= 30 {
		t.Fatalf("unexpected content height %d", content.height)
	}
}

func TestModal_WidthClamped(t *testing.T) {
	tests := []struct {
		name      string
		width     int
		termWidth int
		want      int
	}{
		{"explicit", 40, 100, 40},
		{"from terminal", 0, 60, 56},
		{"too small", 10, 100, modalMinWidth},
		{"too wide", 0, 300, modalMaxWidth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			modal := NewModal(ModalConfig{Width: tt.width}, nil)
			modal.SetSize(tt.termWidth, 30)
			if got := modal.modalWidth(); got != tt.want {
				t.Errorf("modalWidth() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestModal_ViewCentersBox(t *testing.T) {
	modal := NewModal(ModalConfig{Title: "Filter", Width: 30}, &mockModalContent{})
	modal.SetSize(80, 20)

	view := ansi.Strip(modal.View())
	if lipgloss.Width(view) != 80 || lipgloss.Height(view) != 20 {
		t.Fatalf("expected an 80x20 frame, got %dx%d", lipgloss.Width(view), lipgloss.Height(view))
	}
	if !strings.Contains(view, "Filter") || !strings.Contains(view, "content") {
		t.Fatalf("expected title and content in view:\n%s", view)
	}
	if !strings.Contains(view, "╭") {
		t.Fatalf("expected rounded border:\n%s", view)
	}
}

func TestModal_ViewWithoutSize(t *testing.T) {
	modal := NewModal(ModalConfig{Width: 30}, &mockModalContent{})
	if got := lipgloss.Width(modal.View()); got != 30 {
		t.Fatalf("expected box width 30, got %d", got)
	}
}
