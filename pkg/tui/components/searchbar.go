package components

import (
	"github.com/andri/cdtable/pkg/tui/styles"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// SearchChangedMsg is sent after every edit of the query.
type SearchChangedMsg struct {
	Query string
}

// SearchAppliedMsg is sent when the user confirms the query with enter.
type SearchAppliedMsg struct {
	Query string
}

// SearchClearedMsg is sent when the user abandons the search with esc.
type SearchClearedMsg struct{}

// SearchBar is a one-line query input.
type SearchBar struct {
	input textinput.Model
}

// NewSearchBar creates an unfocused search bar.
func NewSearchBar() *SearchBar {
	input := textinput.New()
	input.Prompt = "/"
	input.Placeholder = "search, e.g. host:node1 up"
	input.PromptStyle = styles.StyleHighlight
	input.PlaceholderStyle = styles.StyleSubtle
	input.CharLimit = 256
	return &SearchBar{input: input}
}

// Focus activates the input.
func (s *SearchBar) Focus() tea.Cmd {
	return s.input.Focus()
}

// Blur deactivates the input, keeping its text.
func (s *SearchBar) Blur() {
	s.input.Blur()
}

// Active reports whether the bar has keyboard focus.
func (s *SearchBar) Active() bool {
	return s.input.Focused()
}

// Value returns the current query.
func (s *SearchBar) Value() string {
	return s.input.Value()
}

// SetValue replaces the query without emitting a change.
func (s *SearchBar) SetValue(v string) {
	s.input.SetValue(v)
	s.input.CursorEnd()
}

// SetWidth limits the visible input width.
func (s *SearchBar) SetWidth(width int) {
	s.input.Width = max(width-len(s.input.Prompt)-1, 1)
}

// Update handles keys while focused.
func (s *SearchBar) Update(msg tea.Msg) tea.Cmd {
	if !s.Active() {
		return nil
	}
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type { //nolint:exhaustive // every other key edits the input
		case tea.KeyEnter:
			query := s.input.Value()
			s.Blur()
			return func() tea.Msg { return SearchAppliedMsg{Query: query} }
		case tea.KeyEsc:
			s.input.Reset()
			s.Blur()
			return func() tea.Msg { return SearchClearedMsg{} }
		}
	}

	before := s.input.Value()
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	if after := s.input.Value(); after != before {
		changed := func() tea.Msg { return SearchChangedMsg{Query: after} }
		return tea.Batch(cmd, changed)
	}
	return cmd
}

// View renders the input.
func (s *SearchBar) View() string {
	return s.input.View()
}
