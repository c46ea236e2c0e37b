package components

import (
	"strings"

	"github.com/andri/cdtable/pkg/format"
	"github.com/andri/cdtable/pkg/tui/keys"
	"github.com/andri/cdtable/pkg/tui/styles"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// PickerItem is one choosable line.
type PickerItem struct {
	Label string
	Value string
	// Checked marks the current choice, or a visible column in a toggle list.
	Checked bool
}

// PickerChosenMsg reports the item the user picked.
type PickerChosenMsg struct {
	ID    string
	Index int
	Item  PickerItem
}

// PickerClosedMsg reports that the picker was dismissed without a choice.
type PickerClosedMsg struct {
	ID string
}

// Picker is a vertical list with a cursor. Toggle pickers stay open after a
// choice so several items can be flipped in a row.
type Picker struct {
	id     string
	items  []PickerItem
	cursor int
	offset int
	toggle bool
	check  string
	cross  string
	keys   keys.PickerBindings
	width  int
	height int
}

// NewPicker creates a picker. check and cross are the markers drawn for
// checked and unchecked items.
func NewPicker(id string, items []PickerItem, check, cross string) *Picker {
	p := &Picker{
		id:     id,
		items:  items,
		check:  check,
		cross:  cross,
		keys:   keys.DefaultPickerBindings(),
		width:  40,
		height: 10,
	}
	for i, item := range items {
		if item.Checked {
			p.cursor = i
			break
		}
	}
	p.scroll()
	return p
}

// NewTogglePicker creates a picker that stays open after each choice.
func NewTogglePicker(id string, items []PickerItem, check, cross string) *Picker {
	p := NewPicker(id, items, check, cross)
	p.toggle = true
	p.cursor = 0
	p.offset = 0
	return p
}

// ID returns the identifier carried by the picker's messages.
func (p *Picker) ID() string { return p.id }

// Cursor returns the index under the cursor.
func (p *Picker) Cursor() int { return p.cursor }

// Items returns the picker items.
func (p *Picker) Items() []PickerItem { return p.items }

// SetItems replaces the items, keeping the cursor in range.
func (p *Picker) SetItems(items []PickerItem) {
	p.items = items
	if p.cursor >= len(items) {
		p.cursor = max(len(items)-1, 0)
	}
	p.scroll()
}

// SetSize implements ModalContent.
func (p *Picker) SetSize(width, height int) {
	p.width = width
	p.height = max(height, 1)
	p.scroll()
}

// Init implements tea.Model.
func (p *Picker) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	if key.Matches(keyMsg, p.keys.Close) {
		return p, p.closed()
	}
	if len(p.items) == 0 {
		return p, nil
	}

	switch {
	case key.Matches(keyMsg, p.keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(keyMsg, p.keys.Down):
		if p.cursor < len(p.items)-1 {
			p.cursor++
		}
	case key.Matches(keyMsg, p.keys.Choose):
		if p.toggle {
			p.items[p.cursor].Checked = !p.items[p.cursor].Checked
		}
		chosen := PickerChosenMsg{ID: p.id, Index: p.cursor, Item: p.items[p.cursor]}
		return p, func() tea.Msg { return chosen }
	}
	p.scroll()
	return p, nil
}

func (p *Picker) closed() tea.Cmd {
	id := p.id
	return func() tea.Msg { return PickerClosedMsg{ID: id} }
}

// scroll keeps the cursor inside the visible window.
func (p *Picker) scroll() {
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+p.height {
		p.offset = p.cursor - p.height + 1
	}
	p.offset = max(min(p.offset, len(p.items)-p.height), 0)
}

// View implements tea.Model.
func (p *Picker) View() string {
	if len(p.items) == 0 {
		return styles.StyleSubtle.Render("nothing to choose")
	}

	end := min(p.offset+p.height, len(p.items))
	lines := make([]string, 0, end-p.offset)
	for i := p.offset; i < end; i++ {
		item := p.items[i]
		marker := p.cross
		if item.Checked {
			marker = p.check
		}
		line := format.Truncate(marker+" "+item.Label, max(p.width-2, 1))
		if i == p.cursor {
			lines = append(lines, styles.StyleTableCursor.Render("> "+line))
			continue
		}
		lines = append(lines, "  "+line)
	}
	return strings.Join(lines, "\n")
}
