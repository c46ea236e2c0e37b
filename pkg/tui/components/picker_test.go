package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

func pickerItems() []PickerItem {
	return []PickerItem{
		{Label: "any", Value: ""},
		{Label: "up", Value: "up", Checked: true},
		{Label: "down", Value: "down"},
	}
}

func sendKeys(p *Picker, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd = p.Update(msg)
	}
	return cmd
}

func TestPickerStartsOnCheckedItem(t *testing.T) {
	p := NewPicker("status", pickerItems(), "*", " ")
	if p.Cursor() != 1 {
		t.Fatalf("expected cursor on the checked item, got %d", p.Cursor())
	}
}

func TestPickerChoose(t *testing.T) {
	p := NewPicker("status", pickerItems(), "*", " ")
	cmd := sendKeys(p, "j", "enter")
	if cmd == nil {
		t.Fatal("expected a chosen command")
	}
	msg, ok := cmd().(PickerChosenMsg)
	if !ok {
		t.Fatalf("expected PickerChosenMsg, got %T", cmd())
	}
	if msg.ID != "status" || msg.Index != 2 || msg.Item.Value != "down" {
		t.Fatalf("unexpected choice %+v", msg)
	}
}

func TestPickerCursorBounds(t *testing.T) {
	p := NewPicker("status", pickerItems(), "*", " ")
	sendKeys(p, "down", "down", "down", "down")
	if p.Cursor() != 2 {
		t.Fatalf("cursor should stop at the last item, got %d", p.Cursor())
	}
	sendKeys(p, "k", "k", "k", "up")
	if p.Cursor() != 0 {
		t.Fatalf("cursor should stop at the first item, got %d", p.Cursor())
	}
}

func TestPickerClose(t *testing.T) {
	p := NewPicker("status", nil, "*", " ")
	cmd := sendKeys(p, "q")
	if cmd == nil {
		t.Fatal("expected a close command")
	}
	if msg, ok := cmd().(PickerClosedMsg); !ok || msg.ID != "status" {
		t.Fatalf("expected PickerClosedMsg for status, got %#v", cmd())
	}
}

func TestTogglePickerFlipsItems(t *testing.T) {
	p := NewTogglePicker("columns", []PickerItem{
		{Label: "Name", Value: "name", Checked: true},
		{Label: "Size", Value: "size"},
	}, "[x]", "[ ]")
	if p.Cursor() != 0 {
		t.Fatalf("toggle picker should start at the top, got %d", p.Cursor())
	}

	cmd := sendKeys(p, "j", " ")
	msg := cmd().(PickerChosenMsg)
	if !msg.Item.Checked || !p.Items()[1].Checked {
		t.Fatalf("expected size to be checked, got %+v", p.Items())
	}

	lines := strings.Split(ansi.Strip(p.View()), "\n")
	if lines[0] != "  [x] Name" || lines[1] != "> [x] Size" {
		t.Fatalf("unexpected view %q", lines)
	}
}

func TestPickerScrollsWithCursor(t *testing.T) {
	items := make([]PickerItem, 10)
	for i := range items {
		items[i] = PickerItem{Label: string(rune('a' + i))}
	}
	p := NewPicker("long", items, "*", " ")
	p.SetSize(20, 3)
	sendKeys(p, "j", "j", "j", "j")

	lines := strings.Split(ansi.Strip(p.View()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 visible lines, got %d", len(lines))
	}
	if lines[2] != ">   e" {
		t.Fatalf("expected cursor on the last visible line, got %q", lines)
	}
}

func TestPickerEmptyView(t *testing.T) {
	p := NewPicker("empty", nil, "*", " ")
	if got := ansi.Strip(p.View()); got != "nothing to choose" {
		t.Fatalf("unexpected empty view %q", got)
	}
}
