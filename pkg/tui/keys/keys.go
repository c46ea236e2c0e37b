// Package keys provides centralized keybinding definitions for the TUI.
package keys

import (
	"github.com/charmbracelet/bubbles/key"
)

// TableBindings drive the table browser.
type TableBindings struct {
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PrevPage key.Binding
	NextPage key.Binding

	Search       key.Binding
	Filter       key.Binding
	ClearFilters key.Binding
	Columns      key.Binding
	Sort         key.Binding
	SortPrev     key.Binding
	SortNext     key.Binding
	Limit        key.Binding

	Select key.Binding
	Expand key.Binding
	Reload key.Binding

	Help key.Binding
	Quit key.Binding
}

// DefaultTableBindings returns the default table keybindings.
func DefaultTableBindings() TableBindings {
	return TableBindings{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first row"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last row"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("h", "left", "pgup"),
			key.WithHelp("h/pgup", "previous page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("l", "right", "pgdown"),
			key.WithHelp("l/pgdn", "next page"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "column filter"),
		),
		ClearFilters: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "clear filters"),
		),
		Columns: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "toggle columns"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort by column"),
		),
		SortPrev: key.NewBinding(
			key.WithKeys("<"),
			key.WithHelp("<", "previous sort column"),
		),
		SortNext: key.NewBinding(
			key.WithKeys(">"),
			key.WithHelp(">", "next sort column"),
		),
		Limit: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "rows per page"),
		),
		Select: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "select row"),
		),
		Expand: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "expand row"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (t TableBindings) ShortHelp() []key.Binding {
	return []key.Binding{t.Search, t.Filter, t.Columns, t.Sort, t.Select, t.Reload, t.Help, t.Quit}
}

// FullHelp implements help.KeyMap.
func (t TableBindings) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{t.Up, t.Down, t.Top, t.Bottom, t.PrevPage, t.NextPage},
		{t.Search, t.Filter, t.ClearFilters, t.Columns},
		{t.Sort, t.SortPrev, t.SortNext, t.Limit},
		{t.Select, t.Expand, t.Reload},
		{t.Help, t.Quit},
	}
}

// PickerBindings drive the option pickers.
type PickerBindings struct {
	Up     key.Binding
	Down   key.Binding
	Choose key.Binding
	Close  key.Binding
}

// DefaultPickerBindings returns the default picker keybindings.
func DefaultPickerBindings() PickerBindings {
	return PickerBindings{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "move down"),
		),
		Choose: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "choose"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc", "q"),
			key.WithHelp("esc", "close"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (p PickerBindings) ShortHelp() []key.Binding {
	return []key.Binding{p.Up, p.Down, p.Choose, p.Close}
}

// FullHelp implements help.KeyMap.
func (p PickerBindings) FullHelp() [][]key.Binding {
	return [][]key.Binding{{p.Up, p.Down, p.Choose, p.Close}}
}
