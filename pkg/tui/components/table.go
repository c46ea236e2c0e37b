package components

import (
	"strings"

	"github.com/andri/cdtable/pkg/format"
	"github.com/andri/cdtable/pkg/tui/styles"
	"github.com/charmbracelet/lipgloss"
)

const (
	minCellWidth = 3
	cellGap      = "  "
)

// TableColumn defines a column in the table
type TableColumn struct {
	// Title is the column header
	Title string

	// Width fixes the column width in cells (0 = fit content)
	Width int

	// Grow shares spare width between columns in proportion to the value
	Grow int

	// Align specifies text alignment
	Align lipgloss.Position

	// Active underlines the header, marking the column the sort keys act on
	Active bool
}

// TableCell is one rendered value. A nil Style uses the row style.
type TableCell struct {
	Text  string
	Style *lipgloss.Style
}

// TableRow represents a row of data
type TableRow struct {
	// Marker is drawn before the first cell, e.g. selection and expansion glyphs
	Marker string

	Cells []TableCell

	// Highlighted marks the row under the cursor
	Highlighted bool
}

// Table renders rows of cells into aligned columns.
type Table struct {
	Columns []TableColumn
	Rows    []TableRow

	// ShowHeader determines if column headers are displayed
	ShowHeader bool

	// Width is the total table width (0 = auto)
	Width int

	headerStyle    lipgloss.Style
	cellStyle      lipgloss.Style
	highlightStyle lipgloss.Style
}

// NewTable creates a new table with the given columns
func NewTable(columns []TableColumn) *Table {
	return &Table{
		Columns:        columns,
		ShowHeader:     true,
		headerStyle:    styles.StyleTableHeader,
		cellStyle:      styles.StyleNormal,
		highlightStyle: styles.StyleTableCursor,
	}
}

// AddRow adds a row of unstyled cells
func (t *Table) AddRow(cells ...string) {
	row := TableRow{Cells: make([]TableCell, len(cells))}
	for i, c := range cells {
		row.Cells[i] = TableCell{Text: c}
	}
	t.Rows = append(t.Rows, row)
}

// SetRows replaces all rows
func (t *Table) SetRows(rows []TableRow) {
	t.Rows = rows
}

// SetWidth sets the total table width
func (t *Table) SetWidth(width int) {
	t.Width = width
}

// RowCount returns the number of rows
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// View renders the header and rows, one line each.
func (t *Table) View() string {
	if len(t.Columns) == 0 {
		return ""
	}

	markerWidth := t.markerWidth()
	widths := t.calculateWidths(markerWidth)

	lines := make([]string, 0, len(t.Rows)+1)
	if t.ShowHeader {
		cells := make([]TableCell, len(t.Columns))
		for i, col := range t.Columns {
			style := t.headerStyle
			if col.Active {
				style = style.Underline(true)
			}
			cells[i] = TableCell{Text: col.Title, Style: &style}
		}
		lines = append(lines, t.renderRow(TableRow{Cells: cells}, widths, markerWidth, t.headerStyle))
	}

	for _, row := range t.Rows {
		style := t.cellStyle
		if row.Highlighted {
			style = t.highlightStyle
		}
		lines = append(lines, t.renderRow(row, widths, markerWidth, style))
	}

	return strings.Join(lines, "\n")
}

func (t *Table) markerWidth() int {
	w := 0
	for _, row := range t.Rows {
		w = max(w, format.DisplayWidth(row.Marker))
	}
	if w > 0 {
		w++
	}
	return w
}

// calculateWidths fits columns to their content, then shrinks the widest
// columns or grows the growable ones until the table matches Width.
func (t *Table) calculateWidths(markerWidth int) []int {
	widths := make([]int, len(t.Columns))
	for i, col := range t.Columns {
		if col.Width > 0 {
			widths[i] = col.Width
			continue
		}
		widths[i] = format.DisplayWidth(col.Title)
		for _, row := range t.Rows {
			if i < len(row.Cells) {
				widths[i] = max(widths[i], format.DisplayWidth(row.Cells[i].Text))
			}
		}
		widths[i] = max(widths[i], 1)
	}

	if t.Width <= 0 {
		return widths
	}

	total := func() int {
		sum := markerWidth + len(cellGap)*(len(widths)-1)
		for _, w := range widths {
			sum += w
		}
		return sum
	}

	for total() > t.Width {
		widest := 0
		for i := range widths {
			if widths[i] > widths[widest] {
				widest = i
			}
		}
		if widths[widest] <= minCellWidth {
			break
		}
		widths[widest]--
	}

	spare := t.Width - total()
	grow := 0
	for _, col := range t.Columns {
		grow += col.Grow
	}
	if spare > 0 && grow > 0 {
		given := 0
		last := -1
		for i, col := range t.Columns {
			if col.Grow <= 0 {
				continue
			}
			extra := spare * col.Grow / grow
			widths[i] += extra
			given += extra
			last = i
		}
		widths[last] += spare - given
	}

	return widths
}

func (t *Table) renderRow(row TableRow, widths []int, markerWidth int, base lipgloss.Style) string {
	var b strings.Builder

	if markerWidth > 0 {
		b.WriteString(base.Render(format.PadRight(row.Marker, markerWidth)))
	}

	for i, col := range t.Columns {
		if i > 0 {
			b.WriteString(base.Render(cellGap))
		}
		var cell TableCell
		if i < len(row.Cells) {
			cell = row.Cells[i]
		}

		style := base
		if cell.Style != nil {
			style = cell.Style.Inherit(base)
		}
		b.WriteString(style.Render(align(cell.Text, widths[i], col.Align)))
	}

	return b.String()
}

// align pads or truncates s to width display cells.
func align(s string, width int, pos lipgloss.Position) string {
	w := format.DisplayWidth(s)
	if w >= width {
		return format.PadRight(s, width)
	}
	padding := width - w
	switch pos { //nolint:exhaustive // Top and Bottom share the values of Left and Right
	case lipgloss.Right:
		return strings.Repeat(" ", padding) + s
	case lipgloss.Center:
		left := padding / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", padding-left)
	default:
		return s + strings.Repeat(" ", padding)
	}
}

// KeyValueTable is a specialized table for key-value pairs
type KeyValueTable struct {
	items []keyValueItem
	width int
}

type keyValueItem struct {
	key   string
	value string
	style *lipgloss.Style
}

// NewKeyValueTable creates a new key-value table
func NewKeyValueTable() *KeyValueTable {
	return &KeyValueTable{width: 40}
}

// Add adds a key-value pair
func (kv *KeyValueTable) Add(key, value string) {
	kv.items = append(kv.items, keyValueItem{key: key, value: value})
}

// AddStyled adds a key-value pair with its own value style
func (kv *KeyValueTable) AddStyled(key, value string, style lipgloss.Style) {
	kv.items = append(kv.items, keyValueItem{key: key, value: value, style: &style})
}

// SetWidth sets the table width
func (kv *KeyValueTable) SetWidth(width int) {
	kv.width = width
}

// Len returns the number of pairs
func (kv *KeyValueTable) Len() int {
	return len(kv.items)
}

// View renders the pairs with aligned values.
func (kv *KeyValueTable) View() string {
	if len(kv.items) == 0 {
		return ""
	}

	maxKeyLen := 0
	for _, item := range kv.items {
		maxKeyLen = max(maxKeyLen, format.DisplayWidth(item.key))
	}
	valueWidth := max(kv.width-maxKeyLen-3, minCellWidth)

	lines := make([]string, 0, len(kv.items))
	for _, item := range kv.items {
		valueStyle := styles.StyleNormal
		if item.style != nil {
			valueStyle = *item.style
		}
		lines = append(lines, styles.StyleSubtle.Render(format.PadRight(item.key+":", maxKeyLen+1))+
			"  "+valueStyle.Render(format.TruncateStyled(item.value, valueWidth)))
	}

	return strings.Join(lines, "\n")
}
