package output

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/andri/cdtable/pkg/format"
	"golang.org/x/term"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

// classColors maps custom cell classes to terminal colors.
var classColors = map[string]string{
	"success": colorGreen,
	"warning": colorYellow,
	"danger":  colorRed,
	"info":    colorCyan,
}

const (
	defaultWidth = 80
	minColWidth  = 6
	colGap       = 2
)

// TableWriter writes data as a formatted ASCII table
type TableWriter struct {
	w     io.Writer
	color bool
	width int
}

// NewTableWriter creates a new table writer sized to the terminal when w is one.
func NewTableWriter(w io.Writer) *TableWriter {
	tw := &TableWriter{
		w:     w,
		color: isTerminal(w),
		width: defaultWidth,
	}

	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			tw.width = width
		}
	}

	return tw
}

// isTerminal checks if the writer is a terminal
func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// Write writes the page followed by a one-line summary.
func (tw *TableWriter) Write(data *Data) error {
	if data.Error != "" {
		_, _ = fmt.Fprintln(tw.w, tw.colorize("Error: "+data.Error, colorRed))
	}
	if len(data.Columns) == 0 {
		return nil
	}

	widths := tw.columnWidths(data)

	header := make([]string, len(data.Columns))
	for i, c := range data.Columns {
		header[i] = format.PadRight(strings.ToUpper(c.Name), widths[i])
	}
	_, _ = fmt.Fprintln(tw.w, tw.colorize(strings.TrimRight(strings.Join(header, strings.Repeat(" ", colGap)), " "), colorBold))

	for _, row := range data.cells {
		parts := make([]string, len(data.Columns))
		for i := range data.Columns {
			var c cell
			if i < len(row) {
				c = row[i]
			}
			text := c.text
			if text == "" {
				text = "-"
			}
			padded := format.PadRight(text, widths[i])
			if col := tw.cellColor(c); col != "" {
				padded = tw.colorize(padded, col)
			}
			parts[i] = padded
		}
		_, _ = fmt.Fprintln(tw.w, strings.TrimRight(strings.Join(parts, strings.Repeat(" ", colGap)), " "))
	}

	_, _ = fmt.Fprintln(tw.w, tw.summary(data))
	return nil
}

func (tw *TableWriter) summary(data *Data) string {
	parts := []string{fmt.Sprintf("%d rows", data.Total)}
	if data.Pages > 1 {
		parts = append(parts, fmt.Sprintf("page %d/%d", data.Page, data.Pages))
	}
	if data.Search != "" {
		parts = append(parts, fmt.Sprintf("search %q", data.Search))
	}
	for _, prop := range slices.Sorted(maps.Keys(data.Filters)) {
		parts = append(parts, fmt.Sprintf("%s=%s", prop, data.Filters[prop]))
	}
	return strings.Join(parts, ", ")
}

// columnWidths sizes each column to its widest cell and shrinks the widest
// columns until the row fits the writer width.
func (tw *TableWriter) columnWidths(data *Data) []int {
	widths := make([]int, len(data.Columns))
	for i, c := range data.Columns {
		widths[i] = format.DisplayWidth(c.Name)
	}
	for _, row := range data.cells {
		for i := range widths {
			if i < len(row) {
				widths[i] = max(widths[i], format.DisplayWidth(row[i].text), 1)
			}
		}
	}

	total := func() int {
		sum := colGap * (len(widths) - 1)
		for _, w := range widths {
			sum += w
		}
		return sum
	}
	for total() > tw.width {
		widest := 0
		for i := range widths {
			if widths[i] > widths[widest] {
				widest = i
			}
		}
		if widths[widest] <= minColWidth {
			break
		}
		widths[widest]--
	}
	return widths
}

func (tw *TableWriter) cellColor(c cell) string {
	var codes string
	if c.bold {
		codes += colorBold
	}
	for _, class := range strings.Fields(c.classes) {
		if col, ok := classColors[class]; ok {
			codes += col
		}
	}
	return codes
}

// colorize adds ANSI color codes if color is enabled
func (tw *TableWriter) colorize(s, color string) string {
	if !tw.color || color == "" {
		return s
	}
	return color + s + colorReset
}

// RenderTable renders data to a table and writes to the given writer
func RenderTable(w io.Writer, data *Data) error {
	tw := NewTableWriter(w)
	return tw.Write(data)
}
