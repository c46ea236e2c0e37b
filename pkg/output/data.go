package output

import (
	"encoding/json"
	"time"

	"github.com/andri/cdtable/pkg/datatable"
)

// Column is a visible column of the rendered page.
type Column struct {
	Prop string `json:"prop" yaml:"prop"`
	Name string `json:"name" yaml:"name"`
}

// Data is the serializable snapshot of one table page.
type Data struct {
	Table     string            `json:"table" yaml:"table"`
	Columns   []Column          `json:"columns" yaml:"columns"`
	Rows      []map[string]any  `json:"rows" yaml:"rows"`
	Total     int               `json:"total" yaml:"total"`
	Page      int               `json:"page" yaml:"page"`
	Pages     int               `json:"pages" yaml:"pages"`
	Search    string            `json:"search,omitempty" yaml:"search,omitempty"`
	Filters   map[string]string `json:"filters,omitempty" yaml:"filters,omitempty"`
	Error     string            `json:"error,omitempty" yaml:"error,omitempty"`
	FetchedAt time.Time         `json:"fetched_at" yaml:"fetched_at"`

	cells [][]cell
}

type cell struct {
	text    string
	classes string
	bold    bool
}

// NewData snapshots the current page of t. Hidden columns are left out.
func NewData(t *datatable.Table) *Data {
	visible := t.VisibleColumns()
	view := t.View()

	data := &Data{
		Table:     t.TableName(),
		Columns:   make([]Column, 0, len(visible)),
		Rows:      make([]map[string]any, 0, len(view)),
		Total:     len(t.Rows()),
		Page:      t.Offset() + 1,
		Pages:     t.PageCount(),
		Search:    t.Search(),
		Error:     t.Status().Message,
		FetchedAt: time.Now().UTC(),
		cells:     make([][]cell, 0, len(view)),
	}

	for _, c := range visible {
		data.Columns = append(data.Columns, Column{Prop: c.Prop, Name: c.Name})
	}

	for _, f := range t.Filters() {
		if f.Active() {
			if data.Filters == nil {
				data.Filters = map[string]string{}
			}
			data.Filters[f.Column.Prop] = f.Value.Raw
		}
	}

	for _, row := range view {
		out := make(map[string]any, len(visible))
		cells := make([]cell, 0, len(visible))
		for _, c := range visible {
			raw, _ := datatable.Lookup(row, c.Prop)
			out[c.Prop] = plainValue(raw)

			ce := cell{text: c.CellText(row), bold: c.CellTransformation == datatable.CellBold}
			if c.CellTransformation == datatable.CellClasses || c.CellTransformation == datatable.CellExecuting {
				ce.classes, _ = t.UseCustomClass(raw)
			}
			cells = append(cells, ce)
		}
		data.Rows = append(data.Rows, out)
		data.cells = append(data.cells, cells)
	}

	return data
}

// plainValue turns decoder numbers into Go numbers so every encoder prints
// them unquoted.
func plainValue(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}
