package datatable

// CellTransformation selects how a cell value is rendered.
type CellTransformation string

const (
	CellDefault    CellTransformation = ""
	CellBold       CellTransformation = "bold"
	CellSparkline  CellTransformation = "sparkline"
	CellExecuting  CellTransformation = "executing"
	CellClasses    CellTransformation = "classes"
	CellBadge      CellTransformation = "badge"
	CellPath       CellTransformation = "path"
	CellTimeAgo    CellTransformation = "timeAgo"
	CellCheckIcon  CellTransformation = "checkIcon"
	CellPerSecond  CellTransformation = "perSecond"
	CellRouterLink CellTransformation = "routerLink"
)

// ExecutingKey is the row key holding the in-progress action for executing cells.
const ExecutingKey = "cdExecuting"

// Pipe transforms a cell value before it is searched, filtered or displayed.
type Pipe func(value any) any

// FilterPredicate decides whether a row passes a filter with the given raw value.
type FilterPredicate func(row Row, raw string) bool

// Column describes one projection of a property across rows.
type Column struct {
	Prop string
	Name string

	IsHidden   bool
	Filterable bool

	// FilterOptions is a static option list. When set the options never
	// change with the data.
	FilterOptions []string

	// FilterInitValue is the raw value selected when filters are initialised.
	FilterInitValue string

	// FilterPredicate replaces the default exact-match predicate.
	FilterPredicate FilterPredicate

	Pipe               Pipe
	CellTransformation CellTransformation

	// CustomTemplateConfig carries renderer-specific settings, e.g. a badge
	// class map, and is opaque to the engine.
	CustomTemplateConfig map[string]any

	FlexGrow   int
	Resizeable bool
	Sortable   *bool
}

// IsSortable reports whether the column may be used as a sort key.
func (c *Column) IsSortable() bool {
	return c.Sortable == nil || *c.Sortable
}

// Value returns the piped cell value for row.
func (c *Column) Value(row Row) (any, bool) {
	v, ok := Lookup(row, c.Prop)
	if c.Pipe != nil {
		v = c.Pipe(v)
		return v, v != nil
	}
	return v, ok
}

// CellText renders the column's cell for a text display. Executing cells
// append the in-progress action in parentheses.
func (c *Column) CellText(row Row) string {
	v, _ := c.Value(row)
	text := Stringify(v)
	if c.CellTransformation == CellExecuting {
		if state, ok := Lookup(row, ExecutingKey); ok {
			if s := Stringify(state); s != "" {
				if text == "" {
					return "(" + s + ")"
				}
				return text + " (" + s + ")"
			}
		}
	}
	return text
}
