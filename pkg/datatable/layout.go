package datatable

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultLimit is the page size used when none is configured or stored.
const DefaultLimit = 10

// MaxLimit caps page sizes parsed from user input.
const MaxLimit = math.MaxInt32

func (t *Table) column(prop string) *Column {
	for _, c := range t.columns {
		if c.Prop == prop {
			return c
		}
	}
	return nil
}

func (t *Table) visibleCount() int {
	n := 0
	for _, c := range t.columns {
		if !c.IsHidden {
			n++
		}
	}
	return n
}

func (t *Table) firstVisibleProp() string {
	for _, c := range t.columns {
		if !c.IsHidden {
			return c.Prop
		}
	}
	return t.columns[0].Prop
}

// Columns returns every column, hidden or not, in declaration order.
func (t *Table) Columns() []*Column {
	return t.columns
}

// VisibleColumns returns the columns currently shown.
func (t *Table) VisibleColumns() []*Column {
	out := make([]*Column, 0, len(t.columns))
	for _, c := range t.columns {
		if !c.IsHidden {
			out = append(out, c)
		}
	}
	return out
}

// Identifier returns the prop that identifies rows across refreshes.
func (t *Table) Identifier() string {
	return t.identifier
}

// applyLayout assigns flex weights and limits resizing. The identifier
// column gets weight 1, the rest 2. A single visible column never resizes.
func (t *Table) applyLayout() {
	for _, c := range t.columns {
		if c.FlexGrow == 0 {
			if c.Prop == t.identifier {
				c.FlexGrow = 1
			} else {
				c.FlexGrow = 2
			}
		}
	}
	if t.visibleCount() == 1 {
		for _, c := range t.columns {
			c.Resizeable = false
		}
	}
}

// ToggleColumn flips the visibility of a column. Hiding the last visible
// column is ignored. When the primary sort column is hidden the sort moves to
// the first visible column. The config is persisted on change.
func (t *Table) ToggleColumn(prop string) error {
	c := t.column(prop)
	if c == nil {
		return fmt.Errorf("%w: %s", ErrColumnNotFound, prop)
	}
	if !c.IsHidden && t.visibleCount() == 1 {
		return nil
	}
	c.IsHidden = !c.IsHidden

	if len(t.userConfig.Sorts) > 0 {
		if sorted := t.column(t.userConfig.Sorts[0].Prop); sorted == nil || sorted.IsHidden {
			t.userConfig.Sorts = defaultSorts(t.firstVisibleProp())
		}
	}
	t.applyLayout()
	return t.saveUserConfig()
}

// Limit returns the page size.
func (t *Table) Limit() int {
	return t.userConfig.Limit
}

// SetLimit parses a page size from its leading decimal digits, so "12abc"
// is 12 and "3.9" is 3. Input without leading digits and values below 1
// clamp to 1; values above MaxLimit clamp to MaxLimit. The parsed size is
// returned and persisted.
func (t *Table) SetLimit(text string) (int, error) {
	limit := parseLimit(text)
	t.userConfig.Limit = limit
	t.offset = 0
	return limit, t.saveUserConfig()
}

func parseLimit(text string) int {
	s := strings.TrimPrefix(strings.TrimSpace(text), "+")
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 1
	}
	n, err := strconv.ParseInt(s[:end], 10, 32)
	if errors.Is(err, strconv.ErrRange) {
		return MaxLimit
	}
	if err != nil || n < 1 {
		return 1
	}
	return int(n)
}

// Offset returns the current page index.
func (t *Table) Offset() int {
	return t.offset
}

// SetOffset moves to a page, clamped to the available pages.
func (t *Table) SetOffset(page int) {
	t.offset = min(max(page, 0), max(t.PageCount()-1, 0))
}

// PageCount returns the number of pages for the displayed rows.
func (t *Table) PageCount() int {
	if t.userConfig.Limit < 1 || len(t.rows) == 0 {
		return 1
	}
	return (len(t.rows) + t.userConfig.Limit - 1) / t.userConfig.Limit
}

// View returns the displayed rows of the current page in sort order.
func (t *Table) View() []Row {
	sorted := t.sortRows(t.rows)
	limit := t.userConfig.Limit
	if limit < 1 {
		return sorted
	}
	start := t.offset * limit
	if start >= len(sorted) {
		return []Row{}
	}
	end := min(start+limit, len(sorted))
	return sorted[start:end]
}

// Sorted returns every displayed row in sort order, ignoring paging.
func (t *Table) Sorted() []Row {
	return t.sortRows(t.rows)
}
