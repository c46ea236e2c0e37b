package datatable

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/api/equality"
)

// SelectionType controls how row clicks change the selection.
type SelectionType string

const (
	SelectionNone   SelectionType = ""
	SelectionSingle SelectionType = "single"
	SelectionMulti  SelectionType = "multiClick"
)

// ParseSelectionType validates a selection type name.
func ParseSelectionType(s string) (SelectionType, error) {
	switch strings.TrimSpace(s) {
	case "", "none":
		return SelectionNone, nil
	case "single":
		return SelectionSingle, nil
	case "multi", "multiClick":
		return SelectionMulti, nil
	}
	return "", fmt.Errorf("%w: selection type %q", ErrInvalidPolicy, s)
}

// RefreshPolicy controls how selection and expansion follow data refreshes.
type RefreshPolicy string

const (
	// RefreshNever keeps the stale rows and never emits.
	RefreshNever RefreshPolicy = "never"
	// RefreshOnChange re-points to refreshed rows and emits only when their content changed.
	RefreshOnChange RefreshPolicy = "onChange"
	// RefreshAlways re-points to refreshed rows and always emits.
	RefreshAlways RefreshPolicy = "always"
)

// ParseRefreshPolicy validates a refresh policy name. Empty selects RefreshOnChange.
func ParseRefreshPolicy(s string) (RefreshPolicy, error) {
	switch RefreshPolicy(strings.TrimSpace(s)) {
	case "", RefreshOnChange:
		return RefreshOnChange, nil
	case RefreshNever:
		return RefreshNever, nil
	case RefreshAlways:
		return RefreshAlways, nil
	}
	return "", fmt.Errorf("%w: refresh policy %q", ErrInvalidPolicy, s)
}

// Selection is the ordered set of selected rows.
type Selection struct {
	Selected []Row
}

// HasSelection reports whether at least one row is selected.
func (s Selection) HasSelection() bool {
	return len(s.Selected) > 0
}

// HasSingleSelection reports whether exactly one row is selected.
func (s Selection) HasSingleSelection() bool {
	return len(s.Selected) == 1
}

// HasMultiSelection reports whether more than one row is selected.
func (s Selection) HasMultiSelection() bool {
	return len(s.Selected) > 1
}

// First returns the first selected row, or nil.
func (s Selection) First() Row {
	if len(s.Selected) == 0 {
		return nil
	}
	return s.Selected[0]
}

// Selection returns the current selection.
func (t *Table) Selection() Selection {
	return t.selection
}

// Expanded returns the expanded row, or nil.
func (t *Table) Expanded() Row {
	return t.expanded
}

func (t *Table) emitSelection() {
	if t.hooks.SelectionChanged != nil {
		t.hooks.SelectionChanged(t.selection)
	}
}

func (t *Table) emitExpanded() {
	if t.hooks.ExpandedRowChanged != nil {
		t.hooks.ExpandedRowChanged(t.expanded)
	}
}

// identity returns the identifier value of a row.
func (t *Table) identity(row Row) (any, bool) {
	return Lookup(row, t.identifier)
}

func (t *Table) sameIdentity(a, b Row) bool {
	ida, oka := t.identity(a)
	idb, okb := t.identity(b)
	if !oka || !okb {
		return false
	}
	if equality.Semantic.DeepEqual(ida, idb) {
		return true
	}
	// JSON-decoded numbers and typed ints describe the same record.
	if isNumber(ida) && isNumber(idb) {
		return Stringify(ida) == Stringify(idb)
	}
	return false
}

func (t *Table) findByIdentity(rows []Row, target Row) Row {
	for _, row := range rows {
		if t.sameIdentity(row, target) {
			return row
		}
	}
	return nil
}

func (t *Table) containsIdentity(rows []Row, target Row) bool {
	return t.findByIdentity(rows, target) != nil
}

func (t *Table) indexOfSelected(row Row) int {
	for i, selected := range t.selection.Selected {
		if t.sameIdentity(selected, row) {
			return i
		}
	}
	return -1
}

// IsSelected reports whether a row with the same identifier is selected.
func (t *Table) IsSelected(row Row) bool {
	return t.indexOfSelected(row) >= 0
}

// IsExpanded reports whether row is the expanded row.
func (t *Table) IsExpanded(row Row) bool {
	return t.expanded != nil && t.sameIdentity(t.expanded, row)
}

// ClickRow applies a row click to the selection. In single mode clicking
// the selected row deselects it and clicking another row replaces the
// selection. In multi mode the row's membership is toggled.
func (t *Table) ClickRow(row Row) {
	if row == nil {
		return
	}
	switch t.selectionType {
	case SelectionSingle:
		if t.indexOfSelected(row) >= 0 {
			t.selection = Selection{}
		} else {
			t.selection = Selection{Selected: []Row{row}}
		}
	case SelectionMulti:
		if i := t.indexOfSelected(row); i >= 0 {
			selected := append([]Row(nil), t.selection.Selected[:i]...)
			t.selection = Selection{Selected: append(selected, t.selection.Selected[i+1:]...)}
		} else {
			selected := append([]Row(nil), t.selection.Selected...)
			t.selection = Selection{Selected: append(selected, row)}
		}
	default:
		return
	}
	t.emitSelection()
}

// SelectRows replaces the selection. Single mode keeps only the first row.
func (t *Table) SelectRows(rows ...Row) {
	if t.selectionType == SelectionNone {
		return
	}
	if t.selectionType == SelectionSingle && len(rows) > 1 {
		rows = rows[:1]
	}
	t.selection = Selection{Selected: append([]Row(nil), rows...)}
	t.emitSelection()
}

// ClearSelection empties the selection and emits the change.
func (t *Table) ClearSelection() {
	t.selection = Selection{}
	t.emitSelection()
}

// ToggleExpandRow expands row, collapsing any other expanded row. When row
// is already expanded it is collapsed. The selection is never changed.
func (t *Table) ToggleExpandRow(row Row) {
	if row == nil {
		return
	}
	if t.IsExpanded(row) {
		t.expanded = nil
	} else {
		t.expanded = row
	}
	t.emitExpanded()
}

// UpdateSelected re-points the selection at the rows of the current data
// with the same identifiers. Rows no longer present are dropped.
func (t *Table) UpdateSelected() {
	if t.selectionRefresh == RefreshNever {
		return
	}
	prior := t.selection.Selected
	if len(prior) == 0 {
		return
	}

	refreshed := make([]Row, 0, len(prior))
	for _, selected := range prior {
		if row := t.findByIdentity(t.data, selected); row != nil {
			refreshed = append(refreshed, row)
		}
	}

	if t.selectionRefresh == RefreshOnChange && equality.Semantic.DeepEqual(prior, refreshed) {
		return
	}
	t.selection = Selection{Selected: refreshed}
	t.emitSelection()
}

// UpdateExpanded re-points the expanded row at the current data. A row no
// longer present is collapsed and nil is emitted.
func (t *Table) UpdateExpanded() {
	if t.expanded == nil || t.expandedRefresh == RefreshNever {
		return
	}
	refreshed := t.findByIdentity(t.data, t.expanded)
	if refreshed != nil && t.expandedRefresh == RefreshOnChange && equality.Semantic.DeepEqual(t.expanded, refreshed) {
		return
	}
	t.expanded = refreshed
	t.emitExpanded()
}
