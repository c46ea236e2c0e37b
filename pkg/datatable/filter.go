package datatable

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// CascadeMode selects which active filters narrow the rows a filter derives
// its options from.
type CascadeMode string

const (
	// CascadePreceding narrows filter i by the active filters before it.
	CascadePreceding CascadeMode = "preceding"
	// CascadeOthers narrows filter i by every other active filter.
	CascadeOthers CascadeMode = "others"
	// CascadeNone derives every filter's options from the full row set.
	CascadeNone CascadeMode = "none"
)

// ParseCascadeMode validates a cascade mode name. Empty selects CascadePreceding.
func ParseCascadeMode(s string) (CascadeMode, error) {
	switch CascadeMode(strings.TrimSpace(s)) {
	case "", CascadePreceding:
		return CascadePreceding, nil
	case CascadeOthers:
		return CascadeOthers, nil
	case CascadeNone:
		return CascadeNone, nil
	}
	return "", fmt.Errorf("%w: cascade mode %q", ErrInvalidPolicy, s)
}

// FilterOption is one selectable filter value.
type FilterOption struct {
	Raw       string `json:"raw"`
	Formatted string `json:"formatted"`
}

// ColumnFilter is a discrete-value filter over one column.
type ColumnFilter struct {
	Column  *Column
	Options []FilterOption
	Value   *FilterOption
}

// Active reports whether a value is selected.
func (f *ColumnFilter) Active() bool {
	return f.Value != nil
}

func (f *ColumnFilter) static() bool {
	return len(f.Column.FilterOptions) > 0
}

func (f *ColumnFilter) option(raw string) (FilterOption, bool) {
	for _, opt := range f.Options {
		if opt.Raw == raw {
			return opt, true
		}
	}
	return FilterOption{}, false
}

// matches applies the filter predicate to a row. Inactive filters match everything.
func (f *ColumnFilter) matches(row Row) bool {
	if f.Value == nil {
		return true
	}
	if f.Column.FilterPredicate != nil {
		return f.Column.FilterPredicate(row, f.Value.Raw)
	}
	v, ok := Lookup(row, f.Column.Prop)
	if !ok {
		return false
	}
	return Stringify(v) == f.Value.Raw
}

// AppliedFilter describes an active filter in a ColumnFiltersChanged event.
type AppliedFilter struct {
	Name  string       `json:"name"`
	Prop  string       `json:"prop"`
	Value FilterOption `json:"value"`
}

// FiltersChangedEvent is emitted each time the filter layer runs.
type FiltersChangedEvent struct {
	Filters []AppliedFilter
	// Data holds the rows that passed every active filter.
	Data []Row
	// DataOut holds the rows removed by a filter.
	DataOut []Row
}

func staticOptions(values []string) []FilterOption {
	opts := make([]FilterOption, 0, len(values))
	for _, v := range values {
		opts = append(opts, FilterOption{Raw: v, Formatted: v})
	}
	return opts
}

// InitColumnFilters rebuilds the filter list from the filterable columns,
// followed by the extra filterable columns.
func (t *Table) InitColumnFilters() {
	filters := make([]*ColumnFilter, 0)
	add := func(c *Column) {
		f := &ColumnFilter{Column: c}
		if f.static() {
			f.Options = staticOptions(c.FilterOptions)
		}
		if c.FilterInitValue != "" {
			f.Value = &FilterOption{Raw: c.FilterInitValue, Formatted: c.FilterInitValue}
			if opt, ok := f.option(c.FilterInitValue); ok {
				f.Value = &opt
			}
		}
		filters = append(filters, f)
	}
	for _, c := range t.columns {
		if c.Filterable {
			add(c)
		}
	}
	for _, c := range t.extraFilterable {
		add(c)
	}
	t.filters = filters
}

// Filters returns the column filters in evaluation order.
func (t *Table) Filters() []*ColumnFilter {
	return t.filters
}

// Filter returns the filter for a column prop.
func (t *Table) Filter(prop string) (*ColumnFilter, error) {
	for _, f := range t.filters {
		if f.Column.Prop == prop {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrFilterNotFound, prop)
}

// UpdateColumnFilterOptions recomputes the option list of every filter
// without a static override. A selected value that is no longer offered is
// cleared.
func (t *Table) UpdateColumnFilterOptions() {
	if t.data == nil {
		return
	}

	narrowed := t.data
	for i, f := range t.filters {
		source := t.data
		switch t.cascade {
		case CascadePreceding:
			source = narrowed
		case CascadeOthers:
			source = t.rowsPassing(i)
		}

		if !f.static() {
			f.Options = distinctOptions(source, f.Column)
		}
		if f.Value != nil {
			if opt, ok := f.option(f.Value.Raw); ok {
				f.Value = &opt
			} else {
				f.Value = nil
			}
		}
		if f.Value != nil && t.cascade == CascadePreceding {
			narrowed = filterRows(narrowed, f.matches)
		}
	}
}

// rowsPassing returns the data narrowed by every active filter except skip.
func (t *Table) rowsPassing(skip int) []Row {
	rows := t.data
	for j, other := range t.filters {
		if j == skip || other.Value == nil {
			continue
		}
		rows = filterRows(rows, other.matches)
	}
	return rows
}

// distinctOptions collects the filterable values of a column, sorted by raw value.
func distinctOptions(rows []Row, c *Column) []FilterOption {
	seen := make(map[string]struct{})
	opts := make([]FilterOption, 0)
	for _, row := range rows {
		v, ok := Lookup(row, c.Prop)
		if !ok || !filterable(v) {
			continue
		}
		raw := Stringify(v)
		if _, dup := seen[raw]; dup {
			continue
		}
		seen[raw] = struct{}{}

		formatted := raw
		if c.Pipe != nil {
			formatted = Stringify(c.Pipe(v))
		}
		opts = append(opts, FilterOption{Raw: raw, Formatted: formatted})
	}
	slices.SortFunc(opts, func(a, b FilterOption) int {
		return strings.Compare(a.Raw, b.Raw)
	})
	return opts
}

func filterable(v any) bool {
	switch val := v.(type) {
	case string:
		return val != ""
	case bool:
		return true
	case time.Time:
		return !val.IsZero()
	}
	return isFiniteNumber(v)
}

// OnChangeFilter selects opt on f. Selecting the current value again, or
// passing nil, clears the filter. Options and displayed rows are recomputed.
func (t *Table) OnChangeFilter(f *ColumnFilter, opt *FilterOption) {
	switch {
	case opt == nil:
		f.Value = nil
	case f.Value != nil && f.Value.Raw == opt.Raw:
		f.Value = nil
	default:
		selected := *opt
		f.Value = &selected
	}
	t.UpdateColumnFilterOptions()
	t.UpdateFilter()
}

// SetFilterValue selects the option with the given raw value on the filter
// for prop. An empty raw value clears the filter.
func (t *Table) SetFilterValue(prop, raw string) error {
	f, err := t.Filter(prop)
	if err != nil {
		return err
	}
	if raw == "" {
		t.OnChangeFilter(f, nil)
		return nil
	}
	opt, ok := f.option(raw)
	if !ok {
		return fmt.Errorf("%w: %s=%s", ErrFilterOptionNotFound, prop, raw)
	}
	if f.Value != nil && f.Value.Raw == raw {
		return nil
	}
	t.OnChangeFilter(f, &opt)
	return nil
}

// OnClearFilters clears every column filter.
func (t *Table) OnClearFilters() {
	for _, f := range t.filters {
		f.Value = nil
	}
	t.UpdateColumnFilterOptions()
	t.UpdateFilter()
}

// applyColumnFilters narrows the data by every active filter, emits the
// filters-changed event and drops a selection that was filtered out.
func (t *Table) applyColumnFilters() []Row {
	var (
		applied []AppliedFilter
		data    = t.data
		dataOut []Row
	)
	for _, f := range t.filters {
		if f.Value == nil {
			continue
		}
		applied = append(applied, AppliedFilter{Name: f.Column.Name, Prop: f.Column.Prop, Value: *f.Value})
		kept := make([]Row, 0, len(data))
		for _, row := range data {
			if f.matches(row) {
				kept = append(kept, row)
			} else {
				dataOut = append(dataOut, row)
			}
		}
		data = kept
	}

	if t.hooks.ColumnFiltersChanged != nil {
		t.hooks.ColumnFiltersChanged(FiltersChangedEvent{Filters: applied, Data: data, DataOut: dataOut})
	}

	for _, selected := range t.selection.Selected {
		if t.containsIdentity(dataOut, selected) {
			t.selection = Selection{}
			t.emitSelection()
			break
		}
	}
	return data
}
