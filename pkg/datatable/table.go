package datatable

import (
	"fmt"
	"strings"
	"time"

	"github.com/andri/cdtable/internal/logger"
)

const (
	// DefaultIdentifier is the row key assumed to identify rows.
	DefaultIdentifier = "id"

	// DefaultAutoReload is the reload interval offered to drivers.
	DefaultAutoReload = 5 * time.Second
)

// Hooks receive the events a table emits. Nil hooks are skipped.
type Hooks struct {
	SelectionChanged     func(Selection)
	ExpandedRowChanged   func(Row)
	FetchData            func(*FetchDataContext)
	ColumnFiltersChanged func(FiltersChangedEvent)
}

// Options configures a Table.
type Options struct {
	Columns []Column

	// ExtraFilterableColumns adds filters that are not displayed columns,
	// typically with a FilterPredicate.
	ExtraFilterableColumns []Column

	// Identifier names the prop unique across rows. It falls back to the first
	// column unless ForceIdentifier is set.
	Identifier      string
	ForceIdentifier bool

	Sorts []SortProp
	Limit int

	SelectionType     SelectionType
	SearchableObjects bool
	FilterCascade     CascadeMode

	SelectionRefresh RefreshPolicy
	ExpandedRefresh  RefreshPolicy

	// AutoReload is the interval drivers use to call ReloadData. Zero selects
	// DefaultAutoReload and a negative value disables reloading.
	AutoReload time.Duration

	// TableName is the persistence key. Derived from the columns when empty.
	TableName string
	Store     Store

	CustomClasses []CustomClass
	Hooks         Hooks
}

// StatusType classifies the table status line.
type StatusType string

const (
	StatusNone   StatusType = ""
	StatusDanger StatusType = "danger"
)

// Status is shown alongside the table.
type Status struct {
	Type    StatusType
	Message string
}

// ErrorConfig controls how a fetch failure affects the table.
type ErrorConfig struct {
	ResetData    bool
	DisplayError bool
}

// DefaultErrorConfig clears the rows and shows the error.
func DefaultErrorConfig() ErrorConfig {
	return ErrorConfig{ResetData: true, DisplayError: true}
}

// FetchDataContext is handed to the FetchData hook. The fetcher either calls
// SetData on the table or reports a failure through Error.
type FetchDataContext struct {
	ErrorConfig ErrorConfig
	table       *Table
}

// Error records a failed fetch according to the error config and refreshes
// the table.
func (c *FetchDataContext) Error(err error) {
	t := c.table
	if c.ErrorConfig.DisplayError {
		msg := "data could not be loaded"
		if err != nil {
			msg = err.Error()
		}
		t.status = Status{Type: StatusDanger, Message: msg}
	}
	if c.ErrorConfig.ResetData {
		t.data = []Row{}
	}
	logger.Debug("table fetch failed", "table", t.tableName, "error", err)
	t.UseData()
}

// Table is the engine state for one table instance.
type Table struct {
	columns         []*Column
	extraFilterable []*Column

	identifier    string
	selectionType SelectionType

	searchableObjects bool
	cascade           CascadeMode
	selectionRefresh  RefreshPolicy
	expandedRefresh   RefreshPolicy
	autoReload        time.Duration

	tableName  string
	store      Store
	userConfig UserConfig

	customClasses []CustomClass
	hooks         Hooks

	data    []Row
	rows    []Row
	search  string
	filters []*ColumnFilter
	offset  int

	selection Selection
	expanded  Row

	loading  bool
	updating bool
	status   Status
}

// New builds a table, restoring any persisted layout from opts.Store.
func New(opts Options) (*Table, error) {
	if len(opts.Columns) == 0 {
		return nil, ErrNoColumns
	}

	cascade, err := ParseCascadeMode(string(opts.FilterCascade))
	if err != nil {
		return nil, err
	}
	selectionRefresh, err := ParseRefreshPolicy(string(opts.SelectionRefresh))
	if err != nil {
		return nil, err
	}
	expandedRefresh, err := ParseRefreshPolicy(string(opts.ExpandedRefresh))
	if err != nil {
		return nil, err
	}
	selectionType, err := ParseSelectionType(string(opts.SelectionType))
	if err != nil {
		return nil, err
	}

	t := &Table{
		selectionType:     selectionType,
		searchableObjects: opts.SearchableObjects,
		cascade:           cascade,
		selectionRefresh:  selectionRefresh,
		expandedRefresh:   expandedRefresh,
		autoReload:        opts.AutoReload,
		store:             opts.Store,
		customClasses:     opts.CustomClasses,
		hooks:             opts.Hooks,
	}
	if t.autoReload == 0 {
		t.autoReload = DefaultAutoReload
	}

	for i := range opts.Columns {
		c := opts.Columns[i]
		if strings.TrimSpace(c.Prop) == "" {
			return nil, fmt.Errorf("column %d: prop is required", i)
		}
		if t.column(c.Prop) != nil {
			return nil, fmt.Errorf("column %d: duplicate prop %q", i, c.Prop)
		}
		t.columns = append(t.columns, &c)
	}
	for i := range opts.ExtraFilterableColumns {
		c := opts.ExtraFilterableColumns[i]
		t.extraFilterable = append(t.extraFilterable, &c)
	}

	t.identifier = opts.Identifier
	if t.identifier == "" {
		t.identifier = DefaultIdentifier
	}
	if !opts.ForceIdentifier && t.column(t.identifier) == nil {
		t.identifier = t.columns[0].Prop
	}

	t.tableName = opts.TableName
	if t.tableName == "" {
		t.tableName = TableNameFor(opts.Columns)
	}

	t.userConfig = UserConfig{TableName: t.tableName, Limit: opts.Limit}
	if t.userConfig.Limit < 1 {
		t.userConfig.Limit = DefaultLimit
	}
	if len(opts.Sorts) > 0 {
		t.userConfig.Sorts = append([]SortProp(nil), opts.Sorts...)
	} else {
		sortProp := t.identifier
		if t.column(sortProp) == nil {
			sortProp = t.columns[0].Prop
		}
		t.userConfig.Sorts = defaultSorts(sortProp)
	}

	stored, found := t.loadUserConfig()
	if found {
		t.applyUserConfig(stored)
	}
	t.applyLayout()
	t.syncUserConfig()
	if !found {
		if err := t.saveUserConfig(); err != nil {
			logger.Warn("failed to seed table config", "table", t.tableName, "error", err)
		}
	}

	t.InitColumnFilters()
	t.emitSelection()
	return t, nil
}

// AutoReload returns the reload interval, or zero when reloading is disabled.
func (t *Table) AutoReload() time.Duration {
	if t.autoReload < 0 {
		return 0
	}
	return t.autoReload
}

// Data returns the full row set, nil before the first load.
func (t *Table) Data() []Row {
	return t.data
}

// Rows returns the displayed rows in data order.
func (t *Table) Rows() []Row {
	return t.rows
}

// Status returns the status line.
func (t *Table) Status() Status {
	return t.status
}

// Loading reports whether a fetch was requested and no data arrived since.
func (t *Table) Loading() bool {
	return t.loading
}

// Updating reports whether a fetch is in flight.
func (t *Table) Updating() bool {
	return t.updating
}

// ReloadData asks the FetchData hook for fresh rows. It is ignored while a
// fetch is in flight.
func (t *Table) ReloadData() bool {
	return t.ReloadDataWith(DefaultErrorConfig())
}

// ReloadDataWith is ReloadData with a custom error config.
func (t *Table) ReloadDataWith(cfg ErrorConfig) bool {
	if t.updating || t.hooks.FetchData == nil {
		return false
	}
	t.updating = true
	t.loading = true
	t.hooks.FetchData(&FetchDataContext{ErrorConfig: cfg, table: t})
	return true
}

// SetData replaces the rows and refreshes every derived state.
func (t *Table) SetData(rows []Row) {
	t.data = rows
	if rows != nil {
		t.status = Status{}
	}
	t.UseData()
}

// UseData recomputes filter options, the displayed rows, the selection and
// the expanded row from the current data, and clears the fetch flags.
func (t *Table) UseData() {
	t.UpdateColumnFilterOptions()
	t.UpdateFilter()
	t.loading = false
	t.updating = false
	t.UpdateSelected()
	t.UpdateExpanded()
}

// Search returns the current search text.
func (t *Table) Search() string {
	return t.search
}

// SetSearch replaces the search text and refreshes the displayed rows.
func (t *Table) SetSearch(search string) {
	t.search = search
	t.UpdateFilter()
}

// OnClearSearch drops the search text.
func (t *Table) OnClearSearch() {
	t.SetSearch("")
}

// UpdateFilter recomputes the displayed rows: column filters first, then
// search over the result. A non-empty search returns to the first page.
func (t *Table) UpdateFilter() {
	if t.data == nil {
		return
	}
	rows := t.data
	if len(t.filters) > 0 {
		rows = t.applyColumnFilters()
	}
	if strings.TrimSpace(t.search) != "" {
		rows = Search(rows, PrepareSearch(t.search), searchableColumns(t.columns), t.searchableObjects)
		t.offset = 0
	}
	t.rows = rows
	if t.offset > 0 && t.offset >= t.PageCount() {
		t.offset = t.PageCount() - 1
	}
}
