// Package models provides Bubble Tea models for the TUI interface.
package models

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/andri/cdtable/internal/logger"
	"github.com/andri/cdtable/pkg/datatable"
	"github.com/andri/cdtable/pkg/source"
	"github.com/andri/cdtable/pkg/tui/components"
	"github.com/andri/cdtable/pkg/tui/keys"
	"github.com/andri/cdtable/pkg/tui/styles"
	"github.com/andri/cdtable/pkg/tui/terminal"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cast"
)

const (
	pickerFilterColumn = "filter-column"
	pickerFilterValue  = "filter-value"
	pickerColumns      = "columns"
	pickerLimit        = "limit"

	defaultFetchTimeout = 15 * time.Second
	pickerWidth         = 48

	// search line, status line and help line around the pane
	chromeHeight = 3
)

var limitChoices = []int{10, 25, 50, 100}

// TableModelConfig holds configuration for the table model
type TableModelConfig struct {
	// Context bounds every fetch
	Context context.Context

	Source source.Source

	// Options configures the engine. The FetchData hook is owned by the
	// model; SelectionChanged and ExpandedRowChanged are chained.
	Options datatable.Options

	FetchTimeout   time.Duration
	SearchDebounce time.Duration
	Capability     terminal.Capability
}

// ReloadMsg asks the model to fetch fresh rows.
type ReloadMsg struct{}

// FetchResultMsg carries the outcome of one fetch.
type FetchResultMsg struct {
	Rows []datatable.Row
	Err  error

	fetch *datatable.FetchDataContext
}

type autoReloadTickMsg struct{}

// searchDebounceMsg applies a query unless a newer keystroke superseded it.
type searchDebounceMsg struct {
	gen   int
	query string
}

// TableModel browses one source through a datatable.
type TableModel struct {
	config TableModelConfig
	table  *datatable.Table
	keys   keys.TableBindings
	help   help.Model
	glyphs terminal.Glyphs

	pane   *components.Pane
	search *components.SearchBar
	status *components.StatusIndicator
	modal  *components.Modal

	// filterProp is the column whose options the value picker shows
	filterProp string

	cursor       int
	sortCursor   int
	searchGen    int
	pendingFetch tea.Cmd
	selected     int
	notice       string

	width  int
	height int
}

// NewTableModel creates the model and its table.
func NewTableModel(cfg TableModelConfig) (*TableModel, error) {
	if cfg.Source == nil {
		return nil, errors.New("table model requires a source")
	}
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaultFetchTimeout
	}
	cfg.SearchDebounce = max(cfg.SearchDebounce, 0)

	glyphs := terminal.GetGlyphs(cfg.Capability)
	m := &TableModel{
		config: cfg,
		keys:   keys.DefaultTableBindings(),
		help:   help.New(),
		glyphs: glyphs,
		pane:   components.NewPane(components.PaneConfig{Title: cfg.Source.Name()}),
		search: components.NewSearchBar(),
		status: components.NewStatusIndicator(glyphs),
	}
	m.pane.SetActive(true)

	opts := cfg.Options
	chained := opts.Hooks
	opts.Hooks.FetchData = func(fc *datatable.FetchDataContext) {
		m.pendingFetch = m.fetchCmd(fc)
	}
	opts.Hooks.SelectionChanged = func(sel datatable.Selection) {
		m.selected = len(sel.Selected)
		if chained.SelectionChanged != nil {
			chained.SelectionChanged(sel)
		}
	}
	opts.Hooks.ExpandedRowChanged = func(row datatable.Row) {
		if chained.ExpandedRowChanged != nil {
			chained.ExpandedRowChanged(row)
		}
	}

	table, err := datatable.New(opts)
	if err != nil {
		return nil, fmt.Errorf("create table for %s: %w", cfg.Source.Name(), err)
	}
	m.table = table
	return m, nil
}

// Table returns the engine behind the model.
func (m *TableModel) Table() *datatable.Table {
	return m.table
}

// Init implements tea.Model
func (m *TableModel) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return ReloadMsg{} },
		m.scheduleAutoReload(),
	)
}

// SetSize updates the terminal dimensions.
func (m *TableModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.pane.SetSize(width, max(height-chromeHeight, 4))
	m.search.SetWidth(width)
	m.help.Width = width
	if m.modal != nil {
		m.modal.SetSize(width, height)
	}
}

// reload runs the FetchData hook and returns the fetch it scheduled. A fetch
// already in flight makes this a no-op.
func (m *TableModel) reload() tea.Cmd {
	m.pendingFetch = nil
	if !m.table.ReloadData() {
		return nil
	}
	cmd := m.pendingFetch
	m.pendingFetch = nil
	return tea.Batch(cmd, m.refreshStatus())
}

func (m *TableModel) fetchCmd(fc *datatable.FetchDataContext) tea.Cmd {
	src := m.config.Source
	parent := m.config.Context
	timeout := m.config.FetchTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		rows, err := src.Fetch(ctx)
		return FetchResultMsg{Rows: rows, Err: err, fetch: fc}
	}
}

func (m *TableModel) scheduleAutoReload() tea.Cmd {
	interval := m.table.AutoReload()
	if interval <= 0 {
		return nil
	}
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return autoReloadTickMsg{}
	})
}

// Update implements tea.Model
func (m *TableModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)

	case ReloadMsg:
		cmds = append(cmds, m.reload())

	case autoReloadTickMsg:
		cmds = append(cmds, m.reload(), m.scheduleAutoReload())

	case FetchResultMsg:
		m.applyFetch(msg)
		cmds = append(cmds, m.refreshStatus())

	case components.StatusTickMsg:
		_, cmd := m.status.Update(msg)
		cmds = append(cmds, cmd)

	case components.SearchChangedMsg:
		m.searchGen++
		if m.config.SearchDebounce == 0 {
			cmds = append(cmds, m.applySearch(msg.Query))
			break
		}
		pending := searchDebounceMsg{gen: m.searchGen, query: msg.Query}
		cmds = append(cmds, tea.Tick(m.config.SearchDebounce, func(time.Time) tea.Msg {
			return pending
		}))

	case searchDebounceMsg:
		if msg.gen == m.searchGen {
			cmds = append(cmds, m.applySearch(msg.query))
		}

	case components.SearchAppliedMsg:
		m.searchGen++
		cmds = append(cmds, m.applySearch(msg.Query))

	case components.SearchClearedMsg:
		m.searchGen++
		m.table.OnClearSearch()
		m.cursor = 0
		cmds = append(cmds, m.refreshStatus())

	case components.PickerChosenMsg:
		cmds = append(cmds, m.handlePick(msg))

	case components.PickerClosedMsg, components.ModalCloseMsg:
		m.modal = nil

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))
	}

	return m, tea.Batch(cmds...)
}

func (m *TableModel) applyFetch(msg FetchResultMsg) {
	if msg.Err != nil {
		logger.Warn("fetch failed", "source", m.config.Source.Name(), "error", msg.Err)
		if msg.fetch != nil {
			msg.fetch.Error(msg.Err)
		}
	} else {
		logger.Debug("fetched rows", "source", m.config.Source.Name(), "rows", len(msg.Rows))
		m.table.SetData(msg.Rows)
	}
	m.clampCursor()
}

func (m *TableModel) applySearch(query string) tea.Cmd {
	m.table.SetSearch(query)
	m.clampCursor()
	return m.refreshStatus()
}

func (m *TableModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.modal != nil {
		_, cmd := m.modal.Update(msg)
		return cmd
	}
	if m.search.Active() {
		return m.search.Update(msg)
	}

	m.notice = ""
	view := m.table.View()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		m.cursor = max(m.cursor-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.cursor = min(m.cursor+1, max(len(view)-1, 0))
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = max(len(view)-1, 0)
	case key.Matches(msg, m.keys.PrevPage):
		m.table.SetOffset(m.table.Offset() - 1)
		m.cursor = 0
	case key.Matches(msg, m.keys.NextPage):
		m.table.SetOffset(m.table.Offset() + 1)
		m.cursor = 0
	case key.Matches(msg, m.keys.Search):
		m.search.SetValue(m.table.Search())
		return m.search.Focus()
	case key.Matches(msg, m.keys.Filter):
		m.openFilterPicker()
	case key.Matches(msg, m.keys.ClearFilters):
		m.table.OnClearFilters()
		m.clampCursor()
	case key.Matches(msg, m.keys.Columns):
		m.openModal("Columns", components.NewTogglePicker(pickerColumns, m.columnItems(), m.glyphs.Check, m.glyphs.Cross))
	case key.Matches(msg, m.keys.Limit):
		m.openLimitPicker()
	case key.Matches(msg, m.keys.SortPrev):
		m.sortCursor = max(m.sortCursor-1, 0)
	case key.Matches(msg, m.keys.SortNext):
		m.sortCursor = min(m.sortCursor+1, max(len(m.table.VisibleColumns())-1, 0))
	case key.Matches(msg, m.keys.Sort):
		m.toggleSort()
	case key.Matches(msg, m.keys.Select):
		if row := m.currentRow(view); row != nil {
			m.table.ClickRow(row)
		}
	case key.Matches(msg, m.keys.Expand):
		if row := m.currentRow(view); row != nil {
			m.table.ToggleExpandRow(row)
		}
	case key.Matches(msg, m.keys.Reload):
		return m.reload()
	}
	return m.refreshStatus()
}

func (m *TableModel) currentRow(view []datatable.Row) datatable.Row {
	if m.cursor < 0 || m.cursor >= len(view) {
		return nil
	}
	return view[m.cursor]
}

func (m *TableModel) clampCursor() {
	m.cursor = min(m.cursor, max(len(m.table.View())-1, 0))
	m.sortCursor = min(m.sortCursor, max(len(m.table.VisibleColumns())-1, 0))
}

func (m *TableModel) toggleSort() {
	visible := m.table.VisibleColumns()
	if m.sortCursor >= len(visible) {
		return
	}
	if err := m.table.ToggleSort(visible[m.sortCursor].Prop); err != nil {
		m.notice = err.Error()
		return
	}
	m.cursor = 0
}

func (m *TableModel) openModal(title string, picker *components.Picker) {
	m.modal = components.NewModal(components.ModalConfig{Title: title, Width: pickerWidth}, picker)
	m.modal.SetSize(m.width, m.height)
}

func (m *TableModel) openFilterPicker() {
	filters := m.table.Filters()
	if len(filters) == 0 {
		m.notice = "no filterable columns"
		return
	}
	items := make([]components.PickerItem, 0, len(filters))
	for _, f := range filters {
		label := columnTitle(f.Column)
		if f.Active() {
			label += ": " + f.Value.Formatted
		}
		items = append(items, components.PickerItem{Label: label, Value: f.Column.Prop, Checked: f.Active()})
	}
	m.openModal("Filter by", components.NewPicker(pickerFilterColumn, items, m.glyphs.Selected, " "))
}

func (m *TableModel) openFilterValuePicker(f *datatable.ColumnFilter) {
	m.filterProp = f.Column.Prop
	items := make([]components.PickerItem, 0, len(f.Options)+1)
	items = append(items, components.PickerItem{Label: "any", Checked: !f.Active()})
	for _, opt := range f.Options {
		items = append(items, components.PickerItem{
			Label:   opt.Formatted,
			Value:   opt.Raw,
			Checked: f.Active() && f.Value.Raw == opt.Raw,
		})
	}
	m.openModal(columnTitle(f.Column), components.NewPicker(pickerFilterValue, items, m.glyphs.Selected, " "))
}

func (m *TableModel) openLimitPicker() {
	limits := limitChoices
	if !slices.Contains(limits, m.table.Limit()) {
		limits = append(slices.Clone(limits), m.table.Limit())
		slices.Sort(limits)
	}
	items := make([]components.PickerItem, 0, len(limits))
	for _, limit := range limits {
		items = append(items, components.PickerItem{
			Label:   fmt.Sprintf("%d rows", limit),
			Value:   strconv.Itoa(limit),
			Checked: limit == m.table.Limit(),
		})
	}
	m.openModal("Page size", components.NewPicker(pickerLimit, items, m.glyphs.Selected, " "))
}

func (m *TableModel) columnItems() []components.PickerItem {
	columns := m.table.Columns()
	items := make([]components.PickerItem, 0, len(columns))
	for _, c := range columns {
		items = append(items, components.PickerItem{Label: columnTitle(c), Value: c.Prop, Checked: !c.IsHidden})
	}
	return items
}

func (m *TableModel) handlePick(msg components.PickerChosenMsg) tea.Cmd {
	switch msg.ID {
	case pickerFilterColumn:
		f, err := m.table.Filter(msg.Item.Value)
		if err != nil {
			m.modal = nil
			m.notice = err.Error()
			break
		}
		m.openFilterValuePicker(f)

	case pickerFilterValue:
		m.modal = nil
		f, err := m.table.Filter(m.filterProp)
		if err != nil {
			m.notice = err.Error()
			break
		}
		if msg.Index == 0 {
			m.table.OnChangeFilter(f, nil)
		} else if i := msg.Index - 1; i < len(f.Options) {
			opt := f.Options[i]
			m.table.OnChangeFilter(f, &opt)
		}
		m.clampCursor()

	case pickerColumns:
		if err := m.table.ToggleColumn(msg.Item.Value); err != nil {
			m.notice = fmt.Sprintf("layout not saved: %v", err)
		}
		// hiding the last visible column is refused, so resync the marks
		if m.modal != nil {
			if p, ok := m.modal.Content().(*components.Picker); ok {
				p.SetItems(m.columnItems())
			}
		}
		m.clampCursor()

	case pickerLimit:
		m.modal = nil
		if _, err := m.table.SetLimit(msg.Item.Value); err != nil {
			m.notice = fmt.Sprintf("layout not saved: %v", err)
		}
		m.cursor = 0
	}
	return m.refreshStatus()
}

// refreshStatus derives the status line and pane badge from the table.
func (m *TableModel) refreshStatus() tea.Cmd {
	m.pane.SetBadge(fmt.Sprintf("%d/%d", len(m.table.Rows()), len(m.table.Data())))

	if m.table.Updating() {
		return m.status.Set(components.StatusTypeRunning, "loading", m.config.Source.Name())
	}
	if st := m.table.Status(); st.Type == datatable.StatusDanger {
		return m.status.Set(components.StatusTypeError, st.Message, "")
	}
	if m.notice != "" {
		return m.status.Set(components.StatusTypeWarning, m.notice, "")
	}
	return m.status.Set(components.StatusTypeInfo, m.summary(), "")
}

func (m *TableModel) summary() string {
	parts := []string{fmt.Sprintf("%d rows", len(m.table.Rows()))}
	if pages := m.table.PageCount(); pages > 1 {
		parts = append(parts, fmt.Sprintf("page %d/%d", m.table.Offset()+1, pages))
	}
	if s := m.table.Search(); s != "" {
		parts = append(parts, fmt.Sprintf("search %q", s))
	}
	for _, f := range m.table.Filters() {
		if f.Active() {
			parts = append(parts, fmt.Sprintf("%s=%s", f.Column.Prop, f.Value.Formatted))
		}
	}
	if m.selected > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", m.selected))
	}
	return strings.Join(parts, ", ")
}

// View implements tea.Model
func (m *TableModel) View() string {
	if m.modal != nil && m.width > 0 && m.height > 0 {
		return m.modal.View()
	}

	contentWidth, _ := m.pane.ContentSize()
	body := m.renderTable(contentWidth)
	if expanded := m.renderExpanded(contentWidth); expanded != "" {
		body = lipgloss.JoinVertical(lipgloss.Left, body, "", expanded)
	}

	lines := []string{m.searchLine(), m.pane.View(body), m.status.View()}
	if warning := terminal.SizeWarning(m.width, m.height); warning != "" && m.width > 0 {
		lines[2] = styles.StyleWarning.Render(warning)
	}
	lines = append(lines, m.help.View(m.keys))
	return strings.Join(lines, "\n")
}

func (m *TableModel) searchLine() string {
	if m.search.Active() {
		return m.search.View()
	}
	if s := m.table.Search(); s != "" {
		return styles.StyleHighlight.Render("/") + s
	}
	return styles.StyleSubtle.Render("press / to search")
}

func (m *TableModel) renderTable(width int) string {
	if m.table.Loading() && m.table.Data() == nil {
		return styles.StyleSubtle.Render("loading...")
	}

	visible := m.table.VisibleColumns()
	sorts := m.table.Sorts()
	columns := make([]components.TableColumn, len(visible))
	for i, c := range visible {
		title := columnTitle(c)
		if len(sorts) > 0 && sorts[0].Prop == c.Prop {
			glyph := m.glyphs.SortAsc
			if sorts[0].Dir == datatable.SortDesc {
				glyph = m.glyphs.SortDesc
			}
			title += " " + glyph
		}
		columns[i] = components.TableColumn{Title: title, Grow: c.FlexGrow, Active: i == m.sortCursor}
	}

	t := components.NewTable(columns)
	t.SetWidth(width)

	view := m.table.View()
	if len(view) == 0 {
		return t.View() + "\n" + styles.StyleSubtle.Render("no rows")
	}

	rows := make([]components.TableRow, 0, len(view))
	for i, row := range view {
		cells := make([]components.TableCell, len(visible))
		for j, c := range visible {
			cells[j] = m.renderCell(c, row)
		}
		var marker string
		if m.table.IsSelected(row) {
			marker += m.glyphs.Selected
		}
		if m.table.IsExpanded(row) {
			marker += m.glyphs.Expanded
		}
		rows = append(rows, components.TableRow{Marker: marker, Cells: cells, Highlighted: i == m.cursor})
	}
	t.SetRows(rows)
	return t.View()
}

func (m *TableModel) renderCell(c *datatable.Column, row datatable.Row) components.TableCell {
	cell := components.TableCell{Text: c.CellText(row)}
	raw, _ := datatable.Lookup(row, c.Prop)

	var style lipgloss.Style
	switch c.CellTransformation { //nolint:exhaustive // remaining transformations render as text
	case datatable.CellBold:
		style = lipgloss.NewStyle().Bold(true)
	case datatable.CellBadge:
		style = styles.StyleBadge
	case datatable.CellCheckIcon:
		cell.Text = m.glyphs.Cross
		if cast.ToBool(raw) {
			cell.Text = m.glyphs.Check
		}
		return cell
	case datatable.CellClasses, datatable.CellExecuting:
		classes, err := m.table.UseCustomClass(raw)
		if err != nil {
			return cell
		}
		s, ok := styles.ClassStyle(classes)
		if !ok {
			return cell
		}
		style = s
	default:
		return cell
	}
	cell.Style = &style
	return cell
}

func (m *TableModel) renderExpanded(width int) string {
	row := m.table.Expanded()
	if row == nil {
		return ""
	}
	kv := components.NewKeyValueTable()
	kv.SetWidth(width)
	for _, c := range m.table.Columns() {
		cell := m.renderCell(c, row)
		if cell.Style != nil {
			kv.AddStyled(columnTitle(c), cell.Text, *cell.Style)
			continue
		}
		kv.Add(columnTitle(c), cell.Text)
	}
	return kv.View()
}

func columnTitle(c *datatable.Column) string {
	if c.Name != "" {
		return c.Name
	}
	return c.Prop
}

// Run starts the browser in the alternate screen and blocks until it quits.
func Run(cfg TableModelConfig) error {
	m, err := NewTableModel(cfg)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.config.Context))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run table browser: %w", err)
	}
	return nil
}
