package datatable_test

import (
	"maps"
	"testing"

	"github.com/andri/cdtable/pkg/datatable"
)

type recorder struct {
	selections []datatable.Selection
	expanded   []datatable.Row
}

func (r *recorder) hooks(o *datatable.Options) {
	o.Hooks.SelectionChanged = func(s datatable.Selection) { r.selections = append(r.selections, s) }
	o.Hooks.ExpandedRowChanged = func(row datatable.Row) { r.expanded = append(r.expanded, row) }
}

func (r *recorder) reset() {
	r.selections = nil
	r.expanded = nil
}

func TestNewEmitsInitialSelection(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	newTable(t, -1, rec.hooks)

	if len(rec.selections) != 1 || rec.selections[0].HasSelection() {
		t.Fatalf("expected one empty selection event, got %+v", rec.selections)
	}
}

func TestSelectionDerivedFlags(t *testing.T) {
	t.Parallel()

	rows := fakeRows(2)
	cases := []struct {
		name                  string
		sel                   datatable.Selection
		has, single, multiple bool
	}{
		{name: "empty", sel: datatable.Selection{}},
		{name: "one", sel: datatable.Selection{Selected: rows[:1]}, has: true, single: true},
		{name: "two", sel: datatable.Selection{Selected: rows}, has: true, multiple: true},
	}
	for _, tc := range cases {
		if tc.sel.HasSelection() != tc.has || tc.sel.HasSingleSelection() != tc.single || tc.sel.HasMultiSelection() != tc.multiple {
			t.Errorf("%s: flags = %v/%v/%v", tc.name, tc.sel.HasSelection(), tc.sel.HasSingleSelection(), tc.sel.HasMultiSelection())
		}
	}
}

func TestClickRowSingleToggles(t *testing.T) {
	t.Parallel()

	table, _ := newTable(t, 10, nil)
	rows := table.Data()

	table.ClickRow(rows[1])
	if first := table.Selection().First(); first == nil || first["a"] != 1 {
		t.Fatalf("selection = %v, want row 1", table.Selection().Selected)
	}

	table.ClickRow(rows[3])
	if first := table.Selection().First(); !table.Selection().HasSingleSelection() || first["a"] != 3 {
		t.Fatalf("selection = %v, want only row 3", table.Selection().Selected)
	}

	table.ClickRow(rows[3])
	if table.Selection().HasSelection() {
		t.Fatalf("clicking the selected row should deselect it, got %v", table.Selection().Selected)
	}
}

func TestClickRowMulti(t *testing.T) {
	t.Parallel()

	table, _ := newTable(t, 10, func(o *datatable.Options) {
		o.SelectionType = datatable.SelectionMulti
	})
	rows := table.Data()

	table.ClickRow(rows[1])
	table.ClickRow(rows[2])
	if !table.Selection().HasMultiSelection() {
		t.Fatalf("expected two selected rows, got %d", len(table.Selection().Selected))
	}

	table.ClickRow(rows[1])
	if first := table.Selection().First(); !table.Selection().HasSingleSelection() || first["a"] != 2 {
		t.Fatalf("selection = %v, want only row 2", table.Selection().Selected)
	}
}

func TestClickRowWithoutSelectionType(t *testing.T) {
	t.Parallel()

	table, _ := newTable(t, 3, func(o *datatable.Options) {
		o.SelectionType = datatable.SelectionNone
	})
	table.ClickRow(table.Data()[0])

	if table.Selection().HasSelection() {
		t.Fatal("rows should not be selectable")
	}
}

func TestUpdateSelectedPolicies(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		policy      datatable.RefreshPolicy
		mutate      bool
		wantEmits   int
		wantCurrent bool
	}{
		{name: "never unchanged", policy: datatable.RefreshNever, wantEmits: 0},
		{name: "never changed", policy: datatable.RefreshNever, mutate: true, wantEmits: 0},
		{name: "onChange unchanged", policy: datatable.RefreshOnChange, wantEmits: 0},
		{name: "onChange changed", policy: datatable.RefreshOnChange, mutate: true, wantEmits: 1, wantCurrent: true},
		{name: "always unchanged", policy: datatable.RefreshAlways, wantEmits: 1, wantCurrent: true},
		{name: "always changed", policy: datatable.RefreshAlways, mutate: true, wantEmits: 1, wantCurrent: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec := &recorder{}
			table, _ := newTable(t, 10, func(o *datatable.Options) {
				rec.hooks(o)
				o.SelectionRefresh = tc.policy
			})
			clone := maps.Clone(table.Data()[1])
			table.SelectRows(clone)
			rec.reset()

			if tc.mutate {
				table.Data()[1]["d"] = "changed"
			}
			table.UpdateSelected()

			if len(rec.selections) != tc.wantEmits {
				t.Fatalf("emits = %d, want %d", len(rec.selections), tc.wantEmits)
			}
			selected := table.Selection().First()
			if selected == nil {
				t.Fatal("selection should be kept")
			}
			_, hasD := selected["d"]
			if tc.mutate && hasD != tc.wantCurrent {
				t.Fatalf("selected row refreshed = %v, want %v", hasD, tc.wantCurrent)
			}
		})
	}
}

func TestUpdateSelectedDropsMissingRows(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	table, _ := newTable(t, 10, func(o *datatable.Options) {
		rec.hooks(o)
		o.SelectionType = datatable.SelectionMulti
	})
	table.SelectRows(table.Data()[2], table.Data()[8])
	rec.reset()

	table.SetData(fakeRows(5))

	if len(rec.selections) != 1 {
		t.Fatalf("emits = %d, want 1", len(rec.selections))
	}
	sel := table.Selection()
	if !sel.HasSingleSelection() || sel.First()["a"] != 2 {
		t.Fatalf("selection = %v, want only row 2", sel.Selected)
	}
}

func TestSetDataRepointsSelection(t *testing.T) {
	t.Parallel()

	table, _ := newTable(t, 5, func(o *datatable.Options) {
		o.SelectionRefresh = datatable.RefreshAlways
	})
	table.ClickRow(table.Data()[3])

	fresh := fakeRows(5)
	fresh[3]["b"] = 999
	table.SetData(fresh)

	if got := table.Selection().First()["b"]; got != 999 {
		t.Fatalf("selected b = %v, want 999", got)
	}
}

func TestToggleExpandRow(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	table, _ := newTable(t, 10, rec.hooks)
	rows := table.Data()
	table.ClickRow(rows[5])
	rec.reset()

	table.ToggleExpandRow(rows[1])
	if table.Expanded()["a"] != 1 || len(rec.expanded) != 1 || rec.expanded[0]["a"] != 1 {
		t.Fatalf("expected row 1 expanded, got %v (events %v)", table.Expanded(), rec.expanded)
	}

	table.ToggleExpandRow(rows[2])
	if table.Expanded()["a"] != 2 || len(rec.expanded) != 2 {
		t.Fatalf("expanding another row should collapse the first, got %v", table.Expanded())
	}

	table.ToggleExpandRow(rows[2])
	if table.Expanded() != nil || len(rec.expanded) != 3 || rec.expanded[2] != nil {
		t.Fatalf("toggling the expanded row should collapse it, got %v (events %v)", table.Expanded(), rec.expanded)
	}

	if len(rec.selections) != 0 || table.Selection().First()["a"] != 5 {
		t.Fatalf("expansion must not touch the selection, got %v", table.Selection().Selected)
	}
}

func TestUpdateExpandedPolicies(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		policy    datatable.RefreshPolicy
		mutate    bool
		wantEmits int
	}{
		{name: "never", policy: datatable.RefreshNever, mutate: true, wantEmits: 0},
		{name: "onChange unchanged", policy: datatable.RefreshOnChange, wantEmits: 0},
		{name: "onChange changed", policy: datatable.RefreshOnChange, mutate: true, wantEmits: 1},
		{name: "always", policy: datatable.RefreshAlways, wantEmits: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec := &recorder{}
			table, _ := newTable(t, 10, func(o *datatable.Options) {
				rec.hooks(o)
				o.ExpandedRefresh = tc.policy
			})
			table.ToggleExpandRow(maps.Clone(table.Data()[1]))
			rec.reset()

			if tc.mutate {
				table.Data()[1]["d"] = "changed"
			}
			table.UpdateExpanded()

			if len(rec.expanded) != tc.wantEmits {
				t.Fatalf("emits = %d, want %d", len(rec.expanded), tc.wantEmits)
			}
			if table.Expanded() == nil {
				t.Fatal("expanded row should be kept")
			}
		})
	}
}

func TestUpdateExpandedClearsMissingRow(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	table, _ := newTable(t, 10, rec.hooks)
	table.ToggleExpandRow(table.Data()[9])
	rec.reset()

	table.SetData(fakeRows(3))

	if table.Expanded() != nil {
		t.Fatalf("expanded row should be cleared, got %v", table.Expanded())
	}
	if len(rec.expanded) != 1 || rec.expanded[0] != nil {
		t.Fatalf("expected a single nil event, got %v", rec.expanded)
	}
}

func TestIdentifierMatchesAcrossNumericTypes(t *testing.T) {
	t.Parallel()

	table, err := datatable.New(datatable.Options{
		Columns:       []datatable.Column{{Prop: "id", Name: "ID"}, {Prop: "name", Name: "Name"}},
		SelectionType: datatable.SelectionSingle,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	table.SetData([]datatable.Row{{"id": 1, "name": "one"}})
	table.ClickRow(table.Data()[0])

	// Rows decoded from JSON carry float64 identifiers.
	table.SetData([]datatable.Row{{"id": float64(1), "name": "uno"}})

	if got := table.Selection().First()["name"]; got != "uno" {
		t.Fatalf("selected name = %v, want uno", got)
	}
}

func TestIsSelectedAndExpandedMatchByIdentity(t *testing.T) {
	t.Parallel()

	table, _ := newTable(t, 4, nil)
	rows := table.Data()
	table.ClickRow(rows[2])
	table.ToggleExpandRow(rows[1])

	fresh := maps.Clone(rows[2])
	if !table.IsSelected(fresh) || table.IsSelected(rows[1]) {
		t.Fatal("selection should match rows by identifier")
	}
	if !table.IsExpanded(maps.Clone(rows[1])) || table.IsExpanded(rows[2]) {
		t.Fatal("expanded row should match by identifier")
	}
}
