package datatable_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/andri/cdtable/pkg/datatable"
)

func TestReloadDataEmitsContext(t *testing.T) {
	t.Parallel()

	var contexts []*datatable.FetchDataContext
	table, _ := newTable(t, 10, func(o *datatable.Options) {
		o.Hooks.FetchData = func(ctx *datatable.FetchDataContext) { contexts = append(contexts, ctx) }
	})

	if !table.ReloadData() {
		t.Fatal("ReloadData() should issue a fetch")
	}
	if len(contexts) != 1 || !table.Updating() || !table.Loading() {
		t.Fatalf("contexts=%d updating=%v loading=%v", len(contexts), table.Updating(), table.Loading())
	}
	if got := contexts[0].ErrorConfig; got != datatable.DefaultErrorConfig() {
		t.Errorf("ErrorConfig = %+v, want defaults", got)
	}

	if table.ReloadData() {
		t.Fatal("ReloadData() must be ignored while a fetch is in flight")
	}
	if len(contexts) != 1 {
		t.Fatalf("contexts = %d, want 1", len(contexts))
	}

	table.SetData(fakeRows(3))
	if table.Updating() || table.Loading() {
		t.Fatal("SetData should clear the fetch flags")
	}
	if !table.ReloadData() || len(contexts) != 2 {
		t.Fatal("a new fetch should be allowed after data arrived")
	}
}

func TestReloadDataWithoutHook(t *testing.T) {
	t.Parallel()

	table, _ := newTable(t, 1, nil)
	if table.ReloadData() {
		t.Fatal("ReloadData() without a FetchData hook should do nothing")
	}
}

func TestFetchErrorResetsData(t *testing.T) {
	t.Parallel()

	table, _ := newTable(t, 10, func(o *datatable.Options) {
		o.Hooks.FetchData = func(ctx *datatable.FetchDataContext) { ctx.Error(errors.New("boom")) }
	})

	table.ReloadData()

	if len(table.Data()) != 0 || len(table.Rows()) != 0 {
		t.Fatalf("data should be reset, got %d rows", len(table.Data()))
	}
	if table.Updating() || table.Loading() {
		t.Fatal("fetch flags should be cleared after an error")
	}
	status := table.Status()
	if status.Type != datatable.StatusDanger || status.Message != "boom" {
		t.Fatalf("status = %+v, want danger boom", status)
	}

	table.SetData(fakeRows(2))
	if table.Status().Type != datatable.StatusNone {
		t.Fatalf("new data should clear the status, got %+v", table.Status())
	}
}

func TestFetchErrorKeepsData(t *testing.T) {
	t.Parallel()

	table, _ := newTable(t, 10, func(o *datatable.Options) {
		o.Hooks.FetchData = func(ctx *datatable.FetchDataContext) { ctx.Error(errors.New("boom")) }
	})

	table.ReloadDataWith(datatable.ErrorConfig{ResetData: false, DisplayError: false})

	if len(table.Data()) != 10 {
		t.Fatalf("data should be kept, got %d rows", len(table.Data()))
	}
	if table.Status().Type != datatable.StatusNone {
		t.Fatalf("status should stay empty, got %+v", table.Status())
	}
	if table.Updating() {
		t.Fatal("updating should be cleared")
	}
}

func TestUseCustomClass(t *testing.T) {
	t.Parallel()

	bare, _ := newTable(t, 0, nil)
	if _, err := bare.UseCustomClass("x"); !errors.Is(err, datatable.ErrCustomClassesNotSet) {
		t.Fatalf("UseCustomClass() error = %v, want ErrCustomClassesNotSet", err)
	}

	type daemonState struct{ Flags any }

	table, _ := newTable(t, 0, func(o *datatable.Options) {
		o.CustomClasses = []datatable.CustomClass{
			{Class: "badge-ok", Value: "HEALTH_OK"},
			{Class: "flagged", Value: daemonState{Flags: []string{"noout"}}},
			{Class: "tagged", Value: []string{"hdd", "ssd"}},
			{Class: "badge-warn", Value: "HEALTH_WARN"},
			{Class: "text-muted", Match: func(v any) bool {
				s, ok := v.(string)
				return ok && strings.HasPrefix(s, "HEALTH_")
			}},
			{Class: "big", Match: func(v any) bool {
				n, ok := v.(int)
				return ok && n > 100
			}},
		}
	})

	cases := []struct {
		value any
		want  string
	}{
		{value: "HEALTH_OK", want: "badge-ok text-muted"},
		{value: "HEALTH_ERR", want: "text-muted"},
		{value: 500, want: "big"},
		{value: 5, want: ""},
		{value: []string{"unhashable"}, want: ""},
		{value: []string{"hdd", "ssd"}, want: "tagged"},
		{value: daemonState{Flags: []string{"noout"}}, want: "flagged"},
		{value: daemonState{Flags: []string{"noin"}}, want: ""},
		{value: daemonState{Flags: []int{1}}, want: ""},
	}
	for _, tc := range cases {
		got, err := table.UseCustomClass(tc.value)
		if err != nil {
			t.Fatalf("UseCustomClass(%v) error = %v", tc.value, err)
		}
		if got != tc.want {
			t.Errorf("UseCustomClass(%v) = %q, want %q", tc.value, got, tc.want)
		}
	}
}

func TestCellText(t *testing.T) {
	t.Parallel()

	executing := &datatable.Column{Prop: "name", Name: "Name", CellTransformation: datatable.CellExecuting}
	plain := &datatable.Column{Prop: "tags", Name: "Tags"}

	row := datatable.Row{"name": "osd.1", "tags": []string{"hdd", "ssd"}, datatable.ExecutingKey: "deleting"}
	if got := executing.CellText(row); got != "osd.1 (deleting)" {
		t.Errorf("executing CellText = %q", got)
	}
	if got := executing.CellText(datatable.Row{"name": "osd.2"}); got != "osd.2" {
		t.Errorf("idle CellText = %q", got)
	}
	if got := plain.CellText(row); got != "hdd ssd" {
		t.Errorf("list CellText = %q", got)
	}
}

func TestStringify(t *testing.T) {
	t.Parallel()

	when := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		in   any
		want string
	}{
		{in: nil, want: ""},
		{in: "x", want: "x"},
		{in: 5, want: "5"},
		{in: float64(5), want: "5"},
		{in: 2.5, want: "2.5"},
		{in: true, want: "true"},
		{in: []any{1, "a", false}, want: "1 a false"},
		{in: map[string]any{"k": 1}, want: `{"k":1}`},
		{in: when, want: "2024-05-01T12:00:00Z"},
	}
	for _, tc := range cases {
		if got := datatable.Stringify(tc.in); got != tc.want {
			t.Errorf("Stringify(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
