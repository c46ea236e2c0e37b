package datatable_test

import (
	"testing"

	"github.com/andri/cdtable/pkg/datatable"
	"github.com/andri/cdtable/pkg/store"
)

func fakeRows(n int) []datatable.Row {
	rows := make([]datatable.Row, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, datatable.Row{"a": i, "b": i * 10, "c": i%2 == 1})
	}
	return rows
}

func fakeColumns() []datatable.Column {
	return []datatable.Column{
		{Prop: "a", Name: "Index", Filterable: true},
		{Prop: "b", Name: "Index times ten"},
		{Prop: "c", Name: "Odd?", Filterable: true},
	}
}

// newTable creates a table over n fake rows backed by a memory store.
func newTable(t *testing.T, n int, mutate func(*datatable.Options)) (*datatable.Table, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	opts := datatable.Options{
		Columns:       fakeColumns(),
		Store:         mem,
		SelectionType: datatable.SelectionSingle,
	}
	if mutate != nil {
		mutate(&opts)
	}
	table, err := datatable.New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if n >= 0 {
		table.SetData(fakeRows(n))
	}
	return table, mem
}

func propValues(rows []datatable.Row, prop string) []any {
	out := make([]any, 0, len(rows))
	for _, row := range rows {
		out = append(out, row[prop])
	}
	return out
}
