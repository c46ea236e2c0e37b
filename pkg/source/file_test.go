package source_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/andri/cdtable/pkg/datatable"
	"github.com/andri/cdtable/pkg/source"
)

const hostsYAML = `identifier: hostname
columns:
  - prop: hostname
    name: Hostname
  - prop: services
    filterable: true
  - prop: status
    filterable: true
    filter-options: [available, maintenance]
    filter-init: available
  - prop: created
    name: Created
    transformation: timeAgo
rows:
  - {hostname: ceph-1, services: mon, status: available, created: 2024-01-02T03:04:05Z}
  - {hostname: ceph-2, services: osd, status: maintenance, created: 2024-02-02T03:04:05Z}
  - {hostname: ceph-3, services: osd, status: available}
`

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestFileSourceDocument(t *testing.T) {
	t.Parallel()

	src := source.NewFile(writeDoc(t, "hosts.yaml", hostsYAML))
	rows, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if src.Name() != "hosts" || src.Identifier() != "hostname" {
		t.Fatalf("unexpected name/identifier %q/%q", src.Name(), src.Identifier())
	}

	cols := src.Columns()
	if len(cols) != 4 || cols[1].Name != "Services" || cols[3].Pipe == nil {
		t.Fatalf("unexpected columns: %+v", cols)
	}

	table, err := datatable.New(datatable.Options{Columns: cols, Identifier: src.Identifier()})
	if err != nil {
		t.Fatalf("new table: %v", err)
	}
	table.SetData(rows)

	// the status filter starts on its init value
	if len(table.Rows()) != 2 {
		t.Fatalf("expected the init filter to keep 2 rows, got %v", table.Rows())
	}
	services, _ := table.Filter("services")
	if len(services.Options) != 2 {
		t.Fatalf("expected mon/osd options, got %+v", services.Options)
	}

	created := table.Columns()[3]
	if got := created.CellText(rows[2]); got != "" {
		t.Fatalf("missing time should render empty, got %q", got)
	}
	if got := created.CellText(rows[0]); got == "" || got == "2024-01-02T03:04:05Z" {
		t.Fatalf("expected an age, got %q", got)
	}
}

func TestFileSourceBareJSONArray(t *testing.T) {
	t.Parallel()

	src := source.NewFile(writeDoc(t, "pools.json", `[{"id": 1, "pool_name": "rbd", "size": 3}, {"id": 2, "pool_name": "cephfs", "size": 2}]`))
	rows, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(rows) != 2 || src.Identifier() != "id" {
		t.Fatalf("unexpected rows %v", rows)
	}
	cols := src.Columns()
	if len(cols) != 3 || cols[0].Prop != "id" || cols[1].Name != "Pool Name" {
		t.Fatalf("unexpected derived columns: %+v", cols)
	}
}

func TestFileSourceReloadsEdits(t *testing.T) {
	t.Parallel()

	path := writeDoc(t, "rows.yaml", "- {id: 1}\n")
	src := source.NewFile(path)
	if rows, _ := src.Fetch(context.Background()); len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if err := os.WriteFile(path, []byte("- {id: 1}\n- {id: 2}\n"), 0o600); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if rows, _ := src.Fetch(context.Background()); len(rows) != 2 {
		t.Fatalf("expected 2 rows after edit, got %d", len(rows))
	}
}

func TestParseDocumentErrors(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"empty":        "",
		"scalar":       "just text",
		"missing prop": "columns:\n  - name: X\nrows: []\n",
		"bad yaml":     "rows: [",
	}
	for name, content := range tests {
		if _, err := source.ParseDocument([]byte(content)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}

	if _, err := source.NewFile(filepath.Join(t.TempDir(), "missing.yaml")).Fetch(context.Background()); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPrimeLoadsFileColumns(t *testing.T) {
	t.Parallel()

	src := source.NewFile(writeDoc(t, "hosts.yaml", hostsYAML))
	rows, err := source.Prime(context.Background(), src)
	if err != nil {
		t.Fatalf("prime: %v", err)
	}
	if len(rows) != 3 || len(src.Columns()) != 4 {
		t.Fatalf("expected 3 rows and 4 columns, got %d and %d", len(rows), len(src.Columns()))
	}

	again, err := source.Prime(context.Background(), src)
	if err != nil || again != nil {
		t.Fatalf("primed source should not fetch again, got %v %v", again, err)
	}
}

func TestPrimeEmptyDocument(t *testing.T) {
	t.Parallel()

	src := source.NewFile(writeDoc(t, "empty.yaml", "rows: []\n"))
	if _, err := source.Prime(context.Background(), src); !errors.Is(err, source.ErrNoColumns) {
		t.Fatalf("expected ErrNoColumns, got %v", err)
	}
}
