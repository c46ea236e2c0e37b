package commands_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andri/cdtable/cmd/cdtable/commands"
)

const hostsDoc = `identifier: hostname
columns:
  - prop: hostname
    name: Hostname
  - prop: services
    name: Services
    filterable: true
  - prop: status
    name: Status
    filterable: true
rows:
  - {hostname: ceph-2, services: osd, status: maintenance}
  - {hostname: ceph-1, services: mon, status: available}
  - {hostname: ceph-3, services: osd, status: available}
`

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeContext(t, context.Background(), args...)
}

// executeInput is execute with input on stdin.
func executeInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	return run(t, context.Background(), strings.NewReader(input), args...)
}

func executeContext(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	return run(t, ctx, strings.NewReader(""), args...)
}

func run(t *testing.T, ctx context.Context, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	cmd := commands.NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.ExecuteContext(ctx)
	return stdout.String(), err
}

// writeHosts writes the hosts document and returns its path.
func writeHosts(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hosts.yaml")
	if err := os.WriteFile(path, []byte(hostsDoc), 0o600); err != nil {
		t.Fatalf("write hosts: %v", err)
	}
	return path
}

// fileArgs selects the hosts document and a private table store.
func fileArgs(t *testing.T, storeDir string) []string {
	t.Helper()
	return []string{"--source", "file", "--file", writeHosts(t), "--store-path", storeDir, "--log-level", "error"}
}
