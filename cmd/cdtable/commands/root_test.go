package commands_test

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/andri/cdtable/cmd/cdtable/commands"
)

func TestNewRootCmd(t *testing.T) {
	cmd := commands.NewRootCmd()

	if cmd.Use != "cdtable" {
		t.Errorf("expected Use to be 'cdtable', got %q", cmd.Use)
	}
	if cmd.Short == "" {
		t.Error("expected Short description to be set")
	}
	if cmd.Long == "" {
		t.Error("expected Long description to be set")
	}
}

func TestRootCmdHasGlobalFlags(t *testing.T) {
	cmd := commands.NewRootCmd()
	flags := cmd.PersistentFlags()

	expectedFlags := []string{
		"config", "kubeconfig", "context", "namespace",
		"source", "file", "dashboard-url", "dashboard-token", "dashboard-endpoint",
		"store", "store-path", "log-level", "log-file", "log-format",
	}
	for _, flagName := range expectedFlags {
		if flags.Lookup(flagName) == nil {
			t.Errorf("expected global flag %q to exist", flagName)
		}
	}
}

func TestRootCmdSubcommands(t *testing.T) {
	cmd := commands.NewRootCmd()

	var names []string
	for _, subCmd := range cmd.Commands() {
		names = append(names, subCmd.Name())
	}
	for _, expected := range []string{"version", "browse", "query", "tables", "config", "completion"} {
		if !slices.Contains(names, expected) {
			t.Errorf("expected %q subcommand to exist, got %v", expected, names)
		}
	}
}

func TestTableFlagsOnTableCommands(t *testing.T) {
	cmd := commands.NewRootCmd()

	for _, subCmd := range cmd.Commands() {
		if subCmd.Name() != "browse" && subCmd.Name() != "query" {
			continue
		}
		for _, flagName := range []string{"page-size", "auto-reload-ms", "searchable-objects", "filter-cascade"} {
			if subCmd.Flags().Lookup(flagName) == nil {
				t.Errorf("%s: expected flag %q", subCmd.Name(), flagName)
			}
		}
	}
}

func TestVersionCommand(t *testing.T) {
	commands.SetVersionInfo("1.2.3", "abc123", "2026-01-01")

	output, err := execute(t, "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(output, "cdtable version 1.2.3") {
		t.Errorf("expected output to contain version '1.2.3', got %q", output)
	}
	if !strings.Contains(output, "abc123") {
		t.Errorf("expected output to contain commit 'abc123', got %q", output)
	}
}

func TestHelpCommand(t *testing.T) {
	output, err := execute(t, "--help")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(output, "cdtable") {
		t.Errorf("expected help output to contain 'cdtable', got %q", output)
	}
	if !strings.Contains(output, "Ceph Dashboard") {
		t.Errorf("expected help output to mention the Ceph Dashboard, got %q", output)
	}
}

func TestInvalidConfigFails(t *testing.T) {
	_, err := execute(t, "version", "--source", "file")
	if err == nil {
		t.Fatal("expected the file source without a file to fail validation")
	}
	if !strings.Contains(err.Error(), "source.file") {
		t.Errorf("expected error to name source.file, got %v", err)
	}
}

func TestLogFileReceivesLogs(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "cdtable.yaml")
	if err := os.WriteFile(configPath, []byte("table:\n  page-size: 5\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	logPath := filepath.Join(dir, "cdtable.log")

	if _, err := execute(t, "version", "--config", configPath, "--log-file", logPath, "--log-level", "debug"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "loaded configuration") {
		t.Errorf("expected config load to be logged, got %q", data)
	}
}
