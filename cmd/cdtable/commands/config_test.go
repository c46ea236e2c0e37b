package commands_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cdtable.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to create test config file: %v", err)
	}
	return path
}

func TestConfigShow(t *testing.T) {
	output, err := execute(t, "config", "show")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(output, "kubernetes") {
		t.Errorf("expected output to contain 'kubernetes', got %q", output)
	}
	if !strings.Contains(output, "rook-ceph") {
		t.Errorf("expected output to contain default namespace 'rook-ceph', got %q", output)
	}
	if !strings.Contains(output, "page-size: 10") {
		t.Errorf("expected output to contain the default page size, got %q", output)
	}
}

func TestConfigShowJSON(t *testing.T) {
	configFile := writeConfig(t, "table:\n  page-size: 25\n")

	output, err := execute(t, "config", "show", "-f", "json", "--config", configFile, "--namespace", "ceph-prod")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var result struct {
		ConfigFile string `json:"configFile"`
		Config     struct {
			Kubernetes struct {
				Namespace string `json:"namespace"`
			} `json:"kubernetes"`
			Table struct {
				PageSize int `json:"page-size"`
			} `json:"table"`
		} `json:"config"`
	}
	if unmarshalErr := json.Unmarshal([]byte(output), &result); unmarshalErr != nil {
		t.Fatalf("expected valid JSON output, got error: %v", unmarshalErr)
	}
	if result.ConfigFile != configFile {
		t.Errorf("expected config file %q, got %q", configFile, result.ConfigFile)
	}
	if result.Config.Table.PageSize != 25 || result.Config.Kubernetes.Namespace != "ceph-prod" {
		t.Errorf("expected file and flag values, got %+v", result.Config)
	}
}

func TestConfigShowRedactsToken(t *testing.T) {
	args := []string{"config", "show", "--source", "dashboard", "--dashboard-url", "https://ceph.example:8443", "--dashboard-token", "s3cret"}

	output, err := execute(t, args...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(output, "s3cret") || !strings.Contains(output, "<redacted>") {
		t.Errorf("expected the token to be redacted, got %q", output)
	}

	output, err = execute(t, append(args, "--show-secrets")...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(output, "s3cret") {
		t.Errorf("expected the token with --show-secrets, got %q", output)
	}
}

func TestConfigShowInvalidFormat(t *testing.T) {
	if _, err := execute(t, "config", "show", "-f", "toml"); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestConfigValidateDefault(t *testing.T) {
	output, err := execute(t, "config", "validate")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(output, "Configuration is valid.") {
		t.Errorf("expected output to report a valid config, got %q", output)
	}
	if !strings.Contains(output, "none - using defaults") {
		t.Errorf("expected output to note the defaults, got %q", output)
	}
}

func TestConfigValidateFormats(t *testing.T) {
	output, err := execute(t, "config", "validate", "-f", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var result map[string]any
	if unmarshalErr := json.Unmarshal([]byte(output), &result); unmarshalErr != nil {
		t.Fatalf("expected valid JSON output, got error: %v", unmarshalErr)
	}
	if result["valid"] != true {
		t.Errorf("expected 'valid' to be true, got %v", result["valid"])
	}

	output, err = execute(t, "config", "validate", "-f", "yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(output, "valid: true") {
		t.Errorf("expected YAML output to contain 'valid: true', got %q", output)
	}
}

func TestConfigValidateInvalidFile(t *testing.T) {
	configFile := writeConfig(t, `
table:
  page-size: 0
  filter-cascade: sideways
store:
  backend: redis
`)

	output, err := execute(t, "config", "validate", configFile)
	if err == nil {
		t.Error("expected error for invalid config")
	}
	for _, want := range []string{"Configuration has errors", "table.page-size", "filter-cascade", "store.backend"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to mention %q, got %q", want, output)
		}
	}
	if strings.Contains(output, "configuration validation failed:") {
		t.Errorf("expected each error listed once, got %q", output)
	}
}

func TestConfigValidateWarnings(t *testing.T) {
	configFile := writeConfig(t, "store:\n  backend: memory\n")

	output, err := execute(t, "config", "validate", configFile)
	if err != nil {
		t.Fatalf("warnings should not fail validation: %v", err)
	}
	if !strings.Contains(output, "Warnings:") || !strings.Contains(output, "does not persist") {
		t.Errorf("expected the memory store warning, got %q", output)
	}
}

func TestConfigValidateNonexistentFile(t *testing.T) {
	output, err := execute(t, "config", "validate", "/nonexistent/config.yaml")
	if err == nil {
		t.Error("expected error for nonexistent config file")
	}
	if !strings.Contains(output, "config file not found") {
		t.Errorf("expected the missing file to be reported, got %q", output)
	}
}
