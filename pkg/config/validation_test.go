package config

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateConfigValidDefaults(t *testing.T) {
	cfg := DefaultConfig()
	result := ValidateConfig(cfg)
	if result.HasErrors() {
		t.Fatalf("unexpected validation errors: %v", result.Errors)
	}
}

func TestValidateConfigMultipleErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Kubernetes.Namespace = "invalid_namespace!"
	cfg.Timeouts.FetchTimeoutSeconds = 0
	cfg.Table.AutoReloadMS = 50
	cfg.Table.FilterCascade = "sideways"

	result := ValidateConfig(cfg)
	if len(result.Errors) < 3 {
		t.Fatalf("expected multiple errors, got %d", len(result.Errors))
	}
	if !result.HasWarnings() {
		t.Fatalf("expected warnings for aggressive reload")
	}

	assertErrorContains(t, result.Errors, "invalid namespace")
	assertErrorContains(t, result.Errors, "timeout must be >= 1 second")
	assertErrorContains(t, result.Errors, "invalid table.filter-cascade")
}

func TestValidateConfigSources(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "unknown kind", mutate: func(c *Config) { c.Source.Kind = "ftp" }, wantErr: "invalid source.kind"},
		{name: "file without path", mutate: func(c *Config) { c.Source.Kind = "file" }, wantErr: "source.file is required"},
		{name: "file with path", mutate: func(c *Config) { c.Source.Kind = "file"; c.Source.File = "rows.yaml" }},
		{name: "dashboard without url", mutate: func(c *Config) { c.Source.Kind = "dashboard" }, wantErr: "source.dashboard.url"},
		{name: "dashboard bad scheme", mutate: func(c *Config) {
			c.Source.Kind = "dashboard"
			c.Source.Dashboard.URL = "ftp://mgr"
		}, wantErr: "must be an http(s) URL"},
		{name: "dashboard bad endpoint", mutate: func(c *Config) {
			c.Source.Kind = "dashboard"
			c.Source.Dashboard.URL = "https://mgr:8443"
			c.Source.Dashboard.Endpoint = "api/host"
		}, wantErr: "must start with /"},
		{name: "dashboard ok", mutate: func(c *Config) {
			c.Source.Kind = "dashboard"
			c.Source.Dashboard.URL = "https://mgr:8443"
		}},
		{name: "dashboard ignores namespace", mutate: func(c *Config) {
			c.Source.Kind = "dashboard"
			c.Source.Dashboard.URL = "https://mgr:8443"
			c.Kubernetes.Namespace = ""
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			result := ValidateConfig(cfg)
			if tt.wantErr == "" {
				if result.HasErrors() {
					t.Fatalf("unexpected errors: %v", result.Errors)
				}
				return
			}
			assertErrorContains(t, result.Errors, tt.wantErr)
		})
	}
}

func TestValidateConfigRefreshPolicies(t *testing.T) {
	for _, policy := range []string{"never", "onChange", "always", ""} {
		cfg := DefaultConfig()
		cfg.Table.SelectionRefresh = policy
		cfg.Table.ExpandedRefresh = policy
		if result := ValidateConfig(cfg); result.HasErrors() {
			t.Errorf("policy %q: unexpected errors %v", policy, result.Errors)
		}
	}

	cfg := DefaultConfig()
	cfg.Table.ExpandedRefresh = "sometimes"
	assertErrorContains(t, ValidateConfig(cfg).Errors, "invalid table.expanded-refresh")
}

func TestValidateConfigLoggingLevel(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		wantErr bool
	}{
		{"debug valid", "debug", false},
		{"info valid", "info", false},
		{"warn valid", "warn", false},
		{"error valid", "error", false},
		{"empty valid", "", false},
		{"invalid level", "verbose", true},
		{"invalid case", "DEBUG", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Logging.Level = tt.level
			result := ValidateConfig(cfg)
			hasErr := hasErrorContaining(result.Errors, "invalid logging.level")
			if hasErr != tt.wantErr {
				t.Errorf("level=%q: wantErr=%v, gotErr=%v, errors=%v",
					tt.level, tt.wantErr, hasErr, result.Errors)
			}
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	single := &ValidationError{Result: ValidationResult{Errors: []error{errors.New("bad page size")}}}
	if got := single.Error(); got != "configuration validation failed: bad page size" {
		t.Errorf("single error message = %q", got)
	}

	multi := &ValidationError{Result: ValidationResult{Errors: []error{errors.New("one"), errors.New("two")}}}
	if got := multi.Error(); !strings.Contains(got, "\n  - one") || !strings.Contains(got, "\n  - two") {
		t.Errorf("multi error message = %q", got)
	}
	if !errors.Is(multi, multi.Result.Errors[1]) {
		t.Error("Unwrap should expose the individual errors")
	}
}

func assertErrorContains(t *testing.T, errs []error, substr string) {
	t.Helper()
	if !hasErrorContaining(errs, substr) {
		t.Fatalf("expected error containing %q, got %v", substr, errs)
	}
}

func hasErrorContaining(errs []error, substr string) bool {
	for _, err := range errs {
		if strings.Contains(err.Error(), substr) {
			return true
		}
	}
	return false
}
