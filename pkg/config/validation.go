package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/andri/cdtable/pkg/datatable"
	"github.com/andri/cdtable/pkg/store"
	"k8s.io/apimachinery/pkg/util/validation"
)

// ValidationError wraps a ValidationResult as an error.
// It provides actionable error messages that include all validation issues.
type ValidationError struct {
	Result ValidationResult
}

// Error implements the error interface, returning all validation errors as a single message.
func (e *ValidationError) Error() string {
	if len(e.Result.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Result.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Result.Errors[0])
	}
	var b strings.Builder
	b.WriteString("configuration validation failed:")
	for _, err := range e.Result.Errors {
		b.WriteString("\n  - ")
		b.WriteString(err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying errors joined together.
func (e *ValidationError) Unwrap() error {
	return errors.Join(e.Result.Errors...)
}

// ValidationResult captures validation errors and warnings.
type ValidationResult struct {
	Errors   []error
	Warnings []string
}

// HasErrors reports whether validation errors exist.
func (r ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings reports whether validation warnings exist.
func (r ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// SourceKinds lists the supported row sources.
var SourceKinds = []string{"nodes", "deployments", "pods", "dashboard", "file"}

var (
	allowedLogLevels  = []string{"debug", "info", "warn", "error"}
	allowedLogFormats = []string{"text", "json"}
)

// ValidateConfig validates configuration values and returns all issues.
func ValidateConfig(cfg Config) ValidationResult {
	var result ValidationResult
	addErr := func(err error) {
		result.Errors = append(result.Errors, err)
	}

	if !slices.Contains(SourceKinds, cfg.Source.Kind) {
		addErr(fmt.Errorf("invalid source.kind %q: allowed values are %v", cfg.Source.Kind, SourceKinds))
	}
	switch cfg.Source.Kind {
	case "nodes", "deployments", "pods":
		if err := validateNamespace(cfg.Kubernetes.Namespace); err != nil {
			addErr(err)
		}
	case "file":
		if strings.TrimSpace(cfg.Source.File) == "" {
			addErr(errors.New("source.file is required for the file source"))
		}
	case "dashboard":
		if err := validateDashboardURL(cfg.Source.Dashboard.URL); err != nil {
			addErr(err)
		}
		if !strings.HasPrefix(cfg.Source.Dashboard.Endpoint, "/") {
			addErr(fmt.Errorf("invalid source.dashboard.endpoint %q: must start with /", cfg.Source.Dashboard.Endpoint))
		}
		if cfg.Source.Dashboard.InsecureSkipVerify {
			result.Warnings = append(result.Warnings, "source.dashboard.insecure-skip-verify disables TLS certificate checks")
		}
	}

	if cfg.Table.PageSize < 1 {
		addErr(fmt.Errorf("table.page-size must be >= 1, got: %d", cfg.Table.PageSize))
	}
	if cfg.Table.AutoReloadMS > 0 && cfg.Table.AutoReloadMS < 500 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("table.auto-reload-ms=%d is below 500ms - may cause excessive API calls", cfg.Table.AutoReloadMS))
	}
	if cfg.Table.SearchDebounceMS < 0 {
		addErr(fmt.Errorf("table.search-debounce-ms must be >= 0, got: %d", cfg.Table.SearchDebounceMS))
	}
	if _, err := datatable.ParseRefreshPolicy(cfg.Table.SelectionRefresh); err != nil {
		addErr(fmt.Errorf("invalid table.selection-refresh: %w", err))
	}
	if _, err := datatable.ParseRefreshPolicy(cfg.Table.ExpandedRefresh); err != nil {
		addErr(fmt.Errorf("invalid table.expanded-refresh: %w", err))
	}
	if _, err := datatable.ParseCascadeMode(cfg.Table.FilterCascade); err != nil {
		addErr(fmt.Errorf("invalid table.filter-cascade: %w", err))
	}

	if _, err := store.ParseBackend(cfg.Store.Backend); err != nil {
		addErr(fmt.Errorf("invalid store.backend: %w", err))
	}
	if cfg.Store.Backend == string(store.BackendMemory) {
		result.Warnings = append(result.Warnings, "store.backend=memory does not persist table layouts between runs")
	}

	if cfg.Timeouts.FetchTimeoutSeconds < 1 {
		addErr(fmt.Errorf("timeout must be >= 1 second, got: %d", cfg.Timeouts.FetchTimeoutSeconds))
	}

	if cfg.Logging.Level != "" && !slices.Contains(allowedLogLevels, cfg.Logging.Level) {
		addErr(fmt.Errorf("invalid logging.level %q: allowed values are %v", cfg.Logging.Level, allowedLogLevels))
	}
	if cfg.Logging.Format != "" && !slices.Contains(allowedLogFormats, cfg.Logging.Format) {
		addErr(fmt.Errorf("invalid logging.format %q: allowed values are %v", cfg.Logging.Format, allowedLogFormats))
	}
	if cfg.Logging.File != "" && cfg.Logging.MaxSizeMB < 1 {
		addErr(fmt.Errorf("logging.max-size-mb must be >= 1, got: %d", cfg.Logging.MaxSizeMB))
	}

	return result
}

func validateNamespace(namespace string) error {
	if strings.TrimSpace(namespace) == "" {
		return fmt.Errorf("invalid namespace '%s': must be non-empty and match Kubernetes naming rules", namespace)
	}
	if errs := validation.IsDNS1123Label(namespace); len(errs) > 0 {
		return fmt.Errorf("invalid namespace '%s': must be non-empty and match Kubernetes naming rules", namespace)
	}
	return nil
}

func validateDashboardURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return errors.New("source.dashboard.url is required for the dashboard source")
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid source.dashboard.url %q: must be an http(s) URL", raw)
	}
	return nil
}
