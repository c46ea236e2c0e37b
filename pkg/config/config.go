package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultRookNamespace          = "rook-ceph"
	DefaultSourceKind             = "nodes"
	DefaultDashboardEndpoint      = "/api/host"
	DefaultPageSize               = 10
	DefaultAutoReloadMS           = 5000
	DefaultSearchDebounceMS       = 250
	DefaultRefreshPolicy          = "onChange"
	DefaultFilterCascade          = "preceding"
	DefaultStoreBackend           = "file"
	DefaultFetchTimeoutSeconds    = 15
	DefaultLogLevel               = "info"
	DefaultLogFormat              = "text"
	DefaultLogMaxSizeMB           = 10
	DefaultLogMaxBackups          = 3
	defaultStoreDirName           = "tables"
	defaultPudgeFileName          = "tables.db"
	defaultConfigDirName          = "cdtable"
	DefaultDashboardAccept        = "application/vnd.ceph.api.v1.0+json"
)

// Config holds the full configuration schema for cdtable.
type Config struct {
	Kubernetes KubernetesConfig `mapstructure:"kubernetes" yaml:"kubernetes" json:"kubernetes"`
	Source     SourceConfig     `mapstructure:"source" yaml:"source" json:"source"`
	Table      TableConfig      `mapstructure:"table" yaml:"table" json:"table"`
	Store      StoreConfig      `mapstructure:"store" yaml:"store" json:"store"`
	Timeouts   TimeoutConfig    `mapstructure:"timeouts" yaml:"timeouts" json:"timeouts"`
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging" json:"logging"`
}

// KubernetesConfig selects the cluster the kube sources read from.
type KubernetesConfig struct {
	Kubeconfig string `mapstructure:"kubeconfig" yaml:"kubeconfig" json:"kubeconfig"`
	Context    string `mapstructure:"context" yaml:"context" json:"context"`
	Namespace  string `mapstructure:"namespace" yaml:"namespace" json:"namespace"`
}

// SourceConfig selects where rows come from.
type SourceConfig struct {
	// Kind is one of nodes, deployments, pods, dashboard or file.
	Kind      string          `mapstructure:"kind" yaml:"kind" json:"kind"`
	File      string          `mapstructure:"file" yaml:"file" json:"file"`
	Dashboard DashboardConfig `mapstructure:"dashboard" yaml:"dashboard" json:"dashboard"`
}

// DashboardConfig points at a Ceph Dashboard REST endpoint.
type DashboardConfig struct {
	URL        string `mapstructure:"url" yaml:"url" json:"url"`
	Token      string `mapstructure:"token" yaml:"token,omitempty" json:"token,omitempty"`
	Endpoint   string `mapstructure:"endpoint" yaml:"endpoint" json:"endpoint"`
	Accept     string `mapstructure:"accept" yaml:"accept" json:"accept"`
	Identifier string `mapstructure:"identifier" yaml:"identifier" json:"identifier"`
	// Columns lists the props shown. Derived from the first row when empty.
	Columns            []string `mapstructure:"columns" yaml:"columns" json:"columns"`
	InsecureSkipVerify bool     `mapstructure:"insecure-skip-verify" yaml:"insecure-skip-verify" json:"insecure-skip-verify"`
}

// TableConfig holds the engine defaults applied to every table.
type TableConfig struct {
	PageSize          int    `mapstructure:"page-size" yaml:"page-size" json:"page-size"`
	AutoReloadMS      int    `mapstructure:"auto-reload-ms" yaml:"auto-reload-ms" json:"auto-reload-ms"`
	SearchDebounceMS  int    `mapstructure:"search-debounce-ms" yaml:"search-debounce-ms" json:"search-debounce-ms"`
	SelectionRefresh  string `mapstructure:"selection-refresh" yaml:"selection-refresh" json:"selection-refresh"`
	ExpandedRefresh   string `mapstructure:"expanded-refresh" yaml:"expanded-refresh" json:"expanded-refresh"`
	SearchableObjects bool   `mapstructure:"searchable-objects" yaml:"searchable-objects" json:"searchable-objects"`
	FilterCascade     string `mapstructure:"filter-cascade" yaml:"filter-cascade" json:"filter-cascade"`
}

// StoreConfig selects where table layouts are persisted.
type StoreConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend" json:"backend"`
	Path    string `mapstructure:"path" yaml:"path" json:"path"`
}

// TimeoutConfig captures configurable timeouts.
type TimeoutConfig struct {
	FetchTimeoutSeconds int `mapstructure:"fetch-timeout-seconds" yaml:"fetch-timeout-seconds" json:"fetch-timeout-seconds"`
}

// LoggingConfig controls log output settings.
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level" json:"level"`
	File       string `mapstructure:"file" yaml:"file" json:"file"`
	Format     string `mapstructure:"format" yaml:"format" json:"format"`
	MaxSizeMB  int    `mapstructure:"max-size-mb" yaml:"max-size-mb" json:"max-size-mb"`
	MaxBackups int    `mapstructure:"max-backups" yaml:"max-backups" json:"max-backups"`
}

// DefaultConfig returns a config with all default values applied.
func DefaultConfig() Config {
	return Config{
		Kubernetes: KubernetesConfig{
			Namespace: DefaultRookNamespace,
		},
		Source: SourceConfig{
			Kind: DefaultSourceKind,
			Dashboard: DashboardConfig{
				Endpoint: DefaultDashboardEndpoint,
				Accept:   DefaultDashboardAccept,
			},
		},
		Table: TableConfig{
			PageSize:         DefaultPageSize,
			AutoReloadMS:     DefaultAutoReloadMS,
			SearchDebounceMS: DefaultSearchDebounceMS,
			SelectionRefresh: DefaultRefreshPolicy,
			ExpandedRefresh:  DefaultRefreshPolicy,
			FilterCascade:    DefaultFilterCascade,
		},
		Store: StoreConfig{
			Backend: DefaultStoreBackend,
		},
		Timeouts: TimeoutConfig{
			FetchTimeoutSeconds: DefaultFetchTimeoutSeconds,
		},
		Logging: LoggingConfig{
			Level:      DefaultLogLevel,
			Format:     DefaultLogFormat,
			MaxSizeMB:  DefaultLogMaxSizeMB,
			MaxBackups: DefaultLogMaxBackups,
		},
	}
}

// StorePath returns the configured store path, or the per-user default for
// the backend.
func (c Config) StorePath() string {
	if p := strings.TrimSpace(c.Store.Path); p != "" {
		return p
	}
	base := "."
	if home, err := os.UserHomeDir(); err == nil {
		base = filepath.Join(home, ".config", defaultConfigDirName)
	}
	if c.Store.Backend == "pudge" {
		return filepath.Join(base, defaultPudgeFileName)
	}
	return filepath.Join(base, defaultStoreDirName)
}

// String renders the configuration as YAML.
func (c Config) String() string {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("Config{error: %v}", err)
	}

	return strings.TrimSpace(string(data))
}
