package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment overrides, e.g. CDTABLE_TABLE_PAGE_SIZE.
const EnvPrefix = "CDTABLE"

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	ConfigFile  string
	ConfigFiles []string
	Flags       *pflag.FlagSet
}

// LoadResult contains the merged configuration and validation output.
type LoadResult struct {
	Config         Config
	Validation     ValidationResult
	ConfigFileUsed string
}

// LoadConfig loads configuration from defaults, file, env, and flags.
func LoadConfig(opts LoadOptions) (LoadResult, error) {
	v := viper.New()
	setDefaults(v)
	configureEnv(v)

	if opts.Flags != nil {
		if err := BindFlags(v, opts.Flags); err != nil {
			return LoadResult{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	configPath, err := resolveConfigFile(opts)
	if err != nil {
		return LoadResult{}, err
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return LoadResult{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return LoadResult{}, fmt.Errorf("unmarshal config: %w", err)
	}

	result := LoadResult{
		Config:         cfg,
		Validation:     ValidateConfig(cfg),
		ConfigFileUsed: v.ConfigFileUsed(),
	}
	if result.Validation.HasErrors() {
		return result, &ValidationError{Result: result.Validation}
	}
	return result, nil
}

// flagBindings maps CLI flag names to viper keys.
var flagBindings = map[string]string{
	"kubeconfig":         "kubernetes.kubeconfig",
	"context":            "kubernetes.context",
	"namespace":          "kubernetes.namespace",
	"source":             "source.kind",
	"file":               "source.file",
	"dashboard-url":      "source.dashboard.url",
	"dashboard-token":    "source.dashboard.token",
	"dashboard-endpoint": "source.dashboard.endpoint",
	"page-size":          "table.page-size",
	"auto-reload-ms":     "table.auto-reload-ms",
	"searchable-objects": "table.searchable-objects",
	"filter-cascade":     "table.filter-cascade",
	"store":              "store.backend",
	"store-path":         "store.path",
	"log-level":          "logging.level",
	"log-file":           "logging.file",
	"log-format":         "logging.format",
}

// FlagNames returns the flag names LoadConfig binds.
func FlagNames() []string {
	names := make([]string, 0, len(flagBindings))
	for name := range flagBindings {
		names = append(names, name)
	}
	return names
}

// BindFlags binds supported CLI flags to viper keys.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for flag, key := range flagBindings {
		if flags.Lookup(flag) == nil {
			continue
		}
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return fmt.Errorf("bind flag %q: %w", flag, err)
		}
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()

	v.SetDefault("kubernetes.kubeconfig", defaults.Kubernetes.Kubeconfig)
	v.SetDefault("kubernetes.context", defaults.Kubernetes.Context)
	v.SetDefault("kubernetes.namespace", defaults.Kubernetes.Namespace)

	v.SetDefault("source.kind", defaults.Source.Kind)
	v.SetDefault("source.file", defaults.Source.File)
	v.SetDefault("source.dashboard.url", defaults.Source.Dashboard.URL)
	v.SetDefault("source.dashboard.token", defaults.Source.Dashboard.Token)
	v.SetDefault("source.dashboard.endpoint", defaults.Source.Dashboard.Endpoint)
	v.SetDefault("source.dashboard.accept", defaults.Source.Dashboard.Accept)
	v.SetDefault("source.dashboard.identifier", defaults.Source.Dashboard.Identifier)
	v.SetDefault("source.dashboard.columns", defaults.Source.Dashboard.Columns)
	v.SetDefault("source.dashboard.insecure-skip-verify", defaults.Source.Dashboard.InsecureSkipVerify)

	v.SetDefault("table.page-size", defaults.Table.PageSize)
	v.SetDefault("table.auto-reload-ms", defaults.Table.AutoReloadMS)
	v.SetDefault("table.search-debounce-ms", defaults.Table.SearchDebounceMS)
	v.SetDefault("table.selection-refresh", defaults.Table.SelectionRefresh)
	v.SetDefault("table.expanded-refresh", defaults.Table.ExpandedRefresh)
	v.SetDefault("table.searchable-objects", defaults.Table.SearchableObjects)
	v.SetDefault("table.filter-cascade", defaults.Table.FilterCascade)

	v.SetDefault("store.backend", defaults.Store.Backend)
	v.SetDefault("store.path", defaults.Store.Path)

	v.SetDefault("timeouts.fetch-timeout-seconds", defaults.Timeouts.FetchTimeoutSeconds)

	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.file", defaults.Logging.File)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.max-size-mb", defaults.Logging.MaxSizeMB)
	v.SetDefault("logging.max-backups", defaults.Logging.MaxBackups)
}

func configureEnv(v *viper.Viper) {
	replacer := strings.NewReplacer(".", "_", "-", "_")
	v.SetEnvKeyReplacer(replacer)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
}

func resolveConfigFile(opts LoadOptions) (string, error) {
	if opts.ConfigFile != "" {
		if _, err := os.Stat(opts.ConfigFile); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", fmt.Errorf("config file not found: %s", opts.ConfigFile)
			}
			return "", fmt.Errorf("config file error: %w", err)
		}
		return opts.ConfigFile, nil
	}

	candidates := opts.ConfigFiles
	if len(candidates) == 0 {
		candidates = defaultConfigFiles()
	}

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		info, err := os.Stat(candidate)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return "", fmt.Errorf("config file error: %w", err)
		}
		if info.IsDir() {
			continue
		}
		return candidate, nil
	}

	return "", nil
}

func defaultConfigFiles() []string {
	files := []string{"./cdtable.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		files = append(files, filepath.Join(home, ".config", defaultConfigDirName, "config.yaml"))
	}
	files = append(files, "/etc/cdtable/config.yaml")
	return files
}
