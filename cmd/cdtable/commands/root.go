// Package commands provides the CLI command implementations for cdtable.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/andri/cdtable/internal/logger"
	"github.com/andri/cdtable/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// version information set by build flags
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	buildDate = d
}

// RootOptions holds the global options for all commands
type RootOptions struct {
	// ConfigFile is the path to the configuration file
	ConfigFile string

	// Config holds the loaded configuration
	Config config.Config

	// ConfigFileUsed is the file the configuration was read from, if any
	ConfigFileUsed string

	// Context is the root context for all operations
	Context context.Context

	// CancelFunc cancels the root context
	CancelFunc context.CancelFunc

	logFile io.Closer
}

// GlobalOptions is the singleton instance for root options
var GlobalOptions = &RootOptions{}

// NewRootCmd creates the root cobra command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cdtable",
		Short: "Searchable, filterable tables over Ceph cluster data",
		Long: `cdtable - Ceph Data Tables

Browse and query Ceph cluster data as tables, the way the Ceph Dashboard
lists hosts, OSDs and pools. Rows come from the Rook-Ceph objects in a
Kubernetes cluster, from a Ceph Dashboard REST endpoint, or from a local
YAML or JSON document.

Key features:
  - Free-text search with column hints ("status:up") and quoted phrases
  - Cascading column filters with options derived from the data
  - Selection and expanded rows that survive reloads
  - Column visibility, sorting and page size persisted per table
  - Interactive TUI and one-shot or watch output as table, JSON or YAML`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initializeGlobals(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			cleanup()
		},
	}

	addGlobalFlags(rootCmd)

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newBrowseCmd())
	rootCmd.AddCommand(newQueryCmd())
	rootCmd.AddCommand(newTablesCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCompletionCmd())

	registerCompletions(rootCmd)

	return rootCmd
}

// addGlobalFlags adds the global flags to the root command. Every flag
// except config is bound to a configuration key.
func addGlobalFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringVar(&GlobalOptions.ConfigFile, "config", "",
		"config file (default: ./cdtable.yaml, ~/.config/cdtable/config.yaml, /etc/cdtable/config.yaml)")
	flags.String("kubeconfig", "",
		"path to kubeconfig file (default: $KUBECONFIG or ~/.kube/config)")
	flags.String("context", "", "kubeconfig context to use")
	flags.StringP("namespace", "n", "", "rook-ceph namespace (default: rook-ceph)")

	flags.StringP("source", "s", "",
		"row source: nodes, deployments, pods, dashboard, file (default: nodes)")
	flags.String("file", "", "YAML or JSON document read by the file source")
	flags.String("dashboard-url", "", "Ceph Dashboard base URL")
	flags.String("dashboard-token", "", "Ceph Dashboard bearer token")
	flags.String("dashboard-endpoint", "", "Ceph Dashboard API path (default: /api/host)")

	flags.String("store", "", "table config store: file, pudge, memory (default: file)")
	flags.String("store-path", "", "table config store location (default: ~/.config/cdtable)")

	flags.String("log-level", "", "log level: debug, info, warn, error (default: info)")
	flags.String("log-file", "", "log file path (default: stderr)")
	flags.String("log-format", "", "log format: text, json (default: text)")
}

// addTableFlags adds the engine settings shared by browse and query.
func addTableFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.Int("page-size", 0, "rows per page (default: 10)")
	flags.Int("auto-reload-ms", 0, "reload interval in milliseconds, negative disables (default: 5000)")
	flags.Bool("searchable-objects", false, "let search match inside nested objects and lists")
	flags.String("filter-cascade", "", "filter option cascade: preceding, others, none (default: preceding)")
}

// initializeGlobals initializes global options from flags, env, and config file
func initializeGlobals(cmd *cobra.Command) error {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	GlobalOptions.Context = ctx
	GlobalOptions.CancelFunc = cancel

	loadOpts := config.LoadOptions{
		ConfigFile: GlobalOptions.ConfigFile,
		Flags:      buildFlagSet(cmd),
	}

	result, err := config.LoadConfig(loadOpts)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	GlobalOptions.Config = result.Config
	GlobalOptions.ConfigFileUsed = result.ConfigFileUsed

	if logErr := initLogger(); logErr != nil {
		return fmt.Errorf("failed to initialize logger: %w", logErr)
	}

	if result.ConfigFileUsed != "" {
		logger.Debug("loaded configuration", "file", result.ConfigFileUsed)
	}
	for _, warning := range result.Validation.Warnings {
		logger.Warn("configuration warning", "warning", warning)
	}

	return nil
}

// buildFlagSet creates a pflag.FlagSet from cobra command flags for config binding
func buildFlagSet(cmd *cobra.Command) *pflag.FlagSet {
	flags := pflag.NewFlagSet("config", pflag.ContinueOnError)

	addIfExists := func(name string) {
		if flags.Lookup(name) != nil {
			return
		}
		if localFlag := cmd.Flags().Lookup(name); localFlag != nil {
			flags.AddFlag(localFlag)
		} else if inheritedFlag := cmd.InheritedFlags().Lookup(name); inheritedFlag != nil {
			flags.AddFlag(inheritedFlag)
		}
	}

	for _, name := range config.FlagNames() {
		addIfExists(name)
	}

	return flags
}

// initLogger initializes the logger based on configuration
func initLogger() error {
	cfg := GlobalOptions.Config.Logging

	var output io.Writer = os.Stderr
	if cfg.File != "" {
		w := logger.NewFileWriter(logger.FileConfig{
			Path:       cfg.File,
			MaxSizeMB:  cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		})
		GlobalOptions.logFile = w
		output = w
	}

	format := logger.FormatText
	if cfg.Format == string(logger.FormatJSON) {
		format = logger.FormatJSON
	}

	logger.SetDefault(logger.New(logger.Config{
		Level:  logger.ParseLevel(cfg.Level),
		Format: format,
		Output: output,
	}))

	return nil
}

// cleanup performs any necessary cleanup before exit
func cleanup() {
	if GlobalOptions.CancelFunc != nil {
		GlobalOptions.CancelFunc()
	}
	if GlobalOptions.logFile != nil {
		_ = GlobalOptions.logFile.Close()
		GlobalOptions.logFile = nil
	}
}

// newVersionCmd creates the version subcommand
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Print version, commit, and build date information",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "cdtable version %s\n", version)
			_, _ = fmt.Fprintf(out, "  commit:     %s\n", commit)
			_, _ = fmt.Fprintf(out, "  build date: %s\n", buildDate)
		},
	}
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
