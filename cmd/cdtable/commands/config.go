package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/andri/cdtable/pkg/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// redacted replaces secrets in config show output.
const redacted = "<redacted>"

// ConfigShowOptions holds options for the config show command
type ConfigShowOptions struct {
	Format     string
	ShowSecret bool
}

// ConfigValidateOptions holds options for the config validate command
type ConfigValidateOptions struct {
	ConfigFile string
	Format     string
}

// newConfigCmd creates the config subcommand with its subcommands
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage cdtable configuration.

Configuration is loaded from multiple sources in order of precedence:
  1. CLI flags (highest priority)
  2. Environment variables (CDTABLE_* prefix, e.g. CDTABLE_TABLE_PAGE_SIZE)
  3. Config file (./cdtable.yaml, ~/.config/cdtable/config.yaml, /etc/cdtable/config.yaml)
  4. Default values (lowest priority)`,
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigValidateCmd())

	return cmd
}

// newConfigShowCmd creates the config show subcommand
func newConfigShowCmd() *cobra.Command {
	opts := &ConfigShowOptions{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Long: `Show the effective configuration after merging all sources.

The dashboard token is redacted unless --show-secrets is set.`,
		Example: `  # Show configuration in YAML format (default)
  cdtable config show

  # Show configuration in JSON format
  cdtable config show --format json

  # Show the configuration a source override results in
  cdtable config show --source dashboard --dashboard-url https://ceph.example:8443`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd.OutOrStdout(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.Format, "format", "f", "yaml", "output format: yaml, json")
	flags.BoolVar(&opts.ShowSecret, "show-secrets", false, "print the dashboard token")

	return cmd
}

// newConfigValidateCmd creates the config validate subcommand
func newConfigValidateCmd() *cobra.Command {
	opts := &ConfigValidateOptions{}

	cmd := &cobra.Command{
		Use:   "validate [config-file]",
		Short: "Validate configuration",
		Long: `Validate a configuration file and report any errors or warnings.

Returns exit code 0 if configuration is valid, 1 if there are errors.
Warnings are reported but don't affect the exit code.`,
		Example: `  # Validate the configuration that would be loaded
  cdtable config validate

  # Validate a specific config file
  cdtable config validate /path/to/config.yaml

  # Output validation results as JSON
  cdtable config validate --format json`,
		Args: cobra.MaximumNArgs(1),
		// Validation reports broken files itself instead of failing while loading.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.ConfigFile = args[0]
			}
			return runConfigValidate(cmd.OutOrStdout(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.Format, "format", "f", "text", "output format: text, json, yaml")

	return cmd
}

// ConfigOutput represents the configuration output structure
type ConfigOutput struct {
	ConfigFile string        `json:"configFile,omitempty" yaml:"configFile,omitempty"`
	Config     config.Config `json:"config" yaml:"config"`
}

// ValidationOutput represents validation results for output
type ValidationOutput struct {
	ConfigFile string   `json:"configFile,omitempty" yaml:"configFile,omitempty"`
	Valid      bool     `json:"valid" yaml:"valid"`
	Errors     []string `json:"errors,omitempty" yaml:"errors,omitempty"`
	Warnings   []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

func runConfigShow(out io.Writer, opts *ConfigShowOptions) error {
	cfg := GlobalOptions.Config
	if !opts.ShowSecret && cfg.Source.Dashboard.Token != "" {
		cfg.Source.Dashboard.Token = redacted
	}

	result := ConfigOutput{
		ConfigFile: GlobalOptions.ConfigFileUsed,
		Config:     cfg,
	}

	switch strings.ToLower(opts.Format) {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		_, _ = fmt.Fprintln(out, string(data))
	case "yaml":
		data, err := yaml.Marshal(result)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		_, _ = fmt.Fprint(out, string(data))
	default:
		return fmt.Errorf("invalid format %q: valid formats are yaml, json", opts.Format)
	}

	return nil
}

func runConfigValidate(out io.Writer, opts *ConfigValidateOptions) error {
	configFile := opts.ConfigFile
	if configFile == "" {
		configFile = GlobalOptions.ConfigFile
	}

	result, loadErr := config.LoadConfig(config.LoadOptions{ConfigFile: configFile})

	report := ValidationOutput{
		ConfigFile: result.ConfigFileUsed,
		Valid:      true,
		Errors:     []string{},
		Warnings:   append([]string{}, result.Validation.Warnings...),
	}

	// A validation failure is reported per error below; anything else failed
	// before the file could be checked.
	var validationErr *config.ValidationError
	if loadErr != nil && !errors.As(loadErr, &validationErr) {
		report.Valid = false
		report.Errors = append(report.Errors, loadErr.Error())
	}
	for _, err := range result.Validation.Errors {
		report.Valid = false
		report.Errors = append(report.Errors, err.Error())
	}

	switch strings.ToLower(opts.Format) {
	case "json":
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal validation result: %w", err)
		}
		_, _ = fmt.Fprintln(out, string(data))
	case "yaml":
		data, err := yaml.Marshal(report)
		if err != nil {
			return fmt.Errorf("failed to marshal validation result: %w", err)
		}
		_, _ = fmt.Fprint(out, string(data))
	default:
		writeValidationText(out, report)
	}

	if !report.Valid {
		return errors.New("configuration validation failed")
	}
	return nil
}

func writeValidationText(out io.Writer, report ValidationOutput) {
	if report.ConfigFile != "" {
		_, _ = fmt.Fprintf(out, "Config file: %s\n\n", report.ConfigFile)
	} else {
		_, _ = fmt.Fprint(out, "Config file: (none - using defaults)\n\n")
	}

	if report.Valid {
		_, _ = fmt.Fprintln(out, "Configuration is valid.")
	} else {
		_, _ = fmt.Fprintln(out, "Configuration has errors:")
		for _, err := range report.Errors {
			_, _ = fmt.Fprintf(out, "  - %s\n", err)
		}
	}

	if len(report.Warnings) > 0 {
		_, _ = fmt.Fprintln(out, "\nWarnings:")
		for _, warn := range report.Warnings {
			_, _ = fmt.Fprintf(out, "  - %s\n", warn)
		}
	}
}
