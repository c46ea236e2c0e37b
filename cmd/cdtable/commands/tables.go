package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/andri/cdtable/internal/logger"
	"github.com/andri/cdtable/pkg/cli"
	"github.com/andri/cdtable/pkg/datatable"
	"github.com/andri/cdtable/pkg/store"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// TablesShowOptions holds options for the tables show command
type TablesShowOptions struct {
	Format string
}

// TablesResetOptions holds options for the tables reset command
type TablesResetOptions struct {
	All bool
	Yes bool
}

// newTablesCmd creates the tables subcommand with its subcommands
func newTablesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Manage saved table layouts",
		Long: `Manage the table layouts saved in the table config store.

Every table saves its column visibility, sort order and page size under
a name derived from its columns. Resetting a table restores the source
defaults on its next use.`,
	}

	cmd.AddCommand(newTablesListCmd())
	cmd.AddCommand(newTablesShowCmd())
	cmd.AddCommand(newTablesResetCmd())

	return cmd
}

func newTablesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved table layouts",
		Example: `  # List the layouts in the default file store
  cdtable tables list

  # List the layouts in a pudge database
  cdtable tables list --store pudge --store-path /var/lib/cdtable/tables.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(func(st store.Store) error {
				return runTablesList(cmd.OutOrStdout(), st)
			})
		},
	}
}

func newTablesShowCmd() *cobra.Command {
	opts := &TablesShowOptions{}

	cmd := &cobra.Command{
		Use:   "show <table>",
		Short: "Show a saved table layout",
		Example: `  # Show a layout as YAML
  cdtable tables show 4821

  # Show a layout as JSON
  cdtable tables show 4821 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(st store.Store) error {
				return runTablesShow(cmd.OutOrStdout(), st, args[0], opts)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "yaml", "output format: yaml, json")

	return cmd
}

func newTablesResetCmd() *cobra.Command {
	opts := &TablesResetOptions{}

	cmd := &cobra.Command{
		Use:   "reset [table...]",
		Short: "Delete saved table layouts",
		Long: `Delete saved table layouts. Resetting every table with --all asks for
confirmation unless --yes is set.`,
		Example: `  # Reset one table
  cdtable tables reset 4821

  # Reset every table without prompting
  cdtable tables reset --all --yes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.All == (len(args) > 0) {
				return errors.New("name one or more tables, or pass --all")
			}
			return withStore(func(st store.Store) error {
				return runTablesReset(cmd, st, args, opts)
			})
		},
	}

	cmd.Flags().BoolVar(&opts.All, "all", false, "delete every saved layout")
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}

// withStore opens the configured store for the duration of fn.
func withStore(fn func(store.Store) error) error {
	st, err := openStore(GlobalOptions.Config)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Warn("failed to close store", "error", closeErr)
		}
	}()
	return fn(st)
}

func runTablesList(out io.Writer, st store.Store) error {
	keys, err := st.Keys()
	if err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}
	if len(keys) == 0 {
		_, _ = fmt.Fprintln(out, "No saved tables.")
		return nil
	}
	slices.Sort(keys)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "TABLE\tCOLUMNS\tHIDDEN\tLIMIT\tSORT")
	for _, key := range keys {
		cfg, err := loadTableConfig(st, key)
		if err != nil {
			_, _ = fmt.Fprintf(tw, "%s\t-\t-\t-\t(unreadable)\n", key)
			continue
		}
		hidden := 0
		for _, c := range cfg.Columns {
			if c.IsHidden {
				hidden++
			}
		}
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n", key, len(cfg.Columns), hidden, cfg.Limit, formatSorts(cfg.Sorts))
	}
	return tw.Flush()
}

func runTablesShow(out io.Writer, st store.Store, name string, opts *TablesShowOptions) error {
	cfg, err := loadTableConfig(st, name)
	if err != nil {
		return err
	}

	switch strings.ToLower(opts.Format) {
	case "json":
		data, marshalErr := json.MarshalIndent(cfg, "", "  ")
		if marshalErr != nil {
			return fmt.Errorf("failed to marshal table config: %w", marshalErr)
		}
		_, _ = fmt.Fprintln(out, string(data))
	case "yaml":
		data, marshalErr := yaml.Marshal(cfg)
		if marshalErr != nil {
			return fmt.Errorf("failed to marshal table config: %w", marshalErr)
		}
		_, _ = fmt.Fprint(out, string(data))
	default:
		return fmt.Errorf("invalid format %q: valid formats are yaml, json", opts.Format)
	}
	return nil
}

func runTablesReset(cmd *cobra.Command, st store.Store, names []string, opts *TablesResetOptions) error {
	out := cmd.OutOrStdout()

	if opts.All {
		keys, err := st.Keys()
		if err != nil {
			return fmt.Errorf("failed to list tables: %w", err)
		}
		if len(keys) == 0 {
			_, _ = fmt.Fprintln(out, "No saved tables.")
			return nil
		}
		slices.Sort(keys)

		confirmed, err := cli.Confirm(cli.ConfirmOptions{
			Question:   fmt.Sprintf("Reset %d saved tables?", len(keys)),
			Items:      keys,
			SkipPrompt: opts.Yes,
			Input:      cmd.InOrStdin(),
			Output:     out,
		})
		if err != nil {
			return err
		}
		if !confirmed {
			_, _ = fmt.Fprintln(out, "Aborted.")
			return nil
		}
		if err := st.Clear(); err != nil {
			return fmt.Errorf("failed to reset tables: %w", err)
		}
		_, _ = fmt.Fprintln(out, "Reset all tables.")
		return nil
	}

	for _, name := range names {
		if _, ok, err := st.Get(name); err != nil {
			return fmt.Errorf("failed to read table %s: %w", name, err)
		} else if !ok {
			return fmt.Errorf("table %s: %w", name, errTableNotFound)
		}
		if err := st.Delete(name); err != nil {
			return fmt.Errorf("failed to reset table %s: %w", name, err)
		}
		_, _ = fmt.Fprintf(out, "Reset table %s.\n", name)
	}
	return nil
}

var errTableNotFound = errors.New("no saved layout")

func loadTableConfig(st store.Store, name string) (datatable.UserConfig, error) {
	data, ok, err := st.Get(name)
	if err != nil {
		return datatable.UserConfig{}, fmt.Errorf("failed to read table %s: %w", name, err)
	}
	if !ok {
		return datatable.UserConfig{}, fmt.Errorf("table %s: %w", name, errTableNotFound)
	}
	return datatable.ParseUserConfig(name, data)
}

func formatSorts(sorts []datatable.SortProp) string {
	parts := make([]string, 0, len(sorts))
	for _, s := range sorts {
		parts = append(parts, s.Prop+":"+string(s.Dir))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ",")
}
