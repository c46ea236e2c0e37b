package commands

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/andri/cdtable/internal/logger"
	"github.com/andri/cdtable/pkg/datatable"
	"github.com/andri/cdtable/pkg/output"
	"github.com/andri/cdtable/pkg/source"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// defaultWatchInterval is used by --watch when the config disables auto reload.
const defaultWatchInterval = 2 * time.Second

// QueryOptions holds options for the query command
type QueryOptions struct {
	// Search is the free-text search applied after the column filters
	Search string

	// Filters are prop=value column filter selections
	Filters []string

	// Sorts are prop[:asc|desc] sort keys, primary first
	Sorts []string

	// Page is the 1-based page to print
	Page int

	// Output is the output format: table, json, yaml
	Output string

	// Save writes sort changes back to the table config store
	Save bool

	// Watch enables continuous refresh mode
	Watch bool

	// Interval is the refresh interval for watch mode. Zero uses the
	// configured auto reload interval.
	Interval time.Duration
}

func validOutputFormats() []string {
	formats := make([]string, 0, len(output.Formats))
	for _, f := range output.Formats {
		formats = append(formats, f.String())
	}
	return formats
}

// newQueryCmd creates the query subcommand
func newQueryCmd() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [search]",
		Short: "Print one page of a table",
		Long: `Fetch the configured source and print one page of the table.

Column filters narrow the rows first, the search then matches what is
left. Search words are combined with AND and each may be narrowed to a
column with a "column:value" hint; quote a phrase to match it as a whole.
The saved column layout of the table decides which columns are shown.`,
		Example: `  # Print the first page of Rook-Ceph nodes
  cdtable query

  # Search for OSD pods on a host, as JSON
  cdtable query --source pods 'type:osd ceph-2' -o json

  # Filter a document by column and sort by two keys
  cdtable query --source file --file hosts.yaml --filter status=available --sort services --sort hostname:desc

  # Watch the deployments table every 5 seconds
  cdtable query --source deployments --watch --interval 5s`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Search = args[0]
			}
			if err := opts.validate(); err != nil {
				return err
			}
			return runQuery(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Search, "search", "", "free-text search")
	flags.StringArrayVar(&opts.Filters, "filter", nil, "column filter as prop=value (repeatable)")
	flags.StringArrayVar(&opts.Sorts, "sort", nil, "sort key as prop[:asc|desc] (repeatable)")
	flags.IntVar(&opts.Page, "page", 1, "page to print")
	flags.StringVarP(&opts.Output, "output", "o", "table",
		fmt.Sprintf("output format: %s", strings.Join(validOutputFormats(), ", ")))
	flags.BoolVar(&opts.Save, "save", false, "save --sort to the table config")
	flags.BoolVarP(&opts.Watch, "watch", "w", false, "refetch and print continuously")
	flags.DurationVar(&opts.Interval, "interval", 0, "watch refresh interval (default: the auto reload interval)")

	addTableFlags(cmd)

	return cmd
}

func (o *QueryOptions) validate() error {
	if !slices.Contains(validOutputFormats(), o.Output) {
		return fmt.Errorf("invalid output format %q: valid formats are %s",
			o.Output, strings.Join(validOutputFormats(), ", "))
	}
	if o.Page < 1 {
		return fmt.Errorf("--page must be >= 1, got %d", o.Page)
	}
	for _, f := range o.Filters {
		if prop, _, ok := strings.Cut(f, "="); !ok || strings.TrimSpace(prop) == "" {
			return fmt.Errorf("invalid filter %q: expected prop=value", f)
		}
	}
	for _, s := range o.Sorts {
		if _, err := datatable.ParseSort(s); err != nil {
			return fmt.Errorf("invalid sort %q: %w", s, err)
		}
	}
	if o.Interval < 0 {
		return fmt.Errorf("--interval must not be negative, got %v", o.Interval)
	}
	if o.Interval > 0 && !o.Watch {
		return errors.New("--interval requires --watch")
	}
	return nil
}

func runQuery(cmd *cobra.Command, opts *QueryOptions) error {
	cfg := GlobalOptions.Config
	ctx := GlobalOptions.Context
	format, err := output.ParseFormat(opts.Output)
	if err != nil {
		return err
	}

	src, err := newTableSource(ctx, cfg)
	if err != nil {
		return err
	}

	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout(cfg))
	primed, err := source.Prime(fetchCtx, src)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to load columns: %w", err)
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	q := &query{opts: opts}
	tableOpts := source.TableOptions(cfg.Table, src)
	tableOpts.Store = readOnlyStore{Store: st}
	if opts.Save {
		tableOpts.Store = st
	}
	tableOpts.Hooks.FetchData = func(fc *datatable.FetchDataContext) { q.pending = fc }

	q.table, err = datatable.New(tableOpts)
	if err != nil {
		return fmt.Errorf("failed to create table for %s: %w", src.Name(), err)
	}
	if err := q.applySorts(); err != nil {
		return err
	}

	if opts.Watch {
		return runQueryWatch(ctx, cmd, q, src, format)
	}

	rows := primed
	if rows == nil {
		fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout(cfg))
		rows, err = src.Fetch(fetchCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to fetch %s: %w", src.Name(), err)
		}
	}

	q.apply(source.Update{Rows: rows, Time: time.Now()})
	if err := q.applyFilters(); err != nil {
		return err
	}
	return output.Render(cmd.OutOrStdout(), q.snapshot(), format)
}

func runQueryWatch(ctx context.Context, cmd *cobra.Command, q *query, src source.Source, format output.Format) error {
	interval := q.opts.Interval
	if interval == 0 {
		interval = q.table.AutoReload()
	}
	if interval == 0 {
		interval = defaultWatchInterval
	}

	updates, err := source.Poll(ctx, src, interval)
	if err != nil {
		return err
	}

	return output.RunWatch(ctx, output.WatchOptions{
		Interval: interval,
		Format:   format,
		Updates:  updates,
		Apply: func(upd source.Update) *output.Data {
			q.apply(upd)
			if err := q.applyFilters(); err != nil {
				logger.Debug("filter not applied", "error", err)
			}
			return q.snapshot()
		},
		Writer:  cmd.OutOrStdout(),
		Command: "cdtable " + strings.Join(commandArgs(cmd), " "),
	})
}

// query drives one table through fetch results the way the browser does.
type query struct {
	opts    *QueryOptions
	table   *datatable.Table
	pending *datatable.FetchDataContext
}

// apply hands a fetch result to the table through a reload round trip.
func (q *query) apply(upd source.Update) {
	if !q.table.ReloadData() || q.pending == nil {
		return
	}
	fc := q.pending
	q.pending = nil
	if upd.Err != nil {
		fc.Error(upd.Err)
		return
	}
	q.table.SetData(upd.Rows)
	q.table.SetSearch(q.opts.Search)
}

func (q *query) applySorts() error {
	if len(q.opts.Sorts) == 0 {
		return nil
	}
	sorts := make([]datatable.SortProp, 0, len(q.opts.Sorts))
	for _, s := range q.opts.Sorts {
		sp, err := datatable.ParseSort(s)
		if err != nil {
			return err
		}
		sorts = append(sorts, sp)
	}
	if err := q.table.ChangeSorting(sorts); err != nil {
		return fmt.Errorf("invalid sort: %w", err)
	}
	return nil
}

// applyFilters selects every --filter value. Options are derived from the
// data, so this runs after each load; a selection that no longer exists is
// reported.
func (q *query) applyFilters() error {
	var errs []error
	for _, f := range q.opts.Filters {
		prop, value, _ := strings.Cut(f, "=")
		if err := q.table.SetFilterValue(strings.TrimSpace(prop), value); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (q *query) snapshot() *output.Data {
	q.table.SetOffset(q.opts.Page - 1)
	return output.NewData(q.table)
}

// commandArgs is the invocation shown in the watch header.
func commandArgs(cmd *cobra.Command) []string {
	args := []string{cmd.Name()}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		args = append(args, "--"+f.Name+"="+f.Value.String())
	})
	return args
}
