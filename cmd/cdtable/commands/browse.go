package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/andri/cdtable/internal/logger"
	"github.com/andri/cdtable/pkg/source"
	"github.com/andri/cdtable/pkg/tui/models"
	"github.com/andri/cdtable/pkg/tui/terminal"
	"github.com/spf13/cobra"
)

// newBrowseCmd creates the browse subcommand
func newBrowseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse a table interactively",
		Long: `Open the configured source as an interactive table.

Search with "/", filter columns with "f", toggle columns with "c" and
change the page size with "L". Space selects a row and enter expands it.
The column layout, sort order and page size are saved per table and
restored on the next run.

Logs are discarded while the table is shown unless --log-file is set.`,
		Example: `  # Browse the Rook-Ceph nodes of the current cluster
  cdtable browse

  # Browse the OSD deployments in another namespace
  cdtable browse --source deployments -n rook-ceph-prod

  # Browse a Ceph Dashboard endpoint
  cdtable browse --source dashboard --dashboard-url https://ceph.example:8443 --dashboard-endpoint /api/osd

  # Browse a local document and keep the layout in a pudge database
  cdtable browse --source file --file hosts.yaml --store pudge`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBrowse(cmd)
		},
	}

	addTableFlags(cmd)

	return cmd
}

func runBrowse(_ *cobra.Command) error {
	cfg := GlobalOptions.Config
	ctx := GlobalOptions.Context

	// The alt screen owns the terminal; stderr logs would tear it.
	if cfg.Logging.File == "" {
		logger.SetDefault(logger.Discard())
	}

	src, err := newTableSource(ctx, cfg)
	if err != nil {
		return err
	}

	primeCtx, cancel := context.WithTimeout(ctx, fetchTimeout(cfg))
	_, err = source.Prime(primeCtx, src)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to load columns: %w", err)
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	opts := source.TableOptions(cfg.Table, src)
	opts.Store = st

	return runTableBrowser(models.TableModelConfig{
		Context:        ctx,
		Source:         src,
		Options:        opts,
		FetchTimeout:   fetchTimeout(cfg),
		SearchDebounce: time.Duration(cfg.Table.SearchDebounceMS) * time.Millisecond,
		Capability:     terminal.DetectCapabilities(),
	})
}
