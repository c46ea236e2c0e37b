package source

import (
	"time"

	"github.com/andri/cdtable/pkg/config"
	"github.com/andri/cdtable/pkg/datatable"
)

// TableOptions builds the engine options for src from the table settings.
// Hooks and Store are left for the caller.
func TableOptions(cfg config.TableConfig, src Source) datatable.Options {
	opts := datatable.Options{
		Columns:           src.Columns(),
		Identifier:        src.Identifier(),
		Limit:             cfg.PageSize,
		SearchableObjects: cfg.SearchableObjects,
		FilterCascade:     datatable.CascadeMode(cfg.FilterCascade),
		SelectionType:     datatable.SelectionSingle,
		SelectionRefresh:  datatable.RefreshPolicy(cfg.SelectionRefresh),
		ExpandedRefresh:   datatable.RefreshPolicy(cfg.ExpandedRefresh),
		AutoReload:        time.Duration(cfg.AutoReloadMS) * time.Millisecond,
	}
	if cfg.AutoReloadMS <= 0 {
		opts.AutoReload = -1
	}
	if c, ok := src.(Classer); ok {
		opts.CustomClasses = c.CustomClasses()
	}
	return opts
}
