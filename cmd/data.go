package main

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/gdp-dashboard/internal/config"
	"github.com/sells-group/gdp-dashboard/internal/dashboard"
	"github.com/sells-group/gdp-dashboard/internal/filter"
	"github.com/sells-group/gdp-dashboard/internal/geo"
	"github.com/sells-group/gdp-dashboard/internal/loader"
	"github.com/sells-group/gdp-dashboard/internal/model"
	"github.com/sells-group/gdp-dashboard/internal/numfmt"
)

// Output formats accepted by --format.
const (
	formatTable = "table"
	formatJSON  = "json"
)

func loaderOptions(c *config.Config) loader.Options {
	return loader.Options{
		Strict:       c.Data.Strict,
		SectorCutoff: c.Dataset.SectorCutoff,
		FirstYear:    c.Dataset.FirstYear,
		LastYear:     c.Dataset.LastYear,
		Catalog:      geo.Default(),
	}
}

func dashboardOptions(c *config.Config) dashboard.Options {
	return dashboard.Options{
		RankingTopN:   c.Dashboard.RankingTopN,
		SeriesTopN:    c.Dashboard.SeriesTopN,
		PeerCount:     c.Dashboard.PeerCount,
		HistogramBins: c.Dashboard.HistogramBins,
	}
}

// loadTable validates the query settings and loads the fact table once.
func loadTable(ctx context.Context) (*model.Table, error) {
	if err := cfg.Validate("query"); err != nil {
		return nil, err
	}
	src, err := loader.Open(cfg.Data)
	if err != nil {
		return nil, err
	}
	return loader.Build(ctx, src, loaderOptions(cfg))
}

// formatter returns the number formatter for the configured locale.
func formatter() *numfmt.Formatter {
	if cfg == nil {
		return numfmt.New("")
	}
	return numfmt.New(cfg.Dashboard.Locale)
}

// addSelectionFlags binds the selection widgets to flags on c.
func addSelectionFlags(c *cobra.Command, sel *filter.Selection) {
	f := c.Flags()
	f.StringVar(&sel.Region, "region", "", "region name (empty or Brasil for the whole country)")
	f.StringVar(&sel.State, "state", "", "state code, e.g. SP")
	f.StringVar(&sel.View, "view", filter.ViewAll, "state view: all, single or compare")
	f.StringSliceVar(&sel.Municipalities, "municipality", nil, "municipality name (repeat or comma-separate to compare)")
	f.StringSliceVar(&sel.States, "states", nil, "states to compare when no state is selected")
	f.StringSliceVar(&sel.Regions, "regions", nil, "regions to compare when no region is selected")
	f.IntVar(&sel.Year, "year", 0, "reference year (default: last year of the range)")
	f.IntVar(&sel.Start, "start", 0, "first year of the range (default: first year of the dataset)")
	f.IntVar(&sel.End, "end", 0, "last year of the range (default: last year of the dataset)")
}

// buildView validates sel against t and assembles the dashboard view.
func buildView(ctx context.Context, t *model.Table, sel filter.Selection, opts dashboard.Options) (*dashboard.View, error) {
	fc, err := filter.Build(sel, geo.Default(), filter.CalendarOf(t))
	if err != nil {
		return nil, eris.Wrap(err, "invalid selection")
	}
	v, err := dashboard.Build(ctx, t, fc, opts)
	if err != nil {
		return nil, err
	}
	if len(v.Unavailable) > 0 {
		zap.L().Info("panels without data", zap.Strings("panels", v.Unavailable))
	}
	return v, nil
}

func checkFormat(format string) error {
	switch format {
	case formatTable, formatJSON:
		return nil
	}
	return eris.Errorf("unknown format %q (want table or json)", format)
}
