package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/plot"

	"github.com/sells-group/gdp-dashboard/internal/chart"
	"github.com/sells-group/gdp-dashboard/internal/dashboard"
	"github.com/sells-group/gdp-dashboard/internal/filter"
)

// Chart kinds accepted by --kind.
const (
	chartSeries      = "series"
	chartPeers       = "peers"
	chartComposition = "composition"
)

var (
	chartSel  filter.Selection
	chartKind string
	chartOut  string
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render a dashboard panel to PNG",
	Example: `  gdp-dashboard chart --state SP --kind series --out sp.png
  gdp-dashboard chart --state SP --view single --municipality Campinas --kind peers`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		t, err := loadTable(ctx)
		if err != nil {
			return err
		}
		v, err := buildView(ctx, t, chartSel, dashboardOptions(cfg))
		if err != nil {
			return err
		}

		p, err := plotPanel(v, chartKind)
		if err != nil {
			return err
		}
		if err := chart.Save(p, chartOut); err != nil {
			return err
		}
		zap.L().Info("chart: written", zap.String("kind", chartKind), zap.String("path", chartOut))
		return nil
	},
}

// plotPanel draws the panel of v named by kind.
func plotPanel(v *dashboard.View, kind string) (*plot.Plot, error) {
	switch kind {
	case chartSeries:
		return chart.Series(v.Series, "Evolução do PIB: "+v.Title)
	case chartPeers:
		if v.Peers == nil {
			return nil, eris.Errorf("chart: peers need --view single (mode is %s)", v.Mode)
		}
		return chart.Peers(v.Peers, "Escala econômica vs renda: "+v.Title)
	case chartComposition:
		return chart.Composition(v.Composition, "Composição do VAB: "+v.Title)
	}
	return nil, eris.Errorf("chart: unknown kind %q", kind)
}

func init() {
	addSelectionFlags(chartCmd, &chartSel)
	f := chartCmd.Flags()
	f.StringVar(&chartKind, "kind", chartSeries, "panel: series, peers or composition")
	f.StringVar(&chartOut, "out", "chart.png", "output image path (format follows the extension)")
	rootCmd.AddCommand(chartCmd)
}
