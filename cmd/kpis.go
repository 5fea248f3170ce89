package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/gdp-dashboard/internal/aggregate"
	"github.com/sells-group/gdp-dashboard/internal/geo"
	"github.com/sells-group/gdp-dashboard/internal/model"
)

var (
	kpisRegion       string
	kpisState        string
	kpisMunicipality string
	kpisYear         int
	kpisFormat       string
)

var kpisCmd = &cobra.Command{
	Use:   "kpis",
	Short: "Show headline KPIs for a municipality, state, region or the country",
	Long: `Shows GDP, population, per-capita GDP, annual growth, public sector share
and dominant sector. The most specific of --municipality, --state and --region
wins; with none of them the whole country is reported.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(kpisFormat); err != nil {
			return err
		}
		t, err := loadTable(cmd.Context())
		if err != nil {
			return err
		}
		year := kpisYear
		if year == 0 {
			year = lastYear(t)
		}

		out := cmd.OutOrStdout()
		f := formatter()
		switch {
		case kpisMunicipality != "":
			ref := model.MunicipalityRef{Name: kpisMunicipality, State: geo.NormalizeState(kpisState)}
			k := aggregate.KPIsForMunicipality(t, ref, year)
			if k == nil {
				return eris.Errorf("kpis: no data for %s (%s) at %d", ref.Name, ref.State, year)
			}
			if kpisFormat == formatJSON {
				return writeJSON(out, k)
			}
			renderMunicipalityKPIs(out, f, k)
		default:
			var k *aggregate.AggregateKPIs
			if kpisState != "" {
				k = aggregate.KPIsForState(t, geo.NormalizeState(kpisState), year)
			} else {
				if !geo.Default().HasRegion(kpisRegion) {
					return eris.Errorf("kpis: unknown region %q", kpisRegion)
				}
				k = aggregate.KPIsForRegion(t, kpisRegion, year)
			}
			if k == nil {
				return eris.Errorf("kpis: no data at %d", year)
			}
			if kpisFormat == formatJSON {
				return writeJSON(out, k)
			}
			renderAggregateKPIs(out, f, fmt.Sprintf("%s, %d", k.Scope, year), []aggregate.AggregateKPIs{*k})
		}
		return nil
	},
}

func init() {
	f := kpisCmd.Flags()
	f.StringVar(&kpisRegion, "region", "", "region name (empty for the whole country)")
	f.StringVar(&kpisState, "state", "", "state code, e.g. SP")
	f.StringVar(&kpisMunicipality, "municipality", "", "municipality name")
	f.IntVar(&kpisYear, "year", 0, "reference year (default: last year in the data)")
	f.StringVar(&kpisFormat, "format", formatTable, "output format: table or json")
	rootCmd.AddCommand(kpisCmd)
}
