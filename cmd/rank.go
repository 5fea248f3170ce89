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
	rankBy     string
	rankStates bool
	rankState  string
	rankRegion string
	rankYear   int
	rankTop    int
	rankFormat string
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank municipalities or states by GDP or per-capita GDP",
	Example: `  gdp-dashboard rank --state MG --by per-capita --top 20
  gdp-dashboard rank --states --region Nordeste`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(rankFormat); err != nil {
			return err
		}
		if rankBy != "gdp" && rankBy != "per-capita" {
			return eris.Errorf("rank: unknown measure %q (want gdp or per-capita)", rankBy)
		}
		t, err := loadTable(cmd.Context())
		if err != nil {
			return err
		}
		year := rankYear
		if year == 0 {
			year = lastYear(t)
		}
		perCapita := rankBy == "per-capita"
		out := cmd.OutOrStdout()
		f := formatter()

		if rankStates {
			if !geo.Default().HasRegion(rankRegion) {
				return eris.Errorf("rank: unknown region %q", rankRegion)
			}
			rank := aggregate.RankStatesByGDP
			if perCapita {
				rank = aggregate.RankStatesByPerCapita
			}
			rows := rank(t, year, rankRegion, rankTop)
			if rankFormat == formatJSON {
				return writeJSON(out, rows)
			}
			renderStateRanking(out, f, fmt.Sprintf("UFs por %s, %d", rankBy, year), rows)
			return nil
		}

		rank := aggregate.RankMunicipalitiesByGDP
		if perCapita {
			rank = aggregate.RankMunicipalitiesByPerCapita
		}
		rows := rank(t, geo.NormalizeState(rankState), year, rankTop)
		if rankFormat == formatJSON {
			return writeJSON(out, rows)
		}
		renderMunicipalityRanking(out, f, fmt.Sprintf("Municípios por %s, %d", rankBy, year), rows, perCapita)
		return nil
	},
}

// lastYear is the most recent year in t, zero when t is empty.
func lastYear(t *model.Table) int {
	years := t.Years()
	if len(years) == 0 {
		return 0
	}
	return years[len(years)-1]
}

func init() {
	f := rankCmd.Flags()
	f.StringVar(&rankBy, "by", "gdp", "measure: gdp or per-capita")
	f.BoolVar(&rankStates, "states", false, "rank states instead of municipalities")
	f.StringVar(&rankState, "state", "", "state whose municipalities are ranked (empty for all)")
	f.StringVar(&rankRegion, "region", "", "region whose states are ranked (with --states)")
	f.IntVar(&rankYear, "year", 0, "reference year (default: last year in the data)")
	f.IntVar(&rankTop, "top", 10, "number of rows (0 for all)")
	f.StringVar(&rankFormat, "format", formatTable, "output format: table or json")
	rootCmd.AddCommand(rankCmd)
}
