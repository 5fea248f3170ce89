package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/gdp-dashboard/internal/aggregate"
	"github.com/sells-group/gdp-dashboard/internal/geo"
)

var (
	tableStates bool
	tableState  string
	tableRegion string
	tableYear   int
	tableStart  int
	tableFormat string
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Print the consolidated municipality or state table",
	Long: `Prints GDP, per-capita GDP, population, public sector share, growth since
--start and dominant sector for every municipality of --state, or for every
state of --region with --states.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(tableFormat); err != nil {
			return err
		}
		if !tableStates && tableState == "" {
			return eris.New("table: --state or --states is required")
		}
		t, err := loadTable(cmd.Context())
		if err != nil {
			return err
		}
		year := tableYear
		if year == 0 {
			year = lastYear(t)
		}
		start := tableStart
		if start == 0 {
			if years := t.Years(); len(years) > 0 {
				start = years[0]
			}
		}
		out := cmd.OutOrStdout()

		if tableStates {
			if !geo.Default().HasRegion(tableRegion) {
				return eris.Errorf("table: unknown region %q", tableRegion)
			}
			rows := aggregate.StatesTable(t, year, start, tableRegion)
			if tableFormat == formatJSON {
				return writeJSON(out, rows)
			}
			renderStates(out, formatter(), fmt.Sprintf("UFs, %d (crescimento desde %d)", year, start), rows)
			return nil
		}

		state := geo.NormalizeState(tableState)
		rows := aggregate.MunicipalitiesTable(t, state, year, start)
		if tableFormat == formatJSON {
			return writeJSON(out, rows)
		}
		renderMunicipalities(out, formatter(), fmt.Sprintf("%s, %d (crescimento desde %d)", state, year, start), rows)
		return nil
	},
}

func init() {
	f := tableCmd.Flags()
	f.BoolVar(&tableStates, "states", false, "print the state table instead of municipalities")
	f.StringVar(&tableState, "state", "", "state code for the municipality table")
	f.StringVar(&tableRegion, "region", "", "region for the state table (empty for the whole country)")
	f.IntVar(&tableYear, "year", 0, "table year (default: last year in the data)")
	f.IntVar(&tableStart, "start", 0, "growth base year (default: first year in the data)")
	f.StringVar(&tableFormat, "format", formatTable, "output format: table or json")
	rootCmd.AddCommand(tableCmd)
}
