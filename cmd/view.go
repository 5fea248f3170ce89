package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/gdp-dashboard/internal/filter"
)

var (
	viewSel    filter.Selection
	viewFormat string
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Print every dashboard panel for a selection",
	Example: `  gdp-dashboard view --state SP --year 2021
  gdp-dashboard view --state RJ --view single --municipality Niterói
  gdp-dashboard view --region Sul --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(viewFormat); err != nil {
			return err
		}
		ctx := cmd.Context()
		t, err := loadTable(ctx)
		if err != nil {
			return err
		}
		v, err := buildView(ctx, t, viewSel, dashboardOptions(cfg))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if viewFormat == formatJSON {
			return writeJSON(out, v)
		}
		renderView(out, formatter(), v)
		return nil
	},
}

func init() {
	addSelectionFlags(viewCmd, &viewSel)
	viewCmd.Flags().StringVar(&viewFormat, "format", formatTable, "output format: table or json")
	rootCmd.AddCommand(viewCmd)
}
