package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/gdp-dashboard/internal/export"
	"github.com/sells-group/gdp-dashboard/internal/filter"
)

var (
	exportSel filter.Selection
	exportOut string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the tables of a dashboard selection to an XLSX workbook",
	Example: `  gdp-dashboard export --state SP --out sp.xlsx
  gdp-dashboard export --region Sul --start 2015 --out sul.xlsx`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		t, err := loadTable(ctx)
		if err != nil {
			return err
		}
		v, err := buildView(ctx, t, exportSel, dashboardOptions(cfg))
		if err != nil {
			return err
		}

		wb, err := export.FromView(v)
		if err != nil {
			return err
		}
		defer wb.Close() //nolint:errcheck

		if err := wb.SaveAs(exportOut); err != nil {
			return err
		}
		zap.L().Info("export: workbook written",
			zap.String("path", exportOut),
			zap.Strings("sheets", wb.File().GetSheetList()),
		)
		return nil
	},
}

func init() {
	addSelectionFlags(exportCmd, &exportSel)
	exportCmd.Flags().StringVar(&exportOut, "out", "dashboard.xlsx", "output workbook path")
	rootCmd.AddCommand(exportCmd)
}
