package main

import (
	"slices"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/gdp-dashboard/internal/db"
	"github.com/sells-group/gdp-dashboard/internal/loader"
)

var (
	convertTo    string
	convertOut   string
	convertTable string
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Copy the validated fact table to Parquet, SQLite or Postgres",
	Example: `  gdp-dashboard convert --to parquet --out data/pib.parquet
  gdp-dashboard convert --to postgres --out postgres://localhost/gdp`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if convertOut == "" {
			return eris.New("convert: --out is required")
		}
		ctx := cmd.Context()
		t, err := loadTable(ctx)
		if err != nil {
			return err
		}
		rows := slices.Collect(t.All())

		switch convertTo {
		case loader.DriverParquet:
			err = loader.WriteParquet(convertOut, rows)
		case loader.DriverSQLite:
			err = loader.WriteSQLite(ctx, convertOut, convertTable, rows)
		case loader.DriverPostgres:
			pool, cerr := db.Connect(ctx, convertOut)
			if cerr != nil {
				return cerr
			}
			defer pool.Close()
			_, err = loader.WritePostgres(ctx, pool, convertTable, rows)
		default:
			return eris.Errorf("convert: unsupported target %q", convertTo)
		}
		if err != nil {
			return err
		}

		zap.L().Info("convert: fact table written",
			zap.String("to", convertTo),
			zap.Int("rows", len(rows)),
		)
		return nil
	},
}

func init() {
	f := convertCmd.Flags()
	f.StringVar(&convertTo, "to", loader.DriverParquet, "target: parquet, sqlite or postgres")
	f.StringVar(&convertOut, "out", "", "output file path or database URL")
	f.StringVar(&convertTable, "table", "pib_municipios", "table name for sqlite and postgres targets")
	rootCmd.AddCommand(convertCmd)
}
