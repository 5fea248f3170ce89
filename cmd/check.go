package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/gdp-dashboard/internal/loader"
	"github.com/sells-group/gdp-dashboard/internal/model"
)

var checkFormatFlag string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the fact table: unique keys, positive GDP, value added totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(checkFormatFlag); err != nil {
			return err
		}
		if err := cfg.Validate("query"); err != nil {
			return err
		}
		src, err := loader.Open(cfg.Data)
		if err != nil {
			return err
		}
		rows, err := src.Load(cmd.Context())
		if err != nil {
			return err
		}

		rep := model.CheckIntegrity(rows)
		out := cmd.OutOrStdout()
		if checkFormatFlag == formatJSON {
			if err := writeJSON(out, rep); err != nil {
				return err
			}
		} else {
			renderIntegrity(out, rep)
		}
		if !rep.OK() {
			return eris.New("check: fact table has integrity issues")
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkFormatFlag, "format", formatTable, "output format: table or json")
	rootCmd.AddCommand(checkCmd)
}
