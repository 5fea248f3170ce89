package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sells-group/gdp-dashboard/internal/api"
	"github.com/sells-group/gdp-dashboard/internal/geo"
	"github.com/sells-group/gdp-dashboard/internal/loader"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard panels as JSON over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if servePort != 0 {
			cfg.Server.Port = servePort
		}
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		src, err := loader.Open(cfg.Data)
		if err != nil {
			return err
		}
		cache := loader.NewCache(src, loaderOptions(cfg))
		// Load before listening so a bad data source fails the command.
		if _, err := cache.Table(ctx); err != nil {
			return err
		}

		srv := api.New(api.Config{
			Tables:         cache,
			Catalog:        geo.Default(),
			Dashboard:      dashboardOptions(cfg),
			Port:           cfg.Server.Port,
			RateLimit:      cfg.Server.RateLimit,
			RateBurst:      cfg.Server.RateBurst,
			AllowedOrigins: cfg.Server.AllowedOrigins,
		})
		return srv.Serve(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
