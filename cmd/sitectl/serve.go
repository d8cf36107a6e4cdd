package main

import (
	"github.com/spf13/cobra"

	"github.com/rpupo63/contractor-site-backend/app"
)

func (c *cli) serveCmd() *cobra.Command {
	var (
		port    string
		migrate bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the public lead capture API and the admin API.

Examples:
  # Serve on the port from PORT (default 8080)
  sitectl serve

  # Serve on another port and migrate the schema first
  sitectl serve --port 9000 --migrate`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig(ctx)
			if err != nil {
				return err
			}
			if port != "" {
				cfg.HTTP.Port = port
			}
			if migrate {
				cfg.DB.AutoMigrate = true
			}
			currentDB, _, err := c.openDB(ctx, cfg)
			if err != nil {
				return err
			}
			return app.Serve(ctx, cfg, currentDB)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides PORT)")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Migrate the schema before serving")
	return cmd
}
