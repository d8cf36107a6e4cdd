package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rpupo63/contractor-site-backend/models"
)

func (c *cli) dbCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Schema maintenance",
	}
	cmd.AddCommand(c.dbMigrateCmd(), c.dbReportCmd(), c.dbGenCmd())
	return cmd
}

func (c *cli) dbMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or alter the site tables to match the models",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig(ctx)
			if err != nil {
				return err
			}
			cfg.DB.AutoMigrate = false
			currentDB, _, err := c.openDB(ctx, cfg)
			if err != nil {
				return err
			}
			if err := currentDB.Migrate(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
			return nil
		},
	}
}

func (c *cli) dbReportCmd() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Compare the live tables with the models",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig(ctx)
			if err != nil {
				return err
			}
			cfg.DB.AutoMigrate = false
			_, db, err := c.openDB(ctx, cfg)
			if err != nil {
				return err
			}
			reports, err := models.ColumnMismatchReport(db.WithContext(ctx))
			if err != nil {
				return err
			}
			total := models.WriteColumnReport(cmd.OutOrStdout(), reports)
			if strict && total > 0 {
				return fmt.Errorf("%d mismatched columns", total)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when any column is mismatched")
	return cmd
}

func (c *cli) dbGenCmd() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate typed query helpers for the models",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig(ctx)
			if err != nil {
				return err
			}
			cfg.DB.AutoMigrate = false
			_, db, err := c.openDB(ctx, cfg)
			if err != nil {
				return err
			}
			models.GenerateQueries(db, outPath)
			fmt.Fprintf(cmd.OutOrStdout(), "Query helpers written to %s\n", outPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "./generated", "Output directory")
	return cmd
}
