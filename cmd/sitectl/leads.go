package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rpupo63/contractor-site-backend/database"
	"github.com/rpupo63/contractor-site-backend/models"
)

func (c *cli) leadsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leads",
		Short: "Review captured leads",
	}
	cmd.AddCommand(c.leadsListCmd(), c.leadsShowCmd(), c.leadsStatusCmd(), c.leadsDeleteCmd())
	return cmd
}

func (c *cli) leads(cmd *cobra.Command) (database.Leads, error) {
	ctx := cmd.Context()
	cfg, err := c.loadConfig(ctx)
	if err != nil {
		return database.Leads{}, err
	}
	cfg.DB.AutoMigrate = false
	currentDB, _, err := c.openDB(ctx, cfg)
	if err != nil {
		return database.Leads{}, err
	}
	return currentDB.Leads(), nil
}

func (c *cli) leadsListCmd() *cobra.Command {
	var (
		status string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List leads, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			leads, err := c.leads(cmd)
			if err != nil {
				return err
			}
			found := leads.GetLeads(cmd.Context(), status)
			if asJSON {
				return writeJSON(cmd, found)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tNAME\tEMAIL\tSTATUS\tSERVICES")
			for _, l := range found {
				fmt.Fprintf(tw, "%s\t%s\t%s %s\t%s\t%s\t%s\n",
					l.ID, l.CreatedAt.Format("2006-01-02 15:04"), l.FirstName, l.LastName,
					l.Email, l.Status, strings.Join(l.Services, ", "))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Only leads with this status")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func (c *cli) leadsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print one lead as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid lead id %q", args[0])
			}
			leads, err := c.leads(cmd)
			if err != nil {
				return err
			}
			lead := leads.GetLeadByID(cmd.Context(), id)
			if lead == nil {
				return fmt.Errorf("lead %s not found", id)
			}
			return writeJSON(cmd, lead)
		},
	}
}

func (c *cli) leadsStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Move a lead through the pipeline",
		Long:  "Set a lead's status to one of: new, contacted, quoted, won, lost.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid lead id %q", args[0])
			}
			status := strings.ToLower(args[1])
			if !models.ValidLeadStatus(status) {
				return fmt.Errorf("invalid status %q", args[1])
			}
			leads, err := c.leads(cmd)
			if err != nil {
				return err
			}
			lead := leads.UpdateLead(cmd.Context(), id, models.LeadUpdate{Status: &status})
			if lead == nil {
				return fmt.Errorf("lead %s could not be updated", id)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Lead %s is now %s\n", lead.ID, lead.Status)
			return nil
		},
	}
}

func (c *cli) leadsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a lead",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid lead id %q", args[0])
			}
			leads, err := c.leads(cmd)
			if err != nil {
				return err
			}
			if !leads.DeleteLead(cmd.Context(), id) {
				return fmt.Errorf("lead %s could not be deleted", id)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Lead %s deleted\n", id)
			return nil
		},
	}
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
