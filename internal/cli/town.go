package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

func newTownCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "town",
		Short: "Town management commands",
	}

	cmd.AddCommand(newTownCreateCmd())
	cmd.AddCommand(newTownListCmd())
	cmd.AddCommand(newTownUpdateCmd())
	cmd.AddCommand(newTownDeleteCmd())

	return cmd
}

func newTownCreateCmd() *cobra.Command {
	var name string
	var public bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new town",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"friendlyName":     name,
				"isPubliclyListed": public,
			}

			var result TownCreated

			if err := client.Post("/api/v1/towns", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Friendly name for the town (required)")
	cmd.Flags().BoolVar(&public, "public", false, "List the town publicly")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newTownListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List publicly visible towns",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result TownList

			if err := client.Get("/api/v1/towns", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newTownUpdateCmd() *cobra.Command {
	var password string
	var name string
	var public bool

	cmd := &cobra.Command{
		Use:   "update <townID>",
		Short: "Update a town's settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			townID := args[0]

			req := map[string]any{}
			if cmd.Flags().Changed("name") {
				req["friendlyName"] = name
			}
			if cmd.Flags().Changed("public") {
				req["isPubliclyListed"] = public
			}
			if len(req) == 0 {
				return fmt.Errorf("nothing to update: provide --name or --public")
			}

			path := fmt.Sprintf("/api/v1/towns/%s", townID)
			if err := client.DoWithPassword(http.MethodPatch, path, password, req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Updated town %s", townID))
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Town update password (required)")
	cmd.Flags().StringVar(&name, "name", "", "New friendly name")
	cmd.Flags().BoolVar(&public, "public", false, "New public listing setting")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newTownDeleteCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "delete <townID>",
		Short: "Delete a town, disconnecting all its players",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			townID := args[0]

			path := fmt.Sprintf("/api/v1/towns/%s", townID)
			if err := client.DoWithPassword(http.MethodDelete, path, password, nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Deleted town %s", townID))
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Town update password (required)")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
