package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iota-uz/hcm-console/pkg/backend"
)

func newSearchCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search users and areas of responsibility",
	}

	var (
		users      backend.UserCriteria
		usersJSON  bool
		aors       backend.AORCriteria
		aorsAsJSON bool
	)
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Search users by username, email or status",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rt.config(cmd.Context())
			if err != nil {
				return err
			}
			found, res := rt.users.Search(cmd.Context(), users, cfg)
			if err := resultErr(res); err != nil {
				return err
			}
			if !usersJSON {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Search results (%d users found)\n", len(found))
			}
			return printUsers(cmd, found, usersJSON)
		},
	}
	usersCmd.Flags().StringVar(&users.Username, "username", "", "Username filter")
	usersCmd.Flags().StringVar(&users.Email, "email", "", "Email filter")
	usersCmd.Flags().StringVar(&users.Active, "active", "", "Status filter: true or false")

	aorsCmd := &cobra.Command{
		Use:   "aors",
		Short: "Search areas of responsibility by name or type",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rt.config(cmd.Context())
			if err != nil {
				return err
			}
			found, res := rt.access.SearchAORs(cmd.Context(), aors, cfg)
			if err := resultErr(res); err != nil {
				return err
			}
			if !aorsAsJSON {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Search results (%d AORs found)\n", len(found))
			}
			return printAORs(cmd, found, aorsAsJSON)
		},
	}
	aorsCmd.Flags().StringVar(&aors.Name, "name", "", "Name filter")
	aorsCmd.Flags().StringVar(&aors.Type, "type", "", "Type filter")

	usersCmd.Flags().BoolVar(&usersJSON, "json", false, "Print the users as JSON")
	aorsCmd.Flags().BoolVar(&aorsAsJSON, "json", false, "Print the areas as JSON")
	cmd.AddCommand(usersCmd, aorsCmd)
	return cmd
}
