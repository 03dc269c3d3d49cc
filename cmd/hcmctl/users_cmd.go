package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/iota-uz/hcm-console/modules/identity/services"
	"github.com/iota-uz/hcm-console/pkg/backend"
)

func newUsersCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List, inspect and export users",
	}
	cmd.AddCommand(newUsersListCmd(rt), newUsersGetCmd(rt), newUsersDetailsCmd(rt), newUsersExportCmd(rt))
	return cmd
}

func printUsers(cmd *cobra.Command, users []backend.ScimUser, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, users)
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "USERNAME\tDISPLAY NAME\tEMAIL\tACTIVE\tROLES")
	for _, u := range users {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%d\n", u.UserName, u.DisplayName, u.PrimaryEmail(), u.Active, len(u.Roles))
	}
	return tw.Flush()
}

func newUsersListCmd(rt *runtime) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every user",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rt.config(cmd.Context())
			if err != nil {
				return err
			}
			users, res := rt.users.List(cmd.Context(), cfg)
			if err := resultErr(res); err != nil {
				return err
			}
			return printUsers(cmd, users, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the users as JSON")
	return cmd
}

func newUsersGetCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "get <username>",
		Short: "Show the SCIM record of a user",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rt.config(cmd.Context())
			if err != nil {
				return err
			}
			user, res := rt.users.Get(cmd.Context(), args[0], cfg)
			if err := resultErr(res); err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), user)
		},
	}
}

func newUsersDetailsCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "details <username>",
		Short: "Show roles, areas of responsibility and data security of a user",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rt.config(cmd.Context())
			if err != nil {
				return err
			}
			details, res := rt.users.Details(cmd.Context(), args[0], cfg)
			if err := resultErr(res); err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), details)
		},
	}
}

func newUsersExportCmd(rt *runtime) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every user to an Excel workbook",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rt.config(cmd.Context())
			if err != nil {
				return err
			}
			data, res := rt.users.Export(cmd.Context(), cfg)
			if err := resultErr(res); err != nil {
				return err
			}
			if out == "" {
				out = services.ExportFileName
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return withCode(exitBackend, errors.Wrapf(err, "write %s", out))
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported users to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default "+services.ExportFileName+")")
	return cmd
}
