package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/iota-uz/hcm-console/pkg/backend"
)

// bulkFunc is one of the bulk operations of the access service.
type bulkFunc func(cmd *cobra.Command, text string, cfg *backend.ConnectionConfig) (*backend.BulkOperationResponse, backend.OperationResult)

// readInput returns the content of path, with "-" meaning stdin.
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "" {
		return "", withCode(exitUsage, errors.New("--file is required"))
	}
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", withCode(exitUsage, errors.Wrapf(err, "read %s", path))
	}
	return string(data), nil
}

func printBulk(cmd *cobra.Command, out *backend.BulkOperationResponse, asJSON bool) error {
	w := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(w, out)
	}
	_, _ = fmt.Fprintf(w, "Bulk operation completed: %d successful, %d failed\n", out.SuccessfulOperations, out.FailedOperations)
	for i, r := range out.Results {
		if r.Success {
			continue
		}
		msg := r.Error
		if msg == "" {
			msg = r.Message
		}
		_, _ = fmt.Fprintf(w, "  #%d: %s\n", i+1, msg)
	}
	if len(out.SkippedLines) > 0 {
		_, _ = fmt.Fprintf(w, "Skipped %d invalid lines:\n", len(out.SkippedLines))
		for _, line := range out.SkippedLines {
			_, _ = fmt.Fprintf(w, "  %s\n", line)
		}
	}
	return nil
}

func newBulkCmd(rt *runtime, short, format string, fn bulkFunc) *cobra.Command {
	var (
		file   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "bulk",
		Short: short,
		Long:  short + ".\n\nEach line of the input is one assignment: " + format,
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, file)
			if err != nil {
				return err
			}
			cfg, err := rt.config(cmd.Context())
			if err != nil {
				return err
			}
			out, res := fn(cmd, text, cfg)
			if err := resultErr(res); err != nil {
				return err
			}
			return printBulk(cmd, out, asJSON)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Input file, - for stdin")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the per-row results as JSON")
	return cmd
}

// simpleCmd runs an operation that only reports a message.
func simpleCmd(rt *runtime, use, short string, nargs int, fallback string, fn func(cmd *cobra.Command, args []string, cfg *backend.ConnectionConfig) backend.OperationResult) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  usageArgs(cobra.ExactArgs(nargs)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rt.config(cmd.Context())
			if err != nil {
				return err
			}
			res := fn(cmd, args, cfg)
			if err := resultErr(res); err != nil {
				return err
			}
			printMessage(cmd.OutOrStdout(), res.Message, fallback)
			return nil
		},
	}
}

func newRolesCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roles",
		Short: "Assign and remove user roles",
	}
	cmd.AddCommand(
		simpleCmd(rt, "assign <username> <role>", "Assign a role to a user", 2, "Role assigned successfully",
			func(cmd *cobra.Command, args []string, cfg *backend.ConnectionConfig) backend.OperationResult {
				return rt.access.AssignRole(cmd.Context(), backend.RoleAssignment{Username: args[0], RoleName: args[1]}, cfg)
			}),
		simpleCmd(rt, "remove <username> <role>", "Remove a role from a user", 2, "Role removed successfully",
			func(cmd *cobra.Command, args []string, cfg *backend.ConnectionConfig) backend.OperationResult {
				return rt.access.RemoveRole(cmd.Context(), backend.RoleAssignment{Username: args[0], RoleName: args[1]}, cfg)
			}),
		newBulkCmd(rt, "Assign roles from a file", "username,role_name",
			func(cmd *cobra.Command, text string, cfg *backend.ConnectionConfig) (*backend.BulkOperationResponse, backend.OperationResult) {
				return rt.access.BulkAssignRoles(cmd.Context(), text, cfg)
			}),
	)
	return cmd
}

func newSecurityCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "security",
		Short: "Assign data security",
	}
	cmd.AddCommand(
		simpleCmd(rt, "assign <username> <role> <context> <value>", "Assign a data security context to a user role", 4,
			"Data security assigned successfully",
			func(cmd *cobra.Command, args []string, cfg *backend.ConnectionConfig) backend.OperationResult {
				return rt.access.AssignDataSecurity(cmd.Context(), backend.DataSecurityAssignment{
					Username:            args[0],
					RoleName:            args[1],
					DataSecurityContext: args[2],
					DataSecurityValue:   args[3],
				}, cfg)
			}),
		newBulkCmd(rt, "Assign data security from a file", "username,role_name,security_context,security_value",
			func(cmd *cobra.Command, text string, cfg *backend.ConnectionConfig) (*backend.BulkOperationResponse, backend.OperationResult) {
				return rt.access.BulkAssignDataSecurity(cmd.Context(), text, cfg)
			}),
	)
	return cmd
}

func newAORListCmd(rt *runtime) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List areas of responsibility",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rt.config(cmd.Context())
			if err != nil {
				return err
			}
			items, res := rt.access.ListAORs(cmd.Context(), cfg)
			if err := resultErr(res); err != nil {
				return err
			}
			return printAORs(cmd, items, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the areas as JSON")
	return cmd
}

func printAORs(cmd *cobra.Command, items []backend.AOR, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, items)
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tTYPE\tUSER")
	for _, a := range items {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.ID, a.Label(), a.TypeLabel(), a.UserAccount)
	}
	return tw.Flush()
}

func newAORCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aor",
		Short: "Manage areas of responsibility",
	}
	var aorType string
	assign := simpleCmd(rt, "assign <username> <name>", "Assign an area of responsibility to a user", 2, "Area of responsibility assigned successfully",
		func(cmd *cobra.Command, args []string, cfg *backend.ConnectionConfig) backend.OperationResult {
			return rt.access.AssignAOR(cmd.Context(), backend.AORAssignment{Username: args[0], AORName: args[1], AORType: aorType}, cfg)
		})
	assign.Flags().StringVar(&aorType, "type", "", "AOR type (default GENERAL)")

	cmd.AddCommand(
		newAORListCmd(rt),
		assign,
		simpleCmd(rt, "remove <username> <aor-id>", "Remove an area of responsibility from a user", 2, "Area of responsibility removed successfully",
			func(cmd *cobra.Command, args []string, cfg *backend.ConnectionConfig) backend.OperationResult {
				return rt.access.RemoveAOR(cmd.Context(), backend.AORRemoval{Username: args[0], AORID: args[1]}, cfg)
			}),
		newBulkCmd(rt, "Assign areas of responsibility from a file", "username,aor_name[,aor_type]",
			func(cmd *cobra.Command, text string, cfg *backend.ConnectionConfig) (*backend.BulkOperationResponse, backend.OperationResult) {
				return rt.access.BulkAssignAORs(cmd.Context(), text, cfg)
			}),
	)
	return cmd
}

func newPasswordCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Reset or update user passwords",
	}

	var resetNew string
	reset := simpleCmd(rt, "reset <username>", "Set a new password for a user", 1, "Password reset successfully",
		func(cmd *cobra.Command, args []string, cfg *backend.ConnectionConfig) backend.OperationResult {
			return rt.users.ResetPassword(cmd.Context(), backend.PasswordReset{Username: args[0], NewPassword: resetNew}, cfg)
		})
	reset.Flags().StringVar(&resetNew, "new-password", "", "New password")

	var current, updateNew string
	update := simpleCmd(rt, "update <username>", "Change a password given the current one", 1, "Password updated successfully",
		func(cmd *cobra.Command, args []string, cfg *backend.ConnectionConfig) backend.OperationResult {
			return rt.users.UpdatePassword(cmd.Context(), backend.PasswordUpdate{
				Username:        args[0],
				CurrentPassword: current,
				NewPassword:     updateNew,
			}, cfg)
		})
	update.Flags().StringVar(&current, "current-password", "", "Current password")
	update.Flags().StringVar(&updateNew, "new-password", "", "New password")

	cmd.AddCommand(reset, update)
	return cmd
}
