package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iota-uz/hcm-console/pkg/backend"
)

func newConnectCmd(rt *runtime) *cobra.Command {
	var (
		cfg    backend.ConnectionConfig
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Verify Oracle credentials and save them for later commands",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Password == "" {
				cfg.Password = rt.defaults.password
			}
			if err := rt.init(); err != nil {
				return err
			}
			var res backend.OperationResult
			if dryRun {
				res = rt.sessions.TestConnection(cmd.Context(), cfg)
			} else {
				res = rt.sessions.Connect(cmd.Context(), browserID, cfg)
			}
			if err := resultErr(res); err != nil {
				return err
			}
			printMessage(cmd.OutOrStdout(), res.Message, "Connection successful")
			return nil
		},
	}
	cmd.Flags().StringVar(&cfg.InstanceURL, "instance-url", "", "Oracle Fusion instance URL")
	cmd.Flags().StringVar(&cfg.Username, "username", "", "Oracle username")
	cmd.Flags().StringVar(&cfg.Password, "password", "", "Oracle password (defaults to $HCM_PASSWORD)")
	cmd.Flags().BoolVar(&dryRun, "test", false, "Only test the credentials, do not save them")
	return cmd
}

func newDisconnectCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect",
		Short: "Forget the saved credentials",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.init(); err != nil {
				return err
			}
			if err := rt.sessions.Disconnect(cmd.Context(), browserID); err != nil {
				return withCode(exitBackend, err)
			}
			printMessage(cmd.OutOrStdout(), "", "Disconnected")
			return nil
		},
	}
}

func newStatusCmd(rt *runtime) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the saved connection",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rt.config(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				status := map[string]any{"connected": cfg != nil}
				if cfg != nil {
					status["instance_url"] = cfg.InstanceURL
					status["username"] = cfg.Username
				}
				return writeJSON(out, status)
			}
			if cfg == nil {
				printMessage(out, "", "Not connected")
				return nil
			}
			_, _ = fmt.Fprintf(out, "Connected to %s as %s\n", cfg.InstanceURL, cfg.Username)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the status as JSON")
	return cmd
}
