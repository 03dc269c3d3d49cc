package main

import (
	"fmt"
	"os"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/iota-uz/hcm-console/modules/identity/services"
	"github.com/iota-uz/hcm-console/pkg/bulk"
)

func newUploadCmd(rt *runtime) *cobra.Command {
	var (
		operation string
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "upload <file.xlsx>",
		Short: "Upload an Excel workbook for bulk processing",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return withCode(exitUsage, errors.Wrapf(err, "open %s", args[0]))
			}
			defer func() { _ = f.Close() }()

			cfg, err := rt.config(cmd.Context())
			if err != nil {
				return err
			}
			out, res := rt.uploads.Upload(cmd.Context(), services.UploadInput{
				FileName:  args[0],
				Operation: operation,
				File:      f,
			}, cfg)
			if err := resultErr(res); err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(w, out)
			}
			_, _ = fmt.Fprintf(w, "Upload completed: %d successful, %d failed\n", out.SuccessCount, out.FailureCount)
			for _, e := range out.Errors {
				_, _ = fmt.Fprintf(w, "  row %d %s: %s\n", e.Row, e.Username, e.Error)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&operation, "operation", "", "Operation type: role_assignment, data_security or aor_assignment")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the upload result as JSON")
	return cmd
}

func newTemplateCmd() *cobra.Command {
	var (
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:       "template <role|security|aor>",
		Short:     "Write a sample bulk file",
		Args:      usageArgs(cobra.ExactArgs(1)),
		ValidArgs: []string{"role", "security", "aor"},
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := bulk.Lookup(args[0])
			if err != nil {
				return withCode(exitUsage, err)
			}
			var (
				data []byte
				name string
			)
			switch format {
			case "csv":
				data, name = []byte(t.CSV()+"\n"), t.CSVName()
			case "xlsx":
				if data, err = t.XLSX(); err != nil {
					return withCode(exitBackend, err)
				}
				name = t.XLSXName()
			default:
				return withCode(exitUsage, errors.Errorf("unknown format %q (want csv or xlsx)", format))
			}
			if out == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if out == "" {
				out = name
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return withCode(exitBackend, errors.Wrapf(err, "write %s", out))
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "csv or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file, - for stdout (default the template file name)")
	return cmd
}
