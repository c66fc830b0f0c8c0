package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/frahmantamala/spendwise/internal/analytics"
	"github.com/frahmantamala/spendwise/internal/client"
	"github.com/frahmantamala/spendwise/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	apiURL     string
	reportJSON bool
	exportOut  string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the spending analytics report",
	Long:  `Fetch every expense from the API and print overview, category and trend statistics. Falls back to sample data when the API has none.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		adapter, err := newCLIAdapter()
		if err != nil {
			return err
		}

		report, demo := adapter.Report(cmd.Context())
		out := cmd.OutOrStdout()
		if demo {
			fmt.Fprintln(out, "⚠️  No expenses available from the API, showing sample data")
		}
		if err := analytics.WriteSummary(out, report); err != nil {
			return err
		}

		if !reportJSON {
			return nil
		}
		name := analytics.ReportFileName(time.Now())
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		if err := os.WriteFile(name, data, 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(out, "✅ JSON report saved: %s\n", name)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export expenses as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		adapter, err := newCLIAdapter()
		if err != nil {
			return err
		}

		name := exportOut
		if name == "" {
			name = analytics.ExportFileName(time.Now())
		}
		demo, err := writeExport(cmd.Context(), adapter, name)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if demo {
			fmt.Fprintln(out, "⚠️  No expenses available from the API, exported sample data")
		}
		fmt.Fprintf(out, "✅ CSV exported: %s\n", name)
		return nil
	},
}

// writeExport writes the CSV to name. The file is closed before returning so a
// failed flush is reported rather than lost.
func writeExport(ctx context.Context, adapter *client.Adapter, name string) (demo bool, err error) {
	f, err := os.Create(name)
	if err != nil {
		return false, fmt.Errorf("create export file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close export file: %w", cerr)
		}
	}()

	demo, err = adapter.ExportCSV(ctx, f, time.Local)
	if err != nil {
		return false, fmt.Errorf("write export: %w", err)
	}
	return demo, nil
}

// newCLIAdapter points a client adapter at --api, or at the configured base
// URL when the flag is not set.
func newCLIAdapter() (*client.Adapter, error) {
	target := apiURL
	if target == "" {
		cfg, err := loadAndInit()
		if err != nil {
			return nil, err
		}
		target = cfg.Server.BaseURL
	}
	lg := logger.LoggerWrapper()
	return client.NewAdapter(client.NewAPIClient(target, nil), nil, lg), nil
}

func init() {
	for _, c := range []*cobra.Command{reportCmd, exportCmd} {
		c.Flags().StringVar(&apiURL, "api", "", "API base URL (defaults to http_server.base_url)")
	}
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "also save the report as expense_report_<timestamp>.json")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (defaults to spendwise_expenses_<date>.csv)")
}
