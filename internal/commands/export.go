package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SscSPs/remittance_ledger/internal/reporting/export"
)

func newExportCommand(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write reports as XLSX workbooks",
	}
	cmd.AddCommand(newExportBalanceSheetCommand(g), newExportTrialBalanceCommand(g))
	return cmd
}

func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func newExportBalanceSheetCommand(g *globalFlags) *cobra.Command {
	var (
		out    string
		window windowFlags
	)
	cmd := &cobra.Command{
		Use:   "balance-sheet",
		Short: "Export the balance sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := window.options()
			if err != nil {
				return err
			}
			ledger, closeLedger, err := g.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer closeLedger()

			report, err := ledger.Reporting.BalanceSheet(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if err := writeFile(out, func(f *os.File) error { return export.WriteBalanceSheet(f, report) }); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (assets %s, liabilities %s, equity %s)\n", out,
				report.TotalAssets.StringFixed(2), report.TotalLiabilities.StringFixed(2), report.TotalEquity.StringFixed(2))
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "balance-sheet.xlsx", "output file")
	window.register(cmd)
	return cmd
}

func newExportTrialBalanceCommand(g *globalFlags) *cobra.Command {
	var (
		out    string
		window windowFlags
	)
	cmd := &cobra.Command{
		Use:   "trial-balance",
		Short: "Export the trial balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := window.options()
			if err != nil {
				return err
			}
			opts.PeriodStart = nil
			ledger, closeLedger, err := g.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer closeLedger()

			report, err := ledger.Reporting.TrialBalance(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if err := writeFile(out, func(f *os.File) error { return export.WriteTrialBalance(f, report) }); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d accounts)\n", out, len(report.Rows))
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "trial-balance.xlsx", "output file")
	window.register(cmd)
	return cmd
}
