package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SscSPs/remittance_ledger/internal/chart"
	"github.com/SscSPs/remittance_ledger/internal/core/services"
)

func chartFile(g *globalFlags, file string) (string, error) {
	if file != "" {
		return file, nil
	}
	cfg, err := g.loadConfig()
	if err != nil {
		return "", err
	}
	return cfg.ChartFile, nil
}

func newValidateChartCommand(g *globalFlags) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "validate-chart",
		Short: "Check a chart of accounts file without writing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := chartFile(g, file)
			if err != nil {
				return err
			}
			accounts, err := chart.LoadFile(path)
			if err != nil {
				return err
			}
			if err := services.NewAccountService(nil).ValidateChart(accounts); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d accounts, chart is valid\n", path, len(accounts))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "chart YAML file (default CHART_FILE)")
	return cmd
}

func newImportChartCommand(g *globalFlags) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import-chart",
		Short: "Validate a chart of accounts and upsert it into the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := chartFile(g, file)
			if err != nil {
				return err
			}
			accounts, err := chart.LoadFile(path)
			if err != nil {
				return err
			}

			ledger, closeLedger, err := g.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer closeLedger()

			if err := ledger.Account.ImportChart(cmd.Context(), accounts, g.user); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d accounts from %s\n", len(accounts), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "chart YAML file (default CHART_FILE)")
	return cmd
}
