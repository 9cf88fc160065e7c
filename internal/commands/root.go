package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	portssvc "github.com/SscSPs/remittance_ledger/internal/core/ports/services"
	"github.com/SscSPs/remittance_ledger/internal/core/services"
	"github.com/SscSPs/remittance_ledger/internal/platform/bootstrap"
	"github.com/SscSPs/remittance_ledger/internal/platform/config"
)

const defaultOperator = "ledgerctl"

type globalFlags struct {
	boltPath string
	user     string
	debug    bool
	logger   *slog.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Administer the remittance ledger",
		Long: `ledgerctl works directly on the configured ledger store.

The store is chosen by STORE_DRIVER/PGSQL_URL/BOLT_PATH as for the server,
or by --bolt for a local file.

Example:
  ledgerctl import-chart --file configs/chart_of_accounts.yaml
  ledgerctl balance 6000 --as-of 2024-03-31
  ledgerctl export balance-sheet --out balance-sheet.xlsx`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logLevel := slog.LevelInfo
			if g.debug {
				logLevel = slog.LevelDebug
			}
			g.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
			slog.SetDefault(g.logger)
		},
	}

	rootCmd.PersistentFlags().StringVar(&g.boltPath, "bolt", "", "use the bolt store at this path instead of the configured store")
	rootCmd.PersistentFlags().StringVar(&g.user, "user", defaultOperator, "user id recorded on anything written")
	rootCmd.PersistentFlags().BoolVar(&g.debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(
		newImportChartCommand(g),
		newValidateChartCommand(g),
		newBalanceCommand(g),
		newReassignCommand(g),
		newExportCommand(g),
		newTokenCommand(g),
	)

	return rootCmd
}

func (g *globalFlags) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if g.boltPath != "" {
		cfg.StoreDriver = config.StoreDriverBolt
		cfg.BoltPath = g.boltPath
	}
	return cfg, nil
}

// openLedger builds the service container over the configured store.
func (g *globalFlags) openLedger(ctx context.Context) (*portssvc.ServiceContainer, func(), error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	store, closeStore, err := bootstrap.OpenStore(ctx, cfg, g.logger)
	if err != nil {
		return nil, nil, err
	}
	options, closeInfra, err := bootstrap.ServiceOptions(ctx, cfg, g.logger)
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	return services.NewServiceContainer(store, options...), func() {
		closeInfra()
		closeStore()
	}, nil
}
