package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SscSPs/remittance_ledger/internal/utils/accounting"
)

type windowFlags struct {
	asOf        string
	periodStart string
	basis       string
}

func (w *windowFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&w.asOf, "as-of", "", "upper bound, YYYY-MM-DD or RFC3339")
	cmd.Flags().StringVar(&w.periodStart, "period-start", "", "lower bound; ignored when unparseable")
	cmd.Flags().StringVar(&w.basis, "basis", string(accounting.BasisCreatedAt), "timestamp the window applies to (createdAt or date)")
}

func (w *windowFlags) options() (accounting.BalanceOptions, error) {
	asOf, err := accounting.ParseAsOf(w.asOf)
	if err != nil {
		return accounting.BalanceOptions{}, err
	}
	return accounting.BalanceOptions{
		AsOf:        asOf,
		PeriodStart: accounting.ParsePeriodStart(w.periodStart),
		Basis:       accounting.ParseDateBasis(w.basis),
	}, nil
}

func newBalanceCommand(g *globalFlags) *cobra.Command {
	var window windowFlags

	cmd := &cobra.Command{
		Use:   "balance <accountID>",
		Short: "Print an account balance; groups roll up their descendants",
		Args:  cobra.ExactArgs(1),
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

			b, err := ledger.Reporting.AccountBalance(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			kind := "account"
			if b.IsGroup {
				kind = "group"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s, %s)\nbalance: %s\nraw:     %s\n",
				b.AccountID, b.Name, b.AccountType, kind, b.Display.StringFixed(2), b.Raw.StringFixed(2))
			return nil
		},
	}
	window.register(cmd)
	return cmd
}
