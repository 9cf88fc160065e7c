package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SscSPs/remittance_ledger/internal/core/domain"
)

func newReassignCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reassign <cash|usdt> <recordID> <clientID>",
		Short: "Move an unmatched inflow from suspense to a client account",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, closeLedger, err := g.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer closeLedger()

			entry, err := ledger.Reassignment.ReassignToClient(cmd.Context(), domain.RecordKind(args[0]), args[1], args[2], g.user)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "posted %s: %s (%s -> %s, %s USD)\n",
				entry.EntryID, entry.Description, entry.DebitAccountID, entry.CreditAccountID, entry.AmountUSD.StringFixed(2))
			return nil
		},
	}
}
