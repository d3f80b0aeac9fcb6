package main

import (
	"fmt"
	"text/tabwriter"

	portssvc "github.com/SscSPs/transfer_reconciler/internal/core/ports/services"
	"github.com/SscSPs/transfer_reconciler/internal/dto"
	"github.com/spf13/cobra"
)

func newReconcileCmd(run runFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Re-detect every transfer and save the annotated snapshot",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, _ []string, svc *portssvc.ServiceContainer, asJSON bool) error {
			summary, err := svc.Reconciliation.RunFullReconciliation(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), summary)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "transactions:       %d\n", summary.TotalTransactions)
			fmt.Fprintf(out, "transfers before:   %d\n", summary.ExistingTransfersBefore)
			fmt.Fprintf(out, "transfers detected: %d (self %d, user %d)\n",
				summary.NewTransfersDetected, summary.SelfTransferCount, summary.UserTransferCount)
			fmt.Fprintf(out, "overrides restored: %d\n", summary.OverridesRestored)
			fmt.Fprintf(out, "skipped malformed:  %d\n", summary.SkippedMalformed)

			if len(summary.TransferDetails) == 0 {
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "\nTRANSFER\tTYPE\tDEBIT\tCREDIT\tAMOUNT\tCONFIDENCE")
			for _, d := range summary.TransferDetails {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.2f\n",
					d.TransferID, d.TransferType, d.DebitID, d.CreditID, d.Amount.String(), d.Confidence)
			}
			return tw.Flush()
		}),
	}
}

func newDetectCmd(run runFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "Show the transfers a reconciliation would find, without saving",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, _ []string, svc *portssvc.ServiceContainer, asJSON bool) error {
			res, err := svc.Reconciliation.DetectTransfers(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), dto.ToDetectTransfersResponse(res))
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TRANSFER\tTYPE\tDEBIT\tCREDIT\tAMOUNT")
			for _, p := range res.Transfers {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					p.TransferID, p.TransferType, p.Debit.TransactionID, p.Credit.TransactionID, p.Credit.Magnitude().String())
			}
			fmt.Fprintf(tw, "\n%d transfers, %d records skipped\n", len(res.Transfers), res.Skipped)
			return tw.Flush()
		}),
	}
}

func newOverrideCmd(run runFunc) *cobra.Command {
	var include, exclude bool

	cmd := &cobra.Command{
		Use:   "override <transaction-id>",
		Short: "Decide whether the transfer containing a transaction counts toward totals",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, args []string, svc *portssvc.ServiceContainer, asJSON bool) error {
			legs, err := svc.Reconciliation.OverrideInclusion(cmd.Context(), args[0], include)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), legs)
			}
			verb := "excluded from"
			if include {
				verb = "included in"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "transfer %s (%s, %s) is now %s calculations\n",
				legs[0].TransferInfo.TransferID, legs[0].TransactionID, legs[1].TransactionID, verb)
			return nil
		}),
	}
	cmd.Flags().BoolVar(&include, "include", false, "Count the transfer toward totals")
	cmd.Flags().BoolVar(&exclude, "exclude", false, "Leave the transfer out of totals")
	cmd.MarkFlagsMutuallyExclusive("include", "exclude")
	cmd.MarkFlagsOneRequired("include", "exclude")
	return cmd
}
