package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/SscSPs/transfer_reconciler/internal/core/domain"
	portssvc "github.com/SscSPs/transfer_reconciler/internal/core/ports/services"
	"github.com/SscSPs/transfer_reconciler/internal/dto"
	"github.com/spf13/cobra"
)

func newTotalsCmd(run runFunc) *cobra.Command {
	var user, evaluator string

	cmd := &cobra.Command{
		Use:   "totals",
		Short: "Print income, expense and net for the household or one member",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, _ []string, svc *portssvc.ServiceContainer, asJSON bool) error {
			params := dto.TotalsParams{Evaluator: evaluator}
			if user != "" {
				params.UserID = &user
			}
			view := params.View()
			totals, err := svc.Totals.Totals(cmd.Context(), view, domain.Evaluator(evaluator))
			if err != nil {
				return err
			}
			resp := dto.ToTotalsResponse(*totals, view, domain.Evaluator(evaluator))
			if asJSON {
				return printJSON(cmd.OutOrStdout(), resp)
			}

			scope := "all users"
			if user != "" {
				scope = user
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "view:     %s (%s evaluator)\n", scope, evaluator)
			fmt.Fprintf(out, "income:   %s\n", resp.Income.StringFixed(2))
			fmt.Fprintf(out, "expense:  %s\n", resp.Expense.StringFixed(2))
			fmt.Fprintf(out, "net:      %s\n", resp.Net.StringFixed(2))
			fmt.Fprintf(out, "included: %d, excluded: %d\n", resp.IncludedCount, resp.ExcludedCount)
			return nil
		}),
	}
	cmd.Flags().StringVar(&user, "user", "", "Member whose view to use (default: household)")
	cmd.Flags().StringVar(&evaluator, "evaluator", string(domain.EvaluatorMemory), "Where inclusion is decided: memory or sql")
	return cmd
}

func newListCmd(run runFunc) *cobra.Command {
	var (
		user  string
		limit int
		token string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions with their inclusion decision",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, _ []string, svc *portssvc.ServiceContainer, asJSON bool) error {
			params := dto.ListTransactionsParams{Limit: limit}
			if user != "" {
				params.UserID = &user
			}
			if token != "" {
				params.NextToken = &token
			}
			resp, err := svc.Transactions.ListTransactions(cmd.Context(), params)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), resp)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDATE\tUSER\tSOURCE\tTYPE\tAMOUNT\tINCLUDED\tREASON")
			for _, t := range resp.Transactions {
				date := "-"
				if !t.Date.IsZero() {
					date = t.Date.Format("2006-01-02")
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%t\t%s\n",
					t.TransactionID, date, t.UserID, t.Source, t.Type, t.Amount.String(), t.Included, t.InclusionReason)
			}
			if resp.NextToken != nil {
				fmt.Fprintf(tw, "\nnext page: --next-token %s\n", *resp.NextToken)
			}
			return tw.Flush()
		}),
	}
	cmd.Flags().StringVar(&user, "user", "", "Member whose view to use (default: household)")
	cmd.Flags().IntVar(&limit, "limit", 50, "Page size")
	cmd.Flags().StringVar(&token, "next-token", "", "Token printed by the previous page")
	return cmd
}

func newImportCmd(run runFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Import transactions from a JSON file",
		Long:  `The file holds either a JSON array of transactions or an object with a "transactions" array, as accepted by POST /api/v1/transactions.`,
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, args []string, svc *portssvc.ServiceContainer, asJSON bool) error {
			reqs, err := readImportFile(args[0])
			if err != nil {
				return err
			}
			imported, err := svc.Transactions.ImportTransactions(cmd.Context(), reqs, "reconcilectl")
			if err != nil {
				return err
			}

			resp := dto.ImportTransactionsResponse{Imported: len(imported), TransactionIDs: make([]string, len(imported))}
			for i, t := range imported {
				resp.TransactionIDs[i] = t.TransactionID
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d transactions\n", resp.Imported)
			return nil
		}),
	}
}

func readImportFile(path string) ([]dto.CreateTransactionRequest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var reqs []dto.CreateTransactionRequest
	if err := json.Unmarshal(raw, &reqs); err == nil {
		return reqs, nil
	}
	var wrapped dto.ImportTransactionsRequest
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return wrapped.Transactions, nil
}
